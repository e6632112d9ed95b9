package classify

import (
	"strings"
	"sync"

	"github.com/todmy/movement-tracker/internal/diff"
)

// tierCache memoizes title -> tier rank lookups. It is owned by one
// classifier instance and safe to share across workers.
type tierCache struct {
	mu    sync.RWMutex
	ranks map[string]int
}

func newTierCache() *tierCache {
	return &tierCache{ranks: make(map[string]int)}
}

func (c *tierCache) get(title string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rank, ok := c.ranks[title]
	return rank, ok
}

func (c *tierCache) set(title string, rank int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ranks[title] = rank
}

// TierRank maps a title to its seniority tier position. Matching is a
// case-insensitive substring check against each tier's keywords, in
// configured tier order; the first matching tier wins. A title matching
// no tier takes rank 0, the lowest configured tier.
func (c *Classifier) TierRank(title string) int {
	normalized := strings.ToLower(diff.NormalizeValue(title))
	if normalized == "" {
		return 0
	}

	if rank, ok := c.tiers.get(normalized); ok {
		return rank
	}

	rank := 0
	for i, level := range c.rules.TitleLevels {
		if containsAny(normalized, level.Keywords) {
			rank = i
			break
		}
	}

	c.tiers.set(normalized, rank)
	return rank
}

// TierName returns the configured name for a tier rank
func (c *Classifier) TierName(rank int) string {
	if rank < 0 || rank >= len(c.rules.TitleLevels) {
		return ""
	}
	return c.rules.TitleLevels[rank].Name
}

// hasTierKeyword reports whether the title matched any configured
// seniority keyword at all, as opposed to defaulting to the lowest tier.
func (c *Classifier) hasTierKeyword(title string) bool {
	normalized := strings.ToLower(diff.NormalizeValue(title))
	if normalized == "" {
		return false
	}
	for _, level := range c.rules.TitleLevels {
		if containsAny(normalized, level.Keywords) {
			return true
		}
	}
	return false
}

// CompareTitles compares two titles by seniority tier. Returns +1 when
// the new title is more senior, -1 when less senior, 0 when the tiers
// are equal or indeterminate.
func (c *Classifier) CompareTitles(oldTitle, newTitle string) int {
	oldRank := c.TierRank(oldTitle)
	newRank := c.TierRank(newTitle)

	switch {
	case newRank > oldRank:
		return 1
	case newRank < oldRank:
		return -1
	default:
		return 0
	}
}

func containsAny(value string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(value, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
