// Package agentsplit distributes a commission pool across payees. A Splits
// value maps a payee key (agent id or custom_<name>) to a percent string and
// is expected, but not required, to sum to 100.
package agentsplit

import (
	"math"
	"sort"
	"strings"

	"github.com/prism-talent/deal-desk/internal/money"
)

const customPrefix = "custom_"

// Tolerance is the distance from 100 still reported as Balanced, so that
// three equal shares of 33.33 are accepted.
const Tolerance = 0.01

// Splits maps a payee key to its percent as entered.
type Splits map[string]string

// Status classifies a split total against 100.
type Status string

const (
	Empty    Status = "empty"
	Balanced Status = "balanced"
	Under    Status = "under"
	Over     Status = "over"
)

// Equal assigns 100/N to every payee. Duplicate and empty ids are ignored.
func Equal(payeeIDs []string) Splits {
	uniq := make([]string, 0, len(payeeIDs))
	seen := make(map[string]bool, len(payeeIDs))
	for _, id := range payeeIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		uniq = append(uniq, id)
	}
	out := make(Splits, len(uniq))
	if len(uniq) == 0 {
		return out
	}
	share := money.Fixed2(100 / float64(len(uniq)))
	for _, id := range uniq {
		out[id] = share
	}
	return out
}

// Add inserts id and redistributes equally, discarding manual overrides.
func Add(s Splits, id string) Splits {
	return Equal(append(s.Keys(), id))
}

// Remove drops id and redistributes the remaining payees equally.
func Remove(s Splits, id string) Splits {
	keys := make([]string, 0, len(s))
	for _, k := range s.Keys() {
		if k != id {
			keys = append(keys, k)
		}
	}
	return Equal(keys)
}

// Set overwrites one payee's percent and leaves the others alone.
func Set(s Splits, id, value string) Splits {
	out := make(Splits, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[id] = value
	return out
}

// Keys returns the payee keys in sorted order.
func (s Splits) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy of s.
func (s Splits) Clone() Splits {
	if s == nil {
		return nil
	}
	out := make(Splits, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Total sums every percent, treating unparseable values as 0.
func Total(s Splits) float64 {
	var sum float64
	for _, v := range s {
		sum += money.Parse(v)
	}
	return sum
}

// Check classifies the split total against 100.
func Check(s Splits) Status {
	if len(s) == 0 {
		return Empty
	}
	diff := Total(s) - 100
	switch {
	case math.Abs(diff) <= Tolerance+1e-9:
		return Balanced
	case diff < 0:
		return Under
	default:
		return Over
	}
}

// Amounts returns each payee's share of pool, rounded to cents.
func Amounts(s Splits, pool float64) map[string]float64 {
	out := make(map[string]float64, len(s))
	for k, v := range s {
		out[k] = money.Round2(pool * money.Parse(v) / 100)
	}
	return out
}

// CustomKey builds the synthetic key for a payee that is not an agent.
func CustomKey(name string) string {
	return customPrefix + strings.TrimSpace(name)
}

// IsCustom reports whether key names a custom payee rather than an agent.
func IsCustom(key string) bool {
	return strings.HasPrefix(key, customPrefix)
}

// CustomName returns the display name encoded in a custom key.
func CustomName(key string) string {
	return strings.TrimPrefix(key, customPrefix)
}
