package dynamics

import "math"

// MaxLevelGroups is the number of groups a [Levels] snapshot can hold.
const MaxLevelGroups = 8

// Levels collects the maximum detection per group and for the sub over a
// metering period. Index 0 is the sub, groups follow from index 1.
type Levels struct {
	groups int
	count  int
	values [MaxLevelGroups + 1]float64
}

// NewLevels returns empty levels for groups groups, clamped to
// [0, MaxLevelGroups].
func NewLevels(groups int) Levels {
	return Levels{groups: min(max(groups, 0), MaxLevelGroups)}
}

// Groups returns the number of groups.
func (l *Levels) Groups() int { return l.groups }

// Count returns the number of periods collected.
func (l *Levels) Count() int { return l.count }

// Next marks the end of one period.
func (l *Levels) Next() { l.count++ }

// Reset clears the values and the count.
func (l *Levels) Reset() {
	l.values = [MaxLevelGroups + 1]float64{}
	l.count = 0
}

// Add records a detection for index i. Out of range indices are ignored.
func (l *Levels) Add(i int, detection float64) {
	if i < 0 || i > l.groups {
		return
	}
	l.values[i] = math.Max(l.values[i], detection)
}

// Value returns the maximum detection recorded for index i.
func (l *Levels) Value(i int) float64 {
	if i < 0 || i > l.groups {
		return 0
	}
	return l.values[i]
}

// Signal returns the square root of the maximum detection for index i.
func (l *Levels) Signal(i int) float64 { return math.Sqrt(l.Value(i)) }

// SetCount overwrites the period count.
func (l *Levels) SetCount(count int) { l.count = max(count, 0) }

// Merge folds other into l: values take the maximum and counts add.
func (l *Levels) Merge(other *Levels) {
	n := min(l.groups, other.groups)
	for i := 0; i <= n; i++ {
		l.values[i] = math.Max(l.values[i], other.values[i])
	}
	l.count += other.count
}
