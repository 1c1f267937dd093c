// Package levels maps cumulative XP onto player levels through a
// runtime-replaceable table. Invalid replacement tables are rejected whole;
// the previous table stays active.
package levels

import (
	"sort"
	"sync"
)

// Definition is one row of the level table.
type Definition struct {
	Level      int
	XPRequired int64
	Name       string
}

func defaultLevels() []Definition {
	return []Definition{
		{Level: 0, XPRequired: 0, Name: "Rookie"},
		{Level: 1, XPRequired: 100, Name: "Amateur"},
		{Level: 2, XPRequired: 350, Name: "Regular"},
		{Level: 3, XPRequired: 850, Name: "Dedicated"},
		{Level: 4, XPRequired: 1850, Name: "Experienced"},
		{Level: 5, XPRequired: 3850, Name: "Veteran"},
		{Level: 6, XPRequired: 7350, Name: "Elite"},
		{Level: 7, XPRequired: 12850, Name: "Star"},
		{Level: 8, XPRequired: 20850, Name: "Legend"},
		{Level: 9, XPRequired: 32850, Name: "Icon"},
		{Level: 10, XPRequired: 52850, Name: "Immortal"},
	}
}

// Table is a thread-safe level table. The zero value is not usable; use
// NewTable.
type Table struct {
	mu     sync.RWMutex
	levels []Definition
}

func NewTable() *Table {
	return &Table{levels: defaultLevels()}
}

// Configure replaces the table. The new table must be non-empty, contain
// level 0, and have strictly increasing XP thresholds; out-of-order input
// is sorted by level first. On rejection the active table is untouched and
// Configure returns false.
func (t *Table) Configure(defs []Definition) bool {
	if len(defs) == 0 {
		return false
	}

	sorted := make([]Definition, len(defs))
	copy(sorted, defs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	if sorted[0].Level != 0 {
		return false
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].XPRequired <= sorted[i-1].XPRequired {
			return false
		}
	}

	t.mu.Lock()
	t.levels = sorted
	t.mu.Unlock()
	return true
}

// Reset restores the default table.
func (t *Table) Reset() {
	t.mu.Lock()
	t.levels = defaultLevels()
	t.mu.Unlock()
}

// Levels returns a copy of the active table.
func (t *Table) Levels() []Definition {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Definition, len(t.levels))
	copy(out, t.levels)
	return out
}

// LevelForXP returns the highest level whose threshold the XP meets.
// Negative XP maps to the first level.
func (t *Table) LevelForXP(xp int64) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	level := t.levels[0].Level
	for _, def := range t.levels {
		if xp >= def.XPRequired {
			level = def.Level
		}
	}
	return level
}

// XPForLevel returns the threshold of a level, or 0 for unknown levels.
func (t *Table) XPForLevel(level int) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, def := range t.levels {
		if def.Level == level {
			return def.XPRequired
		}
	}
	return 0
}

// LevelName returns the display name of a level, or "Unknown".
func (t *Table) LevelName(level int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, def := range t.levels {
		if def.Level == level {
			return def.Name
		}
	}
	return "Unknown"
}

// Progress describes where an XP total sits inside its level.
type Progress struct {
	Level       int
	Name        string
	CurrentXP   int64
	NextLevelXP int64 // 0 at the top level
	Fraction    float64
}

// ProgressForXP computes level progress for an XP total.
func (t *Table) ProgressForXP(xp int64) Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if xp < 0 {
		xp = 0
	}

	idx := 0
	for i, def := range t.levels {
		if xp >= def.XPRequired {
			idx = i
		}
	}
	current := t.levels[idx]

	p := Progress{
		Level:     current.Level,
		Name:      current.Name,
		CurrentXP: xp,
	}

	if idx == len(t.levels)-1 {
		p.Fraction = 1
		return p
	}

	next := t.levels[idx+1]
	p.NextLevelXP = next.XPRequired
	span := next.XPRequired - current.XPRequired
	if span > 0 {
		p.Fraction = float64(xp-current.XPRequired) / float64(span)
	}
	return p
}

// Default is the process-wide table used when no custom table is injected.
var Default = NewTable()
