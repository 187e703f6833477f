// Package drift turns session counts and diff sizes into a drift score,
// a discrete level and a display color. Everything here is pure: no I/O,
// no hidden state.
package drift

// Level is a discretized drift score bucket.
type Level string

const (
	LevelVeryLow   Level = "very-low"
	LevelLow       Level = "low"
	LevelModerate  Level = "moderate"
	LevelHigh      Level = "high"
	LevelVibeDrift Level = "vibe-drift"
)

// Score computes the drift score for a window: how many prompts relative
// to how much code landed. More lines produced per prompt lowers the
// efficiency factor toward 0.7; fewer raise it toward 1.5. A single prompt
// is never penalized above parity, and no prompts means no drift.
func Score(userPrompts, linesAdded, linesDeleted int) float64 {
	p := userPrompts
	if p <= 0 {
		return 0
	}

	lines := float64(linesAdded + linesDeleted)
	linesPerPrompt := lines / float64(p)

	factor := 1.5 - linesPerPrompt/40
	if factor < 0.7 {
		factor = 0.7
	}
	if factor > 1.5 {
		factor = 1.5
	}
	if p <= 1 && factor > 1.0 {
		factor = 1.0
	}

	return float64(p) * factor
}

// Table maps a score to a level and a level to a color. Two tables ship:
// Classic (used by the hooks and editor surfaces) and Extended (used by
// the dashboard, with a finer low end). Callers pick one explicitly; they
// intentionally are not unified. See TableNamed.
type Table struct {
	name     string
	classify func(score float64) Level
	colors   map[Level]string
}

// Name returns the table's configuration name.
func (t Table) Name() string { return t.name }

// Level buckets a score. The partition is total.
func (t Table) Level(score float64) Level { return t.classify(score) }

// Color returns the display hex color for a level of this table.
func (t Table) Color(level Level) string {
	if c, ok := t.colors[level]; ok {
		return c
	}
	return "#6b7280" // neutral gray for a level the table does not know
}

// Classic is the three-boundary table: boundaries are inclusive on the
// lower bucket.
var Classic = Table{
	name: "classic",
	classify: func(score float64) Level {
		switch {
		case score <= 1:
			return LevelLow
		case score <= 3:
			return LevelModerate
		case score <= 6:
			return LevelHigh
		default:
			return LevelVibeDrift
		}
	},
	colors: map[Level]string{
		LevelLow:       "#22c55e",
		LevelModerate:  "#eab308",
		LevelHigh:      "#f97316",
		LevelVibeDrift: "#ef4444",
	},
}

// Extended distinguishes very-low below 1.2 and shifts the remaining
// boundaries upward; boundary values belong to the upper bucket.
var Extended = Table{
	name: "extended",
	classify: func(score float64) Level {
		switch {
		case score < 1.2:
			return LevelVeryLow
		case score < 2.5:
			return LevelLow
		case score < 4:
			return LevelModerate
		case score < 7:
			return LevelHigh
		default:
			return LevelVibeDrift
		}
	},
	colors: map[Level]string{
		LevelVeryLow:   "#22c55e",
		LevelLow:       "#4ade80",
		LevelModerate:  "#eab308",
		LevelHigh:      "#f97316",
		LevelVibeDrift: "#ef4444",
	},
}

// TableNamed resolves a configured table name; unknown names fall back to
// Classic.
func TableNamed(name string) Table {
	if name == Extended.name {
		return Extended
	}
	return Classic
}
