// Package reward prices a submission: base points plus streak-driven
// bonuses and multipliers. Calculate is pure; the tier configuration
// comes from the settings store so administrators can tune it without a
// redeploy.
package reward

import (
	"strconv"

	"github.com/mhollis/homepoints/internal/streak"
)

// Config holds the streak reward tiers. Tier1Days < Tier2Days <
// MultiplierDays is assumed; FromSettings falls back to defaults when a
// stored value would violate that.
type Config struct {
	Tier1Days      int `json:"tier1_days"`
	Tier2Days      int `json:"tier2_days"`
	MultiplierDays int `json:"multiplier_days"`
	Tier1Bonus     int `json:"tier1_bonus"`
	Tier2Bonus     int `json:"tier2_bonus"`
}

// Default mirrors the seeded settings rows.
var Default = Config{
	Tier1Days:      3,
	Tier2Days:      5,
	MultiplierDays: 7,
	Tier1Bonus:     1,
	Tier2Bonus:     2,
}

// Settings keys for each tier value.
const (
	KeyTier1Days      = "streak_tier1_days"
	KeyTier2Days      = "streak_tier2_days"
	KeyMultiplierDays = "streak_multiplier_days"
	KeyTier1Bonus     = "streak_tier1_bonus"
	KeyTier2Bonus     = "streak_tier2_bonus"
)

// FromSettings builds a Config from a settings KV snapshot. Missing or
// unparseable keys keep their defaults; an inverted tier ordering
// rejects the whole snapshot and returns Default.
func FromSettings(settings map[string]string) Config {
	cfg := Default
	readInt(settings, KeyTier1Days, &cfg.Tier1Days)
	readInt(settings, KeyTier2Days, &cfg.Tier2Days)
	readInt(settings, KeyMultiplierDays, &cfg.MultiplierDays)
	readInt(settings, KeyTier1Bonus, &cfg.Tier1Bonus)
	readInt(settings, KeyTier2Bonus, &cfg.Tier2Bonus)
	if cfg.Tier1Days < 1 || cfg.Tier1Days >= cfg.Tier2Days || cfg.Tier2Days >= cfg.MultiplierDays {
		return Default
	}
	return cfg
}

func readInt(settings map[string]string, key string, dst *int) {
	raw, ok := settings[key]
	if !ok {
		return
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return
	}
	*dst = n
}

// Result is the priced outcome for one event.
type Result struct {
	FinalPoints int `json:"final_points"`
	BonusPoints int `json:"bonus_points"`
	Multiplier  int `json:"multiplier"`
}

// Calculate applies the tier table to one event. Streak boosts apply
// only to positive base points; negative and neutral activities pass
// through unchanged.
func Calculate(basePoints int, st streak.State, cfg Config) Result {
	if basePoints <= 0 {
		return Result{FinalPoints: basePoints, Multiplier: 1}
	}

	switch {
	case st.Length >= cfg.MultiplierDays:
		return Result{FinalPoints: basePoints * 2, Multiplier: 2}
	case st.Length >= cfg.Tier2Days:
		return Result{FinalPoints: basePoints + cfg.Tier2Bonus, BonusPoints: cfg.Tier2Bonus, Multiplier: 1}
	case st.Length >= cfg.Tier1Days:
		return Result{FinalPoints: basePoints + cfg.Tier1Bonus, BonusPoints: cfg.Tier1Bonus, Multiplier: 1}
	default:
		return Result{FinalPoints: basePoints, Multiplier: 1}
	}
}
