package goal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mhollis/homepoints/internal/summary"
)

type Comparison string

const (
	MinCount Comparison = "min_count"
	MaxCount Comparison = "max_count"
)

// BonusRule awards points when a closed week's count crosses a fixed
// threshold. Exactly one of Category or Activity should be set; rules
// are independent of weekly goal tracking and of each other.
type BonusRule struct {
	Name        string     `yaml:"name"`
	Category    string     `yaml:"category,omitempty"`
	Activity    string     `yaml:"activity,omitempty"`
	Comparison  Comparison `yaml:"comparison"`
	Count       int        `yaml:"count"`
	BonusPoints int        `yaml:"bonus_points"`
}

// BonusAward records one rule that fired for a week.
type BonusAward struct {
	Rule        string `json:"rule"`
	Count       int    `json:"count"`
	BonusPoints int    `json:"bonus_points"`
}

// DefaultBonusRules is the compiled-in rule set used when no rules file
// is configured.
func DefaultBonusRules() []BonusRule {
	return []BonusRule{
		{Name: "Health habit", Category: "health", Comparison: MinCount, Count: 5, BonusPoints: 10},
		{Name: "Pulling your weight", Category: "household", Comparison: MinCount, Count: 7, BonusPoints: 10},
		{Name: "Clean week", Category: "leisure", Comparison: MaxCount, Count: 2, BonusPoints: 5},
	}
}

// LoadBonusRules reads a YAML rule file. Structural problems are
// returned to the caller; the caller decides whether to fall back to
// defaults.
func LoadBonusRules(path string) ([]BonusRule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bonus rules: %w", err)
	}

	var doc struct {
		Rules []BonusRule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse bonus rules: %w", err)
	}

	for i, r := range doc.Rules {
		if r.Category == "" && r.Activity == "" {
			return nil, fmt.Errorf("rule %d (%q): category or activity required", i, r.Name)
		}
		if r.Comparison != MinCount && r.Comparison != MaxCount {
			return nil, fmt.Errorf("rule %d (%q): comparison must be min_count or max_count", i, r.Name)
		}
	}
	return doc.Rules, nil
}

// EvaluateBonuses checks every rule against a closed week's summary.
// Counts come from the aggregator's breakdowns, not from goal progress.
// Multiple rules may fire in the same week; awards sum.
func EvaluateBonuses(rules []BonusRule, wk summary.Summary) ([]BonusAward, int) {
	var awards []BonusAward
	total := 0
	for _, r := range rules {
		var count int
		if r.Activity != "" {
			count = wk.ActivityCounts[r.Activity]
		} else {
			count = wk.CategoryCounts[r.Category]
		}

		fired := false
		switch r.Comparison {
		case MinCount:
			fired = count >= r.Count
		case MaxCount:
			fired = count <= r.Count
		}
		if fired {
			awards = append(awards, BonusAward{Rule: r.Name, Count: count, BonusPoints: r.BonusPoints})
			total += r.BonusPoints
		}
	}
	return awards, total
}
