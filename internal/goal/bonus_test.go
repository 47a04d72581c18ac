package goal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mhollis/homepoints/internal/summary"
)

func TestEvaluateBonusesMinCount(t *testing.T) {
	rules := []BonusRule{
		{Name: "Health habit", Category: "health", Comparison: MinCount, Count: 5, BonusPoints: 10},
	}
	wk := summary.Summary{CategoryCounts: map[string]int{"health": 6}}

	awards, total := EvaluateBonuses(rules, wk)
	if len(awards) != 1 || total != 10 {
		t.Errorf("awards = %v total = %d, want one award of 10", awards, total)
	}
	if awards[0].Count != 6 {
		t.Errorf("award count = %d, want 6", awards[0].Count)
	}
}

func TestEvaluateBonusesMaxCount(t *testing.T) {
	rules := []BonusRule{
		{Name: "Clean week", Category: "leisure", Comparison: MaxCount, Count: 2, BonusPoints: 5},
	}

	_, total := EvaluateBonuses(rules, summary.Summary{CategoryCounts: map[string]int{"leisure": 3}})
	if total != 0 {
		t.Errorf("total = %d, want 0 when over the max", total)
	}

	// Zero occurrences satisfies a max-count rule.
	_, total = EvaluateBonuses(rules, summary.Summary{CategoryCounts: map[string]int{}})
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
}

func TestEvaluateBonusesActivityMatch(t *testing.T) {
	rules := []BonusRule{
		{Name: "Gym rat", Activity: "Exercise", Comparison: MinCount, Count: 4, BonusPoints: 8},
	}
	wk := summary.Summary{
		ActivityCounts: map[string]int{"Exercise": 4},
		CategoryCounts: map[string]int{},
	}

	_, total := EvaluateBonuses(rules, wk)
	if total != 8 {
		t.Errorf("total = %d, want 8", total)
	}
}

func TestEvaluateBonusesIndependentRules(t *testing.T) {
	wk := summary.Summary{
		CategoryCounts: map[string]int{"health": 5, "household": 7},
		ActivityCounts: map[string]int{},
	}

	awards, total := EvaluateBonuses(DefaultBonusRules(), wk)
	// Health habit (5>=5), pulling your weight (7>=7), clean week
	// (leisure 0 <= 2) all fire.
	if len(awards) != 3 {
		t.Fatalf("len(awards) = %d, want 3: %v", len(awards), awards)
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
}

func TestLoadBonusRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := `rules:
  - name: Reader
    activity: Read
    comparison: min_count
    count: 3
    bonus_points: 6
  - name: Takeout cap
    category: leisure
    comparison: max_count
    count: 1
    bonus_points: 4
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadBonusRules(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("len(rules) = %d, want 2", len(rules))
	}
	if rules[0].Activity != "Read" || rules[0].BonusPoints != 6 {
		t.Errorf("rule[0] = %+v", rules[0])
	}
	if rules[1].Comparison != MaxCount {
		t.Errorf("rule[1].Comparison = %q, want max_count", rules[1].Comparison)
	}
}

func TestLoadBonusRulesRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := `rules:
  - name: Broken
    comparison: min_count
    count: 3
    bonus_points: 6
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadBonusRules(path); err == nil {
		t.Error("expected error for rule without category or activity")
	}
}
