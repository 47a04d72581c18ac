package reward

import (
	"testing"

	"github.com/mhollis/homepoints/internal/streak"
)

func TestTierTable(t *testing.T) {
	tests := []struct {
		name      string
		base      int
		length    int
		wantFinal int
		wantBonus int
		wantMult  int
	}{
		{"no streak", 3, 0, 3, 0, 1},
		{"below tier1", 3, 2, 3, 0, 1},
		{"tier1 boundary", 3, 3, 4, 1, 1},
		{"between tiers", 3, 4, 4, 1, 1},
		{"tier2 boundary", 3, 5, 5, 2, 1},
		{"tier2 upper", 3, 6, 5, 2, 1},
		{"multiplier boundary", 3, 7, 6, 0, 2},
		{"long streak", 3, 30, 6, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.base, streak.State{Length: tt.length}, Default)
			if got.FinalPoints != tt.wantFinal {
				t.Errorf("final = %d, want %d", got.FinalPoints, tt.wantFinal)
			}
			if got.BonusPoints != tt.wantBonus {
				t.Errorf("bonus = %d, want %d", got.BonusPoints, tt.wantBonus)
			}
			if got.Multiplier != tt.wantMult {
				t.Errorf("multiplier = %d, want %d", got.Multiplier, tt.wantMult)
			}
		})
	}
}

func TestNonPositivePassThrough(t *testing.T) {
	for _, base := range []int{0, -2, -10} {
		got := Calculate(base, streak.State{Length: 10}, Default)
		if got.FinalPoints != base {
			t.Errorf("base %d: final = %d, want %d", base, got.FinalPoints, base)
		}
		if got.BonusPoints != 0 {
			t.Errorf("base %d: bonus = %d, want 0", base, got.BonusPoints)
		}
	}
}

func TestFinalNeverBelowBaseForPositive(t *testing.T) {
	for length := 0; length <= 12; length++ {
		got := Calculate(4, streak.State{Length: length}, Default)
		if got.FinalPoints < 4 {
			t.Errorf("length %d: final = %d, below base", length, got.FinalPoints)
		}
	}
}

func TestFromSettings(t *testing.T) {
	cfg := FromSettings(map[string]string{
		KeyTier1Days:      "2",
		KeyTier2Days:      "4",
		KeyMultiplierDays: "6",
		KeyTier1Bonus:     "3",
	})
	want := Config{Tier1Days: 2, Tier2Days: 4, MultiplierDays: 6, Tier1Bonus: 3, Tier2Bonus: 2}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestFromSettingsMissingKeys(t *testing.T) {
	if cfg := FromSettings(nil); cfg != Default {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestFromSettingsBadOrdering(t *testing.T) {
	cfg := FromSettings(map[string]string{
		KeyTier1Days: "9",
		KeyTier2Days: "5",
	})
	if cfg != Default {
		t.Errorf("cfg = %+v, want defaults on inverted tiers", cfg)
	}
}

func TestFromSettingsUnparseable(t *testing.T) {
	cfg := FromSettings(map[string]string{KeyTier1Bonus: "lots"})
	if cfg != Default {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}
