package store

import "testing"

func TestSettingsSeedData(t *testing.T) {
	ss := NewSettingsStore(setupTestDB(t))

	settings, err := ss.GetStreakSettings()
	if err != nil {
		t.Fatalf("get streak settings: %v", err)
	}

	expected := map[string]string{
		"streak_tier1_days":      "3",
		"streak_tier2_days":      "5",
		"streak_multiplier_days": "7",
		"streak_tier1_bonus":     "1",
		"streak_tier2_bonus":     "2",
	}
	for key, want := range expected {
		got, ok := settings[key]
		if !ok {
			t.Errorf("missing streak setting %q", key)
			continue
		}
		if got != want {
			t.Errorf("setting %q = %q, want %q", key, got, want)
		}
	}
}

func TestSettingsSet(t *testing.T) {
	ss := NewSettingsStore(setupTestDB(t))

	if err := ss.Set("streak_tier1_days", "4"); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, err := ss.Get("streak_tier1_days")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val != "4" {
		t.Errorf("value = %q, want %q", val, "4")
	}
}

func TestSettingsGetNotFound(t *testing.T) {
	ss := NewSettingsStore(setupTestDB(t))

	if _, err := ss.Get("nonexistent_key"); err == nil {
		t.Fatal("expected error for nonexistent key")
	}
}
