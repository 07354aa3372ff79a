package tournament

import "testing"

func TestNormalizePolicy_EmptyUsesDefaults(t *testing.T) {
	t.Parallel()

	policy, err := NormalizePolicy(nil)
	if err != nil {
		t.Fatalf("NormalizePolicy error: %v", err)
	}
	if policy != DefaultPolicy() {
		t.Fatalf("empty blob should yield defaults, got %+v", policy)
	}
}

func TestNormalizePolicy_CamelCase(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"pointsForWin":120,"pointsForLoss":20,"firstBloodBonus":15,"capPerMatch":200}`)
	policy, err := NormalizePolicy(raw)
	if err != nil {
		t.Fatalf("NormalizePolicy error: %v", err)
	}

	if policy.PointsForWin != 120 {
		t.Fatalf("pointsForWin: got=%d want=120", policy.PointsForWin)
	}
	if policy.PointsForLoss != 20 {
		t.Fatalf("pointsForLoss: got=%d want=20", policy.PointsForLoss)
	}
	if policy.FirstBloodBonus != 15 {
		t.Fatalf("firstBloodBonus: got=%d want=15", policy.FirstBloodBonus)
	}
	if policy.CapPerMatch != 200 {
		t.Fatalf("capPerMatch: got=%d want=200", policy.CapPerMatch)
	}
	// Untouched fields keep defaults.
	if policy.PerfectGameBonus != DefaultPolicy().PerfectGameBonus {
		t.Fatalf("perfectGameBonus should default, got=%d", policy.PerfectGameBonus)
	}
}

func TestNormalizePolicy_SnakeCaseAndLegacySpellings(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"points_per_win":90,"points_per_loss":10,"perfect_game_bonus":40,"ignore_remakes_under_seconds":240}`)
	policy, err := NormalizePolicy(raw)
	if err != nil {
		t.Fatalf("NormalizePolicy error: %v", err)
	}

	if policy.PointsForWin != 90 {
		t.Fatalf("points_per_win: got=%d want=90", policy.PointsForWin)
	}
	if policy.PointsForLoss != 10 {
		t.Fatalf("points_per_loss: got=%d want=10", policy.PointsForLoss)
	}
	if policy.PerfectGameBonus != 40 {
		t.Fatalf("perfect_game_bonus: got=%d want=40", policy.PerfectGameBonus)
	}
	if policy.IgnoreRemakesUnderSeconds != 240 {
		t.Fatalf("ignore_remakes_under_seconds: got=%d want=240", policy.IgnoreRemakesUnderSeconds)
	}
}

func TestNormalizePolicy_ExplicitZeroIsKept(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"perfectGameBonus":0,"firstBloodBonus":0}`)
	policy, err := NormalizePolicy(raw)
	if err != nil {
		t.Fatalf("NormalizePolicy error: %v", err)
	}

	if policy.PerfectGameBonus != 0 {
		t.Fatalf("explicit zero must not be replaced by the default, got=%d", policy.PerfectGameBonus)
	}
	if policy.FirstBloodBonus != 0 {
		t.Fatalf("explicit zero must not be replaced by the default, got=%d", policy.FirstBloodBonus)
	}
}

func TestNormalizePolicy_RejectsNegativeValues(t *testing.T) {
	t.Parallel()

	if _, err := NormalizePolicy([]byte(`{"pointsForWin":-5}`)); err == nil {
		t.Fatal("expected error for negative win points")
	}
}

func TestQueueMultiplier(t *testing.T) {
	t.Parallel()

	tour := Tournament{Queues: []Queue{{ID: 420, PointMultiplier: 1.5}, {ID: 450}}}

	if mult, ok := tour.QueueMultiplier(420); !ok || mult != 1.5 {
		t.Fatalf("queue 420: got=(%v,%v) want=(1.5,true)", mult, ok)
	}
	// Enabled queue with zero multiplier counts at 1.0.
	if mult, ok := tour.QueueMultiplier(450); !ok || mult != 1.0 {
		t.Fatalf("queue 450: got=(%v,%v) want=(1.0,true)", mult, ok)
	}
	if _, ok := tour.QueueMultiplier(440); ok {
		t.Fatal("queue 440 is not enabled")
	}
}
