package engine

import "testing"

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := rng1.Roll(6)
		b := rng2.Roll(6)
		if a != b {
			t.Fatalf("roll %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Roll_Range(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		r := rng.Roll(6)
		if r < 1 || r > 6 {
			t.Fatalf("roll out of range [1,6]: got %d", r)
		}
	}
}

func TestRNG_Chance_Extremes(t *testing.T) {
	rng := NewRNG(7)

	for i := 0; i < 100; i++ {
		if rng.Chance(0) {
			t.Fatal("Chance(0) should never succeed")
		}
		if !rng.Chance(1) {
			t.Fatal("Chance(1) should always succeed")
		}
	}
}

func TestRNG_Chance_ConsumesDrawAtExtremes(t *testing.T) {
	rng := NewRNG(7)
	rng.Chance(0)
	rng.Chance(1)

	if rng.Position() != 2 {
		t.Errorf("position = %d, want 2; extremes must still consume a draw", rng.Position())
	}
}

func TestRNG_Chance_Distribution(t *testing.T) {
	rng := NewRNG(12345)

	const trials = 10000
	hits := 0
	for i := 0; i < trials; i++ {
		if rng.Chance(0.4) {
			hits++
		}
	}

	// Expect roughly 40% ± some margin.
	if hits < 3500 || hits > 4500 {
		t.Errorf("expected ~4000 hits at p=0.4, got %d", hits)
	}
}

func TestRNG_Position_Tracks(t *testing.T) {
	rng := NewRNG(42)

	if rng.Position() != 0 {
		t.Fatalf("expected position 0, got %d", rng.Position())
	}

	rng.Roll(6)
	if rng.Position() != 1 {
		t.Fatalf("expected position 1, got %d", rng.Position())
	}

	rng.Chance(0.5)
	if rng.Position() != 2 {
		t.Fatalf("expected position 2, got %d", rng.Position())
	}
}

func TestRNG_Restore_MatchesPosition(t *testing.T) {
	// Advance an RNG to position 10 and record the next 5 chance rolls.
	rng := NewRNG(42)
	for i := 0; i < 10; i++ {
		rng.Roll(6)
	}

	var expected [5]bool
	for i := range expected {
		expected[i] = rng.Chance(0.5)
	}

	// Restore to position 10 and verify the same rolls come out.
	restored := RestoreRNG(42, 10)
	if restored.Position() != 10 {
		t.Fatalf("expected position 10, got %d", restored.Position())
	}

	for i, want := range expected {
		got := restored.Chance(0.5)
		if got != want {
			t.Fatalf("chance roll %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestRNG_DifferentSeeds_DifferentResults(t *testing.T) {
	rng1 := NewRNG(1)
	rng2 := NewRNG(2)

	differs := false
	for i := 0; i < 20; i++ {
		if rng1.Roll(100) != rng2.Roll(100) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected different seeds to produce different results")
	}
}
