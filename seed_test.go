package distill

import "testing"

func TestSeederDeterminism(t *testing.T) {
	var a, b Seeder
	devA := ResolveDevice(0)
	devB := ResolveDevice(0)
	a.Apply(42, devA)
	b.Apply(42, devB)

	for i := 0; i < 10; i++ {
		if x, y := a.General().Int63(), b.General().Int63(); x != y {
			t.Fatalf("general streams diverged at %d: %d vs %d", i, x, y)
		}
		if x, y := devA.RNG().Int63(), devB.RNG().Int63(); x != y {
			t.Fatalf("device streams diverged at %d: %d vs %d", i, x, y)
		}
	}

	na, nb := a.Normal(0, 1), b.Normal(0, 1)
	for i := 0; i < 10; i++ {
		if x, y := na.Rand(), nb.Rand(); x != y {
			t.Fatalf("normal draws diverged at %d: %v vs %v", i, x, y)
		}
	}
}

func TestSeederReapplyResets(t *testing.T) {
	var s Seeder
	s.Apply(7, nil)
	first := make([]int64, 5)
	for i := range first {
		first[i] = s.General().Int63()
	}
	n := s.Normal(0, 1)
	draws := make([]float64, 5)
	for i := range draws {
		draws[i] = n.Rand()
	}

	s.Apply(7, nil)
	for i := range first {
		if got := s.General().Int63(); got != first[i] {
			t.Fatalf("expected reset stream to repeat draw %d", i)
		}
	}
	n = s.Normal(0, 1)
	for i := range draws {
		if got := n.Rand(); got != draws[i] {
			t.Fatalf("expected reset numeric stream to repeat draw %d", i)
		}
	}
}

func TestSeederDifferentSeedsDiverge(t *testing.T) {
	var a, b Seeder
	a.Apply(1, nil)
	b.Apply(2, nil)
	same := true
	for i := 0; i < 5; i++ {
		if a.General().Int63() != b.General().Int63() {
			same = false
		}
	}
	if same {
		t.Fatal("expected different seeds to produce different streams")
	}
}

func TestSeederApplied(t *testing.T) {
	var s Seeder
	if s.Applied() {
		t.Fatal("expected fresh seeder to be unapplied")
	}
	if s.General() == nil {
		t.Fatal("expected lazy fallback stream")
	}
	s.Apply(3, nil)
	if !s.Applied() || s.Seed() != 3 {
		t.Fatalf("unexpected seeder state: applied=%v seed=%d", s.Applied(), s.Seed())
	}
}

func TestSeederUniform(t *testing.T) {
	var s Seeder
	s.Apply(11, nil)
	u := s.Uniform(0, 1)
	for i := 0; i < 100; i++ {
		v := u.Rand()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d out of range: %v", i, v)
		}
	}
}

func TestResolveDevice(t *testing.T) {
	cases := []struct {
		id   int
		kind DeviceKind
		str  string
	}{
		{-1, CPU, "cpu"},
		{0, CUDA, "cuda:0"},
		{3, CUDA, "cuda:3"},
	}
	for _, tc := range cases {
		d := ResolveDevice(tc.id)
		if d.Kind != tc.kind {
			t.Fatalf("ResolveDevice(%d): expected kind %v, got %v", tc.id, tc.kind, d.Kind)
		}
		if d.String() != tc.str {
			t.Fatalf("ResolveDevice(%d): expected %q, got %q", tc.id, tc.str, d.String())
		}
	}
}

func TestDeviceTuning(t *testing.T) {
	d := ResolveDevice(0)
	if d.Tuning {
		t.Fatal("expected tuning off by default")
	}
	d.EnableTuning()
	if !d.Tuning {
		t.Fatal("expected tuning enabled")
	}
}
