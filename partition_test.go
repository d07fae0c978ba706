package distill

import (
	"errors"
	"testing"
)

func TestPlannerDefaults(t *testing.T) {
	s := NewState(map[string]any{"world_size": 1})
	p, err := NewPlanner(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.WorldSize != 1 || p.Rank != 0 {
		t.Fatalf("unexpected planner: %+v", p)
	}
	if !p.IsCoordinator() {
		t.Fatal("expected single-process planner to coordinate")
	}
}

func TestPlannerReadsRecordedRank(t *testing.T) {
	s := NewState(map[string]any{"world_size": 4})
	s.Set("world_rank", 2)
	p, err := NewPlanner(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Rank != 2 {
		t.Fatalf("expected rank 2, got %d", p.Rank)
	}
	if p.IsCoordinator() {
		t.Fatal("expected non-zero rank not to coordinate")
	}
}

func TestPartitionStrict(t *testing.T) {
	t.Run("even split", func(t *testing.T) {
		s := NewState(map[string]any{"world_size": 4, "n_nets": 8})
		p, _ := NewPlanner(s)
		local, err := p.Partition(s, "n_nets", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if local != 2 {
			t.Fatalf("expected 2, got %d", local)
		}
		if v, _ := s.Int("local_n_nets"); v != 2 {
			t.Fatalf("expected local_n_nets recorded, got %v", v)
		}
	})

	t.Run("not divisible", func(t *testing.T) {
		s := NewState(map[string]any{"world_size": 4, "n_nets": 10})
		p, _ := NewPlanner(s)
		_, err := p.Partition(s, "n_nets", true)
		if !errors.Is(err, ErrNotDivisible) {
			t.Fatalf("expected ErrNotDivisible, got %v", err)
		}
		var nd *NotDivisibleError
		if !errors.As(err, &nd) {
			t.Fatalf("expected NotDivisibleError, got %T", err)
		}
		if nd.Name != "n_nets" || nd.Value != 10 || nd.WorldSize != 4 {
			t.Fatalf("error fields mismatch: %+v", nd)
		}
		if s.Has("local_n_nets") {
			t.Fatal("expected no local value recorded on failure")
		}
	})

	t.Run("single process", func(t *testing.T) {
		for _, strict := range []bool{true, false} {
			s := NewState(map[string]any{"world_size": 1, "n_nets": 4})
			p, _ := NewPlanner(s)
			local, err := p.Partition(s, "n_nets", strict)
			if err != nil {
				t.Fatalf("strict=%v: unexpected error: %v", strict, err)
			}
			if local != 4 {
				t.Fatalf("strict=%v: expected original quantity, got %d", strict, local)
			}
			if v, _ := s.Int("local_n_nets"); v != 4 {
				t.Fatalf("strict=%v: expected local_n_nets recorded, got %v", strict, v)
			}
		}
	})
}

func TestPartitionCeiling(t *testing.T) {
	s := NewState(map[string]any{"world_size": 4, "test_n_nets": 10})
	p, _ := NewPlanner(s)
	local, err := p.Partition(s, "test_n_nets", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local != 3 {
		t.Fatalf("expected ceiling share 3, got %d", local)
	}
	if v, _ := s.Int("local_test_n_nets"); v != 3 {
		t.Fatalf("expected local_test_n_nets recorded, got %v", v)
	}
}

func TestResolveBootstrap(t *testing.T) {
	env := func(vars map[string]string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			v, ok := vars[key]
			return v, ok
		}
	}

	t.Run("addr and port", func(t *testing.T) {
		b, err := ResolveBootstrap(env(map[string]string{
			"MASTER_ADDR": "10.0.0.1",
			"MASTER_PORT": "29500",
			"RANK":        "3",
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.MasterAddr != "10.0.0.1" || b.MasterPort != "29500" || b.Rank != 3 {
			t.Fatalf("unexpected bootstrap: %+v", b)
		}
	})

	t.Run("init file", func(t *testing.T) {
		b, err := ResolveBootstrap(env(map[string]string{"INIT_FILE": "/tmp/shared"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.InitFile != "/tmp/shared" {
			t.Fatalf("unexpected bootstrap: %+v", b)
		}
	})

	t.Run("missing rendezvous", func(t *testing.T) {
		if _, err := ResolveBootstrap(env(nil)); err == nil {
			t.Fatal("expected error without rendezvous settings")
		}
	})

	t.Run("bad rank", func(t *testing.T) {
		_, err := ResolveBootstrap(env(map[string]string{
			"MASTER_ADDR": "10.0.0.1",
			"MASTER_PORT": "29500",
			"RANK":        "three",
		}))
		if err == nil {
			t.Fatal("expected error for non-integer rank")
		}
	})
}

func TestBootstrapRecord(t *testing.T) {
	s := NewState(nil)
	Bootstrap{MasterAddr: "10.0.0.1", MasterPort: "29500"}.Record(s)
	if v, _ := s.String("distributed_master_addr"); v != "10.0.0.1" {
		t.Fatalf("unexpected addr: %v", v)
	}

	s = NewState(nil)
	Bootstrap{InitFile: "/tmp/shared"}.Record(s)
	if v, _ := s.String("distributed_init_file"); v != "/tmp/shared" {
		t.Fatalf("unexpected init file: %v", v)
	}
	if s.Has("distributed_master_addr") {
		t.Fatal("expected init-file rendezvous to omit addr")
	}
}
