package distill

import (
	"errors"
	"testing"
)

func TestStateLookupPrecedence(t *testing.T) {
	s := NewState(map[string]any{"dataset": "mnist", "epochs": 400})

	if v, err := s.Lookup("dataset"); err != nil || v != "mnist" {
		t.Fatalf("expected declared value, got %v, %v", v, err)
	}

	s.Set("dataset", "cifar10")
	if v, _ := s.Lookup("dataset"); v != "cifar10" {
		t.Fatalf("expected extras to shadow declared, got %v", v)
	}
	if v, err := s.Declared("dataset"); err != nil || v != "mnist" {
		t.Fatalf("expected declared layer untouched, got %v, %v", v, err)
	}

	s.Pop("dataset")
	if v, _ := s.Lookup("dataset"); v != "mnist" {
		t.Fatalf("expected declared value after pop, got %v", v)
	}
}

func TestStateMissingKey(t *testing.T) {
	s := NewState(nil)
	_, err := s.Lookup("absent")
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
	var missing *MissingKeyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingKeyError, got %T", err)
	}
	if missing.Key != "absent" {
		t.Fatalf("expected key cited, got %q", missing.Key)
	}
}

func TestScopedRestoresBindings(t *testing.T) {
	s := NewState(map[string]any{"lr": 0.01})
	s.Set("phase", "train")

	err := s.Scoped(map[string]any{"phase": "test", "tmp": 1}, func() error {
		if v, _ := s.Lookup("phase"); v != "test" {
			t.Fatalf("expected override inside scope, got %v", v)
		}
		if v, _ := s.Lookup("tmp"); v != 1 {
			t.Fatalf("expected new binding inside scope, got %v", v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v, _ := s.Lookup("phase"); v != "train" {
		t.Fatalf("expected prior extras binding restored, got %v", v)
	}
	if s.Has("tmp") {
		t.Fatal("expected absent binding restored to absence")
	}
}

func TestScopedRestoresOnError(t *testing.T) {
	s := NewState(nil)
	sentinel := errors.New("boom")
	err := s.Scoped(map[string]any{"tmp": 1}, func() error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected fn error returned, got %v", err)
	}
	if s.Has("tmp") {
		t.Fatal("expected override removed after error")
	}
}

func TestScopedRestoresOnPanic(t *testing.T) {
	s := NewState(nil)
	s.Set("phase", "train")

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = s.Scoped(map[string]any{"phase": "test"}, func() error {
			panic("boom")
		})
	}()

	if v, _ := s.Lookup("phase"); v != "train" {
		t.Fatalf("expected binding restored after panic, got %v", v)
	}
}

func TestScopedShadowsDeclaredOnly(t *testing.T) {
	s := NewState(map[string]any{"dataset": "mnist"})
	_ = s.Scoped(map[string]any{"dataset": "cifar10"}, func() error {
		if v, _ := s.Lookup("dataset"); v != "cifar10" {
			t.Fatalf("expected override inside scope, got %v", v)
		}
		return nil
	})
	if v, _ := s.Lookup("dataset"); v != "mnist" {
		t.Fatalf("expected declared value visible again, got %v", v)
	}
	if _, ok := s.extras["dataset"]; ok {
		t.Fatal("expected extras binding removed, not replaced with declared value")
	}
}

func TestMergePublicFilter(t *testing.T) {
	s := NewState(map[string]any{"lr": 0.01, "_scratch": "x"})
	s.Set("seed", 1)
	s.Set("_worker_handle", "h")
	s.Set("lr", 0.02)

	full := s.Merge(false)
	if full["lr"] != 0.02 {
		t.Fatalf("expected extras to win on conflict, got %v", full["lr"])
	}
	if _, ok := full["_worker_handle"]; !ok {
		t.Fatal("expected private names kept in full merge")
	}

	public := s.Merge(true)
	for _, name := range []string{"_scratch", "_worker_handle"} {
		if _, ok := public[name]; ok {
			t.Fatalf("expected %s dropped from public merge", name)
		}
	}
	if public["seed"] != 1 || public["lr"] != 0.02 {
		t.Fatalf("unexpected public snapshot: %v", public)
	}
}

func TestMergeIsDetached(t *testing.T) {
	s := NewState(map[string]any{"lr": 0.01})
	merged := s.Merge(false)
	merged["lr"] = 99.0
	if v, _ := s.Float("lr"); v != 0.01 {
		t.Fatalf("expected state untouched by snapshot mutation, got %v", v)
	}
}

func TestClearExtras(t *testing.T) {
	s := NewState(map[string]any{"lr": 0.01})
	s.Set("seed", 1)
	s.ClearExtras()
	if s.Has("seed") {
		t.Fatal("expected extras cleared")
	}
	if !s.Has("lr") {
		t.Fatal("expected declared layer intact")
	}
}

func TestTypedAccessors(t *testing.T) {
	s := NewState(map[string]any{
		"epochs":  400,
		"lr":      0.01,
		"dataset": "imdb",
		"dropout": true,
		"lrs":     []any{"loaded", "fix"},
		"labels":  []any{0, 1},
		"reload":  float64(42),
	})

	if v, err := s.Int("epochs"); err != nil || v != 400 {
		t.Fatalf("Int: %v, %v", v, err)
	}
	if v, err := s.Int("reload"); err != nil || v != 42 {
		t.Fatalf("expected integral float accepted, got %v, %v", v, err)
	}
	s.Set("wide", int64(42))
	if v, err := s.Int("wide"); err != nil || v != 42 {
		t.Fatalf("expected in-range int64 accepted, got %v, %v", v, err)
	}
	if v, err := s.Float("lr"); err != nil || v != 0.01 {
		t.Fatalf("Float: %v, %v", v, err)
	}
	if v, err := s.Float("epochs"); err != nil || v != 400.0 {
		t.Fatalf("expected int widened to float, got %v, %v", v, err)
	}
	if v, err := s.String("dataset"); err != nil || v != "imdb" {
		t.Fatalf("String: %v, %v", v, err)
	}
	if v, err := s.Bool("dropout"); err != nil || !v {
		t.Fatalf("Bool: %v, %v", v, err)
	}
	if v, err := s.Strings("lrs"); err != nil || len(v) != 2 || v[1] != "fix" {
		t.Fatalf("Strings: %v, %v", v, err)
	}
	if v, err := s.Ints("labels"); err != nil || len(v) != 2 || v[1] != 1 {
		t.Fatalf("Ints: %v, %v", v, err)
	}

	if _, err := s.Int("dataset"); err == nil {
		t.Fatal("expected type mismatch error")
	}
	if _, err := s.Float("lr2"); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestOutputFlag(t *testing.T) {
	s := NewState(nil)
	if !s.OutputFlag() {
		t.Fatal("expected fresh state to be writing")
	}
	s.SetOutputFlag(false)
	if s.OutputFlag() {
		t.Fatal("expected flag toggled off")
	}
}
