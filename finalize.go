package distill

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// DatasetInfo is the metadata the dataset collaborator resolves for the
// configured dataset.
type DatasetInfo struct {
	Root          string
	Channels      int
	InputSize     int
	NumClasses    int
	Normalization *Normalization
	Labels        []string
}

// Normalization holds per-channel normalization parameters.
type Normalization struct {
	Mean []float64 `yaml:"mean"`
	Std  []float64 `yaml:"std"`
}

// Dataset is an opaque handle to a loaded dataset split.
type Dataset interface {
	Name() string
	Split() string
	Len() int
}

// DatasetProvider resolves dataset metadata and loads dataset splits for a
// finalized state. Failures propagate to the caller unmodified; this core
// performs no retries. Implementations shared by concurrent ranks must be
// safe under concurrent access to common storage — finalization only
// guarantees that the coordinator requests data first.
type DatasetProvider interface {
	Info(ctx context.Context, s *State) (DatasetInfo, error)
	Dataset(ctx context.Context, s *State, split string) (Dataset, error)
}

// SnapshotStore persists the public configuration snapshot for a run's save
// directory.
type SnapshotStore interface {
	Save(ctx context.Context, dir string, snapshot map[string]any) error
}

// Run is the outcome of finalization.
type Run struct {
	State   *State
	Device  *Device
	SaveDir string
	Train   Dataset
	Test    Dataset
}

// Finalizer assembles run state once per process at startup. Every field
// except Datasets is optional; zero values fall back to real collaborators
// (os.MkdirAll, os.LookupEnv, time.Now, uuid, slog.Default).
type Finalizer struct {
	Datasets DatasetProvider
	Store    SnapshotStore
	Seeder   *Seeder
	Logger   *slog.Logger

	Now      func() time.Time
	NewRunID func() string
	MkdirAll func(path string) error
	Env      func(key string) (string, bool)
}

// Finalize executes the startup pipeline, each step depending on the prior:
// configuration defaults settle first, the public snapshot is persisted, and
// only then do process-specific runtime values (device handle, rank-local
// counts) enter the state. Non-writing instances skip every side effect on
// real storage and all seeding.
func (f *Finalizer) Finalize(ctx context.Context, s *State) (*Run, error) {
	if f.Datasets == nil {
		return nil, fmt.Errorf("distill: finalizer requires a dataset provider")
	}
	logger := f.logger()

	// Sampled networks per iteration defaults to the total network count.
	if !s.Has("sample_n_nets") {
		nNets, err := s.Int("n_nets")
		if err != nil {
			return nil, err
		}
		s.Set("sample_n_nets", nNets)
	}

	saveDir, err := s.SaveDir()
	if err != nil {
		return nil, err
	}

	s.Set("start_time", f.now().Format("2006-01-02 15:04:05"))
	s.Set("run_id", f.newRunID())

	worldSize, err := s.Int("world_size")
	if err != nil {
		return nil, err
	}
	s.Set("distributed", worldSize > 1)
	if worldSize > 1 {
		bootstrap, err := ResolveBootstrap(f.Env)
		if err != nil {
			return nil, err
		}
		bootstrap.Record(s)
	}

	// Single-coordinator design: only the coordinator runs this pipeline in
	// full; workers receive state via reconstruction.
	s.Set("world_rank", 0)

	if s.OutputFlag() {
		if err := f.mkdirAll(saveDir); err != nil {
			return nil, fmt.Errorf("distill: create save directory %s: %w", saveDir, err)
		}
	}

	info, err := f.Datasets.Info(ctx, s)
	if err != nil {
		return nil, err
	}
	s.Set("dataset_root", info.Root)
	s.Set("nc", info.Channels)
	s.Set("input_size", info.InputSize)
	s.Set("num_classes", info.NumClasses)
	s.Set("dataset_normalization", info.Normalization)
	s.Set("dataset_labels", info.Labels)

	if n, err := s.Int("num_distill_classes"); err != nil || n == 0 {
		s.Set("num_distill_classes", info.NumClasses)
	}
	if labels, err := s.Ints("init_labels"); err != nil || len(labels) == 0 {
		n, err := s.Int("num_distill_classes")
		if err != nil {
			return nil, err
		}
		initLabels := make([]int, n)
		for i := range initLabels {
			initLabels[i] = i
		}
		s.Set("init_labels", initLabels)
	}

	// The persisted record reflects logical configuration, not this
	// process's runtime view, so it is written before the device handle and
	// rank-local counts exist.
	if s.OutputFlag() && f.Store != nil {
		if err := f.Store.Save(ctx, saveDir, s.Merge(true)); err != nil {
			return nil, fmt.Errorf("distill: persist snapshot: %w", err)
		}
	}

	planner, err := NewPlanner(s)
	if err != nil {
		return nil, err
	}
	localNNets, err := planner.Partition(s, "n_nets", true)
	if err != nil {
		return nil, err
	}

	deviceID, err := s.Int("device_id")
	if err != nil {
		return nil, err
	}
	device := ResolveDevice(deviceID)
	if s.OutputFlag() && device.Kind == CUDA {
		device.EnableTuning()
	}
	s.Set("device", device)

	if s.OutputFlag() {
		seed, err := s.Int("base_seed")
		if err != nil {
			return nil, err
		}
		s.Set("seed", seed)
		f.seeder().Apply(int64(seed), device)
	}

	// The coordinator requests data first so concurrent ranks sharing
	// storage do not race on downloads; any stronger mutual exclusion is
	// the provider's responsibility.
	train, err := f.Datasets.Dataset(ctx, s, "train")
	if err != nil {
		return nil, err
	}
	test, err := f.Datasets.Dataset(ctx, s, "test")
	if err != nil {
		return nil, err
	}

	logger.Info("run state finalized",
		"save_dir", saveDir,
		"device", device.String(),
		"local_n_nets", localNNets,
		"distributed", worldSize > 1,
		"output", s.OutputFlag(),
	)

	return &Run{
		State:   s,
		Device:  device,
		SaveDir: saveDir,
		Train:   train,
		Test:    test,
	}, nil
}

func (f *Finalizer) seeder() *Seeder {
	if f.Seeder == nil {
		f.Seeder = &Seeder{}
	}
	return f.Seeder
}

func (f *Finalizer) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

func (f *Finalizer) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f *Finalizer) newRunID() string {
	if f.NewRunID != nil {
		return f.NewRunID()
	}
	return uuid.NewString()
}

func (f *Finalizer) mkdirAll(path string) error {
	if f.MkdirAll != nil {
		return f.MkdirAll(path)
	}
	return os.MkdirAll(path, 0o755)
}
