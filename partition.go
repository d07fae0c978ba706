package distill

import (
	"fmt"
	"os"
	"strconv"
)

// Planner partitions divisible quantities across distributed worker ranks
// and decides which rank performs side-effecting setup. WorldSize == 1 is
// the degenerate single-process case and behaves identically to rank 0 of a
// distributed run.
type Planner struct {
	WorldSize int
	Rank      int
}

// NewPlanner builds a planner from the state's world_size and, when already
// recorded, world_rank.
func NewPlanner(s *State) (Planner, error) {
	worldSize, err := s.Int("world_size")
	if err != nil {
		return Planner{}, err
	}
	if worldSize < 1 {
		return Planner{}, fmt.Errorf("distill: world_size must be at least 1, got %d", worldSize)
	}
	rank := 0
	if s.Has("world_rank") {
		if r, err := s.Int("world_rank"); err == nil {
			rank = r
		}
	}
	return Planner{WorldSize: worldSize, Rank: rank}, nil
}

// IsCoordinator reports whether this rank performs side-effecting setup such
// as directory creation and snapshot writes.
func (p Planner) IsCoordinator() bool { return p.Rank == 0 }

// Partition divides the configured integer quantity named by name across the
// world size and stores the rank-local share into extras as "local_<name>".
// With strict, the quantity must divide evenly and the exact quotient is
// stored; otherwise the share is the ceiling, and slightly uneven local
// totals across ranks are accepted, not corrected.
func (p Planner) Partition(s *State, name string, strict bool) (int, error) {
	value, err := s.Int(name)
	if err != nil {
		return 0, err
	}
	var local int
	if strict {
		if value%p.WorldSize != 0 {
			return 0, &NotDivisibleError{Name: name, Value: value, WorldSize: p.WorldSize}
		}
		local = value / p.WorldSize
	} else {
		local = (value + p.WorldSize - 1) / p.WorldSize
	}
	s.Set("local_"+name, local)
	return local, nil
}

// Bootstrap captures the process-group rendezvous settings a distributed run
// expects from its environment: either an address/port pair or a shared init
// file, plus this process's rank.
type Bootstrap struct {
	MasterAddr string
	MasterPort string
	InitFile   string
	Rank       int
}

// ResolveBootstrap reads the rendezvous settings through lookup, which
// defaults to os.LookupEnv. Either MASTER_ADDR with MASTER_PORT or INIT_FILE
// must be resolvable before distributed finalization proceeds.
func ResolveBootstrap(lookup func(string) (string, bool)) (Bootstrap, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var b Bootstrap
	if raw, ok := lookup("RANK"); ok {
		rank, err := strconv.Atoi(raw)
		if err != nil {
			return Bootstrap{}, fmt.Errorf("distill: RANK must be an integer, got %q", raw)
		}
		b.Rank = rank
	}
	addr, okAddr := lookup("MASTER_ADDR")
	port, okPort := lookup("MASTER_PORT")
	if okAddr && okPort {
		b.MasterAddr, b.MasterPort = addr, port
		return b, nil
	}
	if file, ok := lookup("INIT_FILE"); ok {
		b.InitFile = file
		return b, nil
	}
	return Bootstrap{}, fmt.Errorf("distill: distributed run requires MASTER_ADDR and MASTER_PORT, or INIT_FILE")
}

// Record stores the rendezvous settings into extras for collaborators that
// initialize the process group.
func (b Bootstrap) Record(s *State) {
	if b.InitFile != "" {
		s.Set("distributed_init_file", b.InitFile)
		return
	}
	s.Set("distributed_master_addr", b.MasterAddr)
	s.Set("distributed_master_port", b.MasterPort)
}
