package distill

import (
	"fmt"
	"math/rand"
)

// DeviceKind distinguishes CPU from accelerator devices.
type DeviceKind int

const (
	CPU DeviceKind = iota
	CUDA
)

func (k DeviceKind) String() string {
	if k == CUDA {
		return "cuda"
	}
	return "cpu"
}

// Device is a resolved compute-device handle. Each device carries its own
// RNG stream standing in for the per-device generator.
type Device struct {
	Kind   DeviceKind
	Index  int
	Tuning bool

	rng *rand.Rand
}

// ResolveDevice maps a device identifier to a handle; a negative identifier
// means CPU.
func ResolveDevice(id int) *Device {
	if id < 0 {
		return &Device{Kind: CPU, Index: -1}
	}
	return &Device{Kind: CUDA, Index: id}
}

func (d *Device) String() string {
	if d.Kind == CPU {
		return "cpu"
	}
	return fmt.Sprintf("cuda:%d", d.Index)
}

// EnableTuning switches on the autotuning mode for convolution-heavy
// workloads. Finalization enables it only on the writing path.
func (d *Device) EnableTuning() { d.Tuning = true }

func (d *Device) seedRNG(seed int64) {
	d.rng = rand.New(rand.NewSource(seed))
}

// RNG returns the device RNG stream. Non-writing replicas never run the
// Seeder, so the stream is created lazily from the zero seed for them.
func (d *Device) RNG() *rand.Rand {
	if d.rng == nil {
		d.rng = rand.New(rand.NewSource(0))
	}
	return d.rng
}
