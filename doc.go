// Package distill resolves experiment configuration and derived run state
// for a dataset-distillation training pipeline.
//
// An OptionSet declares the recognised options, parses flag-style input
// under a single-assignment guarantee, and produces a State: an immutable
// declared layer plus a mutable extras layer for values computed during
// finalization. The Finalizer runs the startup pipeline that turns a parsed
// State into a ready run: directory derivation, distributed partitioning,
// deterministic seeding, snapshot persistence, and dataset resolution.
package distill
