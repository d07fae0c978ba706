package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	distill "github.com/striverconniver/dataset-distillation"
	"github.com/striverconniver/dataset-distillation/pkg/datasets"
	"github.com/striverconniver/dataset-distillation/pkg/runstore"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "distill: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	state, err := distill.DefaultOptions().Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if name, err := state.String("log_level"); err == nil {
		if parseErr := level.UnmarshalText([]byte(strings.ToUpper(name))); parseErr != nil {
			return fmt.Errorf("invalid log_level %q: %w", name, parseErr)
		}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	finalizer := &distill.Finalizer{
		Datasets: datasets.NewProvider(),
		Store:    runstore.NewFileStore(),
		Logger:   logger,
	}

	result, err := finalizer.Finalize(ctx, state)
	if err != nil {
		return err
	}

	logger.Info("run ready",
		"save_dir", result.SaveDir,
		"device", result.Device.String(),
		"train", result.Train.Name(),
		"train_len", result.Train.Len(),
		"test_len", result.Test.Len(),
	)
	return nil
}
