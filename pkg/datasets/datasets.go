// Package datasets resolves dataset metadata and loads dataset splits for
// run finalization. The catalog mirrors the datasets the training modes
// support; loading is metadata-only here, with sample access owned by the
// training loop.
package datasets

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	distill "github.com/striverconniver/dataset-distillation"
)

var ErrUnknownDataset = errors.New("datasets: unknown dataset")

var ErrUnknownSplit = errors.New("datasets: unknown split")

type entry struct {
	name       string
	root       string
	channels   int
	inputSize  int
	numClasses int
	mean       []float64
	std        []float64
	labels     []string
	trainLen   int
	testLen    int
	text       bool
}

var catalog = map[string]entry{
	"mnist": {
		name:       "MNIST",
		root:       "./data/mnist",
		channels:   1,
		inputSize:  28,
		numClasses: 10,
		mean:       []float64{0.1307},
		std:        []float64{0.3081},
		labels:     []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
		trainLen:   60000,
		testLen:    10000,
	},
	"cifar10": {
		name:       "Cifar10",
		root:       "./data/cifar10",
		channels:   3,
		inputSize:  32,
		numClasses: 10,
		mean:       []float64{0.4914, 0.4822, 0.4465},
		std:        []float64{0.247, 0.243, 0.261},
		labels:     []string{"airplane", "automobile", "bird", "cat", "deer", "dog", "frog", "horse", "ship", "truck"},
		trainLen:   50000,
		testLen:    10000,
	},
	"cub200": {
		name:       "CUB200",
		root:       "./data/birds",
		channels:   3,
		inputSize:  224,
		numClasses: 200,
		mean:       []float64{0.485, 0.456, 0.406},
		std:        []float64{0.229, 0.224, 0.225},
		trainLen:   5994,
		testLen:    5794,
	},
	"imdb": {
		name:       "imdb",
		root:       "./data/imdb",
		channels:   1,
		numClasses: 2,
		labels:     []string{"negative", "positive"},
		trainLen:   25000,
		testLen:    25000,
		text:       true,
	},
}

// Provider serves the built-in dataset catalog.
type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) Info(ctx context.Context, s *distill.State) (distill.DatasetInfo, error) {
	e, err := p.lookup(s)
	if err != nil {
		return distill.DatasetInfo{}, err
	}

	root := e.root
	if s.Has("dataset_root") {
		override, err := s.String("dataset_root")
		if err != nil {
			return distill.DatasetInfo{}, err
		}
		if override != "" {
			root = path.Join(override, strings.ToLower(e.name))
		}
	}

	info := distill.DatasetInfo{
		Root:       root,
		Channels:   e.channels,
		InputSize:  e.inputSize,
		NumClasses: e.numClasses,
		Labels:     e.labels,
	}
	if e.mean != nil {
		info.Normalization = &distill.Normalization{Mean: e.mean, Std: e.std}
	}
	// Text datasets are padded or truncated to a fixed token length, so the
	// configured maximum doubles as the input size.
	if e.text {
		maxlen, err := s.Int("maxlen")
		if err != nil {
			return distill.DatasetInfo{}, err
		}
		info.InputSize = maxlen
	}
	return info, nil
}

func (p *Provider) Dataset(ctx context.Context, s *distill.State, split string) (distill.Dataset, error) {
	e, err := p.lookup(s)
	if err != nil {
		return nil, err
	}

	switch split {
	case "train":
		return &handle{name: e.name, split: split, size: e.trainLen}, nil
	case "test":
		return &handle{name: e.name, split: split, size: e.testLen}, nil
	default:
		return nil, fmt.Errorf("%w: %q for dataset %s", ErrUnknownSplit, split, e.name)
	}
}

func (p *Provider) lookup(s *distill.State) (entry, error) {
	name, err := s.String("dataset")
	if err != nil {
		return entry{}, err
	}
	e, ok := catalog[strings.ToLower(name)]
	if !ok {
		return entry{}, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
	return e, nil
}

type handle struct {
	name  string
	split string
	size  int
}

func (h *handle) Name() string  { return h.name }
func (h *handle) Split() string { return h.split }
func (h *handle) Len() int      { return h.size }
