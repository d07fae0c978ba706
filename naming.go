package distill

import (
	"fmt"
	"strconv"
	"strings"
)

// BaseDir returns the run's base directory, a pure function of the merged
// snapshot. When an ordered list of name templates is configured under
// expr_name_format, each template is rendered into one nested path segment;
// otherwise the built-in convention encodes the run's hyperparameters into a
// single descriptive segment beneath mode and dataset.
func (s *State) BaseDir() (string, error) {
	resultsDir, err := s.String("results_dir")
	if err != nil {
		return "", err
	}

	if s.Has("expr_name_format") {
		formats, err := s.Strings("expr_name_format")
		if err != nil {
			return "", err
		}
		if len(formats) == 0 {
			return "", fmt.Errorf("distill: expr_name_format must list at least one template")
		}
		snapshot := s.Merge(false)
		segments := make([]string, 0, len(formats)+1)
		segments = append(segments, resultsDir)
		for _, format := range formats {
			rendered, err := renderTemplate(format, snapshot)
			if err != nil {
				return "", err
			}
			segments = append(segments, rendered)
		}
		return joinPath(segments...), nil
	}

	name, err := s.conventionName()
	if err != nil {
		return "", err
	}
	mode, err := s.String("mode")
	if err != nil {
		return "", err
	}
	dataset, err := s.String("dataset")
	if err != nil {
		return "", err
	}
	return joinPath(resultsDir, mode, dataset, name), nil
}

// conventionName builds the descriptive segment: architecture, the
// training-network regime with its initialization parameter, distillation
// learning rate, the epoch/decay schedule, the outer learning rate, batch
// composition, an optional network-count suffix, the regime again as the
// train marker, and a dropout marker.
func (s *State) conventionName() (string, error) {
	arch, err := s.String("arch")
	if err != nil {
		return "", err
	}
	trainNetsType, err := s.String("train_nets_type")
	if err != nil {
		return "", err
	}
	initParam, err := s.Float("init_param")
	if err != nil {
		return "", err
	}
	distillLR, err := s.Float("distill_lr")
	if err != nil {
		return "", err
	}
	epochs, err := s.Int("epochs")
	if err != nil {
		return "", err
	}
	decayEpochs, err := s.Int("decay_epochs")
	if err != nil {
		return "", err
	}
	decayFactor, err := s.Float("decay_factor")
	if err != nil {
		return "", err
	}
	lr, err := s.Float("lr")
	if err != nil {
		return "", err
	}
	imagesPerClass, err := s.Int("distilled_images_per_class_per_step")
	if err != nil {
		return "", err
	}
	distillSteps, err := s.Int("distill_steps")
	if err != nil {
		return "", err
	}
	distillEpochs, err := s.Int("distill_epochs")
	if err != nil {
		return "", err
	}
	sampleName := "sample_n_nets"
	if !s.Has(sampleName) {
		sampleName = "n_nets"
	}
	sampleNNets, err := s.Int(sampleName)
	if err != nil {
		return "", err
	}
	dropout, err := s.Bool("dropout")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "arch(%s,%s,%s)_distillLR%s_E(%d,%d,%s)_lr%s_B%dx%dx%d",
		arch, trainNetsType, formatFloat(initParam),
		formatFloat(distillLR),
		epochs, decayEpochs, formatFloat(decayFactor),
		formatFloat(lr),
		imagesPerClass, distillSteps, distillEpochs)
	if sampleNNets > 1 {
		fmt.Fprintf(&b, "_%dnets", sampleNNets)
	}
	fmt.Fprintf(&b, "_train(%s)", trainNetsType)
	if dropout {
		b.WriteString("_dropout")
	}
	return b.String(), nil
}

// SaveDir returns where the run writes artifacts. A run always loads from
// and saves to the same location; there is no versioning.
func (s *State) SaveDir() (string, error) { return s.BaseDir() }

// LoadDir returns where the run loads artifacts from.
func (s *State) LoadDir() (string, error) { return s.BaseDir() }

// TestSubdir names a test-run's output folder beneath the save directory,
// either from the test_name_format template list or from the built-in
// convention over the test-specific fields. The test distill-epoch count
// falls back to distill_epochs when unset.
func (s *State) TestSubdir() (string, error) {
	if s.Has("test_name_format") {
		formats, err := s.Strings("test_name_format")
		if err != nil {
			return "", err
		}
		if len(formats) == 0 {
			return "", fmt.Errorf("distill: test_name_format must list at least one template")
		}
		snapshot := s.Merge(false)
		segments := make([]string, 0, len(formats))
		for _, format := range formats {
			rendered, err := renderTemplate(format, snapshot)
			if err != nil {
				return "", err
			}
			segments = append(segments, rendered)
		}
		return joinPath(segments...), nil
	}

	testNRuns, err := s.Int("test_n_runs")
	if err != nil {
		return "", err
	}
	testNNets, err := s.Int("test_n_nets")
	if err != nil {
		return "", err
	}
	epochsName := "test_distill_epochs"
	if !s.Has(epochsName) {
		epochsName = "distill_epochs"
	}
	testDistillEpochs, err := s.Int(epochsName)
	if err != nil {
		return "", err
	}
	testImages, err := s.String("test_distilled_images")
	if err != nil {
		return "", err
	}
	lrs, err := s.Strings("test_distilled_lrs")
	if err != nil {
		return "", err
	}
	if len(lrs) == 0 {
		return "", fmt.Errorf("distill: test_distilled_lrs must list at least one selection")
	}
	suffix := ""
	if len(lrs) > 1 {
		suffix = fmt.Sprintf("(%s)", strings.Join(lrs[1:], "_"))
	}
	return fmt.Sprintf("nRun%d_nNet%d_nEpoch%d_image_%s_lr_%s%s",
		testNRuns, testNNets, testDistillEpochs, testImages, lrs[0], suffix), nil
}

// ModelDir composes the model-storage root, a per-configuration
// subdirectory, and the trailing phase segment.
func (s *State) ModelDir() (string, error) {
	modelDir, err := s.String("model_dir")
	if err != nil {
		return "", err
	}
	phase, err := s.String("phase")
	if err != nil {
		return "", err
	}

	var subdir string
	if s.Has("model_subdir_format") {
		format, err := s.String("model_subdir_format")
		if err != nil {
			return "", err
		}
		if format != "" {
			subdir, err = renderTemplate(format, s.Merge(false))
			if err != nil {
				return "", err
			}
		}
	}
	if subdir == "" {
		dataset, err := s.String("dataset")
		if err != nil {
			return "", err
		}
		arch, err := s.String("arch")
		if err != nil {
			return "", err
		}
		init, err := s.String("init")
		if err != nil {
			return "", err
		}
		initParam, err := s.Float("init_param")
		if err != nil {
			return "", err
		}
		subdir = fmt.Sprintf("%s_%s_%s_%s", dataset, arch, init, formatFloat(initParam))
	}
	return joinPath(modelDir, subdir, phase), nil
}

// renderTemplate substitutes every {name} placeholder in template with the
// matching snapshot value. A placeholder naming a key absent from the
// snapshot fails with a MissingTemplateKeyError.
func renderTemplate(template string, snapshot map[string]any) (string, error) {
	var b strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		length := strings.IndexByte(rest[open:], '}')
		if length < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:open])
		key := rest[open+1 : open+length]
		value, ok := snapshot[key]
		if !ok {
			return "", &MissingTemplateKeyError{Template: template, Key: key}
		}
		b.WriteString(formatValue(value))
		rest = rest[open+length+1:]
	}
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return formatFloat(v)
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat renders floats the way the run directories have historically
// been named: integral values keep a trailing ".0".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

// joinPath joins path segments with "/" while preserving the configured
// root verbatim; filepath.Join would normalise away prefixes like "./".
func joinPath(segments ...string) string {
	if len(segments) == 0 {
		return ""
	}
	out := segments[0]
	for _, segment := range segments[1:] {
		switch {
		case out == "":
			out = segment
		case strings.HasSuffix(out, "/"):
			out += segment
		default:
			out += "/" + segment
		}
	}
	return out
}
