package distill

// DefaultOptions declares the full option schema for a distillation run.
// Options without a default stay absent until assigned, and the pipeline or
// their consumers supply the fallback.
func DefaultOptions(opts ...SetOption) *OptionSet {
	s := NewOptionSet(opts...)

	s.Register(Option{Name: "batch_size", Kind: KindInt, Default: 1024, Check: GreaterThan(0), Help: "input batch size for training"})
	s.Register(Option{Name: "test_batch_size", Kind: KindInt, Default: 1024, Check: GreaterThan(0), Help: "input batch size for testing"})
	s.Register(Option{Name: "test_niter", Kind: KindInt, Default: 1, Check: GreaterThan(0), Help: "max number of batches to test"})
	s.Register(Option{Name: "epochs", Kind: KindInt, Default: 400, Check: GreaterThan(0), Help: "number of total epochs to train"})
	s.Register(Option{Name: "decay_epochs", Kind: KindInt, Default: 40, Check: GreaterThan(0), Help: "period of learning-rate decay"})
	s.Register(Option{Name: "decay_factor", Kind: KindFloat, Default: 0.5, Check: GreaterThan(0.0), Help: "multiplicative decay factor"})
	s.Register(Option{Name: "lr", Kind: KindFloat, Default: 0.01, Check: GreaterThan(0.0), Help: "learning rate for training networks"})
	s.Register(Option{Name: "init", Kind: KindString, Default: "xavier", Help: "network initialization: normal | xavier | kaiming | orthogonal | zero | default"})
	s.Register(Option{Name: "init_param", Kind: KindFloat, Default: 1.0, Help: "network initialization parameter: gain, std, etc."})
	s.Register(Option{Name: "base_seed", Kind: KindInt, Default: 1, Help: "base random seed"})
	s.Register(Option{Name: "log_interval", Kind: KindInt, Default: 100, Help: "batches between training-status log lines"})
	s.Register(Option{Name: "checkpoint_interval", Kind: KindInt, Default: 10, Help: "checkpoint interval in epochs"})
	s.Register(Option{Name: "dataset", Kind: KindString, Default: "imdb", Help: "dataset: MNIST | Cifar10 | PASCAL_VOC | CUB200 | imdb"})
	s.Register(Option{Name: "source_dataset", Kind: KindString, Help: "source dataset for adaptation modes"})
	s.Register(Option{Name: "dataset_root", Kind: KindString, Help: "dataset root directory"})
	s.Register(Option{Name: "results_dir", Kind: KindString, Default: "./results/", Help: "results directory"})
	s.Register(Option{Name: "arch", Kind: KindString, Default: "LeNet", Help: "architecture: LeNet | AlexNet | etc."})
	s.Register(Option{Name: "mode", Kind: KindString, Default: "distill_basic", Help: "mode: train | distill_basic | distill_attack | distill_adapt"})
	s.Register(Option{Name: "distill_lr", Kind: KindFloat, Default: 0.02, Help: "learning rate applied with distilled images per step"})
	s.Register(Option{Name: "model_dir", Kind: KindString, Default: "./models/", Help: "directory storing trained models"})
	s.Register(Option{Name: "model_subdir_format", Kind: KindString, Help: "template for the model subdirectory"})
	s.Register(Option{Name: "train_nets_type", Kind: KindString, Default: "known_init", Help: "unknown_init | known_init | loaded"})
	s.Register(Option{Name: "test_nets_type", Kind: KindString, Default: "same_as_train", Help: "unknown_init | same_as_train | loaded"})
	s.Register(Option{Name: "dropout", Kind: KindBool, Default: false, Help: "use dropout"})
	s.Register(Option{Name: "distilled_images_per_class_per_step", Kind: KindInt, Default: 1, Check: GreaterThan(0), Help: "distilled images per class in each step"})
	s.Register(Option{Name: "distill_steps", Kind: KindInt, Default: 1, Check: GreaterThan(0), Help: "iterative distillation steps"})
	s.Register(Option{Name: "distill_epochs", Kind: KindInt, Default: 1, Check: GreaterThan(0), Help: "times to repeat all distillation steps"})
	s.Register(Option{Name: "n_nets", Kind: KindInt, Default: 1, Help: "number of random networks"})
	s.Register(Option{Name: "sample_n_nets", Kind: KindInt, Check: GreaterThan(0), Help: "networks sampled per iteration; defaults to n_nets"})
	s.Register(Option{Name: "device_id", Kind: KindInt, Default: 0, Check: AtLeast(-1), Help: "device id, -1 is cpu"})
	s.Register(Option{Name: "image_dpi", Kind: KindInt, Default: 80, Check: GreaterThan(0), Help: "dpi for visual image generation"})
	s.Register(Option{Name: "attack_class", Kind: KindInt, Default: 0, Check: GreaterThan(-1), Help: "class predicted as target_class in distill_attack"})
	s.Register(Option{Name: "target_class", Kind: KindInt, Default: 1, Check: GreaterThan(-1), Help: "class the attack objective predicts"})
	s.Register(Option{Name: "expr_name_format", Kind: KindStringList, Help: "experiment save dir name templates; multiple values mean nested folders"})
	s.Register(Option{Name: "phase", Kind: KindString, Default: "train", Help: "phase"})
	s.Register(Option{Name: "test_distill_epochs", Kind: KindInt, Check: GreaterThan(0), Help: "distill epochs in test; defaults to distill_epochs"})
	s.Register(Option{Name: "test_n_runs", Kind: KindInt, Default: 1, Check: GreaterThan(0), Help: "number of test runs, each with fresh distilled data"})
	s.Register(Option{Name: "test_n_nets", Kind: KindInt, Default: 1, Check: GreaterThan(0), Help: "model resets per test for averaged performance"})
	s.Register(Option{Name: "test_distilled_images", Kind: KindString, Default: "loaded", Help: "distilled images to test: loaded | random_train | kmeans_train"})
	s.Register(Option{Name: "test_distilled_lrs", Kind: KindStringList, Default: []string{"loaded"}, Help: "distilled lrs to test: loaded | fix [lr] | nearest_neighbor [k] [p]"})
	s.Register(Option{Name: "test_optimize_n_runs", Kind: KindInt, Check: GreaterThan(0), Help: "candidate test sets to optimize over before picking test_n_runs"})
	s.Register(Option{Name: "test_optimize_n_nets", Kind: KindInt, Default: 20, Check: GreaterThan(0), Help: "networks used to optimize test data"})
	s.Register(Option{Name: "num_workers", Kind: KindInt, Default: 8, Check: GreaterThan(-1), Help: "number of data loader workers"})
	s.Register(Option{Name: "no_log", Kind: KindBool, Default: false, Help: "do not log into file"})
	s.Register(Option{Name: "log_level", Kind: KindString, Default: "INFO", Help: "logging level, e.g. DEBUG, INFO, WARNING, ERROR"})
	s.Register(Option{Name: "test_name_format", Kind: KindStringList, Help: "test save subdir name templates; multiple values mean nested folders"})
	s.Register(Option{Name: "world_size", Kind: KindInt, Default: 1, Check: AtLeast(1), Help: "process count for distributed training; rendezvous settings come from the environment"})
	s.Register(Option{Name: "static_labels", Kind: KindInt, Default: 1, Help: "0 for fixed labels during training, 1 for learned labels"})
	s.Register(Option{Name: "random_init_labels", Kind: KindString, Default: "", Help: "empty for user-set label init, other strings for special inits"})
	s.Register(Option{Name: "num_distill_classes", Kind: KindInt, Help: "distill samples per step; may be less than the class count"})
	s.Register(Option{Name: "init_labels", Kind: KindIntList, Help: "initial values of distill labels when random_init_labels is unset"})
	s.Register(Option{Name: "textdata", Kind: KindBool, Default: true, Help: "dataset is text-based"})
	s.Register(Option{Name: "ntoken", Kind: KindInt, Default: 5000, Help: "unique words available for text data"})
	s.Register(Option{Name: "ninp", Kind: KindInt, Default: 50, Help: "embedding size for text data"})
	s.Register(Option{Name: "maxlen", Kind: KindInt, Default: 10, Help: "maximum sequence length for text data"})
	s.Register(Option{Name: "learnable_embedding", Kind: KindBool, Default: false, Help: "text embedding is learnable"})
	s.Register(Option{Name: "reproduction_test", Kind: KindBool, Default: false, Help: "use the original loss function instead of the custom one"})
	s.Register(Option{Name: "label_softmax", Kind: KindBool, Default: false, Help: "apply softmax to distillation labels in the loss"})
	s.Register(Option{Name: "visualize", Kind: KindBool, Default: true, Help: "visualize distilled data"})
	s.Register(Option{Name: "mult_label_scaling", Kind: KindFloat, Default: 1.0, Help: "multiplicative scaling for label initialisations"})
	s.Register(Option{Name: "add_label_scaling", Kind: KindFloat, Default: 0.0, Help: "additive scaling for label initialisations"})
	s.Register(Option{Name: "add_first", Kind: KindBool, Default: true, Help: "apply additive scaling before multiplicative for label inits"})
	s.Register(Option{Name: "dist_metric", Kind: KindString, Default: "MSE", Help: "MSE | NRMSE | SSIM, used with distance-based label inits"})
	s.Register(Option{Name: "invert_dist", Kind: KindBool, Default: false, Help: "reverse the distance ordering for label init"})
	s.Register(Option{Name: "freeze_data", Kind: KindBool, Default: false, Help: "learn only labels and lr, freezing data samples as random"})

	return s
}
