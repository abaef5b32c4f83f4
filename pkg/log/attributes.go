package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "LinearRegression".
	ModelNameKey = "model.name"

	// OperationKey is the operation being performed ("train", "predict", ...).
	OperationKey = "ml.operation"

	// ComponentKey is the package doing the work ("linear", "preprocessing").
	ComponentKey = "ml.component"

	// PhaseKey is the lifecycle phase ("training", "inference").
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	SourceKey   = "data.source"
)

// Training progress and metrics.
const (
	DurationMsKey = "perf.duration_ms"
	LossKey       = "metrics.loss"
	R2ScoreKey    = "metrics.r2_score"
	EpochKey      = "training.epoch"
	EpochsKey     = "training.epochs"
	PredsKey      = "preds.count"
)

// Hyperparameters.
const (
	LearningRateKey = "hyperparams.learning_rate"
	RandomSeedKey   = "config.random_seed"
)

// Error context.
const (
	ErrorCodeKey = "error.code"
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationTrain     = "train"
	OperationPredict   = "predict"
	OperationScore     = "score"
	OperationTransform = "transform"

	PhaseTraining      = "training"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"

	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorNumerical         = "NUMERICAL_ERROR"
)
