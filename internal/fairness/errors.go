package fairness

import "errors"

// Precondition failures surface as one of these sentinels, wrapped with
// argument context where useful. All are raised before any numeric work and
// are terminal for the call; detect kinds with errors.Is.
var (
	// ErrModelOrEstimatorRequired: construction received neither a model
	// nor an estimator.
	ErrModelOrEstimatorRequired = errors.New("fairness: either a model or an estimator is required")

	// ErrModelAndEstimator: construction received both.
	ErrModelAndEstimator = errors.New("fairness: provide either a model or an estimator, not both")

	// ErrMissingScore: the supplied model does not implement Scorer.
	ErrMissingScore = errors.New("fairness: model does not implement Score")

	// ErrMissingTrain: the supplied estimator does not implement Trainable.
	ErrMissingTrain = errors.New("fairness: estimator does not implement Train and Score")

	// ErrUnsupportedCriterion: the parity criterion is not recognized.
	ErrUnsupportedCriterion = errors.New("fairness: unsupported parity criterion")

	// ErrMissingInput: one of X, y, or the group attribute is absent while
	// the others are present.
	ErrMissingInput = errors.New("fairness: input data missing")

	// ErrLengthMismatch: parallel inputs differ in length.
	ErrLengthMismatch = errors.New("fairness: input lengths differ")

	// ErrEmptyInput: an input sequence is empty.
	ErrEmptyInput = errors.New("fairness: input data is empty")

	// ErrNonBinaryLabels: y contains values outside {0,1}.
	ErrNonBinaryLabels = errors.New("fairness: labels must be binary 0/1")

	// ErrNotFitted: predict was called before a successful fit.
	ErrNotFitted = errors.New("fairness: predict called before fit")

	// ErrMultipleColumns: the group attribute has more than one column.
	ErrMultipleColumns = errors.New("fairness: group attribute must be a single column")

	// ErrUnknownGroup: a prediction-time group value was absent from the
	// calibration data.
	ErrUnknownGroup = errors.New("fairness: unknown group value")
)
