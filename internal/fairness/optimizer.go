package fairness

import (
	"fmt"
	"log"
	"math/rand"
)

// Criterion selects the group-fairness constraint enforced by a fit.
type Criterion string

const (
	DemographicParity Criterion = "demographic_parity"
	EqualizedOdds     Criterion = "equalized_odds"
)

// Scorer produces one raw score per feature row. A pre-trained model needs
// only this.
type Scorer interface {
	Score(X [][]float64) ([]float64, error)
}

// Trainable is an estimator: it must be trained on the calibration sample
// before it can score.
type Trainable interface {
	Scorer
	Train(X [][]float64, y []int) error
}

// Config configures a ThresholdOptimizer. Exactly one of Model or Estimator
// must be set. Both are accepted as any so that construction can report a
// missing capability instead of failing to compile at a distant call site;
// Model must satisfy Scorer and Estimator must satisfy Trainable.
type Config struct {
	Model     any
	Estimator any
	Criterion Criterion

	// Rand seeds hard-label sampling; nil means unseeded.
	Rand *rand.Rand
}

// ThresholdOptimizer adjusts an existing scorer's predictions so that a
// group-fairness constraint holds exactly across groups while maximizing
// weighted accuracy on the calibration sample. It never modifies the
// underlying scorer.
type ThresholdOptimizer struct {
	scorer    Scorer
	trainable Trainable
	criterion Criterion
	rng       *rand.Rand

	predictor *Predictor
	solution  Solution
}

// New validates the configuration and returns an unfitted optimizer. All
// configuration errors (missing or duplicate scorer, missing capabilities,
// unknown criterion) are raised here, before any data is seen.
func New(cfg Config) (*ThresholdOptimizer, error) {
	if cfg.Model == nil && cfg.Estimator == nil {
		return nil, ErrModelOrEstimatorRequired
	}
	if cfg.Model != nil && cfg.Estimator != nil {
		return nil, ErrModelAndEstimator
	}
	if cfg.Criterion != DemographicParity && cfg.Criterion != EqualizedOdds {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCriterion, cfg.Criterion)
	}

	opt := &ThresholdOptimizer{criterion: cfg.Criterion, rng: cfg.Rand}
	if cfg.Model != nil {
		s, ok := cfg.Model.(Scorer)
		if !ok {
			return nil, fmt.Errorf("%w: got %T", ErrMissingScore, cfg.Model)
		}
		opt.scorer = s
	} else {
		t, ok := cfg.Estimator.(Trainable)
		if !ok {
			return nil, fmt.Errorf("%w: got %T", ErrMissingTrain, cfg.Estimator)
		}
		opt.trainable = t
		opt.scorer = t
	}
	return opt, nil
}

// Fit derives one randomized threshold rule per group value from the
// calibration sample. Refitting replaces the previous rules atomically; a
// failed validation leaves no partial state behind.
func (opt *ThresholdOptimizer) Fit(X [][]float64, y []int, groups []string) error {
	if err := validateFitInputs(X, y, groups); err != nil {
		return err
	}

	if opt.trainable != nil {
		if err := opt.trainable.Train(X, y); err != nil {
			return fmt.Errorf("training estimator: %w", err)
		}
	}
	scores, err := opt.scorer.Score(X)
	if err != nil {
		return fmt.Errorf("scoring calibration data: %w", err)
	}
	if len(scores) != len(y) {
		return fmt.Errorf("%w: scores and y", ErrLengthMismatch)
	}

	byGroup := make(map[string]Calibration)
	for i, g := range groups {
		c := byGroup[g]
		c.Scores = append(c.Scores, scores[i])
		c.Labels = append(c.Labels, y[i])
		byGroup[g] = c
	}

	var rules map[string]GroupRule
	var sol Solution
	switch opt.criterion {
	case DemographicParity:
		rules, sol = SolveDemographicParity(byGroup)
		log.Printf("fit %s over %d groups: selection rate %.6f", opt.criterion, len(rules), sol.SelectionRate)
	case EqualizedOdds:
		rules, sol = SolveEqualizedOdds(byGroup)
		log.Printf("fit %s over %d groups: operating point (%.6f, %.6f)", opt.criterion, len(rules), sol.FPR, sol.TPR)
	}

	opt.predictor = NewPredictor(rules, opt.rng)
	opt.solution = sol
	return nil
}

// Predict returns one sampled hard label per row. Requires a prior Fit.
func (opt *ThresholdOptimizer) Predict(X [][]float64, groups []string) ([]int, error) {
	scores, err := opt.predictScores(X, groups)
	if err != nil {
		return nil, err
	}
	return opt.predictor.SampleAll(groups, scores)
}

// PredictProba returns [P(0), P(1)] per row. Requires a prior Fit.
func (opt *ThresholdOptimizer) PredictProba(X [][]float64, groups []string) ([][2]float64, error) {
	scores, err := opt.predictScores(X, groups)
	if err != nil {
		return nil, err
	}
	probs, err := opt.predictor.Probabilities(groups, scores)
	if err != nil {
		return nil, err
	}
	out := make([][2]float64, len(probs))
	for i, p := range probs {
		out[i] = [2]float64{1 - p, p}
	}
	return out, nil
}

// Rules exposes the fitted rule per group, or ErrNotFitted.
func (opt *ThresholdOptimizer) Rules() (map[string]GroupRule, error) {
	if opt.predictor == nil {
		return nil, ErrNotFitted
	}
	return opt.predictor.Rules(), nil
}

// Solution exposes the solved operating point and per-group hulls, or
// ErrNotFitted.
func (opt *ThresholdOptimizer) Solution() (Solution, error) {
	if opt.predictor == nil {
		return Solution{}, ErrNotFitted
	}
	return opt.solution, nil
}

func (opt *ThresholdOptimizer) predictScores(X [][]float64, groups []string) ([]float64, error) {
	if opt.predictor == nil {
		return nil, ErrNotFitted
	}
	if X == nil || groups == nil {
		return nil, fmt.Errorf("%w: X and group attribute are required", ErrMissingInput)
	}
	if len(X) != len(groups) {
		return nil, fmt.Errorf("%w: X and group attribute", ErrLengthMismatch)
	}
	if len(X) == 0 {
		return nil, ErrEmptyInput
	}
	scores, err := opt.scorer.Score(X)
	if err != nil {
		return nil, fmt.Errorf("scoring prediction data: %w", err)
	}
	return scores, nil
}

func validateFitInputs(X [][]float64, y []int, groups []string) error {
	if X == nil || y == nil || groups == nil {
		return fmt.Errorf("%w: X, y, and group attribute are all required", ErrMissingInput)
	}
	if len(X) != len(y) || len(y) != len(groups) {
		return fmt.Errorf("%w: X, y, and group attribute", ErrLengthMismatch)
	}
	if len(X) == 0 {
		return ErrEmptyInput
	}
	for _, l := range y {
		if l != 0 && l != 1 {
			return fmt.Errorf("%w: found %d", ErrNonBinaryLabels, l)
		}
	}
	return nil
}

// SingleColumn reduces a tabular group attribute to its single column,
// rejecting tables with more than one. Callers holding plain slices can
// pass them to Fit/Predict directly.
func SingleColumn(table [][]string) ([]string, error) {
	out := make([]string, len(table))
	for i, row := range table {
		if len(row) != 1 {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrMultipleColumns, i, len(row))
		}
		out[i] = row[0]
	}
	return out, nil
}

// ScoreColumnModel is a trivial Scorer that passes one feature column
// through as the score, for calibration data whose scores are precomputed.
type ScoreColumnModel struct {
	Column int
}

func (m ScoreColumnModel) Score(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, row := range X {
		if m.Column >= len(row) {
			return nil, fmt.Errorf("score column %d out of range for row of %d features", m.Column, len(row))
		}
		out[i] = row[m.Column]
	}
	return out, nil
}
