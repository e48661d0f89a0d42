package fairness

import (
	"fmt"
	"math/rand"
	"sync"
)

// Predictor applies fitted group rules to new (group, score) pairs. The rule
// mapping is immutable after construction, so concurrent calls are safe; the
// random stream used for hard-label sampling is guarded by a mutex.
type Predictor struct {
	rules map[string]GroupRule

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPredictor wraps a fitted rule mapping. A nil rng falls back to an
// unseeded source; pass a seeded rand.Rand for reproducible sampling.
func NewPredictor(rules map[string]GroupRule, rng *rand.Rand) *Predictor {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Predictor{rules: rules, rng: rng}
}

// Rules returns the fitted rule for each group value.
func (p *Predictor) Rules() map[string]GroupRule {
	out := make(map[string]GroupRule, len(p.rules))
	for k, v := range p.rules {
		out[k] = v
	}
	return out
}

// Probability returns the probability of a positive prediction for a single
// (group, score) pair. The group must have been present at fit time.
func (p *Predictor) Probability(group string, score float64) (float64, error) {
	rule, ok := p.rules[group]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	return rule.Probability(score), nil
}

// Probabilities is the vectorized form of Probability over matched slices.
func (p *Predictor) Probabilities(groups []string, scores []float64) ([]float64, error) {
	if len(groups) != len(scores) {
		return nil, fmt.Errorf("%w: groups and scores", ErrLengthMismatch)
	}
	out := make([]float64, len(scores))
	for i := range scores {
		prob, err := p.Probability(groups[i], scores[i])
		if err != nil {
			return nil, err
		}
		out[i] = prob
	}
	return out, nil
}

// Sample draws one Bernoulli hard label at the rule's probability.
func (p *Predictor) Sample(group string, score float64) (int, error) {
	prob, err := p.Probability(group, score)
	if err != nil {
		return 0, err
	}
	p.mu.Lock()
	u := p.rng.Float64()
	p.mu.Unlock()
	if u < prob {
		return 1, nil
	}
	return 0, nil
}

// SampleAll draws hard labels for matched slices of groups and scores.
func (p *Predictor) SampleAll(groups []string, scores []float64) ([]int, error) {
	if len(groups) != len(scores) {
		return nil, fmt.Errorf("%w: groups and scores", ErrLengthMismatch)
	}
	out := make([]int, len(scores))
	for i := range scores {
		label, err := p.Sample(groups[i], scores[i])
		if err != nil {
			return nil, err
		}
		out[i] = label
	}
	return out, nil
}
