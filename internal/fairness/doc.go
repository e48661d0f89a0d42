// Package fairness post-processes an existing scoring model so that a
// group-fairness constraint (demographic parity or equalized odds) holds
// exactly across the values of a sensitive group attribute while maximizing
// weighted accuracy on the calibration sample.
//
// The fit pipeline builds per-group ROC frontiers from labeled calibration
// scores, reduces each to its upper-left convex hull, solves for the
// fairness-constrained operating point over an exact candidate set of hull
// break-points, and derives per group a randomized mixture of two
// thresholding rules that realizes the point. Prediction applies the fitted
// rule mapping to new (group, score) pairs, either as a probability or as a
// Bernoulli-sampled hard label.
package fairness
