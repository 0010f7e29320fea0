// Package stats is a self-contained statistical analysis engine: descriptive
// statistics, one- and two-sample t-tests, a chi-square test of independence,
// an approximate normality test, and the distribution primitives backing
// them. Every operation is a pure function of its inputs and is safe to call
// concurrently.
package stats

import "errors"

// Sentinel errors for the engine. Callers match them with errors.Is; every
// error returned by this package wraps one of these and names the offending
// input (group key, table cell, statistic).
var (
	// ErrEmptyDataset reports a sample with zero elements where at least one
	// is required.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrInsufficientSampleSize reports a sample below the statistical
	// minimum for the requested computation (variance needs n>=2, skewness
	// n>=3, kurtosis n>=4, t-tests n>=2 per sample).
	ErrInsufficientSampleSize = errors.New("insufficient sample size")

	// ErrInvalidSampleSize reports a normality test outside its valid
	// domain (n<3 or n>5000).
	ErrInvalidSampleSize = errors.New("invalid sample size")

	// ErrInvalidInput reports a malformed contingency table: fewer than two
	// rows or columns, a ragged matrix, or negative counts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidParameter reports a non-positive degrees of freedom, an
	// alpha outside (0,1), or a probability outside its domain.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDivisionByZero reports a degenerate computation that would
	// otherwise produce NaN or Inf: a zero-variance sample or a zero
	// expected cell in a contingency table.
	ErrDivisionByZero = errors.New("division by zero")
)
