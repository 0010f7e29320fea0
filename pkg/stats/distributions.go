package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Probabilities returned by the CDF functions in this file are accurate to
// about 1e-6 across the degrees of freedom produced by sample sizes from 2
// upward. Tests assert the round-trip StudentTCDF(InverseTQuantile(p, df), df)
// at that tolerance.

// NormalCDF returns the cumulative probability of the standard normal
// distribution at x.
func NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// StudentTCDF returns the cumulative probability of the Student-t
// distribution with df degrees of freedom at t, evaluated through the
// regularized incomplete beta function.
func StudentTCDF(t, df float64) (float64, error) {
	if df <= 0 {
		return 0, fmt.Errorf("student-t cdf: degrees of freedom %v must be positive: %w", df, ErrInvalidParameter)
	}
	if t == 0 {
		return 0.5, nil
	}
	p := 0.5 * regIncompleteBeta(df/2, 0.5, df/(df+t*t))
	if t > 0 {
		return 1 - p, nil
	}
	return p, nil
}

// ChiSquareCDF returns the cumulative probability of the chi-square
// distribution with df degrees of freedom at x, via the regularized lower
// incomplete gamma function P(df/2, x/2).
func ChiSquareCDF(x, df float64) (float64, error) {
	if df <= 0 {
		return 0, fmt.Errorf("chi-square cdf: degrees of freedom %v must be positive: %w", df, ErrInvalidParameter)
	}
	if x <= 0 {
		return 0, nil
	}
	return IncompleteGammaP(df/2, x/2)
}

// IncompleteGammaP returns the regularized lower incomplete gamma function
// P(a, x). It uses the series expansion for x < a+1 and the continued
// fraction for the complement otherwise; both converge for all a > 0, x >= 0.
func IncompleteGammaP(a, x float64) (float64, error) {
	if a <= 0 {
		return 0, fmt.Errorf("incomplete gamma: shape %v must be positive: %w", a, ErrInvalidParameter)
	}
	if x < 0 {
		return 0, fmt.Errorf("incomplete gamma: argument %v must be non-negative: %w", x, ErrInvalidParameter)
	}
	if x == 0 {
		return 0, nil
	}
	if x < a+1 {
		return gammaSeries(a, x), nil
	}
	return 1 - gammaContinuedFraction(a, x), nil
}

// InverseTQuantile returns the value t such that StudentTCDF(t, df) = p.
// The root is bracketed starting from the normal quantile and refined by
// bisection; the CDF is monotone so the iteration always converges.
func InverseTQuantile(p, df float64) (float64, error) {
	if df <= 0 {
		return 0, fmt.Errorf("inverse-t: degrees of freedom %v must be positive: %w", df, ErrInvalidParameter)
	}
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("inverse-t: probability %v must lie in (0,1): %w", p, ErrInvalidParameter)
	}
	if p == 0.5 {
		return 0, nil
	}

	// The t quantile always lies beyond the normal quantile in magnitude,
	// so the normal value seeds the bracket and the far edge is doubled
	// until it encloses the root. Low df (heavy tails) may need many
	// doublings for extreme p, hence the generous cap.
	seed := distuv.UnitNormal.Quantile(p)
	var lo, hi float64
	if p > 0.5 {
		lo, hi = 0, math.Max(seed, 1)
		for i := 0; i < 2000; i++ {
			if c, _ := StudentTCDF(hi, df); c >= p {
				break
			}
			hi *= 2
		}
	} else {
		lo, hi = math.Min(seed, -1), 0
		for i := 0; i < 2000; i++ {
			if c, _ := StudentTCDF(lo, df); c <= p {
				break
			}
			lo *= 2
		}
	}

	for i := 0; i < 200; i++ {
		mid := 0.5 * (lo + hi)
		c, err := StudentTCDF(mid, df)
		if err != nil {
			return 0, err
		}
		if c < p {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo <= 1e-12*(1+math.Abs(lo)+math.Abs(hi)) {
			break
		}
	}
	return 0.5 * (lo + hi), nil
}

// gammaSeries evaluates P(a, x) by its power series, valid for x < a+1.
func gammaSeries(a, x float64) float64 {
	ap := a
	sum := 1.0 / a
	del := sum
	for i := 0; i < 500; i++ {
		ap++
		del *= x / ap
		sum += del
		if math.Abs(del) < math.Abs(sum)*1e-16 {
			break
		}
	}
	return sum * math.Exp(-x+a*math.Log(x)-lgamma(a))
}

// gammaContinuedFraction evaluates Q(a, x) = 1 - P(a, x) by its continued
// fraction (modified Lentz), valid for x >= a+1.
func gammaContinuedFraction(a, x float64) float64 {
	const tiny = 1e-300
	b := x + 1 - a
	c := 1 / tiny
	d := 1 / b
	h := d
	for i := 1; i <= 500; i++ {
		an := -float64(i) * (float64(i) - a)
		b += 2
		d = an*d + b
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = b + an/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del
		if math.Abs(del-1) < 1e-16 {
			break
		}
	}
	return math.Exp(-x+a*math.Log(x)-lgamma(a)) * h
}

// regIncompleteBeta evaluates the regularized incomplete beta function
// I_x(a, b) with the continued fraction applied on whichever side of the
// symmetry point converges fastest.
func regIncompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	bt := math.Exp(lgamma(a+b) - lgamma(a) - lgamma(b) + a*math.Log(x) + b*math.Log(1-x))
	if x < (a+1)/(a+b+2) {
		return bt * betaContinuedFraction(a, b, x) / a
	}
	return 1 - bt*betaContinuedFraction(b, a, 1-x)/b
}

// betaContinuedFraction is the modified-Lentz continued fraction for the
// incomplete beta function.
func betaContinuedFraction(a, b, x float64) float64 {
	const tiny = 1e-300
	qab := a + b
	qap := a + 1
	qam := a - 1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d
	for m := 1; m <= 200; m++ {
		m2 := float64(2 * m)
		mf := float64(m)
		aa := mf * (b - mf) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c
		aa = -(a + mf) * (qab + mf) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del
		if math.Abs(del-1) < 3e-16 {
			break
		}
	}
	return h
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}
