package stats

import (
	"errors"
	"math"
	"testing"
)

const probTol = 1e-6

func TestStudentTCDFAgainstClosedForms(t *testing.T) {
	// df=1 is the Cauchy distribution: CDF(t) = 1/2 + atan(t)/pi.
	for _, x := range []float64{-2.2, -0.5, 0, 0.7, 1.5, 4} {
		got, err := StudentTCDF(x, 1)
		if err != nil {
			t.Fatalf("StudentTCDF(%v, 1): %v", x, err)
		}
		want := 0.5 + math.Atan(x)/math.Pi
		if math.Abs(got-want) > probTol {
			t.Errorf("StudentTCDF(%v, 1) = %v, want %v", x, got, want)
		}
	}

	// df=2 has the closed form 1/2 + t / (2*sqrt(2)*sqrt(1+t^2/2)).
	got, err := StudentTCDF(1.2, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := 0.5 + 1.2/(2*math.Sqrt2*math.Sqrt(1+1.2*1.2/2))
	if math.Abs(got-want) > probTol {
		t.Errorf("StudentTCDF(1.2, 2) = %v, want %v", got, want)
	}

	// Large df converges to the standard normal.
	got, err = StudentTCDF(2, 1e6)
	if err != nil {
		t.Fatal(err)
	}
	want = NormalCDF(2)
	if math.Abs(got-want) > 1e-5 {
		t.Errorf("StudentTCDF(2, 1e6) = %v, want normal %v", got, want)
	}
}

func TestStudentTCDFKnownValue(t *testing.T) {
	got, err := StudentTCDF(2.0, 7)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-0.957190335718512) > probTol {
		t.Errorf("StudentTCDF(2, 7) = %v, want 0.9571903", got)
	}
	if v, _ := StudentTCDF(0, 12); v != 0.5 {
		t.Errorf("StudentTCDF(0, 12) = %v, want 0.5", v)
	}
}

func TestStudentTCDFSymmetry(t *testing.T) {
	for _, df := range []float64{1, 3, 9, 40} {
		for _, x := range []float64{0.3, 1, 2.5} {
			up, _ := StudentTCDF(x, df)
			down, _ := StudentTCDF(-x, df)
			if math.Abs(up+down-1) > probTol {
				t.Errorf("CDF(%v,%v)+CDF(-%v,%v) = %v, want 1", x, df, x, df, up+down)
			}
		}
	}
}

func TestChiSquareCDFAgainstClosedForms(t *testing.T) {
	// df=2 is exponential with rate 1/2: CDF(x) = 1 - exp(-x/2).
	for _, x := range []float64{0.1, 1, 3, 10} {
		got, err := ChiSquareCDF(x, 2)
		if err != nil {
			t.Fatalf("ChiSquareCDF(%v, 2): %v", x, err)
		}
		want := 1 - math.Exp(-x/2)
		if math.Abs(got-want) > probTol {
			t.Errorf("ChiSquareCDF(%v, 2) = %v, want %v", x, got, want)
		}
	}

	got, err := ChiSquareCDF(5, 3)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-0.8282028557032666) > probTol {
		t.Errorf("ChiSquareCDF(5, 3) = %v, want 0.8282029", got)
	}

	if v, _ := ChiSquareCDF(0, 4); v != 0 {
		t.Errorf("ChiSquareCDF(0, 4) = %v, want 0", v)
	}
	if v, _ := ChiSquareCDF(-1, 4); v != 0 {
		t.Errorf("ChiSquareCDF(-1, 4) = %v, want 0", v)
	}
}

func TestIncompleteGammaPIdentities(t *testing.T) {
	// P(1/2, x) = erf(sqrt(x)).
	for _, x := range []float64{0.05, 0.3, 1, 4} {
		got, err := IncompleteGammaP(0.5, x)
		if err != nil {
			t.Fatal(err)
		}
		want := math.Erf(math.Sqrt(x))
		if math.Abs(got-want) > probTol {
			t.Errorf("P(0.5, %v) = %v, want erf %v", x, got, want)
		}
	}

	// P(1, x) = 1 - exp(-x).
	for _, x := range []float64{0.2, 1.5, 8} {
		got, err := IncompleteGammaP(1, x)
		if err != nil {
			t.Fatal(err)
		}
		want := 1 - math.Exp(-x)
		if math.Abs(got-want) > probTol {
			t.Errorf("P(1, %v) = %v, want %v", x, got, want)
		}
	}

	if v, err := IncompleteGammaP(2.5, 0); err != nil || v != 0 {
		t.Errorf("P(2.5, 0) = %v, %v; want 0, nil", v, err)
	}
}

func TestInverseTQuantileRoundTrip(t *testing.T) {
	for _, df := range []float64{1, 2, 5, 9, 30, 120} {
		for _, p := range []float64{0.01, 0.05, 0.25, 0.5, 0.9, 0.975, 0.999} {
			q, err := InverseTQuantile(p, df)
			if err != nil {
				t.Fatalf("InverseTQuantile(%v, %v): %v", p, df, err)
			}
			back, err := StudentTCDF(q, df)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(back-p) > probTol {
				t.Errorf("CDF(InvCDF(%v, df=%v)) = %v", p, df, back)
			}
		}
	}
}

func TestInverseTQuantileKnownValues(t *testing.T) {
	// Standard table values.
	cases := []struct {
		p, df, want float64
	}{
		{0.975, 7, 2.364624252},
		{0.975, 9, 2.262157163},
		{0.5, 11, 0},
	}
	for _, tc := range cases {
		got, err := InverseTQuantile(tc.p, tc.df)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("InverseTQuantile(%v, %v) = %v, want %v", tc.p, tc.df, got, tc.want)
		}
	}
}

func TestDistributionParameterValidation(t *testing.T) {
	if _, err := StudentTCDF(1, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("StudentTCDF df=0: got %v, want ErrInvalidParameter", err)
	}
	if _, err := ChiSquareCDF(1, -3); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("ChiSquareCDF df=-3: got %v, want ErrInvalidParameter", err)
	}
	if _, err := IncompleteGammaP(0, 1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("IncompleteGammaP a=0: got %v, want ErrInvalidParameter", err)
	}
	if _, err := IncompleteGammaP(1, -1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("IncompleteGammaP x=-1: got %v, want ErrInvalidParameter", err)
	}
	if _, err := InverseTQuantile(0, 5); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("InverseTQuantile p=0: got %v, want ErrInvalidParameter", err)
	}
	if _, err := InverseTQuantile(1, 5); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("InverseTQuantile p=1: got %v, want ErrInvalidParameter", err)
	}
	if _, err := InverseTQuantile(0.5, -1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("InverseTQuantile df=-1: got %v, want ErrInvalidParameter", err)
	}
}
