package glicko2

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoConvergence means the volatility iteration was cut off before
// reaching the configured tolerance. The game that produced it can be
// skipped, nothing about the player state is damaged.
var ErrNoConvergence = errors.New("glicko2: volatility iteration did not converge")

const (
	maxBracketSteps = 100
	maxSolverSteps  = 100
)

// newVolatility solves for the post-game volatility with the
// Illinois variant of regula falsi. delta2 and phi2 are the squared
// improvement estimate and squared deviation on the internal scale.
func newVolatility(volatility, delta2, phi2, v float64, cfg Config) (float64, error) {
	lnSigma2 := math.Log(volatility * volatility)
	f := func(x float64) float64 {
		ex := math.Exp(x)
		tmp := phi2 + v + ex
		return ex*(delta2-phi2-v-ex)/(2*tmp*tmp) - (x-lnSigma2)/(cfg.Tau*cfg.Tau)
	}

	a := lnSigma2
	b, err := upperBracket(a, delta2, phi2, v, cfg.Tau, f)
	if err != nil {
		return 0, err
	}

	fa := f(a)
	fb := f(b)
	for i := 0; math.Abs(b-a) > cfg.ConvergenceTolerance; i++ {
		if i == maxSolverSteps {
			return 0, fmt.Errorf("%w after %d steps", ErrNoConvergence, maxSolverSteps)
		}
		c := a + (a-b)*fa/(fb-fa)
		fc := f(c)
		if math.IsNaN(fc) || math.IsInf(fc, 0) {
			return 0, fmt.Errorf("%w: f(%g) is not finite", ErrNoConvergence, c)
		}
		if fc*fb <= 0 {
			a, fa = b, fb
		} else {
			fa /= 2
		}
		b, fb = c, fc
	}
	return math.Exp(a / 2), nil
}

// upperBracket finds the second starting point for the iteration. When
// the improvement outweighs what deviation and variance explain it has
// a closed form, otherwise walk down from a in steps of tau until f
// turns non-negative.
func upperBracket(a, delta2, phi2, v, tau float64, f func(float64) float64) (float64, error) {
	if delta2 > phi2+v {
		return math.Log(delta2 - phi2 - v), nil
	}
	for k := 1.0; ; k++ {
		if k > maxBracketSteps {
			return 0, fmt.Errorf("%w: no sign change within %d bracket steps", ErrNoConvergence, maxBracketSteps)
		}
		x := a - k*tau
		fx := f(x)
		if math.IsNaN(fx) || math.IsInf(fx, 0) {
			return 0, fmt.Errorf("%w: f(%g) is not finite", ErrNoConvergence, x)
		}
		if fx >= 0 {
			return x, nil
		}
	}
}
