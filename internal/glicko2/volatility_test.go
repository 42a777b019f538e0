package glicko2

import (
	"errors"
	"math"
	"testing"
)

func TestNewVolatility(t *testing.T) {
	type args struct {
		volatility float64
		delta2     float64
		phi2       float64
		v          float64
	}
	tests := []struct {
		name string
		args args
		want float64
	}{
		{
			// improvement within what deviation and variance explain,
			// bracket comes from the downward search
			name: "moderate win",
			args: args{
				volatility: 0.06,
				delta2:     2.467640807211,
				phi2:       1.325474417156,
				v:          4.376797309217,
			},
			want: 0.059998657305,
		},
		{
			// surprise result, closed form bracket
			name: "upset",
			args: args{
				volatility: 0.06,
				delta2:     338.142407811872,
				phi2:       0.082842151072,
				v:          19.703650264321,
			},
			want: 0.060010978542,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newVolatility(tt.args.volatility, tt.args.delta2, tt.args.phi2, tt.args.v, DefaultConfig())
			if err != nil {
				t.Fatalf("newVolatility() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-8 {
				t.Errorf("newVolatility() = %v, want %v", got, tt.want)
			}

			// the returned volatility is a root of the optimality
			// condition up to the configured tolerance
			lnSigma2 := math.Log(tt.args.volatility * tt.args.volatility)
			f := func(x float64) float64 {
				ex := math.Exp(x)
				tmp := tt.args.phi2 + tt.args.v + ex
				return ex*(tt.args.delta2-tt.args.phi2-tt.args.v-ex)/(2*tmp*tmp) - (x-lnSigma2)/(0.5*0.5)
			}
			if residual := math.Abs(f(2 * math.Log(got))); residual > 1e-6 {
				t.Errorf("residual = %v, want < 1e-6", residual)
			}
		})
	}
}

func TestNewVolatilityFailure(t *testing.T) {
	tests := []struct {
		name string
		vol  float64
		d2   float64
		cfg  Config
	}{
		{
			name: "unreachable tolerance hits the step cap",
			vol:  0.06,
			d2:   2.467640807211,
			cfg:  Config{Tau: 0.5, ConvergenceTolerance: 0},
		},
		{
			name: "zero volatility, search bracket",
			vol:  0,
			d2:   2.467640807211,
			cfg:  DefaultConfig(),
		},
		{
			name: "zero volatility, closed form bracket",
			vol:  0,
			d2:   10.0,
			cfg:  DefaultConfig(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newVolatility(tt.vol, tt.d2, 1.325474417156, 4.376797309217, tt.cfg)
			if !errors.Is(err, ErrNoConvergence) {
				t.Errorf("newVolatility() error = %v, want ErrNoConvergence", err)
			}
		})
	}
}

// A tiny tau pins volatility to its previous value instead of failing.
func TestNewVolatilityTinyTau(t *testing.T) {
	cfg := Config{Tau: 1e-10, ConvergenceTolerance: 1e-6}

	got, err := newVolatility(0.06, 2.467640807211, 1.325474417156, 4.376797309217, cfg)
	if err != nil {
		t.Fatalf("newVolatility() error = %v", err)
	}
	if math.Abs(got-0.06) > 1e-6 {
		t.Errorf("newVolatility() = %v, want 0.06", got)
	}
}
