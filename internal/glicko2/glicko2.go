package glicko2

import (
	"fmt"
	"math"
)

// ratingScale converts between the public 1500-centered scale and the
// internal one: 400*ln(10)/pi.
const ratingScale = 173.7178

const (
	defaultRating     = 1500
	defaultDeviation  = 350
	defaultVolatility = 0.06
)

type Rating struct {
	Rating     float64
	Deviation  float64
	Volatility float64
}

// NewRating returns the rating of an unrated player.
func NewRating() Rating {
	return Rating{
		Rating:     defaultRating,
		Deviation:  defaultDeviation,
		Volatility: defaultVolatility,
	}
}

type Interval struct {
	Min float64
	Max float64
}

// Interval is the 95% confidence interval: rating +- 2 deviations.
func (r Rating) Interval() Interval {
	return Interval{
		Min: r.Rating - 2*r.Deviation,
		Max: r.Rating + 2*r.Deviation,
	}
}

type Config struct {
	// Tau limits how fast volatility can change. Reasonable values
	// are between 0.3 and 1.2.
	Tau                  float64
	ConvergenceTolerance float64
}

func DefaultConfig() Config {
	return Config{
		Tau:                  0.5,
		ConvergenceTolerance: 1e-6,
	}
}

// Result is one game against Opponent scored from the player's side:
// 1 win, 0 loss, 0.5 draw, or anything in between.
type Result struct {
	Opponent Rating
	Score    float64
}

// Update rates a single game between a and b, scored from a's side.
// Both new ratings are computed from the pre-game states. Inputs are
// not modified. If the volatility solver fails for either side no
// update is returned.
func Update(a, b Rating, score float64, cfg Config) (Rating, Rating, error) {
	newA, err := UpdatePeriod(a, []Result{{Opponent: b, Score: score}}, cfg)
	if err != nil {
		return Rating{}, Rating{}, fmt.Errorf("player one: %w", err)
	}
	newB, err := UpdatePeriod(b, []Result{{Opponent: a, Score: 1 - score}}, cfg)
	if err != nil {
		return Rating{}, Rating{}, fmt.Errorf("player two: %w", err)
	}
	return newA, newB, nil
}

// UpdatePeriod rates one rating period of games for p, the canonical
// multi-game form of the algorithm. With no results the deviation
// grows by the volatility and everything else is unchanged.
func UpdatePeriod(p Rating, results []Result, cfg Config) (Rating, error) {
	mu, phi := toInternal(p)
	if len(results) == 0 {
		return Rating{
			Rating:     p.Rating,
			Deviation:  math.Hypot(phi, p.Volatility) * ratingScale,
			Volatility: p.Volatility,
		}, nil
	}

	var invV, outcomes float64
	for _, res := range results {
		muj, phij := toInternal(res.Opponent)
		gj := g(phij)
		ej := expect(mu, muj, gj)
		invV += gj * gj * ej * (1 - ej)
		outcomes += gj * (res.Score - ej)
	}
	v := 1 / invV
	delta := v * outcomes

	volatility, err := newVolatility(p.Volatility, delta*delta, phi*phi, v, cfg)
	if err != nil {
		return Rating{}, err
	}

	phiStar := math.Hypot(phi, volatility)
	phiNew := 1 / math.Sqrt(1/(phiStar*phiStar)+1/v)
	muNew := mu + phiNew*phiNew*outcomes

	return fromInternal(muNew, phiNew, volatility), nil
}

func toInternal(r Rating) (mu, phi float64) {
	return (r.Rating - defaultRating) / ratingScale, r.Deviation / ratingScale
}

func fromInternal(mu, phi, volatility float64) Rating {
	return Rating{
		Rating:     mu*ratingScale + defaultRating,
		Deviation:  phi * ratingScale,
		Volatility: volatility,
	}
}

// g dampens the impact of a game by the opponent's deviation.
func g(phi float64) float64 {
	return 1 / math.Sqrt(1+3*phi*phi/(math.Pi*math.Pi))
}

// expect is the expected score of mu against muj.
func expect(mu, muj, g float64) float64 {
	return 1 / (1 + math.Exp(-g*(mu-muj)))
}
