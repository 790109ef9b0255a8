package options

import (
	"fmt"
	"math"

	"github.com/chobie/go-gaussian"
)

// Greeks holds call option sensitivities for a batch of contracts sharing
// one underlying price, expiration and risk-free rate.
type Greeks struct {
	Delta []float64 // Change in value wrt. 1 USD change in underlying
	Gamma []float64 // Change in delta wrt. 1 USD change in underlying
	Theta []float64 // Change in value per calendar day of decay
	Vega  []float64 // Change in value per 1% move in volatility
	Rho   []float64 // Change in value per 1% move in the risk-free rate
}

func newGreeks(n int) Greeks {
	return Greeks{
		Delta: make([]float64, n),
		Gamma: make([]float64, n),
		Theta: make([]float64, n),
		Vega:  make([]float64, n),
		Rho:   make([]float64, n),
	}
}

// CallGreeks computes Black-Scholes call Greeks element-wise over the strike
// and implied volatility arrays. S is the spot price, T the time to expiry
// in years and r the risk-free rate.
//
// If T <= 0 or any volatility is <= 0 the whole batch is degenerate and
// every Greek comes back exactly zero; callers must treat an all-zero result
// as unusable rather than as a real small value. Strike and volatility must
// have the same length; beyond that, garbage in gives garbage out, matching
// the assumptions of the pricing model.
func CallGreeks(S float64, K []float64, T float64, r float64, sigma []float64) (Greeks, error) {
	if len(K) != len(sigma) {
		return Greeks{}, fmt.Errorf("strike/volatility length mismatch: %v != %v", len(K), len(sigma))
	}
	g := newGreeks(len(K))
	if T <= 0 {
		return g, nil
	}
	for i := range sigma {
		if sigma[i] <= 0 {
			return g, nil
		}
	}

	norm := gaussian.NewGaussian(0, 1)
	sqrtT := math.Sqrt(T)
	discount := math.Exp(-r * T)
	for i := range K {
		d1 := (math.Log(S/K[i]) + (r+sigma[i]*sigma[i]/2)*T) / (sigma[i] * sqrtT)
		d2 := d1 - sigma[i]*sqrtT
		nd2 := norm.Cdf(d2)
		pd1 := norm.Pdf(d1)

		g.Delta[i] = norm.Cdf(d1)
		g.Gamma[i] = pd1 / (S * sigma[i] * sqrtT)
		g.Theta[i] = (-S*sigma[i]*pd1/(2*sqrtT) - r*K[i]*discount*nd2) / 365
		g.Vega[i] = S * sqrtT * pd1 / 100
		g.Rho[i] = K[i] * T * discount * nd2 / 100
	}
	return g, nil
}
