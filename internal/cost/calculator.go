// Package cost tracks what an analysis run spends on external APIs.
// Totals are logged per run; they are never part of the persisted
// analysis record.
package cost

import "sync"

// Rates holds per-provider pricing configuration.
type Rates struct {
	Gemini map[string]ModelRate `yaml:"gemini" mapstructure:"gemini"`
	Search SearchRate           `yaml:"search" mapstructure:"search"`
}

// ModelRate holds per-model token pricing (USD per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// SearchRate holds Custom Search pricing (USD per thousand queries).
type SearchRate struct {
	PerThousand float64 `yaml:"per_thousand" mapstructure:"per_thousand"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Gemini computes the cost of a generation call. Unknown models cost 0.
func (c *Calculator) Gemini(model string, input, output int) float64 {
	rate, ok := c.rates.Gemini[model]
	if !ok {
		return 0
	}
	return (float64(input)/1e6)*rate.Input + (float64(output)/1e6)*rate.Output
}

// SearchQueries computes the cost of n Custom Search queries.
func (c *Calculator) SearchQueries(n int) float64 {
	return float64(n) / 1000 * c.rates.Search.PerThousand
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		Gemini: map[string]ModelRate{
			"gemini-2.5-pro-preview-05-06": {Input: 1.25, Output: 10.00},
		},
		Search: SearchRate{PerThousand: 5.00},
	}
}

// Summary is the accumulated spend of one analysis run.
type Summary struct {
	LLMCalls      int
	InputTokens   int
	OutputTokens  int
	SearchQueries int
	TotalUSD      float64
}

// Tracker accumulates usage for a single run. Safe for concurrent use; a nil
// Tracker discards everything, so callers that don't account costs can pass
// nil instead of a throwaway instance.
type Tracker struct {
	mu   sync.Mutex
	calc *Calculator
	sum  Summary
}

// NewTracker creates a Tracker backed by the given calculator.
func NewTracker(calc *Calculator) *Tracker {
	return &Tracker{calc: calc}
}

// AddGeneration records one LLM call and its token usage.
func (t *Tracker) AddGeneration(model string, input, output int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sum.LLMCalls++
	t.sum.InputTokens += input
	t.sum.OutputTokens += output
	t.sum.TotalUSD += t.calc.Gemini(model, input, output)
}

// AddSearches records n Custom Search queries.
func (t *Tracker) AddSearches(n int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sum.SearchQueries += n
	t.sum.TotalUSD += t.calc.SearchQueries(n)
}

// Summary returns the accumulated totals.
func (t *Tracker) Summary() Summary {
	if t == nil {
		return Summary{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sum
}
