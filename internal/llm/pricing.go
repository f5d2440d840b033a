package llm

import "time"

// ModelPricing is the USD cost per one million tokens.
type ModelPricing struct {
	Input  float64
	Output float64
}

var modelPricing = map[string]ModelPricing{
	"claude-sonnet-4-20250514":   {Input: 3.00, Output: 15.00},
	"claude-3-5-sonnet-20241022": {Input: 3.00, Output: 15.00},
	"claude-3-haiku-20240307":    {Input: 0.25, Output: 1.25},
}

// PricingFor returns the pricing for a model, falling back to the
// most expensive known tier so unknown models overestimate rather
// than underestimate cost.
func PricingFor(model string) ModelPricing {
	if p, ok := modelPricing[model]; ok {
		return p
	}
	return ModelPricing{Input: 3.00, Output: 15.00}
}

// Cost computes the USD cost of a single call's token usage.
func Cost(model string, usage Usage) float64 {
	p := PricingFor(model)
	return float64(usage.InputTokens)/1_000_000*p.Input +
		float64(usage.OutputTokens)/1_000_000*p.Output
}

// UsageStats accumulates token and cost totals across one
// summarization run. It is owned by the run, not shared.
type UsageStats struct {
	TotalInputTokens  int       `json:"total_input_tokens"`
	TotalOutputTokens int       `json:"total_output_tokens"`
	TotalCost         float64   `json:"total_cost_usd"`
	APICalls          int       `json:"api_calls"`
	StartedAt         time.Time `json:"started_at"`
}

func NewUsageStats() *UsageStats {
	return &UsageStats{StartedAt: time.Now().UTC()}
}

// Record adds one call's usage to the running totals.
func (s *UsageStats) Record(model string, usage Usage) {
	s.APICalls++
	s.TotalInputTokens += usage.InputTokens
	s.TotalOutputTokens += usage.OutputTokens
	s.TotalCost += Cost(model, usage)
}
