package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostKnownModel(t *testing.T) {
	// 1M input at $0.25 plus 1M output at $1.25.
	cost := Cost("claude-3-haiku-20240307", Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000})
	assert.InDelta(t, 1.50, cost, 1e-9)
}

func TestCostUnknownModelUsesFallbackTier(t *testing.T) {
	cost := Cost("some-future-model", Usage{InputTokens: 1_000_000})
	assert.InDelta(t, 3.00, cost, 1e-9)
}

func TestUsageStatsRecord(t *testing.T) {
	stats := NewUsageStats()
	stats.Record("claude-sonnet-4-20250514", Usage{InputTokens: 10_000, OutputTokens: 2_000})
	stats.Record("claude-sonnet-4-20250514", Usage{InputTokens: 5_000, OutputTokens: 1_000})

	assert.Equal(t, 2, stats.APICalls)
	assert.Equal(t, 15_000, stats.TotalInputTokens)
	assert.Equal(t, 3_000, stats.TotalOutputTokens)
	// 15k input at $3/M plus 3k output at $15/M.
	assert.InDelta(t, 0.045+0.045, stats.TotalCost, 1e-9)
	assert.False(t, stats.StartedAt.IsZero())
}
