package llm

import "strings"

// modelPrice is USD per million tokens.
type modelPrice struct {
	input  float64
	output float64
}

// Prices are matched by model-name prefix, longest prefix first at lookup.
// Unknown models cost zero; the cost column is reporting, not billing.
var modelPrices = map[string]modelPrice{
	"gpt-4o-mini":                 {input: 0.15, output: 0.60},
	"gpt-4o":                      {input: 2.50, output: 10.00},
	"gpt-4.1-mini":                {input: 0.40, output: 1.60},
	"gpt-4.1":                     {input: 2.00, output: 8.00},
	"llama-3.3-70b":               {input: 0.59, output: 0.79},
	"llama-3.1-8b":                {input: 0.05, output: 0.08},
	"anthropic/claude-3.5-sonnet": {input: 3.00, output: 15.00},
}

func estimateCost(model string, inputTokens, outputTokens int) float64 {
	var best string
	for prefix := range modelPrices {
		if strings.HasPrefix(model, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return 0
	}
	price := modelPrices[best]
	return (float64(inputTokens)*price.input + float64(outputTokens)*price.output) / 1_000_000
}
