package llm

// Price is USD per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// Cost is the USD cost of one request.
func (p Price) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / 1_000_000
}

// PriceOf returns the list price of a resolved model ID. Unknown models,
// including anything behind a custom base URL, report ok=false.
func PriceOf(model string) (Price, bool) {
	p, ok := prices[model]
	return p, ok
}

// prices covers the models the coach aliases resolve to and their
// nearest siblings.
var prices = map[string]Price{
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-haiku-4-5":          {1, 5},
	"claude-sonnet-4-20250514":  {3, 15},
	"claude-sonnet-4-5":         {3, 15},

	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4o":       {2.5, 10},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},

	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
	"gemini-2.0-flash":      {0.1, 0.4},
}
