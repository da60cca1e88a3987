package cost

import (
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// Calculator does deterministic token counting and pricing for LLM
// operations. Tokenizers are loaded lazily per model and cached for the
// life of the process.
type Calculator struct {
	tokenizers *cache.Cache

	// Indirection over tiktoken so tests can force the character fallback.
	encodingForModel func(model string) (*tiktoken.Tiktoken, error)
	getEncoding      func(name string) (*tiktoken.Tiktoken, error)
}

func NewCalculator() *Calculator {
	return &Calculator{
		tokenizers:       cache.New(cache.NoExpiration, cache.NoExpiration),
		encodingForModel: tiktoken.EncodingForModel,
		getEncoding:      tiktoken.GetEncoding,
	}
}

func (c *Calculator) tokenizer(model string) (*tiktoken.Tiktoken, error) {
	if x, found := c.tokenizers.Get(model); found {
		return x.(*tiktoken.Tiktoken), nil
	}

	tk, err := c.encodingForModel(model)
	if err != nil {
		// Unknown model: fall back to the encoding GPT-4/GPT-3.5 use.
		tk, err = c.getEncoding(fallbackEncoding)
		if err != nil {
			return nil, err
		}
	}

	c.tokenizers.Set(model, tk, cache.NoExpiration)
	return tk, nil
}

// CountTokens counts tokens in text using the model's tokenizer. Empty
// text is 0 without touching a tokenizer. If no tokenizer can be loaded
// at all, the count degrades to the rough 1-token-per-4-characters
// estimate, rounded down.
func (c *Calculator) CountTokens(text, model string) int {
	if text == "" {
		return 0
	}

	tk, err := c.tokenizer(model)
	if err != nil {
		return len(text) / 4
	}
	return len(tk.Encode(text, nil, nil))
}

// EmbeddingCost prices an embedding call. An unknown model falls back to
// a fixed default input rate.
func (c *Calculator) EmbeddingCost(numTokens int, model string) float64 {
	costPer1K := defaultEmbeddingInput
	if p, ok := pricing[model]; ok {
		costPer1K = p.Input
	}
	return float64(numTokens) / 1000 * costPer1K
}

// GenerationCost prices an LLM generation and returns
// (inputCost, outputCost, totalCost). A model priced only for input (an
// embedding model misused for generation) reuses its input rate for
// output.
func (c *Calculator) GenerationCost(inputTokens, outputTokens int, model string) (float64, float64, float64) {
	p := c.PricingFor(model)

	inputCost := float64(inputTokens) / 1000 * p.Input
	outputCost := float64(outputTokens) / 1000 * p.Output
	return inputCost, outputCost, inputCost + outputCost
}

// PricingFor looks the model up in the static price table, exact match
// only. Unknown models get the default pair.
func (c *Calculator) PricingFor(model string) Pricing {
	p, ok := pricing[model]
	if !ok {
		return defaultPricing
	}
	if !p.HasOutput {
		p.Output = p.Input
		p.HasOutput = true
	}
	return p
}

// FormatCost renders a cost with tiered precision so sub-cent amounts
// stay readable.
func FormatCost(cost float64) string {
	switch {
	case cost < 0.0001:
		return fmt.Sprintf("$%.6f", cost)
	case cost < 0.01:
		return fmt.Sprintf("$%.5f", cost)
	default:
		return fmt.Sprintf("$%.3f", cost)
	}
}
