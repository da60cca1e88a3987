package cost

import (
	"errors"
	"math"
	"testing"

	"github.com/patrickmn/go-cache"
	"github.com/pkoukk/tiktoken-go"
)

// failingCalculator has no working tokenizer at all, so counting must use
// the character estimate.
func failingCalculator() *Calculator {
	return &Calculator{
		tokenizers: cache.New(cache.NoExpiration, cache.NoExpiration),
		encodingForModel: func(string) (*tiktoken.Tiktoken, error) {
			return nil, errors.New("no encoding")
		},
		getEncoding: func(string) (*tiktoken.Tiktoken, error) {
			return nil, errors.New("no encoding")
		},
	}
}

func TestCountTokensEmptyText(t *testing.T) {
	c := NewCalculator()
	if got := c.CountTokens("", "gpt-4"); got != 0 {
		t.Errorf("CountTokens(empty) = %d, want 0", got)
	}

	// Empty text short-circuits even when no tokenizer exists.
	f := failingCalculator()
	if got := f.CountTokens("", "gpt-4"); got != 0 {
		t.Errorf("CountTokens(empty, no tokenizer) = %d, want 0", got)
	}
}

func TestCountTokensCharacterFallback(t *testing.T) {
	c := failingCalculator()

	tests := []struct {
		text string
		want int
	}{
		{"abcd", 1},
		{"abcdefgh", 2},
		{"abc", 0},
		{"a long sentence with several words in it", 10},
	}
	for _, tt := range tests {
		if got := c.CountTokens(tt.text, "gpt-3.5-turbo"); got != tt.want {
			t.Errorf("CountTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestCountTokensMonotonic(t *testing.T) {
	c := NewCalculator()

	short := c.CountTokens("hello", "gpt-3.5-turbo")
	long := c.CountTokens("hello world, this is a much longer sentence about retrieval", "gpt-3.5-turbo")

	if short <= 0 {
		t.Fatalf("short count = %d, want > 0", short)
	}
	if long <= short {
		t.Errorf("longer text counted %d tokens, short counted %d", long, short)
	}
}

func TestCountTokensUnknownModelUsesFallbackEncoding(t *testing.T) {
	c := NewCalculator()
	known := c.CountTokens("the quick brown fox", "gpt-3.5-turbo")
	unknown := c.CountTokens("the quick brown fox", "my-custom-model-v9")

	if unknown != known {
		t.Errorf("unknown model counted %d, cl100k_base counts %d", unknown, known)
	}
}

func TestGenerationCost(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		name      string
		model     string
		in, out   int
		wantTotal float64
	}{
		{"gpt-4", "gpt-4", 1000, 500, 0.03 + 0.03},
		{"gpt-3.5", "gpt-3.5-turbo", 500, 300, 0.00075 + 0.0006},
		{"unknown model uses default", "llama-99", 1000, 1000, 0.0015 + 0.002},
		{"zero tokens", "gpt-4", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out, total := c.GenerationCost(tt.in, tt.out, tt.model)
			if math.Abs(total-tt.wantTotal) > 1e-12 {
				t.Errorf("total = %v, want %v", total, tt.wantTotal)
			}
			if math.Abs((in+out)-total) > 1e-12 {
				t.Errorf("input %v + output %v != total %v", in, out, total)
			}
		})
	}
}

func TestGenerationCostInputOnlyModel(t *testing.T) {
	c := NewCalculator()

	// An embedding model has no output rate; its input rate is reused.
	in, out, _ := c.GenerationCost(1000, 1000, "text-embedding-ada-002")
	if in != out {
		t.Errorf("input cost %v != output cost %v for input-only model", in, out)
	}
}

func TestEmbeddingCost(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		name   string
		model  string
		tokens int
		want   float64
	}{
		{"ada-002", "text-embedding-ada-002", 1000, 0.0001},
		{"3-small", "text-embedding-3-small", 1000, 0.00002},
		{"unknown model default rate", "some-embedder", 1000, 0.0001},
		{"zero tokens", "text-embedding-ada-002", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.EmbeddingCost(tt.tokens, tt.model); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("EmbeddingCost = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPricingForUnknownModel(t *testing.T) {
	c := NewCalculator()
	p := c.PricingFor("not-a-model")
	if p != defaultPricing {
		t.Errorf("PricingFor(unknown) = %+v, want default %+v", p, defaultPricing)
	}
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		cost float64
		want string
	}{
		{0.00005, "$0.000050"},
		{0.005, "$0.00500"},
		{0.5, "$0.500"},
		{1.234, "$1.234"},
		{0, "$0.000000"},
	}
	for _, tt := range tests {
		if got := FormatCost(tt.cost); got != tt.want {
			t.Errorf("FormatCost(%v) = %q, want %q", tt.cost, got, tt.want)
		}
	}
}
