package cost

// Pricing is USD per 1000 tokens. Models without a published output rate
// (embedding models) leave Output at zero and clear HasOutput.
type Pricing struct {
	Input     float64
	Output    float64
	HasOutput bool
}

// pricing mirrors the OpenAI price list this tool was calibrated against.
// Lookups are exact-match only; an unknown model gets defaultPricing, never
// a closest match.
var pricing = map[string]Pricing{
	"gpt-4":                  {Input: 0.03, Output: 0.06, HasOutput: true},
	"gpt-4-turbo-preview":    {Input: 0.01, Output: 0.03, HasOutput: true},
	"gpt-4-32k":              {Input: 0.06, Output: 0.12, HasOutput: true},
	"gpt-3.5-turbo":          {Input: 0.0015, Output: 0.002, HasOutput: true},
	"gpt-3.5-turbo-16k":      {Input: 0.003, Output: 0.004, HasOutput: true},
	"text-embedding-ada-002": {Input: 0.0001},
	"text-embedding-3-small": {Input: 0.00002},
	"text-embedding-3-large": {Input: 0.00013},
}

// defaultPricing is the GPT-3.5 baseline applied to unknown models.
var defaultPricing = Pricing{Input: 0.0015, Output: 0.002, HasOutput: true}

// defaultEmbeddingInput is the fallback input rate for embedding cost when
// the model is not in the table.
const defaultEmbeddingInput = 0.0001
