package llm

import "strings"

// Rate is USD per million input and output tokens.
type Rate struct {
	Input  float64
	Output float64
}

// Cost is the USD cost of one call at this rate.
func (r Rate) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*r.Input + float64(outputTokens)*r.Output) / 1_000_000
}

// rates covers the models the providers resolve by default and their
// common neighbours. Sourced from the vendors' price pages, 2026-09.
var rates = map[string]Rate{
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-haiku-4-5":           {1, 5},
	"claude-3-5-haiku-20241022":  {0.8, 4},
	"claude-3-haiku":             {0.25, 1.25},
	"claude-sonnet-4-20250514":   {3, 15},
	"claude-sonnet-4-5":          {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},
	"claude-opus-4-1":            {15, 75},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5-mini":   {0.25, 2},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.0-pro":        {1.25, 10},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-pro":        {1.25, 10},
}

// aliases resolves the friendly names accepted in config.
var aliases = func() map[string]string {
	m := map[string]string{}
	for _, models := range []map[string]string{anthropicModels, openaiModels, geminiModels} {
		for name, id := range models {
			m[name] = id
		}
	}
	return m
}()

// LookupRate finds the price of a model as recorded in the event log. It
// accepts friendly names, OpenRouter "vendor/model" IDs and Gemini
// "models/" names. OpenRouter ":free" variants cost nothing.
func LookupRate(model string) (Rate, bool) {
	id := strings.ToLower(strings.TrimSpace(model))
	if id == "" {
		return Rate{}, false
	}
	if base, free := strings.CutSuffix(id, ":free"); free {
		return Rate{}, base != ""
	}
	id = strings.TrimPrefix(id, "models/")
	if _, after, ok := strings.Cut(id, "/"); ok {
		id = after
	}
	if full, ok := aliases[id]; ok {
		id = full
	}
	if r, ok := rates[id]; ok {
		return r, true
	}
	// OpenRouter experimental builds are priced like the release.
	if r, ok := rates[strings.TrimSuffix(id, "-exp")]; ok {
		return r, true
	}
	return Rate{}, false
}

// EstimateCost returns the USD cost of a call, and false when the model
// has no known price.
func EstimateCost(model string, inputTokens, outputTokens int) (float64, bool) {
	r, ok := LookupRate(model)
	if !ok {
		return 0, false
	}
	return r.Cost(inputTokens, outputTokens), true
}
