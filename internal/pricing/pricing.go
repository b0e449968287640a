// Package pricing estimates the USD cost of API calls from token counts.
// Prices are per million tokens; cache writes and reads are billed as
// multiples of the input price.
package pricing

import "strings"

// Cache token multipliers applied to the input price.
const (
	CacheWriteMultiplier = 1.25
	CacheReadMultiplier  = 0.1
)

// ModelPricing holds per-million-token prices for one model family.
type ModelPricing struct {
	Name          string
	InputPerMTok  float64
	OutputPerMTok float64

	// matchers are lowercase substrings tried against the raw model
	// identifier. Identifiers embed version and date suffixes, so matching
	// is substring-based rather than exact.
	matchers []string
}

// DefaultModel is the pricing applied when a model identifier matches
// nothing in the table. Estimating at sonnet rates beats erroring out of
// the whole aggregation over one unknown identifier.
const DefaultModel = "claude-sonnet"

// pricingTable is ordered most-specific first; the first matcher hit wins.
var pricingTable = []ModelPricing{
	{
		Name: "claude-opus-4-5", InputPerMTok: 5.00, OutputPerMTok: 25.00,
		matchers: []string{"opus-4-5", "opus-4-6"},
	},
	{
		Name: "claude-opus", InputPerMTok: 15.00, OutputPerMTok: 75.00,
		matchers: []string{"opus"},
	},
	{
		Name: "claude-haiku-4-5", InputPerMTok: 1.00, OutputPerMTok: 5.00,
		matchers: []string{"haiku-4-5", "4-5-haiku"},
	},
	{
		Name: "claude-haiku-3-5", InputPerMTok: 0.80, OutputPerMTok: 4.00,
		matchers: []string{"haiku-3-5", "3-5-haiku"},
	},
	{
		Name: "claude-haiku", InputPerMTok: 0.25, OutputPerMTok: 1.25,
		matchers: []string{"haiku"},
	},
	{
		Name: "claude-sonnet", InputPerMTok: 3.00, OutputPerMTok: 15.00,
		matchers: []string{"sonnet"},
	},
}

// Lookup returns the pricing for a model identifier. Unknown identifiers
// fall back to DefaultModel pricing rather than failing.
func Lookup(model string) ModelPricing {
	lower := strings.ToLower(model)
	for _, p := range pricingTable {
		for _, m := range p.matchers {
			if strings.Contains(lower, m) {
				return p
			}
		}
	}
	for _, p := range pricingTable {
		if p.Name == DefaultModel {
			return p
		}
	}
	return pricingTable[len(pricingTable)-1]
}

// Estimate computes the cost in USD for one API call. Ephemeral 5m/1h cache
// sub-counts are priced identically to cache creation, so callers pass the
// total cache-creation count.
func Estimate(model string, inputTokens, outputTokens, cacheCreationTokens, cacheReadTokens int64) float64 {
	p := Lookup(model)

	cost := float64(inputTokens) * p.InputPerMTok / 1_000_000
	cost += float64(outputTokens) * p.OutputPerMTok / 1_000_000
	cost += float64(cacheCreationTokens) * p.InputPerMTok * CacheWriteMultiplier / 1_000_000
	cost += float64(cacheReadTokens) * p.InputPerMTok * CacheReadMultiplier / 1_000_000

	return cost
}

// Override replaces the base prices for every table entry whose name
// matches. Nil fields leave the corresponding price untouched.
type Override struct {
	InputPerMTok  *float64
	OutputPerMTok *float64
}

// ApplyOverrides folds user-configured prices into the table.
func ApplyOverrides(overrides map[string]Override) {
	for name, o := range overrides {
		for i := range pricingTable {
			if pricingTable[i].Name != name {
				continue
			}
			if o.InputPerMTok != nil {
				pricingTable[i].InputPerMTok = *o.InputPerMTok
			}
			if o.OutputPerMTok != nil {
				pricingTable[i].OutputPerMTok = *o.OutputPerMTok
			}
		}
	}
}
