package llm

import (
	"math"
	"strings"
)

// Price is USD per one million tokens
type Price struct {
	Input  float64
	Output float64
}

const defaultPriceModel = "gpt-4o-mini"

var priceTable = map[string]Price{
	"gpt-4o":           {Input: 2.50, Output: 10.00},
	"gpt-4o-mini":      {Input: 0.15, Output: 0.60},
	"gpt-4-turbo":      {Input: 10.00, Output: 30.00},
	"gpt-4":            {Input: 30.00, Output: 60.00},
	"gpt-3.5-turbo":    {Input: 0.50, Output: 1.50},
	"gemini-pro":       {Input: 0.125, Output: 0.375},
	"gemini-1.5-pro":   {Input: 1.25, Output: 5.00},
	"gemini-1.5-flash": {Input: 0.075, Output: 0.30},
}

// lookupPrice tries an exact match, then the longest table key contained in the model name
func lookupPrice(model string) (Price, bool) {
	name := strings.ToLower(strings.TrimSpace(model))
	if p, ok := priceTable[name]; ok {
		return p, true
	}

	best := ""
	for key := range priceTable {
		if strings.Contains(name, key) && len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return priceTable[defaultPriceModel], false
	}
	return priceTable[best], true
}

// CalculateCost returns the USD cost of a call, rounded to 6 decimals.
// Unknown models are priced as gpt-4o-mini.
func CalculateCost(model string, inputTokens, outputTokens int) float64 {
	p, _ := lookupPrice(model)
	cost := float64(inputTokens)/1_000_000*p.Input + float64(outputTokens)/1_000_000*p.Output
	return RoundCost(cost)
}

// RoundCost rounds a USD amount to 6 decimals
func RoundCost(cost float64) float64 {
	return math.Round(cost*1e6) / 1e6
}

// EstimateTokens approximates token count as one token per four characters
func EstimateTokens(text string) int {
	return len(text) / 4
}

// EstimateCostFromText prices a call when the provider reported no usage
func EstimateCostFromText(model, input, output string) float64 {
	return CalculateCost(model, EstimateTokens(input), EstimateTokens(output))
}
