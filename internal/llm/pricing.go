package llm

import "strings"

// usdToEUR is the fixed conversion rate applied to provider prices.
const usdToEUR = 0.92

// modelPrice is the USD price per one million tokens.
type modelPrice struct {
	Input  float64
	Output float64
}

var modelPrices = map[string]modelPrice{
	"gpt-4o":      {Input: 2.50, Output: 10.00},
	"gpt-4o-mini": {Input: 0.15, Output: 0.60},
	"gpt-4-turbo": {Input: 10.00, Output: 30.00},
}

const fallbackPriceModel = "gpt-4o-mini"

// EstimateCost returns the estimated cost in EUR of a call. Dated model
// variants match their base name; unknown models are priced as gpt-4o-mini.
func EstimateCost(model string, promptTokens, completionTokens int) float64 {
	price := priceFor(model)
	usd := float64(promptTokens)/1_000_000*price.Input + float64(completionTokens)/1_000_000*price.Output
	return usd * usdToEUR
}

func priceFor(model string) modelPrice {
	model = strings.ToLower(model)
	best := ""
	for name := range modelPrices {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		best = fallbackPriceModel
	}
	return modelPrices[best]
}
