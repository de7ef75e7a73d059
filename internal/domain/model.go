package domain

import "github.com/shopspring/decimal"

type AIModel struct {
	ID              string
	Name            string
	OwnedBy         string
	PromptPrice     decimal.Decimal // per 1M tokens
	CompletionPrice decimal.Decimal // per 1M tokens
	ContextLength   int
	Active          bool
}

func (m *AIModel) IsFree() bool {
	return m.PromptPrice.IsZero() && m.CompletionPrice.IsZero()
}

// HasPricing reports whether the provider published prices for the model.
func (m *AIModel) HasPricing() bool {
	return !m.IsFree()
}
