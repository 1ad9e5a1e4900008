package service

import (
	"context"
	"math/rand"

	"lpscout/internal/models"
)

// HistoricalPriceProvider supplies the 24h-ago baseline used for priceChange24h.
// A zero result means no baseline is known.
type HistoricalPriceProvider interface {
	HistoricalPrice(ctx context.Context, pool models.RawPool) float64
}

// RandomDiscountHistory simulates a baseline as current * (1 - rand*MaxDiscount).
// Placeholder baseline: the output carries no market signal.
type RandomDiscountHistory struct {
	MaxDiscount float64
	Rand        func() float64
}

func (h RandomDiscountHistory) HistoricalPrice(_ context.Context, pool models.RawPool) float64 {
	current := pool.CurrentPrice.OrZero()
	if current == 0 {
		return 0
	}
	discount := h.MaxDiscount
	if discount <= 0 {
		discount = 0.1
	}
	rnd := h.Rand
	if rnd == nil {
		rnd = rand.Float64
	}
	return current * (1 - rnd()*discount)
}

// StaticHistory returns current * Ratio, making priceChange24h fixed per pool.
type StaticHistory struct {
	Ratio float64
}

func (h StaticHistory) HistoricalPrice(_ context.Context, pool models.RawPool) float64 {
	return pool.CurrentPrice.OrZero() * h.Ratio
}
