package strategy

import "lpscout/internal/models"

const (
	regimeVolumeThreshold = 1_000_000
	regimeChangeThreshold = 5
)

// Classify maps 24h volume and percent change to a market regime.
// Both comparisons are strict, so boundary values classify as Ranging.
func Classify(volume24h, priceChange24h float64) models.Regime {
	if volume24h > regimeVolumeThreshold && priceChange24h > regimeChangeThreshold {
		return models.RegimeBull
	}
	if volume24h > regimeVolumeThreshold && priceChange24h < -regimeChangeThreshold {
		return models.RegimeBear
	}
	return models.RegimeRanging
}
