package strategy

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"lpscout/internal/models"
)

const (
	// SOLPriceUSD is the fixed conversion used for the second price denomination.
	SOLPriceUSD = 0.1929

	priceBuffer      = 0.075
	minBins          = 10
	maxBins          = 100
	volumePerBinUnit = 1_000_000
	volumePerTx      = 10_000

	poolURLBase = "https://www.meteora.ag/dlmm/"
)

type regimeProfile struct {
	strategyFocus string
	holdTime      string
	riskLevel     string
	distribution  string
	solPercent    int
	tokenPercent  int
}

var profiles = map[models.Regime]regimeProfile{
	models.RegimeRanging: {
		strategyFocus: "Steady fees around price",
		holdTime:      "2-3 days (48-72 hours)",
		riskLevel:     "3-5 (Low-Medium)",
		distribution:  "uniform distribution around current price for balanced, low-IL fee farming",
		solPercent:    100,
		tokenPercent:  0,
	},
	models.RegimeBull: {
		strategyFocus: "Distribute on pumps, capture sell volume",
		holdTime:      "1-2 days (24-48 hours)",
		riskLevel:     "7-8 (Medium-High)",
		distribution:  "liquidity skewed to the range edges to sell into strength",
		solPercent:    80,
		tokenPercent:  20,
	},
	models.RegimeBear: {
		strategyFocus: "Accumulate on dips, capture buy volume",
		holdTime:      "2-4 days (48-96 hours)",
		riskLevel:     "5-6 (Medium)",
		distribution:  "liquidity skewed to the range edges to buy into weakness",
		solPercent:    80,
		tokenPercent:  20,
	},
}

// Derive builds an LP strategy recommendation for a pool snapshot.
// It is pure: the same input always yields the same output and p is not modified.
func Derive(p models.Pool) models.Recommendation {
	price := ParseLenient(p.Price)
	volume := finiteOrZero(p.Volume24h)
	change := finiteOrZero(p.PriceChange24h)
	liquidity := ParseGrouped(p.Liquidity)

	regime := Classify(volume, change)
	profile := profiles[regime]

	txCount := int64(0)
	if volume > 0 {
		txCount = int64(math.Floor(volume / volumePerTx))
	}

	pr := priceRange(price)
	numBins := binCount(volume)
	binStep := (pr.MaxUSD - pr.MinUSD) / float64(numBins) * 100

	best := models.StrategyBidAsk
	if regime == models.RegimeRanging {
		best = models.StrategySpot
	}

	rec := models.Recommendation{
		Regime:           regime,
		Narrative:        narrative(regime, p.Name, p.Address, liquidity, volume, price, change, txCount),
		AssetAllocation:  allocation(regime, profile, p.Name),
		Volatility:       math.Abs(change) / 100,
		TransactionCount: txCount,
		StrategyCard: models.StrategyCard{
			Regime:     regime,
			PriceRange: pr,
			PriceRangeSpread: fmt.Sprintf("$%s - $%s USD (%s - %s SOL)",
				FormatFixed(pr.MinUSD, 6), FormatFixed(pr.MaxUSD, 6),
				FormatFixed(pr.MinSOL, 6), FormatFixed(pr.MaxSOL, 6)),
			NumBins:       numBins,
			BinStep:       binStep,
			BestStrategy:  best,
			StrategyFocus: profile.strategyFocus,
			HoldTime:      profile.holdTime,
			RiskLevel:     profile.riskLevel,
		},
		PoolURL: poolURL(p.Address, numBins, best),
	}
	rec.Guide = guide(rec, profile, p.Name)
	return rec
}

func priceRange(price float64) models.PriceRange {
	minUSD := price * (1 - priceBuffer)
	maxUSD := price * (1 + priceBuffer)
	return models.PriceRange{
		MinUSD:    minUSD,
		MaxUSD:    maxUSD,
		MinSOL:    minUSD / SOLPriceUSD,
		MaxSOL:    maxUSD / SOLPriceUSD,
		CenterUSD: price,
		CenterSOL: price / SOLPriceUSD,
	}
}

// binCount scales with volume: one bin per 100k of 24h volume, within [10, 100].
func binCount(volume float64) int {
	bins := math.Floor(volume / volumePerBinUnit * 10)
	if bins == 0 || math.IsNaN(bins) {
		bins = minBins
	}
	if bins < minBins {
		bins = minBins
	}
	if bins > maxBins {
		bins = maxBins
	}
	return int(bins)
}

func shortAddress(addr string) string {
	r := []rune(addr)
	if len(r) > 10 {
		r = r[:10]
	}
	return string(r) + "..."
}

func narrative(regime models.Regime, name, address string, liquidity, volume, price, change float64, txCount int64) string {
	head := fmt.Sprintf("%s (%s)", name, shortAddress(address))
	priceText := fmt.Sprintf("$%s USD (%s SOL)", FormatFixed(price, 6), FormatFixed(price/SOLPriceUSD, 6))
	switch regime {
	case models.RegimeBull:
		return fmt.Sprintf("%s shows strong momentum with high liquidity ($%s pooled) and surging 24h volume ($%s). "+
			"The price at %s is up %s%%, signaling a bull market for aggressive plays.",
			head, FormatGrouped(liquidity), FormatGrouped(volume), priceText, FormatFixed(change, 2))
	case models.RegimeBear:
		return fmt.Sprintf("%s is experiencing a downturn with solid liquidity ($%s pooled) and 24h volume ($%s). "+
			"The price at %s is down %s%%, indicating a bear market for accumulation strategies.",
			head, FormatGrouped(liquidity), FormatGrouped(volume), priceText, FormatFixed(math.Abs(change), 2))
	default:
		half := txCount / 2
		return fmt.Sprintf("%s is a mature token with strong liquidity ($%s pooled) and consistent 24h volume ($%s, "+
			"balanced buys/sells: ~%d buys vs. ~%d sells). The price is stable around %s, "+
			"showing no major moves (24h change: %s%%), indicative of a ranging market favoring steady fee capture.",
			head, FormatGrouped(liquidity), FormatGrouped(volume), half, half, priceText, FormatFixed(change, 2))
	}
}

func allocation(regime models.Regime, profile regimeProfile, name string) []models.Allocation {
	market := strings.ToLower(string(regime))
	later := profile.tokenPercent
	if later <= 0 {
		later = 20
	}
	return []models.Allocation{
		{
			Asset:   "SOL (Single-Sided)",
			Percent: profile.solPercent,
			Rationale: fmt.Sprintf("Avoids holding volatile %s; earns fees on both buys/sells. "+
				"DCA into token on dips via bin swaps. Ideal for %s markets per LP community strategies.", name, market),
		},
		{
			Asset:     name,
			Percent:   profile.tokenPercent,
			Rationale: fmt.Sprintf("High IL/rug risk in %s conditions; focus on SOL for hedge. Add %d%% later if bullish via swap.", market, later),
		},
	}
}

func guide(rec models.Recommendation, profile regimeProfile, name string) []models.GuideStep {
	card := rec.StrategyCard
	pr := card.PriceRange
	market := strings.ToLower(string(rec.Regime))
	holdWindow, _, _ := strings.Cut(card.HoldTime, " ")
	return []models.GuideStep{
		{
			Title: "Volatility Strategy",
			Text:  fmt.Sprintf("%s (%s in %s markets).", card.BestStrategy, profile.distribution, market),
		},
		{
			Title: "Price Range",
			Text: fmt.Sprintf("Min $%s USD (%s SOL) (-7.5%% buffer for minor dips), Max $%s USD (%s SOL) (+7.5%% buffer for minor pumps). "+
				"This ~15%% spread centers on $%s USD (%s SOL), capturing typical 24h fluctuations.",
				FormatFixed(pr.MinUSD, 6), FormatFixed(pr.MinSOL, 6), FormatFixed(pr.MaxUSD, 6), FormatFixed(pr.MaxSOL, 6),
				FormatFixed(pr.CenterUSD, 6), FormatFixed(pr.CenterSOL, 6)),
		},
		{
			Title: "Num Bins",
			Text:  fmt.Sprintf("%d (moderate width: ~%s%% per bin step; balances fee density with coverage).", card.NumBins, FormatFixed(card.BinStep, 2)),
		},
		{
			Title: "Enter in Meteora",
			Text: fmt.Sprintf("Select: %s. Min Price: %s (%s/SOL, adjust if UI shows different base). Max Price: %s. Num Bins: %d.",
				card.BestStrategy, FormatFixed(pr.MinSOL, 6), name, FormatFixed(pr.MaxSOL, 6), card.NumBins),
		},
		{
			Title: "Monitor",
			Text: fmt.Sprintf("Via app.meteora.ag; rebalance if price breaks range (e.g., add bins downward on dips). "+
				"Expected fees: 10-20%% ROI in %s on this volume, compounding via reinvest.", holdWindow),
		},
	}
}

func poolURL(address string, numBins int, best string) string {
	q := url.Values{}
	q.Set("bins", strconv.Itoa(numBins))
	q.Set("strategy", best)
	return poolURLBase + url.PathEscape(address) + "?" + q.Encode()
}
