package lpctl

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"lpscout/internal/models"
	"lpscout/internal/strategy"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func WriteJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// PriceCell renders the price with its signed 24h change, e.g. "$1.500000 +8.00%".
func PriceCell(p models.Pool) string {
	price := p.Price
	if price != models.NotAvailable {
		price = "$" + strategy.FormatFixed(strategy.ParseLenient(price), 6)
	}
	sign := ""
	if p.PriceChange24h >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s %s%s%%", price, sign, strategy.FormatFixed(p.PriceChange24h, 2))
}

// RenderPools writes the pool table, one row per cached pool.
func RenderPools(w io.Writer, pools []models.Pool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tADDRESS\tPRICE\tVOLUME 24H\tLIQUIDITY\tSTRATEGY")
	for _, p := range pools {
		rec := strategy.Derive(p)
		fmt.Fprintf(tw, "%s\t%s\t%s\t$%s\t$%s\t%s (%s)\n",
			p.Name,
			p.Address,
			PriceCell(p),
			strategy.FormatGrouped(p.Volume24h),
			p.Liquidity,
			rec.StrategyCard.BestStrategy,
			rec.Regime,
		)
	}
	return tw.Flush()
}

// RenderRecommendation writes the full strategy breakdown for one pool.
func RenderRecommendation(w io.Writer, p models.Pool, rec models.Recommendation) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s LP Strategy\n\n", p.Name)
	fmt.Fprintf(&b, "Market Narrative\n  %s\n\n", rec.Narrative)

	b.WriteString("Step-by-Step Guide\n")
	for i, step := range rec.Guide {
		fmt.Fprintf(&b, "  %d. %s: %s\n", i+1, step.Title, step.Text)
	}
	b.WriteString("\nAsset Allocation\n")
	for _, a := range rec.AssetAllocation {
		fmt.Fprintf(&b, "  %d%% %s\n      %s\n", a.Percent, a.Asset, a.Rationale)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	card := rec.StrategyCard
	fmt.Fprintln(w, "\nStrategy Card")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Market Type", string(card.Regime)},
		{"Price Range Spread", card.PriceRangeSpread},
		{"Number of Bins", fmt.Sprint(card.NumBins)},
		{"Best Strategy", card.BestStrategy},
		{"Strategy Focus", card.StrategyFocus},
		{"Expected Hold Time", card.HoldTime},
		{"Risk Level", card.RiskLevel},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s:\t%s\n", r[0], r[1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nOpen in Meteora: %s\n", rec.PoolURL)
	return err
}
