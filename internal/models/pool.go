package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// AddressUnavailable replaces a missing pool address in enriched records.
	AddressUnavailable = "Address not available"
	// NotAvailable replaces a missing price or liquidity value.
	NotAvailable = "N/A"
)

// FlexFloat decodes a JSON number, a numeric string or null.
// Values that cannot be read as a number decode as absent instead of failing the payload.
type FlexFloat struct {
	Value float64
	Valid bool
}

func NewFlexFloat(v float64) FlexFloat {
	return FlexFloat{Value: v, Valid: true}
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	*f = FlexFloat{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		f.set(strconv.ParseFloat(s, 64))
		return nil
	}
	f.set(strconv.ParseFloat(string(b), 64))
	return nil
}

func (f *FlexFloat) set(v float64, err error) {
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	*f = FlexFloat{Value: v, Valid: true}
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// OrZero returns the value, or 0 when absent.
func (f FlexFloat) OrZero() float64 {
	if !f.Valid {
		return 0
	}
	return f.Value
}

// RawPool is a pair record as returned by the DLMM pair listing.
type RawPool struct {
	Address        string    `json:"address"`
	Name           string    `json:"name"`
	MintX          string    `json:"mint_x"`
	MintY          string    `json:"mint_y"`
	CurrentPrice   FlexFloat `json:"current_price"`
	TradeVolume24h FlexFloat `json:"trade_volume_24h"`
	Liquidity      FlexFloat `json:"liquidity"`
}

// Pool is an enriched pool as held in the cache and served on /api/tokens.
type Pool struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Price          string  `json:"price"`
	Volume24h      float64 `json:"volume24h"`
	Liquidity      string  `json:"liquidity"`
	PriceChange24h float64 `json:"priceChange24h"`
}

// PoolSnapshot is an immutable, fully built cache generation.
type PoolSnapshot struct {
	Pools     []Pool     `json:"pools"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (s PoolSnapshot) Empty() bool { return len(s.Pools) == 0 }
