package models

// Regime is the classified market condition of a pool.
type Regime string

const (
	RegimeBull    Regime = "Bull"
	RegimeBear    Regime = "Bear"
	RegimeRanging Regime = "Ranging"
)

const (
	StrategySpot   = "Spot"
	StrategyBidAsk = "Bid-Ask"
)

type Recommendation struct {
	Regime           Regime       `json:"regime"`
	Narrative        string       `json:"narrative"`
	Guide            []GuideStep  `json:"guide"`
	AssetAllocation  []Allocation `json:"assetAllocation"`
	StrategyCard     StrategyCard `json:"strategyCard"`
	Volatility       float64      `json:"volatility"`
	TransactionCount int64        `json:"transactionCount"`
	PoolURL          string       `json:"poolURL"`
}

type GuideStep struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Allocation is an illustrative share of the position; shares are not required to sum to 100.
type Allocation struct {
	Asset     string `json:"asset"`
	Percent   int    `json:"percent"`
	Rationale string `json:"rationale"`
}

type PriceRange struct {
	MinUSD    float64 `json:"minUSD"`
	MaxUSD    float64 `json:"maxUSD"`
	MinSOL    float64 `json:"minSOL"`
	MaxSOL    float64 `json:"maxSOL"`
	CenterUSD float64 `json:"centerUSD"`
	CenterSOL float64 `json:"centerSOL"`
}

type StrategyCard struct {
	Regime           Regime     `json:"marketType"`
	PriceRange       PriceRange `json:"priceRange"`
	PriceRangeSpread string     `json:"priceRangeSpread"`
	NumBins          int        `json:"numBins"`
	BinStep          float64    `json:"binStep"`
	BestStrategy     string     `json:"bestStrategy"`
	StrategyFocus    string     `json:"strategyFocus"`
	HoldTime         string     `json:"holdTime"`
	RiskLevel        string     `json:"riskLevel"`
}
