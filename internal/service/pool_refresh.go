package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"lpscout/internal/logger"
	"lpscout/internal/models"
	"lpscout/internal/repository"
	"lpscout/internal/strategy"
)

const (
	defaultTopN          = 10
	defaultAddressLength = 44

	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeNoValid = "no_valid"
	OutcomeError   = "error"
)

// PairSource lists raw pool records from the upstream API.
type PairSource interface {
	ListPairs(ctx context.Context) ([]models.RawPool, error)
}

// SnapshotPublisher is notified after every cycle with the snapshot now in the store.
type SnapshotPublisher interface {
	Publish(snap models.PoolSnapshot)
}

type PoolRefreshService struct {
	Source    PairSource
	Store     repository.PoolStore
	History   HistoricalPriceProvider
	Publisher SnapshotPublisher
	Logger    *zap.Logger

	TopN          int
	AddressLength int
	Now           func() time.Time

	group singleflight.Group

	mu     sync.Mutex
	status RefreshStatus
}

type RefreshResult struct {
	CycleID    string        `json:"cycle_id"`
	Outcome    string        `json:"outcome"`
	Fetched    int           `json:"fetched"`
	Valid      int           `json:"valid"`
	Cached     int           `json:"cached"`
	Fallback   bool          `json:"fallback"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration_ns"`
}

type RefreshStatus struct {
	Running             bool       `json:"running"`
	Cycles              int64      `json:"cycles"`
	LastCycleID         string     `json:"last_cycle_id,omitempty"`
	LastOutcome         string     `json:"last_outcome,omitempty"`
	LastAttemptAt       *time.Time `json:"last_attempt_at,omitempty"`
	LastSuccessAt       *time.Time `json:"last_success_at,omitempty"`
	LastError           *string    `json:"last_error,omitempty"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
}

// Refresh runs one fetch -> filter -> rank -> enrich -> replace cycle.
// Callers arriving while a cycle is in flight wait for it and share its result.
func (s *PoolRefreshService) Refresh(ctx context.Context) (RefreshResult, error) {
	v, err, _ := s.group.Do("refresh", func() (any, error) {
		return s.runCycle(ctx)
	})
	res, _ := v.(RefreshResult)
	return res, err
}

func (s *PoolRefreshService) Status() RefreshStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *PoolRefreshService) runCycle(ctx context.Context) (RefreshResult, error) {
	log := logger.OrNop(s.Logger)
	start := s.now()
	res := RefreshResult{CycleID: uuid.NewString(), StartedAt: start}
	log = log.With(zap.String("cycle_id", res.CycleID))
	s.markStarted(res.CycleID, start)

	log.Info("pool refresh started")
	if s.Source == nil || s.Store == nil {
		return s.fail(log, res, fmt.Errorf("refresh service not configured"))
	}

	raw, err := s.Source.ListPairs(ctx)
	if err != nil {
		return s.fail(log, res, fmt.Errorf("fetch pairs: %w", err))
	}
	res.Fetched = len(raw)
	if len(raw) == 0 {
		log.Info("no pools returned from upstream")
		return s.finishEmpty(log, res, OutcomeEmpty)
	}
	log.Debug("first pool sample", zap.Any("pool", raw[0]))

	valid := filterValid(raw, s.addressLength())
	res.Valid = len(valid)
	if len(valid) == 0 {
		log.Info("no valid pools available", zap.Int("fetched", res.Fetched))
		return s.finishEmpty(log, res, OutcomeNoValid)
	}

	selected, fallback := selectPools(valid, s.topN())
	if fallback {
		log.Info("ranking produced no pools, using first valid pools")
		res.Fallback = true
	}

	pools := make([]models.Pool, 0, len(selected))
	for i, rp := range selected {
		historical := 0.0
		if s.History != nil {
			historical = s.History.HistoricalPrice(ctx, rp)
		}
		p := Enrich(rp, historical)
		log.Debug("pool enriched",
			zap.Int("rank", i),
			zap.String("name", p.Name),
			zap.String("address", p.Address),
			zap.String("price", p.Price),
			zap.Float64("volume24h", p.Volume24h),
			zap.String("liquidity", p.Liquidity),
			zap.Float64("price_change_24h", p.PriceChange24h),
		)
		pools = append(pools, p)
	}

	finished := s.now()
	snap := s.Store.Replace(pools, finished)
	s.publish(snap)

	res.Outcome = OutcomeOK
	res.Cached = len(snap.Pools)
	res.FinishedAt = finished
	res.Duration = finished.Sub(start)
	s.markDone(res, nil)
	log.Info("pool refresh ok",
		zap.Int("fetched", res.Fetched),
		zap.Int("valid", res.Valid),
		zap.Int("cached", res.Cached),
		zap.Bool("fallback", res.Fallback),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

func (s *PoolRefreshService) finishEmpty(log *zap.Logger, res RefreshResult, outcome string) (RefreshResult, error) {
	snap := s.Store.Clear()
	s.publish(snap)
	res.Outcome = outcome
	res.FinishedAt = s.now()
	res.Duration = res.FinishedAt.Sub(res.StartedAt)
	s.markDone(res, nil)
	log.Info("pool cache cleared", zap.String("outcome", outcome))
	return res, nil
}

func (s *PoolRefreshService) fail(log *zap.Logger, res RefreshResult, err error) (RefreshResult, error) {
	if s.Store != nil {
		s.publish(s.Store.Clear())
	}
	res.Outcome = OutcomeError
	res.FinishedAt = s.now()
	res.Duration = res.FinishedAt.Sub(res.StartedAt)
	s.markDone(res, err)
	log.Warn("pool refresh failed", zap.Error(err))
	return res, err
}

func (s *PoolRefreshService) publish(snap models.PoolSnapshot) {
	if s.Publisher != nil {
		s.Publisher.Publish(snap)
	}
}

func (s *PoolRefreshService) markStarted(cycleID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Running = true
	s.status.LastCycleID = cycleID
	s.status.LastAttemptAt = &at
}

func (s *PoolRefreshService) markDone(res RefreshResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Running = false
	s.status.Cycles++
	s.status.LastOutcome = res.Outcome
	if err != nil {
		msg := err.Error()
		s.status.LastError = &msg
		s.status.ConsecutiveFailures++
		return
	}
	at := res.FinishedAt
	s.status.LastSuccessAt = &at
	s.status.LastError = nil
	s.status.ConsecutiveFailures = 0
}

func (s *PoolRefreshService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *PoolRefreshService) topN() int {
	if s.TopN > 0 {
		return s.TopN
	}
	return defaultTopN
}

func (s *PoolRefreshService) addressLength() int {
	if s.AddressLength > 0 {
		return s.AddressLength
	}
	return defaultAddressLength
}

// filterValid keeps records whose address has the expected identifier length.
func filterValid(raw []models.RawPool, addrLen int) []models.RawPool {
	out := make([]models.RawPool, 0, len(raw))
	for _, p := range raw {
		if len(p.Address) == addrLen {
			out = append(out, p)
		}
	}
	return out
}

// selectPools ranks by volume and falls back to the first valid records, in
// upstream order, when ranking yields nothing so a sparse dataset still shows something.
func selectPools(valid []models.RawPool, n int) ([]models.RawPool, bool) {
	if ranked := rankByVolume(valid, n); len(ranked) > 0 || len(valid) == 0 {
		return ranked, false
	}
	return firstN(valid, defaultTopN), true
}

// rankByVolume returns up to n records ordered by 24h volume, highest first.
// Equal volumes keep their upstream order.
func rankByVolume(pools []models.RawPool, n int) []models.RawPool {
	if n <= 0 {
		return nil
	}
	ranked := append([]models.RawPool(nil), pools...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TradeVolume24h.OrZero() > ranked[j].TradeVolume24h.OrZero()
	})
	return firstN(ranked, n)
}

func firstN(pools []models.RawPool, n int) []models.RawPool {
	if len(pools) > n {
		return pools[:n]
	}
	return pools
}

// Enrich maps a raw record to the cached representation.
func Enrich(rp models.RawPool, historical float64) models.Pool {
	p := models.Pool{
		Name:           rp.Name,
		Address:        rp.Address,
		Price:          models.NotAvailable,
		Volume24h:      rp.TradeVolume24h.OrZero(),
		Liquidity:      models.NotAvailable,
		PriceChange24h: PriceChange24h(rp.CurrentPrice.OrZero(), historical),
	}
	if p.Name == "" {
		p.Name = fmt.Sprintf("%s-%s Pool", rp.MintX, rp.MintY)
	}
	if p.Address == "" {
		p.Address = models.AddressUnavailable
	}
	if rp.CurrentPrice.Valid {
		p.Price = strategy.FormatFixed(rp.CurrentPrice.Value, 6)
	}
	if rp.Liquidity.Valid {
		p.Liquidity = strategy.FormatGrouped(rp.Liquidity.Value)
	}
	return p
}

// PriceChange24h is the percent move from historical to current; 0 when either is missing.
func PriceChange24h(current, historical float64) float64 {
	if current == 0 || historical == 0 {
		return 0
	}
	change := (current - historical) / historical * 100
	if math.IsNaN(change) || math.IsInf(change, 0) {
		return 0
	}
	return change
}
