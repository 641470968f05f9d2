package usecase

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"SynapseFund/internal/domain/models"
	domrepo "SynapseFund/internal/domain/repository"
	"SynapseFund/internal/service/events"
	svcmetrics "SynapseFund/internal/service/metrics"
	"SynapseFund/pkg/logger"
	"SynapseFund/pkg/queue"
)

const defaultPoolSize = 3

// ErrSessionNotFound is returned for unknown exploration session ids.
var ErrSessionNotFound = fmt.Errorf("exploration session not found")

// ExplorationStateMachine manages card-exploration sessions. Each
// session owns a fixed ring of candidate funds; all mutation of a
// session's state runs on that session's single writer goroutine, and
// async analysis completions carry a per-card generation token so a
// stale completion never overwrites a reset card.
type ExplorationStateMachine struct {
	catalog   domrepo.Catalog
	predictor domrepo.Predictor
	risk      domrepo.RiskEstimator
	jobs      *queue.Pool
	poolSize  int
	callTTL   time.Duration
	log       *logger.Logger
	emitter   EventEmitter

	rngMu sync.Mutex
	rng   *rand.Rand

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	id       string
	category domrepo.Category
	pool     models.ExplorationPool
	cardGen  map[string]uint64 // fund code -> reset generation
	cmdCh    chan func()
	done     chan struct{}
}

// ExplorationOption configures the state machine.
type ExplorationOption func(*ExplorationStateMachine)

// WithPoolSize sets the exploration ring size.
func WithPoolSize(n int) ExplorationOption {
	return func(m *ExplorationStateMachine) {
		if n > 0 {
			m.poolSize = n
		}
	}
}

// WithAnalyzeTimeout bounds each analysis call.
func WithAnalyzeTimeout(d time.Duration) ExplorationOption {
	return func(m *ExplorationStateMachine) {
		if d > 0 {
			m.callTTL = d
		}
	}
}

// WithExplorationLogger sets the logger.
func WithExplorationLogger(log *logger.Logger) ExplorationOption {
	return func(m *ExplorationStateMachine) {
		m.log = log
	}
}

// WithExplorationEmitter sets the outward event hook.
func WithExplorationEmitter(e EventEmitter) ExplorationOption {
	return func(m *ExplorationStateMachine) {
		m.emitter = e
	}
}

// NewExplorationStateMachine creates the state machine. rng is the
// seedable source for sampling; jobs carries background analysis calls.
func NewExplorationStateMachine(catalog domrepo.Catalog, predictor domrepo.Predictor, risk domrepo.RiskEstimator, jobs *queue.Pool, rng *rand.Rand, opts ...ExplorationOption) *ExplorationStateMachine {
	m := &ExplorationStateMachine{
		catalog:   catalog,
		predictor: predictor,
		risk:      risk,
		jobs:      jobs,
		poolSize:  defaultPoolSize,
		callTTL:   defaultCallTimeout,
		rng:       rng,
		sessions:  make(map[string]*session),
	}

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateSession samples a fresh ring of funds, starts the session's
// writer goroutine, and kicks off one background analysis per card.
func (m *ExplorationStateMachine) CreateSession(category domrepo.Category) (*models.ExplorationPool, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("invalid category %q", category)
	}

	m.rngMu.Lock()
	id := m.newSessionID()
	funds := m.catalog.Sample(m.rng, category, m.poolSize)
	m.rngMu.Unlock()

	if len(funds) == 0 {
		return nil, fmt.Errorf("catalog has no funds to sample")
	}

	cards := make([]models.CardState, len(funds))
	cardGen := make(map[string]uint64, len(funds))
	for i, f := range funds {
		cards[i] = models.CardState{Fund: f, Status: models.CardUnanalyzed}
		cardGen[f.Code] = 0
	}

	s := &session{
		id:       id,
		category: category,
		pool: models.ExplorationPool{
			SessionID:  id,
			Category:   category.String(),
			Cards:      cards,
			FrontIndex: 0,
		},
		cardGen: cardGen,
		cmdCh:   make(chan func(), 32),
		done:    make(chan struct{}),
	}
	go s.run()

	// Background pre-fetch: one fire-and-forget analysis per card with
	// the default parameter set. The card stays Unanalyzed until its
	// result lands, so a user-triggered analyze is still accepted.
	// Issued before the session is visible so nothing else can mutate
	// the category underneath the request builder.
	for _, f := range funds {
		m.startAnalysis(s, f, 0, models.DefaultPredictionRequest(), true)
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	if m.log != nil {
		m.log.Info("exploration session created",
			logger.String("session", id),
			logger.String("category", category.String()),
			logger.Int("cards", len(cards)))
	}
	return m.snapshot(s), nil
}

// Session returns the current pool state.
func (m *ExplorationStateMachine) Session(id string) (*models.ExplorationPool, error) {
	s, ok := m.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return m.snapshot(s), nil
}

// AnalyzeFront triggers analysis of the front card. Calling it while
// the front card is Analyzing or Analyzed is a no-op.
func (m *ExplorationStateMachine) AnalyzeFront(id string, overrides models.AnalyzeBody) (*models.ExplorationPool, error) {
	s, ok := m.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	var out models.ExplorationPool
	s.do(func() {
		front := s.pool.Front()
		if front.Status != models.CardUnanalyzed {
			out = clonePool(&s.pool)
			return
		}

		front.Status = models.CardAnalyzing

		req := models.DefaultPredictionRequest()
		if overrides.MinSIP > 0 {
			req.MinSIP = overrides.MinSIP
		}
		if overrides.FundAgeYr > 0 {
			req.FundAgeYr = overrides.FundAgeYr
		}

		m.startAnalysis(s, front.Fund, s.cardGen[front.Fund.Code], req, false)
		out = clonePool(&s.pool)
	})
	return &out, nil
}

// DismissFront advances the ring. The card arriving at front is reset
// to Unanalyzed with zeroed metrics; the dismissed card keeps its
// analysis until it becomes front again.
func (m *ExplorationStateMachine) DismissFront(id string) (*models.ExplorationPool, error) {
	s, ok := m.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	var out models.ExplorationPool
	s.do(func() {
		s.pool.FrontIndex = (s.pool.FrontIndex + 1) % len(s.pool.Cards)
		front := s.pool.Front()
		front.Status = models.CardUnanalyzed
		front.PredictedReturn = 0
		front.PredictedRisk = 0
		s.cardGen[front.Fund.Code]++

		if m.emitter != nil {
			m.emitter.Emit(events.EventCardDismissed, map[string]interface{}{
				"session":     s.id,
				"front_index": s.pool.FrontIndex,
				"front_code":  front.Fund.Code,
			})
		}
		out = clonePool(&s.pool)
	})
	return &out, nil
}

// ChangeCategory switches the session category and resets only the
// front card's status so it can be re-analyzed under the new category.
func (m *ExplorationStateMachine) ChangeCategory(id string, category domrepo.Category) (*models.ExplorationPool, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("invalid category %q", category)
	}
	s, ok := m.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	var out models.ExplorationPool
	s.do(func() {
		s.category = category
		s.pool.Category = category.String()
		front := s.pool.Front()
		front.Status = models.CardUnanalyzed
		s.cardGen[front.Fund.Code]++
		out = clonePool(&s.pool)
	})
	return &out, nil
}

// CloseSession tears a session down.
func (m *ExplorationStateMachine) CloseSession(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		close(s.done)
	}
}

// Close tears down all sessions.
func (m *ExplorationStateMachine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		close(s.done)
		delete(m.sessions, id)
	}
	return nil
}

// startAnalysis issues one prediction call off the writer goroutine and
// funnels the completion back through it. gen is the card's generation
// at issue time; a completion whose generation no longer matches is
// discarded. Pre-fetch completions additionally lose to any analysis
// that already landed.
func (m *ExplorationStateMachine) startAnalysis(s *session, fund models.Fund, gen uint64, req models.PredictionRequest, prefetch bool) {
	req.Category = s.category.String()
	req.SubCategory = s.category.DefaultSubCategory()
	req.AMCName = m.catalog.AMCFor(fund.Name)
	req.FundName = fund.Name
	req.FundCode = fund.Code

	job := func(ctx context.Context) {
		callCtx, cancel := context.WithTimeout(ctx, m.callTTL)
		defer cancel()

		results, err := m.predictor.Predict(callCtx, req)
		s.post(func() {
			m.applyResult(s, fund.Code, gen, results, err, prefetch)
		})
	}

	if m.jobs != nil {
		if err := m.jobs.Submit(job); err == nil {
			return
		}
	}
	go job(context.Background())
}

// applyResult runs on the session writer goroutine.
func (m *ExplorationStateMachine) applyResult(s *session, code string, gen uint64, results []models.PredictionResult, err error, prefetch bool) {
	if s.cardGen[code] != gen {
		svcmetrics.StaleResultsDiscarded.WithLabelValues("exploration").Inc()
		return
	}

	card := s.cardByCode(code)
	if card == nil {
		return
	}

	if err != nil {
		svcmetrics.ExplorationAnalyses.WithLabelValues(s.category.String(), "failure").Inc()
		// Revert so the user may retry; pre-fetch failures leave the
		// untouched card as-is.
		if card.Status == models.CardAnalyzing {
			card.Status = models.CardUnanalyzed
			card.PredictedReturn = 0
			card.PredictedRisk = 0
		}
		if m.log != nil {
			m.log.Warn("card analysis failed",
				logger.String("session", s.id),
				logger.String("fund", code),
				logger.Error(err))
		}
		return
	}

	if prefetch && card.Status == models.CardAnalyzed {
		svcmetrics.StaleResultsDiscarded.WithLabelValues("exploration").Inc()
		return
	}

	var result models.PredictionResult
	if len(results) > 0 {
		result = results[0]
	}

	card.Status = models.CardAnalyzed
	card.PredictedReturn = result.Returns3YrOrZero()
	card.PredictedRisk = m.risk.Estimate(card.Fund, result)
	svcmetrics.ExplorationAnalyses.WithLabelValues(s.category.String(), "success").Inc()

	if m.emitter != nil {
		m.emitter.Emit(events.EventCardAnalyzed, map[string]interface{}{
			"session":          s.id,
			"fund_code":        code,
			"predicted_return": card.PredictedReturn,
			"predicted_risk":   card.PredictedRisk,
		})
	}
}

func (m *ExplorationStateMachine) lookup(id string) (*session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *ExplorationStateMachine) snapshot(s *session) *models.ExplorationPool {
	var out models.ExplorationPool
	s.do(func() {
		out = clonePool(&s.pool)
	})
	return &out
}

func (m *ExplorationStateMachine) newSessionID() string {
	buf := make([]byte, 8)
	m.rngMu.Lock()
	for i := range buf {
		buf[i] = byte(m.rng.Intn(256))
	}
	m.rngMu.Unlock()
	return hex.EncodeToString(buf)
}

// run is the session's single writer loop.
func (s *session) run() {
	for {
		select {
		case <-s.done:
			return
		case f := <-s.cmdCh:
			f()
		}
	}
}

// do posts a command and waits for it to execute.
func (s *session) do(f func()) {
	doneCh := make(chan struct{})
	select {
	case s.cmdCh <- func() {
		f()
		close(doneCh)
	}:
	case <-s.done:
		return
	}

	select {
	case <-doneCh:
	case <-s.done:
	}
}

// post enqueues a command without waiting (async completions).
func (s *session) post(f func()) {
	select {
	case s.cmdCh <- f:
	case <-s.done:
	}
}

func (s *session) cardByCode(code string) *models.CardState {
	for i := range s.pool.Cards {
		if s.pool.Cards[i].Fund.Code == code {
			return &s.pool.Cards[i]
		}
	}
	return nil
}

func clonePool(p *models.ExplorationPool) models.ExplorationPool {
	out := *p
	out.Cards = make([]models.CardState, len(p.Cards))
	copy(out.Cards, p.Cards)
	return out
}
