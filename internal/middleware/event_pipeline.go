package middleware

import (
	"fmt"
	"sync"
	"time"

	"SynapseFund/internal/domain/repository"
	"SynapseFund/internal/service/events"
)

// Sink is the downstream the pipeline publishes into.
type Sink interface {
	Publish(ev events.Event)
}

// EventPipeline sits between the engine usecases and the WebSocket hub.
// It validates, throttles per event type, and buffers through a bounded
// channel so a burst of engine activity never blocks a usecase goroutine.
type EventPipeline struct {
	sink    Sink
	metrics repository.MetricsRecorder
	maxRPS  int
	bufSize int
	bufCh   chan events.Event
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
	// per-type last accepted time plus a token count for the current second
	lastSeen map[string]time.Time
	accepted map[string]int
}

// PipelineOption configures the pipeline.
type PipelineOption func(*EventPipeline)

// WithMaxRPS sets the max events per second per event type.
func WithMaxRPS(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the dispatch buffer size.
func WithBufferSize(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewEventPipeline creates an event pipeline in front of sink.
func NewEventPipeline(sink Sink, metrics repository.MetricsRecorder, opts ...PipelineOption) *EventPipeline {
	p := &EventPipeline{
		sink:     sink,
		metrics:  metrics,
		maxRPS:   50,
		bufSize:  256,
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
		accepted: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan events.Event, p.bufSize)
	return p
}

// Start launches the background dispatcher.
func (p *EventPipeline) Start() {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		for {
			select {
			case <-p.stopCh:
				return
			case ev := <-p.bufCh:
				p.sink.Publish(ev)
			}
		}
	}()
}

// Stop stops the dispatcher. Buffered events are discarded.
func (p *EventPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Publish validates and enqueues an event. Throttled or overflowing
// events are dropped, never blocking the caller.
func (p *EventPipeline) Publish(ev events.Event) error {
	if err := validateEvent(ev); err != nil {
		p.recordError("pipeline_validate")
		return err
	}

	if !p.allow(ev.Type, time.Now()) {
		p.recordError("pipeline_throttle")
		return nil
	}

	select {
	case p.bufCh <- ev:
		if p.metrics != nil {
			p.metrics.RecordLatency("pipeline_buffer_depth", float64(len(p.bufCh)))
		}
	default:
		p.recordError("pipeline_buffer_full")
	}
	return nil
}

// Emit is the fire-and-forget form used by usecases.
func (p *EventPipeline) Emit(eventType string, payload interface{}) {
	_ = p.Publish(events.Event{Type: eventType, Payload: payload, At: time.Now()})
}

func (p *EventPipeline) recordError(kind string) {
	if p.metrics != nil {
		p.metrics.RecordError(kind)
	}
}

func validateEvent(ev events.Event) error {
	if ev.Type == "" {
		return fmt.Errorf("event type empty")
	}
	return nil
}

func (p *EventPipeline) allow(eventType string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	last := p.lastSeen[eventType]
	if last.IsZero() || now.Sub(last) >= time.Second {
		p.lastSeen[eventType] = now
		p.accepted[eventType] = 1
		return true
	}
	if p.accepted[eventType] < p.maxRPS {
		p.accepted[eventType]++
		return true
	}
	return false
}
