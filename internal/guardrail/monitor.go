package guardrail

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/chatre7/AI-Guardrail/internal/violations"
	"github.com/rs/zerolog"
)

// Monitor re-validates a session's answer while it streams. Fragments are
// appended to the session buffer; once the unreviewed part reaches the
// configured interval, a detached judge check runs against the entire
// accumulated buffer and trips the breaker on UNSAFE. Dispatches never block
// the caller, so up to one interval of unreviewed text can reach the client
// before a violation is detected. That window is accepted behavior.
type Monitor struct {
	judge     *Judge
	breaker   *Breaker
	interval  int
	requestID string
	recorder  violations.Recorder
	logger    *zerolog.Logger

	mu      sync.Mutex
	buf     strings.Builder
	length  int // runes in buf
	checked int // runes already submitted for review

	wg sync.WaitGroup
}

func NewMonitor(judge *Judge, breaker *Breaker, interval int, requestID string, recorder violations.Recorder, logger *zerolog.Logger) *Monitor {
	if interval < 1 {
		interval = 1
	}
	return &Monitor{
		judge:     judge,
		breaker:   breaker,
		interval:  interval,
		requestID: requestID,
		recorder:  recorder,
		logger:    logger,
	}
}

// Observe appends a produced fragment and, when due, dispatches a background
// check of the whole buffer so far. The entire buffer is judged rather than
// the delta: context matters for classification.
func (m *Monitor) Observe(ctx context.Context, fragment string) {
	m.mu.Lock()
	m.buf.WriteString(fragment)
	m.length += utf8.RuneCountInString(fragment)

	if m.length-m.checked < m.interval {
		m.mu.Unlock()
		return
	}

	m.checked = m.length
	text := m.buf.String()
	m.mu.Unlock()

	m.wg.Add(1)
	go m.check(ctx, text)
}

func (m *Monitor) check(ctx context.Context, text string) {
	defer m.wg.Done()

	verdict := m.judge.Check(ctx, m.requestID, text)
	if verdict != VerdictUnsafe {
		return
	}

	m.breaker.Trip()
	m.logger.Warn().Str("request_id", m.requestID).Msg("UNSAFE detected in stream, breaker tripped")
	m.recorder.Record(ctx, violations.NewEvent(m.requestID, violations.LayerStream, "", string(VerdictUnsafe), text))
}

// FinalCheck drains in-flight checks and then judges the complete buffer one
// last time. This is the last opportunity to catch a violation before the
// session ends, so it always runs at natural completion.
func (m *Monitor) FinalCheck(ctx context.Context) Verdict {
	m.wg.Wait()

	if m.breaker.Tripped() {
		return VerdictUnsafe
	}

	m.mu.Lock()
	text := m.buf.String()
	m.checked = m.length
	m.mu.Unlock()

	if text == "" {
		return VerdictSafe
	}

	verdict := m.judge.Check(ctx, m.requestID, text)
	if verdict == VerdictUnsafe {
		m.breaker.Trip()
		m.logger.Warn().Str("request_id", m.requestID).Msg("UNSAFE detected in final check, breaker tripped")
		m.recorder.Record(ctx, violations.NewEvent(m.requestID, violations.LayerStream, "", string(VerdictUnsafe), text))
	}

	return verdict
}

// Drain waits for all dispatched checks without issuing a final one. Used
// when the session is already halted.
func (m *Monitor) Drain() {
	m.wg.Wait()
}
