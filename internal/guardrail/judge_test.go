package guardrail

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chatre7/AI-Guardrail/internal/llm"
	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// MockLLMClient is a hand-written fake for the judge model. Responses are
// consumed in call order, the last one repeats.
type MockLLMClient struct {
	ResponsesToReturn []string
	ErrorToReturn     error
	Delay             time.Duration

	mu      sync.Mutex
	calls   int
	prompts []string
}

func (m *MockLLMClient) Invoke(ctx context.Context, request llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	idx := m.calls
	m.calls++
	m.prompts = append(m.prompts, request.Prompt)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}

	content := "SAFE"
	m.mu.Lock()
	if len(m.ResponsesToReturn) > 0 {
		if idx >= len(m.ResponsesToReturn) {
			idx = len(m.ResponsesToReturn) - 1
		}
		content = m.ResponsesToReturn[idx]
	}
	m.mu.Unlock()

	return &llm.Response{Content: content, StopReason: "stop"}, nil
}

func (m *MockLLMClient) InvokeStream(ctx context.Context, request llm.Request, callback llm.StreamCallback) (*llm.Response, error) {
	return nil, errors.New("not implemented")
}

func (m *MockLLMClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockLLMClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

const testInstruction = "JUDGE THIS: %s"

func newTestJudge(client llm.Client, timeout time.Duration) *Judge {
	return NewJudge(client, NewGate(1), testInstruction, timeout, testLogger())
}

func TestJudge_Check(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		want     Verdict
	}{
		{
			name:     "safe response",
			response: "SAFE",
			want:     VerdictSafe,
		},
		{
			name:     "unsafe response",
			response: "UNSAFE",
			want:     VerdictUnsafe,
		},
		{
			name:     "unsafe mentioned in prose",
			response: "The text is unsafe because it names a competitor.",
			want:     VerdictUnsafe,
		},
		{
			name:     "unexpected response passes",
			response: "I cannot decide",
			want:     VerdictSafe,
		},
		{
			name: "call failure fails open",
			err:  errors.New("connection refused"),
			want: VerdictInconclusive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockLLMClient{
				ResponsesToReturn: []string{tt.response},
				ErrorToReturn:     tt.err,
			}
			judge := newTestJudge(client, time.Second)

			got := judge.Check(context.Background(), "req-1", "some text")
			if got != tt.want {
				t.Errorf("Expected verdict %s, got %s", tt.want, got)
			}
		})
	}
}

func TestJudge_FormatsInstruction(t *testing.T) {
	client := &MockLLMClient{}
	judge := newTestJudge(client, time.Second)

	judge.Check(context.Background(), "req-1", "hello world")

	prompts := client.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("Expected 1 call, got %d", len(prompts))
	}
	if prompts[0] != "JUDGE THIS: hello world" {
		t.Errorf("Expected formatted instruction, got '%s'", prompts[0])
	}
}

func TestJudge_TimeoutFailsOpen(t *testing.T) {
	client := &MockLLMClient{Delay: 200 * time.Millisecond}
	judge := newTestJudge(client, 20*time.Millisecond)

	got := judge.Check(context.Background(), "req-1", "slow judge")
	if got != VerdictInconclusive {
		t.Errorf("Expected INCONCLUSIVE on timeout, got %s", got)
	}
}

func TestJudge_EmptyTextIsSafeWithoutCall(t *testing.T) {
	client := &MockLLMClient{}
	judge := newTestJudge(client, time.Second)

	if got := judge.Check(context.Background(), "req-1", "   \n"); got != VerdictSafe {
		t.Errorf("Expected SAFE for blank text, got %s", got)
	}
	if client.Calls() != 0 {
		t.Errorf("Expected no judge call for blank text, got %d", client.Calls())
	}
}

func TestJudge_ReleasesGateOnEveryPath(t *testing.T) {
	tests := []struct {
		name   string
		client *MockLLMClient
	}{
		{
			name:   "success",
			client: &MockLLMClient{},
		},
		{
			name:   "error",
			client: &MockLLMClient{ErrorToReturn: errors.New("boom")},
		},
		{
			name:   "timeout",
			client: &MockLLMClient{Delay: 100 * time.Millisecond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(1)
			judge := NewJudge(tt.client, gate, testInstruction, 10*time.Millisecond, testLogger())

			judge.Check(context.Background(), "req-1", "text")

			// The slot must be free again
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := gate.Acquire(ctx); err != nil {
				t.Errorf("Expected gate slot to be released, acquire failed: %v", err)
				return
			}
			gate.Release()
		})
	}
}

func TestJudge_CancelledAcquireFailsOpen(t *testing.T) {
	gate := NewGate(1)
	if err := gate.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer gate.Release()

	client := &MockLLMClient{}
	judge := NewJudge(client, gate, testInstruction, time.Second, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if got := judge.Check(ctx, "req-1", "queued text"); got != VerdictInconclusive {
		t.Errorf("Expected INCONCLUSIVE when the gate wait is cancelled, got %s", got)
	}
	if client.Calls() != 0 {
		t.Errorf("Expected no judge call, got %d", client.Calls())
	}
}

func TestParseVerdict(t *testing.T) {
	if got := parseVerdict(strings.ToLower("unsafe")); got != VerdictUnsafe {
		t.Errorf("Expected UNSAFE, got %s", got)
	}
	if got := parseVerdict("SAFE"); got != VerdictSafe {
		t.Errorf("Expected SAFE, got %s", got)
	}
}
