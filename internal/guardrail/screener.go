package guardrail

import (
	"context"
)

// Decision is the outcome of screening a prompt before generation starts.
type Decision struct {
	Verdict Verdict
	Layer   string // "l1" or "l2"
	Keyword string // matched keyword, l1 only
}

// Screener runs the pre-generation layers in order: the keyword filter
// first (fast, free), then one judge call. A keyword match short-circuits,
// no judge call is made for it.
type Screener struct {
	keywords *KeywordFilter
	judge    *Judge
}

func NewScreener(keywords *KeywordFilter, judge *Judge) *Screener {
	return &Screener{
		keywords: keywords,
		judge:    judge,
	}
}

func (s *Screener) ScreenPrompt(ctx context.Context, requestID string, prompt string) Decision {
	if kw, ok := s.keywords.Match(prompt); ok {
		return Decision{Verdict: VerdictUnsafe, Layer: "l1", Keyword: kw}
	}

	verdict := s.judge.Check(ctx, requestID, prompt)
	return Decision{Verdict: verdict, Layer: "l2"}
}

// CheckText runs a single judge classification on arbitrary text, outside
// of any session.
func (s *Screener) CheckText(ctx context.Context, requestID string, text string) Verdict {
	return s.judge.Check(ctx, requestID, text)
}
