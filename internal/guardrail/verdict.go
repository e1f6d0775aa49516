package guardrail

// Verdict is the outcome of one validation call.
type Verdict string

const (
	VerdictSafe   Verdict = "SAFE"
	VerdictUnsafe Verdict = "UNSAFE"
	// VerdictInconclusive marks a judge timeout or call failure. Policy is
	// fail-open: it allows streaming like SAFE, but stays distinct so the
	// degraded path is observable in logs and tests.
	VerdictInconclusive Verdict = "INCONCLUSIVE"
)

// Allows reports whether streaming may proceed under this verdict.
func (v Verdict) Allows() bool {
	return v != VerdictUnsafe
}
