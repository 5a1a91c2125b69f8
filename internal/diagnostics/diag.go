package diagnostics

import "time"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes emitted by the strip daemon.
const (
	DriverFallback  = "DRIVER.FALLBACK"
	FlushFailed     = "FLUSH.ERROR"
	SelfTestDone    = "SELFTEST.DONE"
	SelfTestRunning = "SELFTEST.RUNNING"
	AnimationStart  = "ANIMATION.START"
)

// Diagnostic is a human-readable event pushed to preview clients.
type Diagnostic struct {
	Time     time.Time      `json:"time"`
	Severity Severity       `json:"severity"`
	Code     string         `json:"code"`
	Summary  string         `json:"summary"`
	Detail   string         `json:"detail,omitempty"`
	Evidence map[string]any `json:"evidence,omitempty"`
}

func New(sev Severity, code, summary string) Diagnostic {
	return Diagnostic{Time: time.Now(), Severity: sev, Code: code, Summary: summary}
}

// With attaches one piece of evidence and returns the diagnostic.
func (d Diagnostic) With(key string, v any) Diagnostic {
	ev := make(map[string]any, len(d.Evidence)+1)
	for k, x := range d.Evidence {
		ev[k] = x
	}
	ev[key] = v
	d.Evidence = ev
	return d
}
