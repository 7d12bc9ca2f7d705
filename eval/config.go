package eval

import (
	"time"

	"github.com/east-lang/east/value"
)

// Config configures a compiled Callable's optional instrumentation.
// Grounded on runtime/executor/executor.go's Config: a DebugLevel/
// TelemetryLevel pair distinguishing "verbose development tracing" from
// "cheap production-safe counters", reused here for the evaluator since
// it is the one core component spec.md expects to be inspectable at
// runtime.
type Config struct {
	Debug     DebugLevel
	Telemetry TelemetryLevel
}

// DebugLevel controls step-by-step execution tracing (development only).
type DebugLevel int

const (
	DebugOff      DebugLevel = iota // no tracing (default)
	DebugPaths                      // enter/exit events around each invocation
	DebugDetailed                   // same events as DebugPaths; no intermediate values
)

// TelemetryLevel controls production-safe execution counters.
type TelemetryLevel int

const (
	TelemetryOff   TelemetryLevel = iota // zero overhead (default)
	TelemetryBasic                       // invocation counts only
	TelemetryTiming                      // counts plus accumulated wall-clock duration
)

// ExecutionTelemetry is the optional metrics a Callable accumulates when
// cfg.Telemetry != TelemetryOff.
type ExecutionTelemetry struct {
	NodesEvaluated int // invocations of the instrumented root Callable
	Duration       time.Duration
}

// DebugEvent is one entry in the optional trace a Callable accumulates
// when cfg.Debug != DebugOff.
type DebugEvent struct {
	Event    string // "enter" or "exit"; Instrument sets NodeType to "program"
	NodeType string
}

// Instrument wraps fn with the tracing and telemetry cfg selects: a
// DebugEvent pair per invocation routed to sink (a plain callback, the
// same shape the teacher's executor Config uses for its own trace
// output), and an ExecutionTelemetry the caller can read after any number
// of invocations. With everything off it returns fn untouched, so the
// default configuration costs nothing.
//
// Hosts that want per-node rather than per-program granularity compile
// sub-trees individually and instrument each root; the evaluator itself
// stays instrumentation-free.
func Instrument(fn Callable, cfg Config, sink func(DebugEvent)) (Callable, *ExecutionTelemetry) {
	tel := &ExecutionTelemetry{}
	if cfg.Debug == DebugOff && cfg.Telemetry == TelemetryOff {
		return fn, tel
	}
	wrapped := func(ctx *Context) (value.Value, Unwind, error) {
		if cfg.Debug != DebugOff && sink != nil {
			sink(DebugEvent{Event: "enter", NodeType: "program"})
		}
		start := time.Now()
		v, uw, err := fn(ctx)
		if cfg.Telemetry != TelemetryOff {
			tel.NodesEvaluated++
			if cfg.Telemetry == TelemetryTiming {
				tel.Duration += time.Since(start)
			}
		}
		if cfg.Debug != DebugOff && sink != nil {
			sink(DebugEvent{Event: "exit", NodeType: "program"})
		}
		return v, uw, err
	}
	return wrapped, tel
}
