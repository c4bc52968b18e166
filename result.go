package mesh

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Usage holds accounting metadata for a completed run.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	Cost         decimal.Decimal
}

// RunResult is the finalized outcome of one actor run, handed to
// [Actor.CompleteRun] by the execution engine.
type RunResult struct {
	// RunID identifies the run. Left empty, CompleteRun assigns one.
	RunID string

	// Final is the run's final output. This is the payload a child delivers
	// to its parent.
	Final json.RawMessage

	// Usage contains token counts and cost for the run.
	Usage Usage

	// Err is non-nil if the run itself failed. The run is still considered
	// completed and hooks still fire.
	Err error
}
