// Package organize orchestrates the staged pipeline: validate, scan,
// extract, classify, analyze, aggregate, suggest, rerank, select,
// execute, learn, index.
package organize

import (
	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/sortd/internal/analyze"
	"github.com/hpungsan/sortd/internal/classify"
	"github.com/hpungsan/sortd/internal/mover"
	"github.com/hpungsan/sortd/internal/scan"
	"github.com/hpungsan/sortd/internal/suggest"
)

// Options holds the per-run knobs.
type Options struct {
	Recursive    bool
	DryRun       bool
	Copy         bool
	AutoYes      bool
	OutputDir    string
	PreviewChars int
	MaxFileSize  int64
}

// State is the accumulator threaded through the pipeline. Every field
// is written by exactly one stage; stages read prior fields and treat
// absent data as empty defaults.
type State struct {
	RunID   string
	Inputs  []string
	Options Options

	ValidPaths   []string
	ScannedPaths []string
	Files        []scan.FileMeta
	Groups       classify.Groups

	ImageAnalyses []analyze.ImageAnalysis
	TextAnalyses  []analyze.TextAnalysis
	OtherAnalyses []analyze.OtherAnalysis
	Aggregate     analyze.Aggregate

	Suggestions *suggest.Response
	Selected    *suggest.Suggestion
	Cancelled   bool
	ExecResult  *mover.Result

	// Fatal halts the pipeline; Warnings never do.
	Fatal    []error
	Warnings []string
}

// NewState mints a run ID and seeds the accumulator.
func NewState(inputs []string, opts Options) *State {
	return &State{
		RunID:   ulid.Make().String(),
		Inputs:  inputs,
		Options: opts,
	}
}

// Warn appends non-fatal notes.
func (s *State) Warn(msgs ...string) {
	s.Warnings = append(s.Warnings, msgs...)
}

// Fail records a fatal error.
func (s *State) Fail(err error) {
	s.Fatal = append(s.Fatal, err)
}

// HasFatal reports whether the run hit a halting condition.
func (s *State) HasFatal() bool {
	return len(s.Fatal) > 0
}
