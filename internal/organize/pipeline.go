package organize

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hpungsan/sortd/internal/analyze"
	"github.com/hpungsan/sortd/internal/classify"
	"github.com/hpungsan/sortd/internal/errors"
	"github.com/hpungsan/sortd/internal/index"
	"github.com/hpungsan/sortd/internal/mover"
	"github.com/hpungsan/sortd/internal/prefs"
	"github.com/hpungsan/sortd/internal/provider"
	"github.com/hpungsan/sortd/internal/scan"
	"github.com/hpungsan/sortd/internal/suggest"
)

// Pipeline wires the collaborators one run needs. Index may be nil when
// no embedding index is kept.
type Pipeline struct {
	Providers provider.Set
	Prefs     *prefs.Store
	Index     *index.Store
	Reporter  Reporter
	In        io.Reader
	Out       io.Writer
}

// Run executes the stages in order on a fresh accumulator. Only the
// fatal conditions halt; everything else degrades with warnings. The
// context cancels outbound provider calls and the selection prompt.
func (p *Pipeline) Run(ctx context.Context, inputs []string, opts Options) *State {
	state := NewState(inputs, opts)

	p.validate(state)
	if state.HasFatal() {
		return state
	}

	p.scan(state)
	if state.HasFatal() {
		return state
	}

	p.extract(state)
	if state.HasFatal() {
		return state
	}

	p.classify(state)
	p.analyzeImages(ctx, state)
	p.analyzeTexts(ctx, state)
	p.analyzeOthers(state)
	p.aggregate(state)

	p.generate(ctx, state)
	if state.HasFatal() {
		return state
	}

	p.rerank(state)

	p.selectSuggestion(ctx, state)
	if state.Cancelled || state.HasFatal() {
		return state
	}

	p.execute(state)
	p.learn(state)
	p.indexFiles(ctx, state)

	for _, w := range state.Warnings {
		p.Reporter.Warn(w)
	}
	return state
}

func (p *Pipeline) validate(state *State) {
	p.Reporter.Stage("validate", "running")
	valid, errs := scan.ValidatePaths(state.Inputs)
	state.ValidPaths = valid
	for _, err := range errs {
		state.Fail(err)
	}
	if len(valid) == 0 && !state.HasFatal() {
		state.Fail(errors.NewNoInputPaths())
	}
	p.Reporter.Stage("validate", "complete")
}

func (p *Pipeline) scan(state *State) {
	p.Reporter.Stage("scan", "running")
	res := scan.Walk(state.ValidPaths, state.Options.Recursive, state.Options.MaxFileSize)
	state.Warn(res.Warnings...)
	state.ScannedPaths = res.Paths

	if len(res.Paths) == 0 {
		state.Fail(errors.NewNoFiles("no files found in the given paths"))
		return
	}
	p.Reporter.Stage("scan", "complete")
}

func (p *Pipeline) extract(state *State) {
	p.Reporter.Stage("extract", "running")
	files, warnings := scan.Extract(state.ScannedPaths, state.Options.PreviewChars)
	state.Warn(warnings...)
	state.Files = files

	if len(files) == 0 {
		state.Fail(errors.NewNoFiles("no file metadata could be extracted"))
		return
	}
	p.Reporter.Stage("extract", "complete")
}

func (p *Pipeline) classify(state *State) {
	p.Reporter.Stage("classify", "running")
	state.Groups = classify.Partition(state.Files)
	p.Reporter.Stage("classify", "complete")
}

func (p *Pipeline) analyzeImages(ctx context.Context, state *State) {
	if len(state.Groups.Images) == 0 {
		p.Reporter.Stage("analyze images", "skipped")
		return
	}
	p.Reporter.Stage("analyze images", "running")
	results, warnings := analyze.Images(ctx, p.Providers.Vision, state.Groups.Images)
	state.ImageAnalyses = results
	state.Warn(warnings...)
	p.Reporter.Stage("analyze images", "complete")
}

func (p *Pipeline) analyzeTexts(ctx context.Context, state *State) {
	if len(state.Groups.Texts) == 0 {
		p.Reporter.Stage("analyze text", "skipped")
		return
	}
	p.Reporter.Stage("analyze text", "running")
	results, warnings := analyze.Texts(ctx, p.Providers.Generator, state.Groups.Texts)
	state.TextAnalyses = results
	state.Warn(warnings...)
	p.Reporter.Stage("analyze text", "complete")
}

func (p *Pipeline) analyzeOthers(state *State) {
	combined := append(append([]scan.FileMeta(nil), state.Groups.Documents...), state.Groups.Others...)
	if len(combined) == 0 {
		p.Reporter.Stage("analyze other", "skipped")
		return
	}
	p.Reporter.Stage("analyze other", "running")
	state.OtherAnalyses = analyze.Others(combined)
	p.Reporter.Stage("analyze other", "complete")
}

func (p *Pipeline) aggregate(state *State) {
	p.Reporter.Stage("aggregate", "running")
	state.Aggregate = analyze.NewAggregate(len(state.Files), state.ImageAnalyses, state.TextAnalyses, state.OtherAnalyses)
	p.Reporter.Stage("aggregate", "complete")
}

func (p *Pipeline) generate(ctx context.Context, state *State) {
	p.Reporter.Stage("generate", "running")
	resp, err := suggest.Generate(ctx, p.Providers.Generator, state.Files, state.Aggregate)
	if err != nil {
		state.Fail(err)
		return
	}
	state.Suggestions = resp
	p.Reporter.Stage("generate", "complete")
}

func (p *Pipeline) rerank(state *State) {
	p.Reporter.Stage("rerank", "running")
	p.Prefs.Apply(state.Suggestions)
	p.Reporter.Stage("rerank", "complete")
}

func (p *Pipeline) selectSuggestion(ctx context.Context, state *State) {
	if state.Suggestions == nil || len(state.Suggestions.Suggestions) == 0 {
		state.Fail(errors.NewNoSelection("no suggestions to choose from"))
		return
	}

	if state.Options.AutoYes {
		state.Selected = AutoSelect(state.Suggestions)
		return
	}

	selected, cancelled := Select(ctx, p.In, p.Out, state.Suggestions)
	if cancelled {
		state.Cancelled = true
		p.Reporter.Info("operation cancelled")
		return
	}
	state.Selected = selected
}

func (p *Pipeline) execute(state *State) {
	p.Reporter.Stage("execute", "running")

	basePath := mover.BasePath(state.Options.OutputDir, state.Files, state.Selected.FolderStructure.BasePath)
	ops := mover.BuildOperations(state.Selected.FolderStructure, state.Files, basePath)

	if len(ops) == 0 {
		state.Fail(errors.NewExecutionFailed("no valid file operations to execute"))
		return
	}

	p.Reporter.Info(mover.Preview(ops, state.Options.DryRun, state.Options.Copy))

	res := mover.Execute(ops, state.Options.DryRun, state.Options.Copy)
	state.ExecResult = &res
	state.Warn(res.Errors...)

	switch res.Status {
	case mover.StatusDryRun:
		p.Reporter.Info(fmt.Sprintf("dry run complete, would process %d files", res.WouldProcess))
	case mover.StatusError:
		state.Fail(errors.NewExecutionFailed("execution produced no successful operations"))
	default:
		p.Reporter.Info(fmt.Sprintf("%d files processed, %d failed, %d directories created",
			res.FilesProcessed, res.FilesFailed, res.DirsCreated))
	}
	p.Reporter.Stage("execute", "complete")
}

// learn records the accepted choice when execution landed.
func (p *Pipeline) learn(state *State) {
	if state.Cancelled || state.ExecResult == nil {
		return
	}
	if state.ExecResult.Status != mover.StatusSuccess && state.ExecResult.Status != mover.StatusPartial {
		return
	}

	p.Reporter.Stage("learn", "running")
	if err := p.Prefs.Learn(state.RunID, state.Suggestions, state.Selected, state.ImageAnalyses); err != nil {
		state.Warn(fmt.Sprintf("could not record preferences: %v", err))
	}
	p.Reporter.Stage("learn", "complete")
}

// indexFiles embeds a summary line per organized file and upserts it
// into the embedding index. Best effort throughout.
func (p *Pipeline) indexFiles(ctx context.Context, state *State) {
	if p.Index == nil || state.ExecResult == nil || len(state.ExecResult.Done) == 0 {
		return
	}
	emb := p.Providers.Embedder
	if emb == nil || !emb.Available(ctx) {
		return
	}

	p.Reporter.Stage("index", "running")
	summaries := p.buildSummaries(state)

	typeByName := make(map[string]string, len(state.Files))
	for _, f := range state.Files {
		typeByName[f.Name] = string(f.Type)
	}

	for _, op := range state.ExecResult.Done {
		name := baseName(op.Dest)
		summary := summaries[baseName(op.Source)]
		if summary == "" {
			summary = name
		}

		vec, err := emb.Embed(ctx, summary)
		if err != nil {
			state.Warn(fmt.Sprintf("could not embed %s: %v", name, err))
			continue
		}
		if err := p.Index.Put(index.Entry{
			Path:        op.Dest,
			Name:        name,
			ContentType: typeByName[baseName(op.Source)],
			Summary:     summary,
			Vector:      vec,
			RunID:       state.RunID,
		}); err != nil {
			state.Warn(fmt.Sprintf("could not index %s: %v", name, err))
		}
	}
	p.Reporter.Stage("index", "complete")
}

// buildSummaries maps file names to one-line descriptions drawn from
// the richest analysis available for each file.
func (p *Pipeline) buildSummaries(state *State) map[string]string {
	summaries := make(map[string]string)

	for _, t := range state.TextAnalyses {
		switch {
		case t.Summary != "":
			summaries[t.Name] = t.Summary
		case len(t.Topics) > 0:
			summaries[t.Name] = fmt.Sprintf("%s file about %s", t.DocumentType, strings.Join(t.Topics, ", "))
		default:
			summaries[t.Name] = t.DocumentType + " file " + t.Name
		}
	}
	for _, img := range state.ImageAnalyses {
		summaries[img.Name] = img.Description
	}
	for _, o := range state.OtherAnalyses {
		summaries[o.Name] = o.DetailedType + " file " + o.Name
	}
	return summaries
}

func baseName(path string) string {
	return filepath.Base(path)
}
