package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/hpungsan/sortd/internal/provider"
	"github.com/hpungsan/sortd/internal/scan"
)

// Extension to programming-language table for code files.
var extLanguage = map[string]string{
	".py": "python", ".js": "javascript", ".ts": "typescript",
	".jsx": "javascript", ".tsx": "typescript",
	".java": "java", ".cpp": "c++", ".c": "c", ".h": "c",
	".cs": "c#", ".go": "go", ".rs": "rust", ".rb": "ruby",
	".php": "php", ".swift": "swift", ".kt": "kotlin",
	".scala": "scala", ".r": "r",
	".sh": "shell", ".bash": "shell", ".zsh": "shell",
	".ps1": "powershell", ".bat": "batch",
	".html": "html", ".css": "css", ".scss": "scss",
	".sql": "sql", ".lua": "lua", ".pl": "perl",
	".dart": "dart", ".ex": "elixir", ".exs": "elixir",
	".hs": "haskell", ".ml": "ocaml", ".clj": "clojure",
	".vue": "vue", ".svelte": "svelte",
}

// Extension to document-type table for text files. Code extensions all
// map to "code"; the lookup falls through to extLanguage for those.
var extDocType = map[string]string{
	".json": "config", ".yaml": "config", ".yml": "config",
	".toml": "config", ".ini": "config", ".cfg": "config",
	".env": "config", ".xml": "config", ".properties": "config",
	".editorconfig": "config", ".gitignore": "config", ".dockerignore": "config",
	".md": "readme", ".rst": "readme", ".adoc": "readme",
	".log": "log",
	".csv": "data", ".tsv": "data", ".jsonl": "data", ".ndjson": "data",
	".txt": "notes", ".text": "notes",
}

var markdownExts = map[string]bool{".md": true, ".markdown": true}

// How much of a markdown file is parsed for heading topics.
const markdownHeadBytes = 4096

type textEnrichment struct {
	Topics       []string `json:"topics"`
	DocumentType string   `json:"document_type"`
	Summary      string   `json:"summary"`
}

// Texts analyzes text and code files. Extension heuristics always run;
// markdown files additionally contribute their headings as topics; when
// a generation provider is reachable, files with a preview get a
// best-effort model enrichment merged over the heuristic record.
func Texts(ctx context.Context, g provider.Generator, files []scan.FileMeta) ([]TextAnalysis, []string) {
	if len(files) == 0 {
		return nil, nil
	}

	enrich := g != nil && g.Available(ctx)

	var results []TextAnalysis
	for _, f := range files {
		analysis := heuristicAnalysis(f)

		if markdownExts[f.Ext] {
			if topics := markdownTopics(f.Path); len(topics) > 0 {
				analysis.Topics = topics
			}
		}

		if enrich && f.Preview != "" {
			if e := enrichText(ctx, g, f); e != nil {
				mergeEnrichment(&analysis, e)
			}
		}

		results = append(results, analysis)
	}

	mode := "heuristic"
	if enrich {
		mode = "model-enriched"
	}
	return results, []string{fmt.Sprintf("analyzed %d text files (%s)", len(files), mode)}
}

func heuristicAnalysis(f scan.FileMeta) TextAnalysis {
	analysis := TextAnalysis{
		Path:         f.Path,
		Name:         f.Name,
		ContentType:  string(f.Type),
		Ext:          f.Ext,
		Preview:      f.Preview,
		Size:         f.Size,
		ParentDir:    f.ParentDir,
		Topics:       []string{},
		DocumentType: "other",
	}

	if lang, ok := extLanguage[f.Ext]; ok {
		analysis.Language = lang
		analysis.DocumentType = "code"
	}
	if dt, ok := extDocType[f.Ext]; ok {
		analysis.DocumentType = dt
	} else if f.Type == scan.TypeCode {
		analysis.DocumentType = "code"
	}
	return analysis
}

// markdownTopics lifts the headings from the head of a markdown file.
// Any read or parse trouble just means no topics.
func markdownTopics(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	src, err := io.ReadAll(io.LimitReader(f, markdownHeadBytes))
	if err != nil || len(src) == 0 {
		return nil
	}

	doc := goldmark.New().Parser().Parse(gtext.NewReader(src))

	var topics []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			var sb strings.Builder
			for i := 0; i < h.Lines().Len(); i++ {
				seg := h.Lines().At(i)
				sb.Write(seg.Value(src))
			}
			if topic := strings.TrimSpace(sb.String()); topic != "" {
				topics = append(topics, topic)
			}
		}
		return ast.WalkContinue, nil
	})
	return topics
}

func enrichText(ctx context.Context, g provider.Generator, f scan.FileMeta) *textEnrichment {
	preview := f.Preview
	if len(preview) > 500 {
		preview = preview[:500]
	}
	if strings.TrimSpace(preview) == "" {
		return nil
	}

	prompt := fmt.Sprintf(
		"Analyze this file and respond with ONLY a JSON object.\n\n"+
			"File: %s (%s)\n"+
			"Content preview:\n```\n%s\n```\n\n"+
			"Respond with this exact JSON structure:\n"+
			`{"topics": ["topic1", "topic2"], `+
			`"document_type": "code|notes|config|data|readme|log|other", `+
			`"summary": "one sentence description"}`,
		f.Name, f.Ext, preview,
	)

	raw, err := g.Generate(ctx, prompt, nil)
	if err != nil {
		return nil
	}
	return parseEnrichment(raw)
}

// parseEnrichment tries a direct decode, then the first-{ to last-}
// substring. Nil means the enrichment is simply skipped.
func parseEnrichment(raw string) *textEnrichment {
	var e textEnrichment
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &e); err == nil {
		return &e
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &e); err != nil {
		return nil
	}
	return &e
}

func mergeEnrichment(analysis *TextAnalysis, e *textEnrichment) {
	if len(e.Topics) > 0 {
		analysis.Topics = e.Topics
	}
	if e.DocumentType != "" {
		analysis.DocumentType = e.DocumentType
	}
	if e.Summary != "" {
		analysis.Summary = e.Summary
	}
}
