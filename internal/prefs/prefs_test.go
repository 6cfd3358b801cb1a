package prefs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hpungsan/sortd/internal/analyze"
	"github.com/hpungsan/sortd/internal/suggest"
)

func TestOpen_MissingFile(t *testing.T) {
	s := Open(t.TempDir())
	p := s.Preferences()
	if p.Version != "1.0" {
		t.Errorf("Version = %q", p.Version)
	}
	if len(p.StrategyScores) != 3 {
		t.Errorf("StrategyScores = %v", p.StrategyScores)
	}
}

func TestOpen_CorruptFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "preferences.json"), []byte("{broken"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := Open(dir)
	if s.Preferences().Version != "1.0" {
		t.Error("corrupt file should yield defaults")
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()

	s := Open(dir)
	s.Preferences().StrategyScores[StrategyByActivity] = 7
	s.LearnFolderName("beach", "Beach Days")
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// No stray temp file left behind
	if _, err := os.Stat(filepath.Join(dir, "preferences.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}

	s2 := Open(dir)
	if s2.Preferences().StrategyScores[StrategyByActivity] != 7 {
		t.Errorf("scores = %v", s2.Preferences().StrategyScores)
	}
	if s2.PreferredFolderName("beach", "x") != "Beach Days" {
		t.Errorf("folder name = %q", s2.PreferredFolderName("beach", "x"))
	}
}

func TestRecordChoice_HistoryCapAndStats(t *testing.T) {
	s := Open(t.TempDir())

	for i := 0; i < 105; i++ {
		s.RecordChoice(HistoryEntry{
			Timestamp:       time.Now(),
			Strategy:        StrategyByContent,
			SuggestionIndex: 0,
			FilesOrganized:  2,
		}, 3)
	}

	p := s.Preferences()
	if len(p.History) != 100 {
		t.Errorf("history length = %d, want 100", len(p.History))
	}
	if p.Stats.TotalOrganizations != 105 || p.Stats.TotalFilesOrganized != 210 {
		t.Errorf("stats = %+v", p.Stats)
	}
	if p.Stats.SuggestionsAccepted != 105 {
		t.Errorf("accepted = %d", p.Stats.SuggestionsAccepted)
	}
	// weight = total - index = 3 each time
	if p.StrategyScores[StrategyByContent] != 315 {
		t.Errorf("score = %d", p.StrategyScores[StrategyByContent])
	}
}

func TestStrategyRanking(t *testing.T) {
	s := Open(t.TempDir())
	s.Preferences().StrategyScores[StrategyBySetting] = 10
	s.Preferences().StrategyScores[StrategyByActivity] = 5

	ranking := s.StrategyRanking()
	if ranking[0] != StrategyBySetting || ranking[1] != StrategyByActivity || ranking[2] != StrategyByContent {
		t.Errorf("ranking = %v", ranking)
	}
}

func TestDetectStrategy(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"Organized/By Content", StrategyByContent},
		{"Organized/By Type", StrategyByContent},
		{"Organized/By Activity", StrategyByActivity},
		{"Events 2026", StrategyByActivity},
		{"By Setting", StrategyBySetting},
		{"By Location", StrategyBySetting},
		{"Random Path", StrategyByContent},
	}
	for _, tt := range tests {
		if got := DetectStrategy(tt.base); got != tt.want {
			t.Errorf("DetectStrategy(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestApply_ReordersByPreferredStrategy(t *testing.T) {
	s := Open(t.TempDir())
	s.Preferences().StrategyScores[StrategyBySetting] = 10

	resp := &suggest.Response{Suggestions: []suggest.Suggestion{
		{FolderStructure: suggest.FolderStructure{BasePath: "By Content"}, Confidence: 0.9, Reasoning: "content"},
		{FolderStructure: suggest.FolderStructure{BasePath: "By Setting"}, Confidence: 0.7, Reasoning: "setting"},
	}}

	s.Apply(resp)

	if resp.Suggestions[0].Reasoning != "setting" {
		t.Errorf("first suggestion = %+v", resp.Suggestions[0])
	}
	// boost for rank 0 of 3 strategies: 3 * 0.05 = 0.15
	if resp.Suggestions[0].Confidence != 0.85 {
		t.Errorf("boosted confidence = %v", resp.Suggestions[0].Confidence)
	}
	if resp.Suggestions[0].Rank != 1 || resp.Suggestions[1].Rank != 2 {
		t.Errorf("ranks = %d, %d", resp.Suggestions[0].Rank, resp.Suggestions[1].Rank)
	}
}

func TestApply_ConfidenceCappedAtOne(t *testing.T) {
	s := Open(t.TempDir())
	resp := &suggest.Response{Suggestions: []suggest.Suggestion{
		{FolderStructure: suggest.FolderStructure{BasePath: "By Content"}, Confidence: 0.98},
	}}

	s.Apply(resp)
	if resp.Suggestions[0].Confidence != 1.0 {
		t.Errorf("confidence = %v, want capped at 1.0", resp.Suggestions[0].Confidence)
	}
}

func TestApply_SubstitutesLearnedFolderNames(t *testing.T) {
	s := Open(t.TempDir())
	s.LearnFolderName("beach", "Beach Days")

	resp := &suggest.Response{Suggestions: []suggest.Suggestion{
		{FolderStructure: suggest.FolderStructure{
			BasePath: "By Content",
			Folders: []suggest.FolderNode{
				{Name: "Beach & Pool", Files: []string{"a.jpg"}},
				{Name: "Documents", Files: []string{"b.pdf"}},
			},
		}, Confidence: 0.8},
	}}

	s.Apply(resp)

	folders := resp.Suggestions[0].FolderStructure.Folders
	if folders[0].Name != "Beach Days" {
		t.Errorf("folder name = %q", folders[0].Name)
	}
	if folders[1].Name != "Documents" {
		t.Errorf("unrelated folder renamed to %q", folders[1].Name)
	}
}

func TestLearn(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir)

	resp := &suggest.Response{Suggestions: []suggest.Suggestion{
		{FolderStructure: suggest.FolderStructure{BasePath: "By Content"}, Confidence: 0.9},
		{FolderStructure: suggest.FolderStructure{
			BasePath: "By Setting",
			Folders: []suggest.FolderNode{
				{Name: "Beach Trips", Files: []string{"a.jpg", "b.jpg", "c.txt"}},
			},
		}, Confidence: 0.8},
	}}
	selected := &resp.Suggestions[1]

	images := []analyze.ImageAnalysis{
		{Name: "a.jpg", Scene: "beach"},
		{Name: "b.jpg", Scene: "beach"},
	}

	if err := s.Learn("01JRUN", resp, selected, images); err != nil {
		t.Fatalf("Learn failed: %v", err)
	}

	p := s.Preferences()
	// weight = 2 suggestions - index 1 = 1
	if p.StrategyScores[StrategyBySetting] != 1 {
		t.Errorf("scores = %v", p.StrategyScores)
	}
	if len(p.History) != 1 || p.History[0].RunID != "01JRUN" || p.History[0].FilesOrganized != 3 {
		t.Errorf("history = %+v", p.History)
	}
	if p.FolderNames["beach"] != "Beach Trips" {
		t.Errorf("folder names = %v", p.FolderNames)
	}

	// persisted
	s2 := Open(dir)
	if s2.Preferences().Stats.TotalOrganizations != 1 {
		t.Error("Learn should persist to disk")
	}
}
