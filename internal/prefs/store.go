// Package prefs persists learned user preferences and applies them to
// fresh suggestion sets: strategy re-ranking, folder-name substitution,
// and confidence boosts.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Strategy tags learned from base-path keywords.
const (
	StrategyByContent  = "by_content"
	StrategyByActivity = "by_activity"
	StrategyBySetting  = "by_setting"
)

// Canonical strategy order; ranking ties fall back to this.
var strategies = []string{StrategyByContent, StrategyByActivity, StrategyBySetting}

const (
	prefsFile  = "preferences.json"
	historyMax = 100
)

// HistoryEntry records one accepted organization.
type HistoryEntry struct {
	Timestamp       time.Time `json:"timestamp"`
	RunID           string    `json:"run_id,omitempty"`
	Strategy        string    `json:"strategy"`
	SuggestionIndex int       `json:"suggestion_index"`
	FilesOrganized  int       `json:"files_organized"`
	WasModified     bool      `json:"was_modified"`
}

// Stats holds running usage counters.
type Stats struct {
	TotalOrganizations  int `json:"total_organizations"`
	TotalFilesOrganized int `json:"total_files_organized"`
	SuggestionsAccepted int `json:"suggestions_accepted"`
	SuggestionsModified int `json:"suggestions_modified"`
}

// Preferences is the persisted document.
type Preferences struct {
	Version        string            `json:"version"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	StrategyScores map[string]int    `json:"strategy_scores"`
	FolderNames    map[string]string `json:"folder_names"`
	History        []HistoryEntry    `json:"history"`
	Stats          Stats             `json:"stats"`
}

func defaultPreferences() *Preferences {
	now := time.Now()
	return &Preferences{
		Version:   "1.0",
		CreatedAt: now,
		UpdatedAt: now,
		StrategyScores: map[string]int{
			StrategyByContent:  0,
			StrategyByActivity: 0,
			StrategyBySetting:  0,
		},
		FolderNames: map[string]string{},
		History:     []HistoryEntry{},
	}
}

// Store manages the preference document on disk. Loaded once, mutated
// in memory, written back atomically. Last write wins across processes.
type Store struct {
	path  string
	prefs *Preferences
}

// Open loads preferences from baseDir, falling back to defaults when the
// file is absent or unreadable.
func Open(baseDir string) *Store {
	s := &Store{path: filepath.Join(baseDir, prefsFile)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.prefs = defaultPreferences()
		return s
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		s.prefs = defaultPreferences()
		return s
	}
	if prefs.StrategyScores == nil {
		prefs.StrategyScores = defaultPreferences().StrategyScores
	}
	if prefs.FolderNames == nil {
		prefs.FolderNames = map[string]string{}
	}
	s.prefs = &prefs
	return s
}

// Preferences exposes the in-memory document.
func (s *Store) Preferences() *Preferences { return s.prefs }

// Save writes the document atomically via a temp file and rename.
func (s *Store) Save() error {
	s.prefs.UpdatedAt = time.Now()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	data, err := json.MarshalIndent(s.prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}

// Reset restores defaults and persists them.
func (s *Store) Reset() error {
	s.prefs = defaultPreferences()
	return s.Save()
}

// StrategyRanking returns strategies by descending score, ties in
// canonical order.
func (s *Store) StrategyRanking() []string {
	ranking := append([]string(nil), strategies...)
	sort.SliceStable(ranking, func(i, j int) bool {
		return s.prefs.StrategyScores[ranking[i]] > s.prefs.StrategyScores[ranking[j]]
	})
	return ranking
}

// PreferredFolderName returns the learned name for a scene type, or the
// given default.
func (s *Store) PreferredFolderName(sceneType, def string) string {
	if name, ok := s.prefs.FolderNames[sceneType]; ok {
		return name
	}
	return def
}

// LearnFolderName records the user's folder name for a scene type.
// The caller saves when the batch of updates is complete.
func (s *Store) LearnFolderName(sceneType, name string) {
	s.prefs.FolderNames[sceneType] = name
}

// RecordChoice appends a history entry (bounded), bumps the chosen
// strategy's score by its position weight, and updates the counters.
// The caller saves when the batch of updates is complete.
func (s *Store) RecordChoice(entry HistoryEntry, totalSuggestions int) {
	if _, ok := s.prefs.StrategyScores[entry.Strategy]; ok {
		s.prefs.StrategyScores[entry.Strategy] += totalSuggestions - entry.SuggestionIndex
	}

	s.prefs.History = append(s.prefs.History, entry)
	if len(s.prefs.History) > historyMax {
		s.prefs.History = s.prefs.History[len(s.prefs.History)-historyMax:]
	}

	s.prefs.Stats.TotalOrganizations++
	s.prefs.Stats.TotalFilesOrganized += entry.FilesOrganized
	if entry.WasModified {
		s.prefs.Stats.SuggestionsModified++
	} else {
		s.prefs.Stats.SuggestionsAccepted++
	}
}
