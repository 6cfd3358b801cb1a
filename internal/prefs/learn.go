package prefs

import (
	"time"

	"github.com/hpungsan/sortd/internal/analyze"
	"github.com/hpungsan/sortd/internal/suggest"
)

// Learn records the accepted suggestion: strategy score, history entry,
// stats, and per-folder scene-name mappings inferred from the image
// analyses. One atomic save at the end covers all mutations.
func (s *Store) Learn(runID string, resp *suggest.Response, selected *suggest.Suggestion, images []analyze.ImageAnalysis) error {
	strategy := DetectStrategy(selected.FolderStructure.BasePath)

	index := 0
	for i, sg := range resp.Suggestions {
		if sg.FolderStructure.BasePath == selected.FolderStructure.BasePath {
			index = i
			break
		}
	}

	total := len(resp.Suggestions)
	if total == 0 {
		total = 1
	}

	s.RecordChoice(HistoryEntry{
		Timestamp:       time.Now(),
		RunID:           runID,
		Strategy:        strategy,
		SuggestionIndex: index,
		FilesOrganized:  selected.FolderStructure.TotalFiles(),
	}, total)

	sceneByName := make(map[string]string, len(images))
	for _, img := range images {
		if img.Scene != "" {
			sceneByName[img.Name] = img.Scene
		}
	}
	for _, folder := range selected.FolderStructure.Folders {
		if scene := dominantScene(folder, sceneByName); scene != "" {
			s.LearnFolderName(scene, folder.Name)
		}
	}

	return s.Save()
}

// dominantScene picks the most common scene among a folder's files,
// ties broken by first appearance.
func dominantScene(folder suggest.FolderNode, sceneByName map[string]string) string {
	counts := make(map[string]int)
	var order []string
	for _, name := range folder.Files {
		scene, ok := sceneByName[name]
		if !ok {
			continue
		}
		if counts[scene] == 0 {
			order = append(order, scene)
		}
		counts[scene]++
	}

	best := ""
	for _, scene := range order {
		if best == "" || counts[scene] > counts[best] {
			best = scene
		}
	}
	return best
}
