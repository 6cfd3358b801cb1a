package prefs

import (
	"math"
	"sort"
	"strings"

	"github.com/hpungsan/sortd/internal/suggest"
)

// Default folder names mapped to the scene types they imply, used to
// swap in the user's learned names. Ordered so the first match wins
// deterministically.
var defaultToScene = []struct {
	name  string
	scene string
}{
	{"selfies", "selfie"},
	{"beach & pool", "beach"},
	{"city & travel", "city-street"},
	{"music & events", "music"},
	{"art & culture", "art"},
	{"sports & fitness", "sports"},
	{"portraits", "portrait"},
	{"home", "home-indoor"},
}

// DetectStrategy infers the strategy tag from a proposal's base path.
func DetectStrategy(basePath string) string {
	base := strings.ToLower(basePath)
	switch {
	case strings.Contains(base, "content") || strings.Contains(base, "type"):
		return StrategyByContent
	case strings.Contains(base, "activity") || strings.Contains(base, "event"):
		return StrategyByActivity
	case strings.Contains(base, "setting") || strings.Contains(base, "location"):
		return StrategyBySetting
	default:
		return StrategyByContent
	}
}

// Apply reorders suggestions by learned strategy preference, boosts
// confidences, and substitutes learned folder names. Ordering key:
// ranking index ascending (unranked last), then adjusted confidence
// descending. Confidence is capped at 1.0 and kept at 2 decimals.
func (s *Store) Apply(resp *suggest.Response) {
	ranking := s.StrategyRanking()
	rankOf := make(map[string]int, len(ranking))
	for i, strat := range ranking {
		rankOf[strat] = i
	}

	type scored struct {
		rank int
		sugg suggest.Suggestion
	}
	items := make([]scored, 0, len(resp.Suggestions))

	for _, sg := range resp.Suggestions {
		strategy := DetectStrategy(sg.FolderStructure.BasePath)

		rank, ok := rankOf[strategy]
		if !ok {
			rank = 99
		} else {
			boost := float64(len(ranking)-rank) * 0.05
			sg.Confidence = math.Round(math.Min(1.0, sg.Confidence+boost)*100) / 100
		}

		s.applyFolderNames(&sg)
		items = append(items, scored{rank: rank, sugg: sg})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].rank != items[j].rank {
			return items[i].rank < items[j].rank
		}
		return items[i].sugg.Confidence > items[j].sugg.Confidence
	})

	for i, item := range items {
		item.sugg.Rank = i + 1
		resp.Suggestions[i] = item.sugg
	}
}

// applyFolderNames swaps default folder names for the user's learned
// names when a folder matches a known scene type.
func (s *Store) applyFolderNames(sg *suggest.Suggestion) {
	for i := range sg.FolderStructure.Folders {
		folder := &sg.FolderStructure.Folders[i]
		lower := strings.ToLower(folder.Name)

		for _, m := range defaultToScene {
			if strings.Contains(lower, m.name) || strings.Contains(m.name, lower) {
				folder.Name = s.PreferredFolderName(m.scene, folder.Name)
				break
			}
		}
	}
}
