// Package suggest generates organization proposals from the aggregated
// analysis and repairs them to cover the input file set exactly.
package suggest

import (
	"fmt"
	"math"
	"strings"
)

// FolderNode is one folder in a proposed structure, holding file names
// directly and optionally nested subfolders.
type FolderNode struct {
	Name       string       `json:"name"`
	Files      []string     `json:"files"`
	Subfolders []FolderNode `json:"subfolders,omitempty"`
}

// TotalFiles counts files in this folder and all subfolders.
func (n FolderNode) TotalFiles() int {
	total := len(n.Files)
	for _, sub := range n.Subfolders {
		total += sub.TotalFiles()
	}
	return total
}

// AllFiles returns every file name in this folder and its subfolders.
func (n FolderNode) AllFiles() []string {
	all := append([]string(nil), n.Files...)
	for _, sub := range n.Subfolders {
		all = append(all, sub.AllFiles()...)
	}
	return all
}

// ValidateFolderName rejects names containing path separators or NUL.
func ValidateFolderName(name string) error {
	for _, c := range []string{"/", "\\", "\x00"} {
		if strings.Contains(name, c) {
			return fmt.Errorf("folder name cannot contain %q", c)
		}
	}
	return nil
}

// FolderStructure is a complete proposed organization: a base path plus
// folder nodes. An empty folder list means all files go directly into
// the base path.
type FolderStructure struct {
	BasePath string       `json:"base_path"`
	Folders  []FolderNode `json:"folders"`
}

// TotalFiles counts files across the whole structure.
func (s FolderStructure) TotalFiles() int {
	total := 0
	for _, f := range s.Folders {
		total += f.TotalFiles()
	}
	return total
}

// AllFiles returns every file name in the structure.
func (s FolderStructure) AllFiles() []string {
	var all []string
	for _, f := range s.Folders {
		all = append(all, f.AllFiles()...)
	}
	return all
}

// IsFlat reports whether all files go directly into the base path.
func (s FolderStructure) IsFlat() bool {
	return len(s.Folders) == 0
}

// Suggestion is one candidate organization with a confidence and a
// rationale.
type Suggestion struct {
	FolderStructure FolderStructure `json:"folder_structure"`
	Confidence      float64         `json:"confidence"`
	Reasoning       string          `json:"reasoning"`
	Rank            int             `json:"suggested_rank,omitempty"`
}

// ConfidenceLabel buckets the confidence into high, medium, or low.
func (s Suggestion) ConfidenceLabel() string {
	switch {
	case s.Confidence >= 0.8:
		return "high"
	case s.Confidence >= 0.5:
		return "medium"
	default:
		return "low"
	}
}

// Response is the full proposal set returned by generation.
type Response struct {
	Suggestions     []Suggestion `json:"suggestions"`
	AnalysisSummary string       `json:"analysis_summary,omitempty"`
	FileCount       int          `json:"file_count"`
	Warnings        []string     `json:"warnings,omitempty"`
}

// Best returns the highest-confidence suggestion, or nil when empty.
func (r *Response) Best() *Suggestion {
	if len(r.Suggestions) == 0 {
		return nil
	}
	best := 0
	for i := range r.Suggestions {
		if r.Suggestions[i].Confidence > r.Suggestions[best].Confidence {
			best = i
		}
	}
	return &r.Suggestions[best]
}

// normalize trims base paths, rounds confidences to 2 decimals, and
// assigns default ranks in listed order.
func (r *Response) normalize() {
	for i := range r.Suggestions {
		s := &r.Suggestions[i]
		s.FolderStructure.BasePath = strings.Trim(strings.TrimSpace(s.FolderStructure.BasePath), "/")
		s.Confidence = math.Round(s.Confidence*100) / 100
		if s.Rank == 0 {
			s.Rank = i + 1
		}
	}
}

// ResponseSchema is the JSON schema sent as the generation format
// constraint and honored when parsing the answer back.
const ResponseSchema = `{
  "type": "object",
  "properties": {
    "suggestions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "folder_structure": {
            "type": "object",
            "properties": {
              "base_path": {"type": "string"},
              "folders": {
                "type": "array",
                "items": {
                  "type": "object",
                  "properties": {
                    "name": {"type": "string"},
                    "files": {"type": "array", "items": {"type": "string"}}
                  },
                  "required": ["name", "files"]
                }
              }
            },
            "required": ["base_path", "folders"]
          },
          "confidence": {"type": "number"},
          "reasoning": {"type": "string"}
        },
        "required": ["folder_structure", "confidence", "reasoning"]
      }
    },
    "file_count": {"type": "integer"},
    "analysis_summary": {"type": "string"}
  },
  "required": ["suggestions", "file_count"]
}`
