package analyze

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hpungsan/sortd/internal/provider"
	"github.com/hpungsan/sortd/internal/scan"
)

const visionPrompt = `Analyze this image carefully and respond with a JSON object.

REQUIRED FIELDS:
- description: Detailed description of what you see
- objects: Array of main objects/things visible
- scene: MUST be one of these categories:
    "selfie", "portrait", "group-photo", "beach", "pool", "nature",
    "city-street", "restaurant", "bar", "home-indoor", "office",
    "event", "travel", "sports", "music", "art", "food", "pet", "other"
- people_count: Number of people (0, 1, 2, 3, etc. or null if unclear)
- indoor_outdoor: "indoor" or "outdoor"
- activities: Array of activities happening, or null

Choose the BEST scene category that matches.

JSON format:
{
  "description": "...",
  "objects": ["..."],
  "scene": "one-of-the-categories-above",
  "people_count": 1,
  "indoor_outdoor": "outdoor",
  "activities": ["..."] or null
}

Respond ONLY with valid JSON, no other text.`

type visionResult struct {
	Description   string   `json:"description"`
	Objects       []string `json:"objects"`
	Scene         string   `json:"scene"`
	PeopleCount   *int     `json:"people_count"`
	IndoorOutdoor string   `json:"indoor_outdoor"`
	Activities    []string `json:"activities"`
}

// Images analyzes every image with the vision provider. An unavailable
// provider yields a single warning and an empty result; a per-file
// failure yields a warning for that file and the rest proceed.
func Images(ctx context.Context, v provider.Vision, files []scan.FileMeta) ([]ImageAnalysis, []string) {
	if len(files) == 0 {
		return nil, nil
	}

	if v == nil || !v.Available(ctx) {
		return nil, []string{"vision model not available, skipping image analysis (install with: ollama pull llava:7b)"}
	}

	var results []ImageAnalysis
	var warnings []string

	for _, f := range files {
		analysis, err := analyzeImage(ctx, v, f)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to analyze image %s: %v", f.Name, err))
			continue
		}
		results = append(results, analysis)
	}
	return results, warnings
}

func analyzeImage(ctx context.Context, v provider.Vision, f scan.FileMeta) (ImageAnalysis, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return ImageAnalysis{}, fmt.Errorf("cannot read image: %w", err)
	}

	raw, err := v.Describe(ctx, visionPrompt, base64.StdEncoding.EncodeToString(data))
	if err != nil {
		return ImageAnalysis{}, err
	}

	result := parseVisionResult(raw)
	if result.Description == "" {
		result.Description = "Image file: " + f.Name
	}

	return ImageAnalysis{
		Path:          f.Path,
		Name:          f.Name,
		Description:   result.Description,
		Objects:       result.Objects,
		Scene:         result.Scene,
		PeopleCount:   result.PeopleCount,
		IndoorOutdoor: result.IndoorOutdoor,
		Activities:    result.Activities,
		DateModified:  f.ModTime,
	}, nil
}

// parseVisionResult decodes the model's JSON answer, tolerating markdown
// code fences. Unparseable output degrades to a raw-text description.
func parseVisionResult(raw string) visionResult {
	text := stripCodeFence(strings.TrimSpace(raw))

	var result visionResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		if len(text) > 500 {
			text = text[:500]
		}
		return visionResult{Description: text}
	}
	return result
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
