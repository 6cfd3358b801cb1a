package suggest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hpungsan/sortd/internal/analyze"
	"github.com/hpungsan/sortd/internal/scan"
)

const systemPrompt = `You are an intelligent file organizer. You analyze files deeply and create detailed, specific organization schemes.

TASK: Generate 2-3 DIFFERENT ways to organize the given files. Each suggestion MUST use a fundamentally different strategy.

STRATEGY TYPES (pick 2-3 that best fit the files):

1. BY CONTENT/TOPIC - Group by what the file IS ABOUT.
   - Images: specific scenes (beach sunset, city nightlife, pet portrait, concert, hiking trail)
   - Code: by project, language, or purpose (web frontend, data scripts, configs, tests)
   - Documents: by topic (meeting notes, project plans, research, personal)
   - Use SPECIFIC names, not generic ones. "Beach Sunset Photos" not just "Beach".

2. BY PURPOSE/WORKFLOW - Group by HOW the user would use or access these files.
   - "Work Projects", "Personal Creative", "Reference & Config", "Social Media"

3. BY TYPE & FORMAT - Group primarily by file type with subcategories.
   - "Photos/Outdoor", "Source Code/Python", "Config Files"

CRITICAL RULES:
- EVERY file in the list MUST appear in EXACTLY ONE folder in EACH suggestion. No file may be missing.
- Be SPECIFIC with folder names
- Create 3-6 folders per suggestion (not too few, not too many)
- For code/text files: use their content analysis (topics, language, summary) to place them meaningfully
- Never use filenames or UUIDs as folder names
- Folder names MUST NOT contain "/" or "\" - use " - " or " & " instead
- Output ONLY valid JSON matching the requested schema, no other text`

// BuildPrompt assembles the generation prompt from the file list and
// the aggregated analysis.
func BuildPrompt(files []scan.FileMeta, agg analyze.Aggregate) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nFILES TO ORGANIZE (")
	fmt.Fprintf(&b, "%d total, dominant type: %s):\n", len(files), agg.DominantType)
	for _, f := range files {
		fmt.Fprintf(&b, "- %s (%s, %s)\n", f.Name, f.Type, f.SizeHuman())
	}

	if ctx, err := json.MarshalIndent(agg, "", "  "); err == nil {
		b.WriteString("\nANALYSIS CONTEXT:\n")
		b.Write(ctx)
		b.WriteString("\n")
	}

	b.WriteString("\nGenerate 2-3 organization suggestions now. Respond with ONLY the JSON object.")
	return b.String()
}
