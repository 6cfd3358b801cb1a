package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hpungsan/sortd/internal/analyze"
	"github.com/hpungsan/sortd/internal/errors"
	"github.com/hpungsan/sortd/internal/provider"
	"github.com/hpungsan/sortd/internal/scan"
)

// Generate asks the provider for organization proposals, repairs them to
// cover the file set exactly, and validates the result. Errors carry the
// provider error codes so the pipeline can ledger them as fatal.
func Generate(ctx context.Context, g provider.Generator, files []scan.FileMeta, agg analyze.Aggregate) (*Response, error) {
	if g == nil || !g.Available(ctx) {
		return nil, errors.NewProviderUnavailable(
			"model service is not reachable; start Ollama (ollama serve) and verify the model is installed")
	}

	prompt := BuildPrompt(files, agg)

	raw, err := g.Generate(ctx, prompt, []byte(ResponseSchema))
	if err != nil {
		return nil, err
	}

	resp, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if resp.FileCount == 0 {
		resp.FileCount = len(files)
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	Repair(resp, names)
	resp.normalize()

	if err := validate(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// parseResponse decodes the model output, retrying on the first-{ to
// last-} substring when the direct decode fails.
func parseResponse(raw string) (*Response, error) {
	text := strings.TrimSpace(raw)

	var resp Response
	if err := json.Unmarshal([]byte(text), &resp); err == nil {
		return &resp, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &resp); err == nil {
			return &resp, nil
		}
	}

	snippet := text
	if len(snippet) > 500 {
		snippet = snippet[:500]
	}
	return nil, errors.NewProviderParse(fmt.Sprintf("cannot parse suggestion response: %s", snippet))
}

// validate enforces the post-repair contract: at least one suggestion,
// valid folder names, confidences in range.
func validate(resp *Response) error {
	if len(resp.Suggestions) == 0 {
		return errors.NewProviderParse("response contains no suggestions")
	}
	for i, s := range resp.Suggestions {
		if s.Confidence < 0 || s.Confidence > 1 {
			return errors.NewProviderParse(fmt.Sprintf("suggestion %d confidence %.2f out of range", i+1, s.Confidence))
		}
		if err := validateNames(s.FolderStructure.Folders); err != nil {
			return errors.NewProviderParse(fmt.Sprintf("suggestion %d: %v", i+1, err))
		}
	}
	return nil
}

func validateNames(folders []FolderNode) error {
	for _, f := range folders {
		if err := ValidateFolderName(f.Name); err != nil {
			return err
		}
		if err := validateNames(f.Subfolders); err != nil {
			return err
		}
	}
	return nil
}
