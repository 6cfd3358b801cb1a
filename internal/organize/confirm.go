package organize

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hpungsan/sortd/internal/suggest"
)

// AutoSelect picks the highest-confidence suggestion without prompting.
func AutoSelect(resp *suggest.Response) *suggest.Suggestion {
	return resp.Best()
}

// Select presents the suggestions as a numbered menu and reads the
// operator's choice from in. "c" cancels, out-of-range or non-numeric
// input re-prompts, EOF (non-interactive) auto-selects option 1, and
// context cancellation counts as a cancel.
func Select(ctx context.Context, in io.Reader, out io.Writer, resp *suggest.Response) (*suggest.Suggestion, bool) {
	fmt.Fprintln(out, "\nORGANIZATION OPTIONS")

	for i, sg := range resp.Suggestions {
		displaySuggestion(out, i+1, sg)
	}

	n := len(resp.Suggestions)
	fmt.Fprintf(out, "\nChoose an option:\n  [1-%d] select that option\n  [c] cancel\n", n)

	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil, true
		}

		fmt.Fprint(out, "\nYour choice: ")
		if !scanner.Scan() {
			// non-interactive input exhausted
			fmt.Fprintln(out, "\nnon-interactive mode: auto-selecting option 1")
			return &resp.Suggestions[0], false
		}

		choice := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if choice == "c" {
			return nil, true
		}

		num, err := strconv.Atoi(choice)
		if err != nil {
			fmt.Fprintln(out, "invalid input, enter a number or 'c' to cancel")
			continue
		}
		if num < 1 || num > n {
			fmt.Fprintf(out, "please enter a number between 1 and %d\n", n)
			continue
		}

		fmt.Fprintf(out, "\nselected option %d: %s\n", num, resp.Suggestions[num-1].FolderStructure.BasePath)
		return &resp.Suggestions[num-1], false
	}
}

func displaySuggestion(out io.Writer, index int, sg suggest.Suggestion) {
	fs := sg.FolderStructure

	fmt.Fprintf(out, "\n[%s] Option %d: %s\n", strings.ToUpper(sg.ConfidenceLabel()), index, fs.BasePath)
	fmt.Fprintf(out, "  confidence: %.0f%%\n", sg.Confidence*100)
	fmt.Fprintf(out, "  reasoning: %s\n", sg.Reasoning)
	fmt.Fprintf(out, "  folders: %d | files: %d\n", len(fs.Folders), fs.TotalFiles())

	for _, folder := range fs.Folders {
		fmt.Fprintf(out, "    %s/ (%d files)\n", folder.Name, folder.TotalFiles())
		for i, name := range folder.Files {
			if i == 3 {
				fmt.Fprintf(out, "      ... and %d more\n", len(folder.Files)-3)
				break
			}
			fmt.Fprintf(out, "      - %s\n", name)
		}
		for _, sub := range folder.Subfolders {
			fmt.Fprintf(out, "      %s/ (%d files)\n", sub.Name, sub.TotalFiles())
		}
	}
}
