package mover

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/hpungsan/sortd/internal/scan"
	"github.com/hpungsan/sortd/internal/suggest"
)

func writeFile(t *testing.T, path, content string) scan.FileMeta {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return scan.FileMeta{Name: filepath.Base(path), Path: path}
}

func TestBasePath(t *testing.T) {
	files := []scan.FileMeta{{Path: "/data/in/a.txt"}}

	if got := BasePath("/out", files, "Organized"); got != filepath.Join("/out", "Organized") {
		t.Errorf("with output dir: %q", got)
	}
	if got := BasePath("", files, "Organized"); got != filepath.Join("/data/in", "Organized") {
		t.Errorf("from first file: %q", got)
	}

	cwd, _ := os.Getwd()
	if got := BasePath("", nil, "Organized"); got != filepath.Join(cwd, "Organized") {
		t.Errorf("cwd fallback: %q", got)
	}
}

func TestBuildOperations(t *testing.T) {
	files := []scan.FileMeta{
		{Name: "a.txt", Path: "/in/a.txt"},
		{Name: "b.txt", Path: "/in/b.txt"},
		{Name: "c.txt", Path: "/in/c.txt"},
	}
	structure := suggest.FolderStructure{
		BasePath: "Organized",
		Folders: []suggest.FolderNode{
			{Name: "Docs", Files: []string{"a.txt", "unknown.txt"}, Subfolders: []suggest.FolderNode{
				{Name: "Old", Files: []string{"b.txt"}},
			}},
			{Name: "Misc", Files: []string{"c.txt"}},
		},
	}

	ops := BuildOperations(structure, files, "/base")
	if len(ops) != 3 {
		t.Fatalf("ops = %v", ops)
	}
	if ops[0].Dest != filepath.Join("/base", "Docs", "a.txt") {
		t.Errorf("ops[0] = %+v", ops[0])
	}
	if ops[1].Dest != filepath.Join("/base", "Docs", "Old", "b.txt") {
		t.Errorf("ops[1] = %+v", ops[1])
	}
	if ops[2].Dest != filepath.Join("/base", "Misc", "c.txt") {
		t.Errorf("ops[2] = %+v", ops[2])
	}
}

func TestPreview(t *testing.T) {
	ops := []Operation{
		{Source: "/in/a.txt", Dest: "/base/Docs/a.txt"},
		{Source: "/in/b.txt", Dest: "/base/Docs/b.txt"},
	}

	out := Preview(ops, true, false)
	if !strings.Contains(out, "[DRY RUN]") || !strings.Contains(out, "FILE MOVE PREVIEW") {
		t.Errorf("preview header: %q", out)
	}
	if !strings.Contains(out, "a.txt") || !strings.Contains(out, "Total: 2 files") {
		t.Errorf("preview body: %q", out)
	}

	out = Preview(ops, false, true)
	if !strings.Contains(out, "FILE COPY PREVIEW") || strings.Contains(out, "DRY RUN") {
		t.Errorf("copy preview: %q", out)
	}
}

func TestExecute_DryRun(t *testing.T) {
	res := Execute([]Operation{{Source: "x", Dest: "y"}}, true, false)
	if res.Status != StatusDryRun || res.WouldProcess != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestExecute_MoveSuccess(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "in", "a.txt"), "hello")

	dest := filepath.Join(dir, "out", "Docs", "a.txt")
	res := Execute([]Operation{{Source: src.Path, Dest: dest}}, false, false)

	if res.Status != StatusSuccess || res.FilesProcessed != 1 || res.DirsCreated != 1 {
		t.Errorf("result = %+v", res)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("dest missing: %v", err)
	}
	if _, err := os.Stat(src.Path); !os.IsNotExist(err) {
		t.Error("source should be gone after move")
	}
	if len(res.Done) != 1 || res.Done[0].Dest != dest {
		t.Errorf("Done = %+v", res.Done)
	}
}

func TestExecute_CopyKeepsSource(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "in", "a.txt"), "hello")

	dest := filepath.Join(dir, "out", "a.txt")
	res := Execute([]Operation{{Source: src.Path, Dest: dest}}, false, true)

	if res.Status != StatusSuccess {
		t.Errorf("result = %+v", res)
	}
	if _, err := os.Stat(src.Path); err != nil {
		t.Error("source should remain after copy")
	}
	got, err := os.ReadFile(dest)
	if err != nil || string(got) != "hello" {
		t.Errorf("dest content = %q, err = %v", got, err)
	}
}

func TestExecute_CollisionRename(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "in", "a.txt"), "new")
	writeFile(t, filepath.Join(dir, "out", "a.txt"), "existing")

	dest := filepath.Join(dir, "out", "a.txt")
	res := Execute([]Operation{{Source: src.Path, Dest: dest}}, false, false)

	if res.Status != StatusSuccess || res.FilesProcessed != 1 {
		t.Fatalf("result = %+v", res)
	}

	// Original untouched, new file got a timestamp suffix
	got, _ := os.ReadFile(dest)
	if string(got) != "existing" {
		t.Errorf("existing file overwritten: %q", got)
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "out"))
	renamed := ""
	for _, e := range entries {
		if e.Name() != "a.txt" {
			renamed = e.Name()
		}
	}
	if !regexp.MustCompile(`^a_\d{6}\.txt$`).MatchString(renamed) {
		t.Errorf("renamed file = %q, want a_HHMMSS.txt", renamed)
	}
}

func TestExecute_MissingSourceIsPartial(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "in", "ok.txt"), "x")

	ops := []Operation{
		{Source: filepath.Join(dir, "in", "gone.txt"), Dest: filepath.Join(dir, "out", "gone.txt")},
		{Source: src.Path, Dest: filepath.Join(dir, "out", "ok.txt")},
	}
	res := Execute(ops, false, false)

	if res.Status != StatusPartial {
		t.Errorf("status = %q, want partial", res.Status)
	}
	if res.MissingSource != 1 || res.FilesProcessed != 1 || res.FilesFailed != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestExecute_EmptyBatchIsError(t *testing.T) {
	res := Execute(nil, false, false)
	if res.Status != StatusError {
		t.Errorf("status = %q, want error", res.Status)
	}
}
