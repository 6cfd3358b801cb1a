// Package mover turns a selected folder structure into filesystem
// operations and executes them with collision and permission handling.
package mover

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hpungsan/sortd/internal/scan"
	"github.com/hpungsan/sortd/internal/suggest"
)

// Operation is one planned file relocation.
type Operation struct {
	Source string `json:"source"`
	Dest   string `json:"destination"`
}

// Status classifies the outcome of an execution batch.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
	StatusDryRun  Status = "dry_run"
)

// Result reports an execution batch.
type Result struct {
	Status           Status      `json:"status"`
	FilesProcessed   int         `json:"files_processed"`
	FilesFailed      int         `json:"files_failed"`
	DirsCreated      int         `json:"dirs_created"`
	WouldProcess     int         `json:"would_process,omitempty"`
	MissingSource    int         `json:"missing_source,omitempty"`
	PermissionDenied int         `json:"permission_denied,omitempty"`
	OtherFailures    int         `json:"other_failures,omitempty"`
	Errors           []string    `json:"errors,omitempty"`
	Done             []Operation `json:"completed,omitempty"`
}

// BasePath resolves the absolute base directory for a structure:
// explicit output override, else the parent of the first file, else the
// working directory.
func BasePath(outputDir string, files []scan.FileMeta, structureBase string) string {
	switch {
	case outputDir != "":
		return filepath.Join(outputDir, structureBase)
	case len(files) > 0:
		return filepath.Join(filepath.Dir(files[0].Path), structureBase)
	default:
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		return filepath.Join(cwd, structureBase)
	}
}

// BuildOperations flattens the structure into (source, dest) pairs,
// including one level of nested subfolders. File names without a known
// source are skipped; repair should have made that impossible.
func BuildOperations(structure suggest.FolderStructure, files []scan.FileMeta, basePath string) []Operation {
	lookup := make(map[string]string, len(files))
	for _, f := range files {
		lookup[f.Name] = f.Path
	}

	var ops []Operation
	appendOps := func(dir string, names []string) {
		for _, name := range names {
			if source, ok := lookup[name]; ok {
				ops = append(ops, Operation{Source: source, Dest: filepath.Join(dir, name)})
			}
		}
	}

	for _, folder := range structure.Folders {
		folderDir := filepath.Join(basePath, folder.Name)
		appendOps(folderDir, folder.Files)
		for _, sub := range folder.Subfolders {
			appendOps(filepath.Join(folderDir, sub.Name), sub.Files)
		}
	}
	return ops
}

// Preview renders the planned operations grouped by destination folder.
func Preview(ops []Operation, dryRun, useCopy bool) string {
	action := "MOVE"
	if useCopy {
		action = "COPY"
	}

	var b strings.Builder
	if dryRun {
		b.WriteString("[DRY RUN] ")
	}
	fmt.Fprintf(&b, "FILE %s PREVIEW\n", action)

	byFolder := make(map[string][]string)
	for _, op := range ops {
		dir := filepath.Dir(op.Dest)
		byFolder[dir] = append(byFolder[dir], filepath.Base(op.Source))
	}

	dirs := make([]string, 0, len(byFolder))
	for dir := range byFolder {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		fmt.Fprintf(&b, "\n  %s/\n", dir)
		for _, name := range byFolder[dir] {
			fmt.Fprintf(&b, "    <- %s\n", name)
		}
	}

	fmt.Fprintf(&b, "\nTotal: %d files to %s\n", len(ops), strings.ToLower(action))
	if dryRun {
		b.WriteString("(dry run - no files will be modified)\n")
	}
	return b.String()
}

// Execute runs the operation batch. Dry-run stops after counting.
// Individual failures are classified and counted without aborting the
// batch; destination collisions get a timestamp suffix.
func Execute(ops []Operation, dryRun, useCopy bool) Result {
	if dryRun {
		return Result{Status: StatusDryRun, WouldProcess: len(ops)}
	}
	if len(ops) == 0 {
		return Result{Status: StatusError, Errors: []string{"no valid file operations to execute"}}
	}

	var res Result
	createdDirs := make(map[string]bool)

	for _, op := range ops {
		dir := filepath.Dir(op.Dest)
		if !createdDirs[dir] {
			if err := os.MkdirAll(dir, 0755); err != nil {
				res.recordFailure(err, fmt.Sprintf("cannot create %s: %v", dir, err))
				continue
			}
			createdDirs[dir] = true
		}

		if _, err := os.Stat(op.Source); err != nil {
			if os.IsNotExist(err) {
				res.MissingSource++
				res.FilesFailed++
				res.Errors = append(res.Errors, "source not found: "+op.Source)
			} else {
				res.recordFailure(err, fmt.Sprintf("cannot access %s: %v", op.Source, err))
			}
			continue
		}

		dest := resolveCollision(op.Dest)

		var err error
		if useCopy {
			err = copyFile(op.Source, dest)
		} else {
			err = moveFile(op.Source, dest)
		}
		if err != nil {
			res.recordFailure(err, fmt.Sprintf("error with %s: %v", op.Source, err))
			continue
		}

		res.FilesProcessed++
		res.Done = append(res.Done, Operation{Source: op.Source, Dest: dest})
	}

	res.DirsCreated = len(createdDirs)

	switch {
	case res.FilesProcessed == 0:
		res.Status = StatusError
	case res.FilesFailed > 0:
		res.Status = StatusPartial
	default:
		res.Status = StatusSuccess
	}
	return res
}

func (r *Result) recordFailure(err error, msg string) {
	if os.IsPermission(err) {
		r.PermissionDenied++
	} else {
		r.OtherFailures++
	}
	r.FilesFailed++
	r.Errors = append(r.Errors, msg)
}

// resolveCollision appends an HHMMSS timestamp before the extension when
// the destination already exists.
func resolveCollision(dest string) string {
	if _, err := os.Stat(dest); err != nil {
		return dest
	}
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)
	return fmt.Sprintf("%s_%s%s", stem, time.Now().Format("150405"), ext)
}

// moveFile renames, falling back to copy-and-delete across filesystems.
func moveFile(source, dest string) error {
	if err := os.Rename(source, dest); err == nil {
		return nil
	}
	if err := copyFile(source, dest); err != nil {
		return err
	}
	return os.Remove(source)
}

func copyFile(source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
