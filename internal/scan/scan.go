package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/sortd/internal/errors"
)

// Directories never descended into during a walk.
var skipDirs = map[string]bool{
	"__pycache__": true, "node_modules": true, ".git": true, ".svn": true, ".hg": true,
	"venv": true, "env": true, ".venv": true, ".env": true,
	"build": true, "dist": true, "target": true, "out": true,
	".idea": true, ".vscode": true, ".vs": true,
	"bin": true, "obj": true, ".cache": true, ".pytest_cache": true,
	".mypy_cache": true, ".tox": true, ".eggs": true,
}

// Files always skipped regardless of location.
var skipFiles = map[string]bool{
	".DS_Store": true, "Thumbs.db": true, "desktop.ini": true,
	".gitignore": true, ".gitkeep": true,
}

// ValidatePaths checks that every input path exists and can be stat'd.
// Each bad path yields a fatal error; the returned slice holds the paths
// that survived. Zero input paths is itself fatal.
func ValidatePaths(paths []string) (valid []string, errs []error) {
	if len(paths) == 0 {
		return nil, []error{errors.NewNoInputPaths()}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				errs = append(errs, errors.NewInvalidPath(p, "does not exist"))
			} else if os.IsPermission(err) {
				errs = append(errs, errors.NewInvalidPath(p, "permission denied"))
			} else {
				errs = append(errs, errors.NewInvalidPath(p, err.Error()))
			}
			continue
		}
		valid = append(valid, p)
	}

	if len(valid) == 0 && len(errs) == 0 {
		errs = append(errs, errors.NewNoInputPaths())
	}
	return valid, errs
}

// WalkResult carries the outcome of scanning the input paths.
type WalkResult struct {
	Paths     []string
	TotalSize int64
	Warnings  []string
}

// Walk collects file paths from the inputs. Files are taken directly;
// directories are scanned, recursively when recursive is true. Hidden
// entries, known junk files, system directories, and files over maxSize
// bytes are skipped (oversized files with a warning).
func Walk(inputs []string, recursive bool, maxSize int64) WalkResult {
	var res WalkResult

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("cannot read %s: %v", filepath.Base(input), err))
			continue
		}

		if info.IsDir() {
			walkDir(input, recursive, maxSize, &res)
			continue
		}

		if info.Size() > maxSize {
			res.Warnings = append(res.Warnings, oversizeWarning(info.Name(), maxSize))
			continue
		}
		abs, _ := filepath.Abs(input)
		res.Paths = append(res.Paths, abs)
		res.TotalSize += info.Size()
	}

	return res
}

func walkDir(dir string, recursive bool, maxSize int64, res *WalkResult) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsPermission(err) {
			res.Warnings = append(res.Warnings, "permission denied: "+filepath.Base(dir))
		} else {
			res.Warnings = append(res.Warnings, fmt.Sprintf("cannot read directory %s: %v", filepath.Base(dir), err))
		}
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || skipFiles[name] {
			continue
		}

		full := filepath.Join(dir, name)

		if entry.IsDir() {
			if recursive && !skipDirs[name] {
				walkDir(full, recursive, maxSize, res)
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("error processing %s: %v", name, err))
			continue
		}
		if info.Size() > maxSize {
			res.Warnings = append(res.Warnings, oversizeWarning(name, maxSize))
			continue
		}

		abs, _ := filepath.Abs(full)
		res.Paths = append(res.Paths, abs)
		res.TotalSize += info.Size()
	}
}

func oversizeWarning(name string, maxSize int64) string {
	return fmt.Sprintf("skipping large file (>%dMB): %s", maxSize/1024/1024, name)
}
