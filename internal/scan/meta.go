// Package scan discovers input files and extracts the per-file metadata
// records that feed the organization pipeline.
package scan

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ContentType classifies a file's broad content kind, derived from its
// extension only (no content sniffing).
type ContentType string

const (
	TypeText     ContentType = "text"
	TypeCode     ContentType = "code"
	TypeImage    ContentType = "image"
	TypeVideo    ContentType = "video"
	TypeAudio    ContentType = "audio"
	TypeDocument ContentType = "document"
	TypeArchive  ContentType = "archive"
	TypeUnknown  ContentType = "unknown"
)

// FileMeta describes a single discovered file.
type FileMeta struct {
	Name       string      `json:"name"`
	Path       string      `json:"path"`
	Ext        string      `json:"extension"` // lowercase, leading dot
	Size       int64       `json:"size"`
	ModTime    time.Time   `json:"modified_date"`
	CreateTime time.Time   `json:"created_date"`
	Preview    string      `json:"content_preview,omitempty"`
	Type       ContentType `json:"content_type"`
	MIMEType   string      `json:"mime_type,omitempty"`
	ParentDir  string      `json:"parent_directory"`
	Hash       string      `json:"hash,omitempty"`
}

// IsText reports whether the file carries readable text content.
func (f FileMeta) IsText() bool {
	return f.Type == TypeText || f.Type == TypeCode
}

// SizeHuman returns a human-readable size string (e.g. "1.5 MB").
func (f FileMeta) SizeHuman() string {
	return FormatSize(f.Size)
}

// FormatSize renders a byte count as a human-readable string.
func FormatSize(size int64) string {
	v := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if v < 1024.0 {
			return fmt.Sprintf("%.1f %s", v, unit)
		}
		v /= 1024.0
	}
	return fmt.Sprintf("%.1f PB", v)
}

// Extension tables. Precedence for category decisions lives in the
// classify package; these only decide the content-type tag.
var (
	textExts = map[string]bool{
		".txt": true, ".md": true, ".markdown": true, ".rst": true, ".log": true,
	}

	codeExts = map[string]bool{
		".py": true, ".js": true, ".ts": true, ".jsx": true, ".tsx": true,
		".java": true, ".cpp": true, ".c": true, ".h": true, ".cs": true,
		".go": true, ".rs": true, ".rb": true, ".php": true, ".swift": true,
		".kt": true, ".scala": true, ".html": true, ".css": true, ".scss": true,
		".sass": true, ".xml": true, ".json": true, ".yaml": true, ".yml": true,
		".sh": true, ".bash": true, ".sql": true, ".r": true, ".m": true,
	}

	imageExts = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
		".webp": true, ".svg": true, ".tiff": true, ".tif": true, ".ico": true,
		".heic": true, ".heif": true,
	}

	videoExts = map[string]bool{
		".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".webm": true,
		".flv": true, ".wmv": true, ".m4v": true, ".mpg": true, ".mpeg": true,
	}

	audioExts = map[string]bool{
		".mp3": true, ".wav": true, ".flac": true, ".aac": true, ".ogg": true,
		".m4a": true, ".wma": true, ".opus": true,
	}

	documentExts = map[string]bool{
		".pdf": true, ".doc": true, ".docx": true, ".odt": true, ".rtf": true,
		".xls": true, ".xlsx": true, ".ods": true, ".csv": true,
		".ppt": true, ".pptx": true, ".odp": true,
	}

	archiveExts = map[string]bool{
		".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
		".7z": true, ".rar": true,
	}
)

// ContentTypeFor determines the content type for a file extension.
func ContentTypeFor(ext string) ContentType {
	ext = strings.ToLower(ext)
	switch {
	case codeExts[ext]:
		return TypeCode
	case textExts[ext]:
		return TypeText
	case imageExts[ext]:
		return TypeImage
	case videoExts[ext]:
		return TypeVideo
	case audioExts[ext]:
		return TypeAudio
	case documentExts[ext]:
		return TypeDocument
	case archiveExts[ext]:
		return TypeArchive
	default:
		return TypeUnknown
	}
}

// Extract builds FileMeta records for every path. A per-file failure is
// recorded as a warning and the file is dropped; callers decide whether
// zero extracted files is fatal.
func Extract(paths []string, previewChars int) (files []FileMeta, warnings []string) {
	for _, p := range paths {
		meta, err := ExtractOne(p, previewChars)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("cannot extract metadata from %s: %v", filepath.Base(p), err))
			continue
		}
		files = append(files, meta)
	}
	return files, warnings
}

// ExtractOne extracts metadata for a single file.
func ExtractOne(path string, previewChars int) (FileMeta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileMeta{}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	ext := strings.ToLower(filepath.Ext(path))
	ctype := ContentTypeFor(ext)

	meta := FileMeta{
		Name:       filepath.Base(path),
		Path:       abs,
		Ext:        ext,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		CreateTime: info.ModTime(), // birth time is not portable; modification time is the floor
		Type:       ctype,
		MIMEType:   mime.TypeByExtension(ext),
		ParentDir:  filepath.Base(filepath.Dir(abs)),
	}

	if meta.IsText() && previewChars > 0 {
		meta.Preview = readPreview(abs, previewChars)
	}

	return meta, nil
}

// readPreview reads up to maxChars of a text file and collapses whitespace.
// Returns "" when the file cannot be read; a missing preview only degrades
// later analysis, it never fails extraction.
func readPreview(path string, maxChars int) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	buf := make([]byte, maxChars)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return ""
	}

	return strings.Join(strings.Fields(string(buf[:n])), " ")
}
