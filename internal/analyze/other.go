package analyze

import "github.com/hpungsan/sortd/internal/scan"

// Extension to detailed-type table for documents and everything else.
var extDetailedType = map[string]string{
	".pdf": "pdf", ".doc": "word", ".docx": "word",
	".odt": "word", ".rtf": "word",
	".xls": "spreadsheet", ".xlsx": "spreadsheet",
	".ods": "spreadsheet", ".numbers": "spreadsheet",
	".ppt": "presentation", ".pptx": "presentation",
	".odp": "presentation", ".key": "presentation",
	".zip": "archive", ".tar": "archive", ".gz": "archive",
	".bz2": "archive", ".xz": "archive", ".7z": "archive", ".rar": "archive",
	".exe": "executable", ".msi": "executable",
	".dmg": "executable", ".app": "executable",
	".deb": "executable", ".rpm": "executable", ".appimage": "executable",
	".ttf": "font", ".otf": "font", ".woff": "font", ".woff2": "font",
	".blend": "3d", ".obj": "3d", ".stl": "3d",
	".psd": "design", ".ai": "design", ".sketch": "design",
	".fig": "design", ".xd": "design",
	".db": "database", ".sqlite": "database",
	".sqlite3": "database", ".mdb": "database",
	".mp4": "video", ".avi": "video", ".mov": "video",
	".mkv": "video", ".webm": "video", ".flv": "video",
	".mp3": "audio", ".wav": "audio", ".flac": "audio",
	".aac": "audio", ".ogg": "audio", ".m4a": "audio",
}

// Others enriches documents and unclassified files with pure heuristics:
// a detailed type, a size bucket, and how many siblings share the parent
// directory.
func Others(files []scan.FileMeta) []OtherAnalysis {
	if len(files) == 0 {
		return nil
	}

	dirCounts := make(map[string]int)
	for _, f := range files {
		dirCounts[f.ParentDir]++
	}

	results := make([]OtherAnalysis, 0, len(files))
	for _, f := range files {
		results = append(results, OtherAnalysis{
			Path:         f.Path,
			Name:         f.Name,
			ContentType:  string(f.Type),
			Ext:          f.Ext,
			Size:         f.Size,
			ParentDir:    f.ParentDir,
			SizeCategory: sizeCategory(f.Size),
			DetailedType: detailedType(f),
			DirGroupSize: dirCounts[f.ParentDir],
		})
	}
	return results
}

func sizeCategory(size int64) string {
	switch {
	case size < 10*1024:
		return "tiny"
	case size < 100*1024:
		return "small"
	case size < 1024*1024:
		return "medium"
	case size < 10*1024*1024:
		return "large"
	default:
		return "huge"
	}
}

func detailedType(f scan.FileMeta) string {
	if dt, ok := extDetailedType[f.Ext]; ok {
		return dt
	}
	if f.Type != "" {
		return string(f.Type)
	}
	return "unknown"
}
