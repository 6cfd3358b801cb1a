package suggest

import "strings"

// Repair makes every suggestion cover the true file-name set exactly:
// hallucinated names are dropped, the first occurrence of a duplicate
// wins (folder-then-file iteration order), folders left empty are
// removed, and any missing files land in an appended "Other" folder.
// Folder names are sanitized first so repaired output always validates.
// Repair is idempotent.
func Repair(resp *Response, trueNames []string) {
	nameSet := make(map[string]bool, len(trueNames))
	for _, n := range trueNames {
		nameSet[n] = true
	}

	for i := range resp.Suggestions {
		s := &resp.Suggestions[i]
		sanitizeNames(s.FolderStructure.Folders)

		seen := make(map[string]bool)
		s.FolderStructure.Folders = cleanFolders(s.FolderStructure.Folders, nameSet, seen)

		var missing []string
		for _, n := range trueNames {
			if !seen[n] {
				missing = append(missing, n)
			}
		}
		if len(missing) > 0 {
			s.FolderStructure.Folders = append(s.FolderStructure.Folders, FolderNode{
				Name:  "Other",
				Files: missing,
			})
		}
	}
}

// sanitizeNames replaces path separators in folder names with " - " and
// trims whitespace, recursively.
func sanitizeNames(folders []FolderNode) {
	for i := range folders {
		name := strings.TrimSpace(folders[i].Name)
		name = strings.ReplaceAll(name, "/", " - ")
		name = strings.ReplaceAll(name, "\\", " - ")
		folders[i].Name = name
		sanitizeNames(folders[i].Subfolders)
	}
}

// cleanFolders drops hallucinated and already-seen file names, then
// removes folders with no files and no surviving subfolders.
func cleanFolders(folders []FolderNode, nameSet, seen map[string]bool) []FolderNode {
	kept := folders[:0]
	for _, folder := range folders {
		var files []string
		for _, name := range folder.Files {
			if nameSet[name] && !seen[name] {
				files = append(files, name)
				seen[name] = true
			}
		}
		folder.Files = files
		folder.Subfolders = cleanFolders(folder.Subfolders, nameSet, seen)

		if len(folder.Files) > 0 || len(folder.Subfolders) > 0 {
			kept = append(kept, folder)
		}
	}
	return kept
}
