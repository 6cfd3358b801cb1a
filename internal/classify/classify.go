// Package classify partitions extracted files into the analysis groups
// the pipeline routes on.
package classify

import (
	"github.com/hpungsan/sortd/internal/scan"
)

// Groups holds the extension-based partition of a file set. Every input
// file appears in exactly one group.
type Groups struct {
	Images    []scan.FileMeta
	Texts     []scan.FileMeta
	Documents []scan.FileMeta
	Others    []scan.FileMeta
}

// Total returns the number of files across all groups.
func (g Groups) Total() int {
	return len(g.Images) + len(g.Texts) + len(g.Documents) + len(g.Others)
}

// Partition assigns each file to one group by content type. Image wins
// over text, text over document; everything else (video, audio, archive,
// unknown) lands in Others.
func Partition(files []scan.FileMeta) Groups {
	var g Groups
	for _, f := range files {
		switch f.Type {
		case scan.TypeImage:
			g.Images = append(g.Images, f)
		case scan.TypeText, scan.TypeCode:
			g.Texts = append(g.Texts, f)
		case scan.TypeDocument:
			g.Documents = append(g.Documents, f)
		default:
			g.Others = append(g.Others, f)
		}
	}
	return g
}
