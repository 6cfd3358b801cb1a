package classify

import (
	"testing"

	"github.com/hpungsan/sortd/internal/scan"
)

func metaFor(name string) scan.FileMeta {
	ext := ""
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			ext = name[i:]
			break
		}
	}
	return scan.FileMeta{Name: name, Ext: ext, Type: scan.ContentTypeFor(ext)}
}

func TestPartition(t *testing.T) {
	files := []scan.FileMeta{
		metaFor("a.jpg"),
		metaFor("b.py"),
		metaFor("c.pdf"),
		metaFor("d.xyz"),
		metaFor("e.md"),
		metaFor("f.mp4"),
	}

	g := Partition(files)

	if len(g.Images) != 1 || g.Images[0].Name != "a.jpg" {
		t.Errorf("Images = %v", g.Images)
	}
	if len(g.Texts) != 2 || g.Texts[0].Name != "b.py" || g.Texts[1].Name != "e.md" {
		t.Errorf("Texts = %v", g.Texts)
	}
	if len(g.Documents) != 1 || g.Documents[0].Name != "c.pdf" {
		t.Errorf("Documents = %v", g.Documents)
	}
	if len(g.Others) != 2 {
		t.Errorf("Others = %v", g.Others)
	}
	if g.Total() != len(files) {
		t.Errorf("Total = %d, want %d", g.Total(), len(files))
	}
}

func TestPartition_Empty(t *testing.T) {
	g := Partition(nil)
	if g.Total() != 0 {
		t.Errorf("Total = %d, want 0", g.Total())
	}
}
