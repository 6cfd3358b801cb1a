package analyze

import "sort"

// NewAggregate combines the per-category analyses into the unified view
// suggestion generation consumes. totalFiles is the full batch size, of
// which the analyses may cover only a subset (skipped categories).
func NewAggregate(totalFiles int, images []ImageAnalysis, texts []TextAnalysis, others []OtherAnalysis) Aggregate {
	agg := Aggregate{
		TotalFiles:     totalFiles,
		TotalImages:    len(images),
		TotalTexts:     len(texts),
		TotalOther:     len(others),
		Images:         images,
		Texts:          texts,
		Others:         others,
		TotalDocuments: countDocuments(others),
	}
	agg.DominantType = dominantType(len(images), len(texts), len(others))

	if len(images) > 0 {
		agg.ImagePatterns = imagePatterns(images)
	}
	if len(texts) > 0 {
		agg.TextPatterns = textPatterns(texts)
	}
	return agg
}

func countDocuments(others []OtherAnalysis) int {
	n := 0
	for _, o := range others {
		if o.ContentType == "document" {
			n++
		}
	}
	return n
}

// dominantType names the category holding more than half the analyzed
// files, "mixed" when none does, "none" when the batch is empty.
func dominantType(images, texts, others int) string {
	total := images + texts + others
	if total == 0 {
		return "none"
	}

	max, name := images, "images"
	if texts > max {
		max, name = texts, "text"
	}
	if others > max {
		max, name = others, "other"
	}

	if max*2 > total {
		return name
	}
	return "mixed"
}

func imagePatterns(images []ImageAnalysis) *ImagePatterns {
	p := &ImagePatterns{}

	var scenes, activities, locations []string
	for _, img := range images {
		if img.Scene != "" {
			scenes = append(scenes, img.Scene)
		}
		activities = append(activities, img.Activities...)
		if img.Location != "" {
			locations = append(locations, img.Location)
		}
		if img.PeopleCount != nil && *img.PeopleCount > 0 {
			p.HasPeople = true
		}
		switch img.IndoorOutdoor {
		case "indoor":
			p.IndoorCount++
		case "outdoor":
			p.OutdoorCount++
		}
	}

	p.CommonScenes = topN(scenes, 3)
	p.CommonActivities = topN(activities, 3)
	p.CommonLocations = topN(locations, 3)
	return p
}

func textPatterns(texts []TextAnalysis) *TextPatterns {
	p := &TextPatterns{}

	var topics, languages, docTypes []string
	for _, t := range texts {
		topics = append(topics, t.Topics...)
		if t.Language != "" {
			languages = append(languages, t.Language)
		}
		dt := t.DocumentType
		if dt == "" {
			dt = "other"
		}
		docTypes = append(docTypes, dt)
	}

	p.CommonTopics = topN(topics, 5)
	p.Languages = topN(languages, 5)
	p.HasCode = len(languages) > 0

	counts, order := countByFirstSeen(docTypes)
	sortByCountDesc(order, counts)
	for _, dt := range order {
		p.DocumentTypes = append(p.DocumentTypes, TypeCount{Type: dt, Count: counts[dt]})
	}
	return p
}

// topN returns the n most frequent items, ties broken by first
// appearance.
func topN(items []string, n int) []string {
	counts, order := countByFirstSeen(items)
	sortByCountDesc(order, counts)
	if len(order) > n {
		order = order[:n]
	}
	if order == nil {
		order = []string{}
	}
	return order
}

func countByFirstSeen(items []string) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}
	return counts, order
}

func sortByCountDesc(order []string, counts map[string]int) {
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
}
