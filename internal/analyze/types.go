// Package analyze enriches classified files with per-category analysis
// and aggregates the results into the summary the suggestion prompt is
// built from.
package analyze

import "time"

// ImageAnalysis holds vision-model output for one image. The EXIF fields
// (camera, dimensions, capture date, GPS location) are populated by an
// external extractor when one is wired in; this package leaves them zero.
type ImageAnalysis struct {
	Path          string     `json:"file_path"`
	Name          string     `json:"file_name"`
	Description   string     `json:"description"`
	Objects       []string   `json:"objects,omitempty"`
	Scene         string     `json:"scene_type,omitempty"`
	PeopleCount   *int       `json:"people_count,omitempty"`
	IndoorOutdoor string     `json:"indoor_outdoor,omitempty"`
	Activities    []string   `json:"activities,omitempty"`
	DateModified  time.Time  `json:"date_modified"`
	DateTaken     *time.Time `json:"date_taken,omitempty"`
	CameraMake    string     `json:"camera_make,omitempty"`
	CameraModel   string     `json:"camera_model,omitempty"`
	Dimensions    string     `json:"image_dimensions,omitempty"`
	Location      string     `json:"location_from_exif,omitempty"`
}

// TextAnalysis holds the heuristic (and optionally model-enriched)
// analysis of one text or code file.
type TextAnalysis struct {
	Path         string   `json:"file_path"`
	Name         string   `json:"file_name"`
	ContentType  string   `json:"content_type"`
	Ext          string   `json:"extension"`
	Preview      string   `json:"content_preview,omitempty"`
	Size         int64    `json:"size"`
	ParentDir    string   `json:"parent_directory"`
	Topics       []string `json:"topics"`
	DocumentType string   `json:"document_type"`
	Language     string   `json:"language,omitempty"`
	Summary      string   `json:"summary,omitempty"`
}

// OtherAnalysis holds the heuristic enrichment of a document or
// unclassified file.
type OtherAnalysis struct {
	Path         string `json:"file_path"`
	Name         string `json:"file_name"`
	ContentType  string `json:"content_type"`
	Ext          string `json:"extension"`
	Size         int64  `json:"size"`
	ParentDir    string `json:"parent_directory"`
	SizeCategory string `json:"size_category"`
	DetailedType string `json:"detailed_type"`
	DirGroupSize int    `json:"directory_group_size"`
}

// TypeCount pairs a document type with how often it occurs.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ImagePatterns summarizes recurring themes across a batch of images.
type ImagePatterns struct {
	CommonScenes     []string `json:"common_scenes"`
	CommonActivities []string `json:"common_activities"`
	CommonLocations  []string `json:"common_locations"`
	HasPeople        bool     `json:"has_people"`
	IndoorCount      int      `json:"indoor_count"`
	OutdoorCount     int      `json:"outdoor_count"`
}

// TextPatterns summarizes recurring themes across a batch of text files.
type TextPatterns struct {
	CommonTopics  []string    `json:"common_topics"`
	DocumentTypes []TypeCount `json:"document_types"`
	Languages     []string    `json:"languages"`
	HasCode       bool        `json:"has_code"`
}

// Aggregate is the unified analysis view handed to suggestion generation.
type Aggregate struct {
	TotalFiles     int             `json:"total_files"`
	TotalImages    int             `json:"total_images"`
	TotalTexts     int             `json:"total_text"`
	TotalDocuments int             `json:"total_documents"`
	TotalOther     int             `json:"total_other"`
	Images         []ImageAnalysis `json:"images,omitempty"`
	Texts          []TextAnalysis  `json:"texts,omitempty"`
	Others         []OtherAnalysis `json:"others,omitempty"`
	DominantType   string          `json:"dominant_type"`
	ImagePatterns  *ImagePatterns  `json:"image_patterns,omitempty"`
	TextPatterns   *TextPatterns   `json:"text_patterns,omitempty"`
}
