package domain

// Dictionary names used by the dictionary store.
const (
	DictClassificationKeywords = "classification_keywords"
	DictROITemplates           = "roi_templates"
)

// KeywordSet holds the weighted keyword list for one document type.
type KeywordSet struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
	Weight   float64  `json:"weight" yaml:"weight"`
}

// ClassificationKeywords maps each document type to its keyword set.
// Externally configurable; the scoring function itself is fixed.
type ClassificationKeywords map[DocType]KeywordSet

type Region string

const (
	RegionTopLeft     Region = "top-left"
	RegionTopRight    Region = "top-right"
	RegionMiddleLeft  Region = "middle-left"
	RegionMiddleRight Region = "middle-right"
	RegionBottomLeft  Region = "bottom-left"
	RegionBottomRight Region = "bottom-right"
	RegionMiddle      Region = "middle"
)

// ROIFieldTemplate describes how one templated field is located and
// re-recognized: a coarse page region, an OCR character whitelist,
// anchor keywords and an extraction pattern.
type ROIFieldTemplate struct {
	Region    Region   `json:"region" yaml:"region"`
	Whitelist string   `json:"whitelist" yaml:"whitelist"`
	Keywords  []string `json:"keywords" yaml:"keywords"`
	Pattern   string   `json:"pattern" yaml:"pattern"`
}

// ROITemplates maps document type -> field name -> template.
type ROITemplates map[DocType]map[string]ROIFieldTemplate
