package domain

// ExtractionMethod records which tier produced a templated field value.
type ExtractionMethod string

const (
	// MethodRegionOCR means the value came from targeted re-recognition
	// of the ROI pixels.
	MethodRegionOCR ExtractionMethod = "roi-ocr"
	// MethodTextNearKeyword means the value was pattern-matched from the
	// full OCR text right after a located keyword.
	MethodTextNearKeyword ExtractionMethod = "text-extraction"
	// MethodTextAnywhere means the pattern matched anywhere in the text;
	// the weakest tier.
	MethodTextAnywhere ExtractionMethod = "fallback"
)

// ROIField is one extracted templated field value.
type ROIField struct {
	Value      string           `json:"value"`
	RawValue   string           `json:"raw_value"`
	Confidence float64          `json:"confidence"`
	ROI        *Rect            `json:"roi,omitempty"`
	Method     ExtractionMethod `json:"method"`
}

type NamedROI struct {
	FieldName string `json:"field_name"`
	Rect
}

// ROIRecord is the template-driven extraction result for one document.
type ROIRecord struct {
	DocType DocType             `json:"doc_type"`
	Fields  map[string]ROIField `json:"fields"`
	ROIs    []NamedROI          `json:"rois"`
}
