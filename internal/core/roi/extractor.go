// Package roi implements template-driven field extraction: anchor
// keywords locate a page region per field, which is re-recognized with
// a character whitelist, with graceful text-only fallbacks.
package roi

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
	"github.com/wenlipeng/invoice-scanner/internal/core/extract"
)

// Tier confidences for the non-OCR extraction paths.
const (
	textTierConfidence     = 0.6
	fallbackTierConfidence = 0.5
)

// Fallback page dimensions when neither the stored image nor the OCR
// geometry reveal the true size.
const (
	defaultImageWidth  = 800.0
	defaultImageHeight = 600.0
)

// RegionRecognizer re-runs recognition over a cropped page region with
// a restricted character set.
type RegionRecognizer interface {
	RecognizeRegion(ctx context.Context, image domain.PageImage, region domain.Rect, whitelist string) (domain.RegionText, error)
}

// Extractor applies ROI templates to OCR results. The recognizer is
// optional; without one (or without a stored page image) extraction
// degrades to text-based tiers instead of failing.
type Extractor struct {
	templates  domain.ROITemplates
	recognizer RegionRecognizer
}

// NewExtractor builds an extractor; nil templates fall back to the
// defaults.
func NewExtractor(templates domain.ROITemplates, recognizer RegionRecognizer) *Extractor {
	if len(templates) == 0 {
		templates = DefaultTemplates()
	}
	return &Extractor{templates: templates, recognizer: recognizer}
}

// ExtractFields runs every template field for the document type.
// Unknown document types yield an empty record. Fields are processed in
// name order so the output is deterministic.
func (e *Extractor) ExtractFields(ctx context.Context, res domain.OcrResult, docType domain.DocType, image *domain.PageImage) domain.ROIRecord {
	record := domain.ROIRecord{
		DocType: docType,
		Fields:  make(map[string]domain.ROIField),
	}

	template, ok := e.templates[docType]
	if !ok {
		return record
	}

	width, height := imageDims(res, image)

	for _, fieldName := range sortedFieldNames(template) {
		fieldTemplate := template[fieldName]
		pattern, err := regexp.Compile(fieldTemplate.Pattern)
		if err != nil {
			continue
		}

		region := locateROI(res, fieldTemplate, width, height)
		if region == nil {
			// No anchor keyword on any line; last resort is a bare
			// pattern match over the whole text.
			if value := extractFromText(res.Text, fieldTemplate.Keywords, pattern); value != "" {
				record.Fields[fieldName] = domain.ROIField{
					Value:      parseFieldValue(value, fieldTemplate.Whitelist),
					RawValue:   value,
					Confidence: fallbackTierConfidence,
					Method:     domain.MethodTextAnywhere,
				}
			}
			continue
		}

		record.ROIs = append(record.ROIs, domain.NamedROI{FieldName: fieldName, Rect: *region})

		if e.recognizer != nil && image != nil {
			regionText, err := e.recognizer.RecognizeRegion(ctx, *image, *region, fieldTemplate.Whitelist)
			if err == nil {
				record.Fields[fieldName] = domain.ROIField{
					Value:      parseFieldValue(regionText.Text, fieldTemplate.Whitelist),
					RawValue:   regionText.Text,
					Confidence: regionText.Confidence,
					ROI:        region,
					Method:     domain.MethodRegionOCR,
				}
				continue
			}
			// Recognition failure is never fatal; fall through to the
			// text tier.
		}

		value := extractFromText(res.Text, fieldTemplate.Keywords, pattern)
		record.Fields[fieldName] = domain.ROIField{
			Value:      parseFieldValue(value, fieldTemplate.Whitelist),
			RawValue:   value,
			Confidence: textTierConfidence,
			ROI:        region,
			Method:     domain.MethodTextNearKeyword,
		}
	}

	return record
}

// locateROI finds the first line containing any anchor keyword and maps
// the template region onto the page, clamped to the image bounds.
func locateROI(res domain.OcrResult, template domain.ROIFieldTemplate, width, height float64) *domain.Rect {
	for _, line := range res.Lines {
		for _, keyword := range template.Keywords {
			if keyword == "" || !strings.Contains(line.Text, keyword) {
				continue
			}
			region := regionRect(line.BBox, template.Region, width, height).Clamp(width, height)
			return &region
		}
	}
	return nil
}

func regionRect(bbox *domain.BBox, region domain.Region, width, height float64) domain.Rect {
	switch region {
	case domain.RegionTopRight:
		return domain.Rect{X: width * 0.6, Y: 0, Width: width * 0.4, Height: height * 0.2}
	case domain.RegionTopLeft:
		return domain.Rect{X: 0, Y: 0, Width: width * 0.4, Height: height * 0.2}
	case domain.RegionMiddleLeft:
		return domain.Rect{X: 0, Y: height * 0.3, Width: width * 0.4, Height: height * 0.4}
	case domain.RegionMiddleRight:
		return domain.Rect{X: width * 0.6, Y: height * 0.3, Width: width * 0.4, Height: height * 0.4}
	case domain.RegionBottomLeft:
		return domain.Rect{X: 0, Y: height * 0.7, Width: width * 0.5, Height: height * 0.3}
	case domain.RegionBottomRight:
		return domain.Rect{X: width * 0.5, Y: height * 0.7, Width: width * 0.5, Height: height * 0.3}
	case domain.RegionMiddle:
		return domain.Rect{X: width * 0.2, Y: height * 0.3, Width: width * 0.6, Height: height * 0.4}
	}
	// Unknown region: the strip right of the keyword line.
	return keywordStrip(bbox, width)
}

func keywordStrip(bbox *domain.BBox, width float64) domain.Rect {
	if bbox == nil {
		return domain.Rect{X: 0, Y: 0, Width: width, Height: 30}
	}
	x := bbox.X1
	if x == 0 {
		x = bbox.X0 + 100
	}
	h := bbox.Y1 - bbox.Y0
	if h == 0 {
		h = 30
	}
	return domain.Rect{X: x, Y: bbox.Y0, Width: min(200, width-x), Height: h}
}

// imageDims prefers the stored raster dimensions, then the extent of
// the OCR geometry, then a fixed default.
func imageDims(res domain.OcrResult, image *domain.PageImage) (float64, float64) {
	if image != nil && image.Width > 0 && image.Height > 0 {
		return float64(image.Width), float64(image.Height)
	}

	var width, height float64
	for _, line := range res.Lines {
		boxes := []*domain.BBox{line.BBox}
		for _, word := range line.Words {
			boxes = append(boxes, word.BBox)
		}
		for _, box := range boxes {
			if box == nil {
				continue
			}
			x := box.X1
			if x == 0 {
				x = box.X0 + 100
			}
			y := box.Y1
			if y == 0 {
				y = box.Y0 + 20
			}
			width = max(width, x)
			height = max(height, y)
		}
	}

	if width == 0 || height == 0 {
		return defaultImageWidth, defaultImageHeight
	}
	return width, height
}

// extractFromText matches the pattern in the text following the first
// located keyword, then anywhere in the text.
func extractFromText(text string, keywords []string, pattern *regexp.Regexp) string {
	for _, keyword := range keywords {
		idx := strings.Index(text, keyword)
		if idx < 0 {
			continue
		}
		if match := pattern.FindString(text[idx+len(keyword):]); match != "" {
			return match
		}
	}
	return pattern.FindString(text)
}

// parseFieldValue normalizes a raw value against the template
// whitelist: characters outside the whitelist are dropped, and money
// whitelists (digits plus separators) additionally collapse to a
// canonical decimal string.
func parseFieldValue(raw, whitelist string) string {
	value := strings.TrimSpace(raw)
	if value == "" || !strings.Contains(whitelist, "0123456789") {
		return value
	}

	var b strings.Builder
	for _, r := range value {
		if strings.ContainsRune(whitelist, r) {
			b.WriteRune(r)
		}
	}
	filtered := b.String()

	if strings.Contains(whitelist, ".") && strings.Contains(whitelist, ",") {
		return extract.ParseAmount(filtered).String()
	}
	return filtered
}

func sortedFieldNames(template map[string]domain.ROIFieldTemplate) []string {
	names := make([]string, 0, len(template))
	for name := range template {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
