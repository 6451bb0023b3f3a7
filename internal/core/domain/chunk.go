package domain

import "strings"

type ChunkType string

const (
	ChunkTitle     ChunkType = "TITLE"
	ChunkHeader    ChunkType = "HEADER"
	ChunkTable     ChunkType = "TABLE"
	ChunkParagraph ChunkType = "PARAGRAPH"
	ChunkList      ChunkType = "LIST"
	ChunkFooter    ChunkType = "FOOTER"
	ChunkUnknown   ChunkType = "UNKNOWN"
)

type AlignmentType string

const (
	AlignLeft    AlignmentType = "left"
	AlignRight   AlignmentType = "right"
	AlignMixed   AlignmentType = "mixed"
	AlignUnknown AlignmentType = "unknown"
)

type Alignment struct {
	Type       AlignmentType `json:"type"`
	Confidence float64       `json:"confidence"`
}

// Chunk is a geometrically contiguous group of OCR lines treated as one
// layout unit. FieldType/FieldInfo are filled by the detector's
// annotation pass; until then FieldType is empty.
type Chunk struct {
	ID             string      `json:"id"`
	Lines          []OcrLine   `json:"lines"`
	BBox           Rect        `json:"bbox"`
	StartLineIndex int         `json:"start_line_index"`
	EndLineIndex   int         `json:"end_line_index"`
	Type           ChunkType   `json:"type"`
	Alignment      Alignment   `json:"alignment"`
	FieldType      FieldType   `json:"field_type,omitempty"`
	FieldInfo      *FieldMatch `json:"field_info,omitempty"`
}

// Text joins the chunk's lines with newlines.
func (c Chunk) Text() string {
	parts := make([]string, len(c.Lines))
	for i, line := range c.Lines {
		parts[i] = line.Text
	}
	return strings.Join(parts, "\n")
}

// MeanConfidence averages the OCR confidence of the chunk's lines.
func (c Chunk) MeanConfidence() float64 {
	if len(c.Lines) == 0 {
		return 0
	}
	var total float64
	for _, line := range c.Lines {
		total += line.Confidence
	}
	return total / float64(len(c.Lines))
}
