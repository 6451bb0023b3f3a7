// Package layout groups OCR lines into coherent blocks using
// vertical-whitespace detection and horizontal-alignment analysis.
package layout

import (
	"fmt"
	"math"
	"regexp"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

const (
	// Gap multiplier over the mean line gap that marks a chunk boundary.
	verticalSpacingFactor = 1.5
	// Pixel tolerance for edge alignment.
	alignmentTolerance = 10.0
	minChunkLines      = 1

	// Synthetic geometry for lines without boxes.
	fallbackLineHeight = 20.0
	fallbackCharWidth  = 10.0
)

var listMarkerPattern = regexp.MustCompile(`^[\d\-\*•]`)

type Chunker struct{}

func NewChunker() *Chunker {
	return &Chunker{}
}

// AnalyzeLayout splits the OCR result into typed layout chunks. It is a
// total function: zero lines yield an empty slice.
func (c *Chunker) AnalyzeLayout(res domain.OcrResult) []domain.Chunk {
	if len(res.Lines) == 0 {
		return nil
	}

	lines := ensureBoundingBoxes(res.Lines)
	boundaries := detectWhitespace(verticalSpacings(lines))
	chunks := buildChunks(lines, boundaries)

	for i := range chunks {
		chunks[i].Alignment = analyzeAlignment(chunks[i].Lines)
	}
	classifyChunks(chunks)

	return mergeRelatedChunks(chunks)
}

// ensureBoundingBoxes fabricates monotonically increasing synthetic
// boxes for lines without geometry (fixed height, width proportional to
// text length) so downstream code never special-cases missing boxes.
func ensureBoundingBoxes(lines []domain.OcrLine) []domain.OcrLine {
	out := make([]domain.OcrLine, len(lines))
	for i, line := range lines {
		if line.BBox == nil {
			line.BBox = &domain.BBox{
				X0: 0,
				Y0: float64(i) * fallbackLineHeight,
				X1: float64(len([]rune(line.Text))) * fallbackCharWidth,
				Y1: float64(i+1) * fallbackLineHeight,
			}
		}
		out[i] = line
	}
	return out
}

func verticalSpacings(lines []domain.OcrLine) []float64 {
	if len(lines) < 2 {
		return nil
	}
	spacings := make([]float64, 0, len(lines)-1)
	for i := 0; i < len(lines)-1; i++ {
		bottom := lines[i].BBox.Y1
		if bottom == 0 {
			bottom = lines[i].BBox.Y0 + fallbackLineHeight
		}
		spacings = append(spacings, lines[i+1].BBox.Y0-bottom)
	}
	return spacings
}

// detectWhitespace returns the indices of gaps exceeding 1.5x the mean
// gap; each marks the last line of a chunk.
func detectWhitespace(spacings []float64) map[int]bool {
	boundaries := make(map[int]bool)
	if len(spacings) == 0 {
		return boundaries
	}

	var sum float64
	for _, s := range spacings {
		sum += s
	}
	threshold := sum / float64(len(spacings)) * verticalSpacingFactor

	for i, s := range spacings {
		if s > threshold {
			boundaries[i] = true
		}
	}
	return boundaries
}

func buildChunks(lines []domain.OcrLine, boundaries map[int]bool) []domain.Chunk {
	var chunks []domain.Chunk
	var current []domain.OcrLine
	start := 0

	for i, line := range lines {
		current = append(current, line)
		if !boundaries[i] && i != len(lines)-1 {
			continue
		}
		if len(current) >= minChunkLines {
			chunks = append(chunks, domain.Chunk{
				ID:             fmt.Sprintf("chunk_%d", len(chunks)),
				Lines:          current,
				BBox:           chunkBBox(current),
				StartLineIndex: start,
				EndLineIndex:   i,
				Type:           domain.ChunkUnknown,
			})
		}
		current = nil
		start = i + 1
	}
	return chunks
}

func chunkBBox(lines []domain.OcrLine) domain.Rect {
	if len(lines) == 0 {
		return domain.Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, line := range lines {
		minX = math.Min(minX, line.BBox.X0)
		minY = math.Min(minY, line.BBox.Y0)
		maxX = math.Max(maxX, line.BBox.X1)
		maxY = math.Max(maxY, line.BBox.Y1)
	}
	return domain.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// analyzeAlignment classifies the chunk by the deviation of its lines'
// left and right edges.
func analyzeAlignment(lines []domain.OcrLine) domain.Alignment {
	if len(lines) == 0 {
		return domain.Alignment{Type: domain.AlignUnknown, Confidence: 0}
	}

	leftEdges := make([]float64, len(lines))
	rightEdges := make([]float64, len(lines))
	for i, line := range lines {
		leftEdges[i] = line.BBox.X0
		rightEdges[i] = line.BBox.X1
	}

	leftDev := deviation(leftEdges)
	rightDev := deviation(rightEdges)

	switch {
	case leftDev < alignmentTolerance:
		return domain.Alignment{Type: domain.AlignLeft, Confidence: 0.9}
	case rightDev < alignmentTolerance:
		return domain.Alignment{Type: domain.AlignRight, Confidence: 0.9}
	case leftDev < alignmentTolerance*2:
		return domain.Alignment{Type: domain.AlignLeft, Confidence: 0.6}
	default:
		return domain.Alignment{Type: domain.AlignMixed, Confidence: 0.5}
	}
}

func deviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var squared float64
	for _, v := range values {
		squared += (v - mean) * (v - mean)
	}
	return math.Sqrt(squared / float64(len(values)))
}

var digitPattern = regexp.MustCompile(`\d+`)

// classifyChunks assigns coarse chunk types in priority order: title,
// table, list, footer, else paragraph.
func classifyChunks(chunks []domain.Chunk) {
	for i := range chunks {
		chunk := &chunks[i]
		text := chunk.Text()

		if i == 0 && len(chunk.Lines) <= 2 {
			chunk.Type = domain.ChunkTitle
			continue
		}
		if len(chunk.Lines) >= 3 &&
			chunk.Alignment.Type == domain.AlignLeft &&
			chunk.Alignment.Confidence > 0.8 &&
			digitPattern.MatchString(text) {
			chunk.Type = domain.ChunkTable
			continue
		}
		if listMarkerPattern.MatchString(text) {
			chunk.Type = domain.ChunkList
			continue
		}
		if i == len(chunks)-1 && len(chunk.Lines) <= 2 {
			chunk.Type = domain.ChunkFooter
			continue
		}
		chunk.Type = domain.ChunkParagraph
	}
}

// mergeRelatedChunks merges adjacent TABLE-TABLE and LIST-LIST pairs in
// a single forward pass, keeping the first chunk's id, type and
// alignment.
func mergeRelatedChunks(chunks []domain.Chunk) []domain.Chunk {
	if len(chunks) <= 1 {
		return chunks
	}

	merged := make([]domain.Chunk, 0, len(chunks))
	current := chunks[0]
	for _, next := range chunks[1:] {
		if related(current, next) {
			current = mergeChunks(current, next)
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

func related(a, b domain.Chunk) bool {
	if a.Type == domain.ChunkTable && b.Type == domain.ChunkTable {
		return true
	}
	return a.Type == domain.ChunkList && b.Type == domain.ChunkList
}

func mergeChunks(a, b domain.Chunk) domain.Chunk {
	lines := make([]domain.OcrLine, 0, len(a.Lines)+len(b.Lines))
	lines = append(lines, a.Lines...)
	lines = append(lines, b.Lines...)
	return domain.Chunk{
		ID:             a.ID,
		Lines:          lines,
		BBox:           a.BBox.Union(b.BBox),
		StartLineIndex: a.StartLineIndex,
		EndLineIndex:   b.EndLineIndex,
		Type:           a.Type,
		Alignment:      a.Alignment,
	}
}
