package domain

// BBox is a corner-form bounding box in image pixel coordinates.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Rect is an origin-plus-size rectangle, the shape used for chunk
// bounds and ROI windows.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Clamp constrains the rectangle to the [0,width]x[0,height] image
// area, shrinking it as needed. A rectangle entirely outside collapses
// to zero size at the nearest edge.
func (r Rect) Clamp(width, height float64) Rect {
	x0 := min(max(r.X, 0), width)
	y0 := min(max(r.Y, 0), height)
	x1 := min(max(r.X+r.Width, x0), width)
	y1 := min(max(r.Y+r.Height, y0), height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	x0 := min(r.X, other.X)
	y0 := min(r.Y, other.Y)
	x1 := max(r.X+r.Width, other.X+other.Width)
	y1 := max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// OcrWord is a single recognized token with its geometry.
type OcrWord struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	BBox       *BBox   `json:"bbox,omitempty"`
}

// OcrLine is one recognized text line. Geometry is optional: sources
// without layout (born-digital PDF text) leave BBox nil.
type OcrLine struct {
	Text        string    `json:"text"`
	Confidence  float64   `json:"confidence"`
	NeedsReview bool      `json:"needs_review,omitempty"`
	BBox        *BBox     `json:"bbox,omitempty"`
	Words       []OcrWord `json:"words,omitempty"`
}

// OcrResult is the full recognition output for one page.
type OcrResult struct {
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	Lines      []OcrLine `json:"lines"`
}

// PageImage references the stored page raster that produced an OCR
// result. Zero dimensions mean the size is unknown.
type PageImage struct {
	StorageKey string `json:"storage_key"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// RegionText is the result of re-recognizing a cropped page region.
type RegionText struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}
