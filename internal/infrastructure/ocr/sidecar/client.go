// Package sidecar talks to the OCR sidecar service that wraps the
// recognition engine. Full-page recognition uploads the document
// bytes; region recognition re-runs the engine on a crop of an
// already-stored page with a character whitelist.
package sidecar

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
	"github.com/wenlipeng/invoice-scanner/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Timeout  time.Duration
	Executor *resilience.Executor
}

func New(baseURL string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.Executor,
	}
}

type lineResponse struct {
	Text       string       `json:"text"`
	Confidence float64      `json:"confidence"`
	BBox       *domain.BBox `json:"bbox"`
	Words      []struct {
		Text       string       `json:"text"`
		Confidence float64      `json:"confidence"`
		BBox       *domain.BBox `json:"bbox"`
	} `json:"words"`
}

type recognizeResponse struct {
	Text       string         `json:"text"`
	Confidence float64        `json:"confidence"`
	Lines      []lineResponse `json:"lines"`
	Image      struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"image"`
}

// lineReviewThreshold flags individual lines the engine was unsure
// about so downstream consumers can surface them.
const lineReviewThreshold = 0.7

func (c *Client) Recognize(ctx context.Context, doc *domain.Document, body io.Reader) (*domain.OcrResult, *domain.PageImage, error) {
	var response recognizeResponse
	call := func(callCtx context.Context) error {
		return c.postFile(callCtx, "/v1/ocr", doc, body, &response)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Do(ctx, "ocr.recognize", call, classifySidecarError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, nil, wrapTemporaryIfNeeded("ocr recognize", err)
	}

	result := &domain.OcrResult{
		Text:       response.Text,
		Confidence: response.Confidence,
		Lines:      make([]domain.OcrLine, 0, len(response.Lines)),
	}
	for _, line := range response.Lines {
		out := domain.OcrLine{
			Text:        line.Text,
			Confidence:  line.Confidence,
			NeedsReview: line.Confidence < lineReviewThreshold,
			BBox:        line.BBox,
		}
		for _, word := range line.Words {
			out.Words = append(out.Words, domain.OcrWord{
				Text:       word.Text,
				Confidence: word.Confidence,
				BBox:       word.BBox,
			})
		}
		result.Lines = append(result.Lines, out)
	}

	image := &domain.PageImage{
		StorageKey: doc.StoragePath,
		Width:      response.Image.Width,
		Height:     response.Image.Height,
	}
	return result, image, nil
}

func (c *Client) RecognizeRegion(ctx context.Context, image domain.PageImage, region domain.Rect, whitelist string) (domain.RegionText, error) {
	request := map[string]any{
		"storage_key": image.StorageKey,
		"region": map[string]float64{
			"x":      region.X,
			"y":      region.Y,
			"width":  region.Width,
			"height": region.Height,
		},
		"whitelist": whitelist,
	}

	var response domain.RegionText
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/v1/ocr/region", request, &response)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Do(ctx, "ocr.region", call, classifySidecarError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.RegionText{}, wrapTemporaryIfNeeded("ocr region", err)
	}
	response.Text = strings.TrimSpace(response.Text)
	return response, nil
}
