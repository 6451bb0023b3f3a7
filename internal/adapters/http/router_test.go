package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
	"github.com/wenlipeng/invoice-scanner/internal/core/ports"
	"github.com/wenlipeng/invoice-scanner/internal/core/usecase"
)

type ingestFake struct {
	uploaded *domain.Document
	err      error
}

func (f *ingestFake) Upload(_ context.Context, filename, mimeType string, _ io.Reader) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploaded = &domain.Document{ID: "doc-1", Filename: filename, MimeType: mimeType, Status: domain.StatusUploaded}
	return f.uploaded, nil
}

type readerFake struct {
	docs  map[string]*domain.Document
	scans map[string]*domain.ScanRecord
}

func (f *readerFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", io.EOF)
	}
	return doc, nil
}

func (f *readerFake) GetScan(_ context.Context, id string) (*domain.ScanRecord, error) {
	scan, ok := f.scans[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get scan", io.EOF)
	}
	return scan, nil
}

func (f *readerFake) List(context.Context, int, int) ([]domain.Document, error) {
	var docs []domain.Document
	for _, doc := range f.docs {
		docs = append(docs, *doc)
	}
	return docs, nil
}

type dictionariesFake struct {
	keywords domain.ClassificationKeywords
	resets   int
}

func (f *dictionariesFake) ClassificationKeywords(context.Context) (domain.ClassificationKeywords, error) {
	return f.keywords, nil
}

func (f *dictionariesFake) AddKeywords(_ context.Context, docType domain.DocType, keywords []string) (domain.ClassificationKeywords, error) {
	if len(keywords) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "add keywords", io.EOF)
	}
	set := f.keywords[docType]
	set.Keywords = append(set.Keywords, keywords...)
	f.keywords[docType] = set
	return f.keywords, nil
}

func (f *dictionariesFake) ROITemplates(context.Context) (domain.ROITemplates, error) {
	return domain.ROITemplates{}, nil
}

func (f *dictionariesFake) DefineROIField(_ context.Context, docType domain.DocType, fieldName string, template domain.ROIFieldTemplate) (domain.ROITemplates, error) {
	return domain.ROITemplates{docType: {fieldName: template}}, nil
}

func (f *dictionariesFake) ResetToDefaults(context.Context) error {
	f.resets++
	return nil
}

type reportsFake struct {
	data     []byte
	filename string
	err      error
}

func (f *reportsFake) ExportScans(context.Context, []string) ([]byte, string, error) {
	return f.data, f.filename, f.err
}

type routerAccountRepoFake struct {
	accounts []domain.Account
}

func (f *routerAccountRepoFake) Create(_ context.Context, account *domain.Account) error {
	f.accounts = append(f.accounts, *account)
	return nil
}

func (f *routerAccountRepoFake) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	for i := range f.accounts {
		if f.accounts[i].Username == username {
			return &f.accounts[i], nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (f *routerAccountRepoFake) List(context.Context) ([]domain.Account, error) {
	return f.accounts, nil
}

type batchFake struct {
	failOn map[string]error
}

func (f *batchFake) ScanBatch(ctx context.Context, documentIDs []string, progress ports.BatchProgress) error {
	for i, id := range documentIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		progress(i+1, len(documentIDs), id, f.failOn[id])
	}
	return nil
}

func newTestRouter() (*Router, *ingestFake, *readerFake) {
	ingest := &ingestFake{}
	reader := &readerFake{
		docs:  map[string]*domain.Document{},
		scans: map[string]*domain.ScanRecord{},
	}
	batch := &batchFake{failOn: map[string]error{}}
	dictionaries := &dictionariesFake{keywords: domain.ClassificationKeywords{}}
	reports := &reportsFake{data: []byte("xlsx-bytes"), filename: "scan-report.xlsx"}
	accounts := usecase.NewAccountUseCase(&routerAccountRepoFake{}, "A")

	return NewRouter(ingest, reader, batch, dictionaries, reports, accounts, nil, "api"), ingest, reader
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadDocumentAccepted(t *testing.T) {
	router, ingest, _ := newTestRouter()
	handler := router.Handler(Options{})

	body, contentType := multipartBody(t, "invoice.png", "png-bytes")
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()

	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}
	if ingest.uploaded == nil || ingest.uploaded.Filename != "invoice.png" {
		t.Errorf("uploaded = %+v", ingest.uploaded)
	}
	if res.Header().Get("X-Request-Id") == "" {
		t.Errorf("missing request id header")
	}
}

func TestUploadRequiresFileField(t *testing.T) {
	router, _, _ := newTestRouter()
	handler := router.Handler(Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader("not multipart"))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", res.Code)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	router, _, _ := newTestRouter()
	handler := router.Handler(Options{})

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d", res.Code)
	}
}

func TestGetScanRecord(t *testing.T) {
	router, _, reader := newTestRouter()
	reader.docs["doc-1"] = &domain.Document{ID: "doc-1", Status: domain.StatusScanned}
	reader.scans["doc-1"] = &domain.ScanRecord{
		Classification: domain.ClassificationResult{DocType: domain.DocInvoice, Confidence: 0.9},
	}
	handler := router.Handler(Options{})

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/doc-1/scan", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}
	var scan domain.ScanRecord
	if err := json.NewDecoder(res.Body).Decode(&scan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if scan.Classification.DocType != domain.DocInvoice {
		t.Errorf("classification = %+v", scan.Classification)
	}
}

func TestExportReportSetsAttachmentHeaders(t *testing.T) {
	router, _, _ := newTestRouter()
	handler := router.Handler(Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/reports/export", strings.NewReader(`{"document_ids":["doc-1"]}`))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Header().Get("Content-Disposition"), "scan-report.xlsx") {
		t.Errorf("content-disposition = %q", res.Header().Get("Content-Disposition"))
	}
	if res.Body.String() != "xlsx-bytes" {
		t.Errorf("body = %q", res.Body.String())
	}
}

func TestCreateAccountEndpoint(t *testing.T) {
	router, _, _ := newTestRouter()
	handler := router.Handler(Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/accounts", strings.NewReader(`{"username":"A","tax_id":"12345678"}`))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}

	badReq := httptest.NewRequest(http.MethodPost, "/v1/accounts", strings.NewReader(`{"username":"A","tax_id":"12"}`))
	badRes := httptest.NewRecorder()
	handler.ServeHTTP(badRes, badReq)
	if badRes.Code != http.StatusBadRequest {
		t.Fatalf("invalid tax id status = %d", badRes.Code)
	}
}

func TestBatchScanReportsPerDocumentResults(t *testing.T) {
	router, _, _ := newTestRouter()
	router.batch = &batchFake{failOn: map[string]error{"doc-2": io.ErrUnexpectedEOF}}
	handler := router.Handler(Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/scans/batch",
		strings.NewReader(`{"document_ids":["doc-1","doc-2"]}`))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}
	var resp struct {
		Results []struct {
			DocumentID string `json:"document_id"`
			Error      string `json:"error"`
		} `json:"results"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 2 || resp.Results[0].Error != "" || resp.Results[1].Error == "" {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestDictionaryEndpoints(t *testing.T) {
	router, _, _ := newTestRouter()
	handler := router.Handler(Options{})

	putReq := httptest.NewRequest(http.MethodPut, "/v1/dictionaries/keywords",
		strings.NewReader(`{"doc_type":"invoice","keywords":["載具"]}`))
	putRes := httptest.NewRecorder()
	handler.ServeHTTP(putRes, putReq)
	if putRes.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", putRes.Code, putRes.Body.String())
	}

	getReq := httptest.NewRequest(http.MethodGet, "/v1/dictionaries/keywords", nil)
	getRes := httptest.NewRecorder()
	handler.ServeHTTP(getRes, getReq)
	if getRes.Code != http.StatusOK {
		t.Fatalf("get status = %d", getRes.Code)
	}
	if !strings.Contains(getRes.Body.String(), "載具") {
		t.Errorf("keywords body = %s", getRes.Body.String())
	}
}
