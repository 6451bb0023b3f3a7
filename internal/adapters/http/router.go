// Package httpadapter exposes the scan service over HTTP: uploads,
// document reads, dictionary management, accounts and report export.
package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
	"github.com/wenlipeng/invoice-scanner/internal/core/ports"
	"github.com/wenlipeng/invoice-scanner/internal/core/usecase"
	"github.com/wenlipeng/invoice-scanner/internal/observability/metrics"
)

const maxUploadBytes = 32 << 20

type Router struct {
	ingest       ports.DocumentIngestor
	reader       ports.DocumentReader
	batch        ports.BatchScanner
	dictionaries ports.DictionaryService
	reports      ports.ReportService
	accounts     *usecase.AccountUseCase
	metrics      *metrics.HTTPServerMetrics
	service      string
}

type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxConcurrent  int
}

func NewRouter(
	ingest ports.DocumentIngestor,
	reader ports.DocumentReader,
	batch ports.BatchScanner,
	dictionaries ports.DictionaryService,
	reports ports.ReportService,
	accounts *usecase.AccountUseCase,
	httpMetrics *metrics.HTTPServerMetrics,
	service string,
) *Router {
	return &Router{
		ingest:       ingest,
		reader:       reader,
		batch:        batch,
		dictionaries: dictionaries,
		reports:      reports,
		accounts:     accounts,
		metrics:      httpMetrics,
		service:      service,
	}
}

func (rt *Router) Handler(options Options) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.documents)
	mux.HandleFunc("/v1/documents/", rt.documentByID)
	mux.HandleFunc("/v1/scans/batch", rt.batchScan)
	mux.HandleFunc("/v1/dictionaries/keywords", rt.keywords)
	mux.HandleFunc("/v1/dictionaries/roi-templates", rt.roiTemplates)
	mux.HandleFunc("/v1/dictionaries/reset", rt.resetDictionaries)
	mux.HandleFunc("/v1/accounts", rt.accountsEndpoint)
	mux.HandleFunc("/v1/reports/export", rt.exportReport)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if options.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, options.RateLimitRPS, options.RateLimitBurst)
	}
	if options.MaxConcurrent > 0 {
		handler = backpressureMiddleware(handler, options.MaxConcurrent, defaultBackpressureWait)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) documents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadDocument(w, r)
	case http.MethodGet:
		rt.listDocuments(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	doc, err := rt.ingest.Upload(r.Context(), fileHeader.Filename, mimeType, file)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordUpload(rt.service, mimeType)
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	docs, err := rt.reader.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// documentByID serves /v1/documents/{id} and /v1/documents/{id}/scan.
func (rt *Router) documentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch sub {
	case "":
		doc, err := rt.reader.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case "scan":
		scan, err := rt.reader.GetScan(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, scan)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown resource"})
	}
}

// batchScan re-runs the scan pipeline over a fixed list of documents
// and reports the outcome per document in request order.
func (rt *Router) batchScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		DocumentIDs []string `json:"document_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if len(req.DocumentIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document_ids is required"})
		return
	}

	type result struct {
		DocumentID string `json:"document_id"`
		Error      string `json:"error,omitempty"`
	}
	results := make([]result, 0, len(req.DocumentIDs))
	err := rt.batch.ScanBatch(r.Context(), req.DocumentIDs, func(_, _ int, documentID string, scanErr error) {
		entry := result{DocumentID: documentID}
		if scanErr != nil {
			entry.Error = scanErr.Error()
		}
		results = append(results, entry)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (rt *Router) keywords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		keywords, err := rt.dictionaries.ClassificationKeywords(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, keywords)
	case http.MethodPut:
		var req struct {
			DocType  string   `json:"doc_type"`
			Keywords []string `json:"keywords"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		keywords, err := rt.dictionaries.AddKeywords(r.Context(), domain.DocType(req.DocType), req.Keywords)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, keywords)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) roiTemplates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		templates, err := rt.dictionaries.ROITemplates(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, templates)
	case http.MethodPut:
		var req struct {
			DocType   string                  `json:"doc_type"`
			FieldName string                  `json:"field_name"`
			Template  domain.ROIFieldTemplate `json:"template"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		templates, err := rt.dictionaries.DefineROIField(r.Context(), domain.DocType(req.DocType), req.FieldName, req.Template)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, templates)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) resetDictionaries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if err := rt.dictionaries.ResetToDefaults(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (rt *Router) accountsEndpoint(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accounts, err := rt.accounts.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if accounts == nil {
			accounts = []domain.Account{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
	case http.MethodPost:
		var req struct {
			Username string `json:"username"`
			TaxID    string `json:"tax_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		account, err := rt.accounts.Create(r.Context(), req.Username, req.TaxID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, account)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) exportReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		DocumentIDs []string `json:"document_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	data, filename, err := rt.reports.ExportScans(r.Context(), req.DocumentIDs)
	if rt.metrics != nil {
		rt.metrics.RecordExport(rt.service, len(req.DocumentIDs), err)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
