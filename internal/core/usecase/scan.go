package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
	"github.com/wenlipeng/invoice-scanner/internal/core/ports"
)

// Documents whose anchor-field confidence falls below this threshold
// are flagged for manual review even when validation passes.
const reviewConfidenceThreshold = 0.6

type ScanDocumentUseCase struct {
	repo     ports.DocumentRepository
	storage  ports.ObjectStorage
	ocr      ports.OCRProvider
	layout   ports.LayoutAnalyzer
	classify ports.TextClassifier
	detect   ports.FieldDetector
	roi      ports.ROIFieldExtractor
	extract  ports.KeywordFieldExtractor
	validate ports.RecordValidator
	accounts ports.AccountContextProvider
}

func NewScanDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	ocr ports.OCRProvider,
	layout ports.LayoutAnalyzer,
	classify ports.TextClassifier,
	detect ports.FieldDetector,
	roi ports.ROIFieldExtractor,
	extract ports.KeywordFieldExtractor,
	validate ports.RecordValidator,
	accounts ports.AccountContextProvider,
) *ScanDocumentUseCase {
	return &ScanDocumentUseCase{
		repo:     repo,
		storage:  storage,
		ocr:      ocr,
		layout:   layout,
		classify: classify,
		detect:   detect,
		roi:      roi,
		extract:  extract,
		validate: validate,
		accounts: accounts,
	}
}

func (uc *ScanDocumentUseCase) ScanByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	scan, classification, err := uc.scanPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	needsReview := scan.Fields.OverallConfidence < reviewConfidenceThreshold || !scan.Validation.IsValid

	if err := uc.repo.SaveClassification(ctx, documentID, classification.DocType, classification.Confidence, needsReview); err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("save classification: %w; mark failed status: %v", err, failErr)
		}
		return fmt.Errorf("save classification: %w", err)
	}
	if err := uc.repo.SaveScan(ctx, documentID, scan); err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("save scan record: %w; mark failed status: %v", err, failErr)
		}
		return fmt.Errorf("save scan record: %w", err)
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusScanned, ""); err != nil {
		return fmt.Errorf("set status=scanned: %w", err)
	}
	return nil
}

func (uc *ScanDocumentUseCase) scanPipeline(ctx context.Context, documentID string) (*domain.ScanRecord, domain.ClassificationResult, error) {
	var none domain.ClassificationResult

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, none, fmt.Errorf("fetch document by id: %w", err)
	}

	res, image, err := uc.recognize(ctx, doc)
	if err != nil {
		return nil, none, err
	}

	chunks := uc.layout.AnalyzeLayout(*res)
	classification := uc.classify.Classify(res.Text)

	fields := uc.detect.DetectAllFields(chunks)
	annotated := uc.detect.AnnotateChunks(chunks, fields)

	roiRecord := uc.roi.ExtractFields(ctx, *res, classification.DocType, image)
	extracted := uc.extract.Extract(*res)

	accountCtx, err := uc.accounts.AccountContext(ctx)
	if err != nil {
		return nil, none, fmt.Errorf("resolve account context: %w", err)
	}
	validation := uc.validate.Validate(extracted, accountCtx)

	return &domain.ScanRecord{
		Chunks:         annotated,
		Classification: classification,
		Fields:         fields,
		ROIRecord:      roiRecord,
		Extracted:      extracted,
		Validation:     validation,
	}, classification, nil
}

func (uc *ScanDocumentUseCase) recognize(ctx context.Context, doc *domain.Document) (*domain.OcrResult, *domain.PageImage, error) {
	body, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open stored document: %w", err)
	}
	defer body.Close()

	res, image, err := uc.ocr.Recognize(ctx, doc, body)
	if err != nil {
		return nil, nil, fmt.Errorf("recognize document: %w", err)
	}
	if res == nil || len(res.Lines) == 0 {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "recognize document", errors.New("recognition produced no lines"))
	}
	return res, image, nil
}

func (uc *ScanDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ScanDocumentUseCase) markFailed(ctx context.Context, documentID string, scanErr error) error {
	if scanErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, scanErr.Error())
}
