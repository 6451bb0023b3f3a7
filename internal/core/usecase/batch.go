package usecase

import (
	"context"

	"github.com/wenlipeng/invoice-scanner/internal/core/ports"
)

// BatchScanUseCase scans a fixed list of documents strictly in order.
// Individual failures are reported through the progress callback and do
// not stop the batch; only context cancellation does.
type BatchScanUseCase struct {
	scanner ports.DocumentScanner
}

func NewBatchScanUseCase(scanner ports.DocumentScanner) *BatchScanUseCase {
	return &BatchScanUseCase{scanner: scanner}
}

func (uc *BatchScanUseCase) ScanBatch(ctx context.Context, documentIDs []string, progress ports.BatchProgress) error {
	total := len(documentIDs)
	for i, documentID := range documentIDs {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := uc.scanner.ScanByID(ctx, documentID)
		if progress != nil {
			progress(i+1, total, documentID, err)
		}
	}
	return nil
}
