package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-demo/internal/domain"
)

type ReceiptRepository interface {
	SaveReceipt(ctx context.Context, receipt domain.Receipt) error
	GetReceipt(ctx context.Context, id uuid.UUID) (domain.Receipt, error)
	ListReceipts(ctx context.Context, limit int32) ([]domain.Receipt, error)
}
