package port

import (
	"context"

	"github.com/nikolayk812/pos-demo/internal/domain"
)

type ProductSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type SaleSubmitter interface {
	SubmitSale(ctx context.Context, items []domain.SaleItem) error
}
