// Package checkout commits a register's cart against the remote API and
// produces the receipt of the sale.
package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/nikolayk812/pos-demo/internal/port"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

type Result struct {
	Receipt domain.Receipt
	// Products is the refreshed product list, nil when the refresh failed.
	Products []domain.Product
}

type Service struct {
	sales    port.SaleSubmitter
	products port.ProductSource
	// journal is optional.
	journal         port.ReceiptRepository
	defaultCurrency currency.Unit
	logger          *zap.Logger
}

func NewService(
	sales port.SaleSubmitter,
	products port.ProductSource,
	journal port.ReceiptRepository,
	defaultCurrency currency.Unit,
	logger *zap.Logger,
) *Service {
	return &Service{
		sales:           sales,
		products:        products,
		journal:         journal,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// Complete commits cart. A commit failure is returned as is and leaves the
// cart untouched. Once the sale is committed, failing to refresh products
// or to journal the receipt is only logged.
// Cancelling ctx does not abort a dispatched sale: the remote may apply it
// regardless, and a kept cart would then be sold twice on retry.
func (s *Service) Complete(ctx context.Context, sess domain.Session, cart *domain.Cart) (Result, error) {
	ctx = context.WithoutCancel(ctx)

	snapshot, err := cart.CommitSale(ctx, s.sales.SubmitSale)
	if err != nil {
		s.logger.Warn("sale commit failed",
			zap.String("session_id", sess.ID),
			zap.Error(err))
		return Result{}, fmt.Errorf("cart.CommitSale: %w", err)
	}

	receipt := domain.NewReceipt(uuid.New(), snapshot, sess, s.defaultCurrency)

	s.logger.Info("sale committed",
		zap.String("session_id", sess.ID),
		zap.String("receipt_id", receipt.ID.String()),
		zap.Int("lines", len(receipt.Lines)),
		zap.String("total", receipt.Total.Amount.String()),
		zap.String("payment_method", receipt.PaymentMethod.String()))

	products, err := s.products.Products(ctx)
	if err != nil {
		s.logger.Error("failed to reload products",
			zap.String("session_id", sess.ID),
			zap.Error(err))
		products = nil
	}

	if s.journal != nil {
		if err := s.journal.SaveReceipt(ctx, receipt); err != nil {
			s.logger.Error("failed to journal receipt",
				zap.String("receipt_id", receipt.ID.String()),
				zap.Error(err))
		}
	}

	return Result{
		Receipt:  receipt,
		Products: products,
	}, nil
}
