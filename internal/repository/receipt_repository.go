package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/pos-demo/internal/db"
	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/nikolayk812/pos-demo/internal/port"
	"golang.org/x/text/currency"
)

var ErrReceiptNotFound = errors.New("receipt not found")

type receiptRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewReceipt(pool *pgxpool.Pool) port.ReceiptRepository {
	return &receiptRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewReceiptWithTx(tx pgx.Tx) port.ReceiptRepository {
	return &receiptRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *receiptRepository) SaveReceipt(ctx context.Context, receipt domain.Receipt) error {
	if receipt.ID == uuid.Nil {
		return fmt.Errorf("receipt ID is empty")
	}
	if len(receipt.Lines) == 0 {
		return fmt.Errorf("receipt has no lines")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		org := receipt.Organization

		err := q.CreateSale(ctx, db.CreateSaleParams{
			ID:            receipt.ID,
			OrgName:       org.Name,
			OrgLocation:   org.Location,
			OrgPhone:      org.Phone,
			OrgEmail:      org.Email,
			OrgTin:        org.TIN,
			TotalAmount:   receipt.Total.Amount,
			TotalCurrency: receipt.Total.Currency.String(),
			PaymentMethod: receipt.PaymentMethod.String(),
			CustomerName:  receipt.Customer.Name,
			CustomerEmail: receipt.Customer.Email,
			ProcessedBy:   receipt.ProcessedBy,
			CreatedAt:     receipt.CreatedAt,
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.CreateSale: %w", err)
		}

		for i, line := range receipt.Lines {
			err := q.AddSaleLine(ctx, db.AddSaleLineParams{
				SaleID:            receipt.ID,
				Position:          int32(i),
				ProductID:         int64(line.ProductID),
				ProductName:       line.Name,
				Quantity:          line.Quantity,
				UnitPrice:         line.UnitPrice,
				OriginalUnitPrice: line.OriginalUnitPrice,
			})
			if err != nil {
				return struct{}{}, fmt.Errorf("q.AddSaleLine[%d]: %w", i, err)
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *receiptRepository) GetReceipt(ctx context.Context, id uuid.UUID) (domain.Receipt, error) {
	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Receipt, error) {
		sale, err := q.GetSale(ctx, id)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Receipt{}, ErrReceiptNotFound
		}
		if err != nil {
			return domain.Receipt{}, fmt.Errorf("q.GetSale: %w", err)
		}

		return loadReceipt(ctx, q, sale)
	})
}

func (r *receiptRepository) ListReceipts(ctx context.Context, limit int32) ([]domain.Receipt, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) ([]domain.Receipt, error) {
		sales, err := q.ListSales(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("q.ListSales: %w", err)
		}

		receipts := make([]domain.Receipt, 0, len(sales))
		for _, sale := range sales {
			receipt, err := loadReceipt(ctx, q, sale)
			if err != nil {
				return nil, err
			}
			receipts = append(receipts, receipt)
		}

		return receipts, nil
	})
}

func loadReceipt(ctx context.Context, q *db.Queries, sale db.Sale) (domain.Receipt, error) {
	lines, err := q.GetSaleLines(ctx, sale.ID)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("q.GetSaleLines: %w", err)
	}

	receipt, err := mapSaleToDomain(sale, lines)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("mapSaleToDomain: %w", err)
	}

	return receipt, nil
}

func mapSaleToDomain(sale db.Sale, rows []db.SaleLine) (domain.Receipt, error) {
	parsedCurrency, err := currency.ParseISO(sale.TotalCurrency)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("currency[%s] is not valid: %w", sale.TotalCurrency, err)
	}

	method := domain.PaymentMethod(sale.PaymentMethod)
	if !method.Valid() {
		return domain.Receipt{}, fmt.Errorf("payment method[%s] is not valid", sale.PaymentMethod)
	}

	lines := make([]domain.ReceiptLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, domain.ReceiptLine{
			ProductID:         domain.ProductID(row.ProductID),
			Name:              row.ProductName,
			Quantity:          row.Quantity,
			UnitPrice:         row.UnitPrice,
			OriginalUnitPrice: row.OriginalUnitPrice,
		})
	}

	return domain.Receipt{
		ID: sale.ID,
		Organization: domain.Organization{
			Name:     sale.OrgName,
			Location: sale.OrgLocation,
			Phone:    sale.OrgPhone,
			Email:    sale.OrgEmail,
			TIN:      sale.OrgTin,
		},
		Lines:         lines,
		Total:         domain.Money{Amount: sale.TotalAmount, Currency: parsedCurrency},
		PaymentMethod: method,
		Customer: domain.CustomerInfo{
			Name:  sale.CustomerName,
			Email: sale.CustomerEmail,
		},
		ProcessedBy: sale.ProcessedBy,
		CreatedAt:   sale.CreatedAt,
	}, nil
}
