package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/nikolayk812/pos-demo/internal/port"
	"github.com/shopspring/decimal"
)

var (
	_ port.ProductSource = (*Client)(nil)
	_ port.SaleSubmitter = (*Client)(nil)
)

type productDTO struct {
	ID                int64  `json:"id"`
	ProductName       string `json:"ProductName"`
	Description       string `json:"Description"`
	Category          string `json:"Category"`
	Supplier          string `json:"Supplier"`
	Unit              string `json:"Unit"`
	BuyingPrice       string `json:"buying_price"`
	SellingPrice      string `json:"selling_price"`
	Quantity          string `json:"Quantity"`
	MinimumStockLevel string `json:"MinimumStockLevel"`
}

type categoryDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsDeleted bool   `json:"isDeleted"`
}

type saleItemDTO struct {
	ProductID  int64           `json:"productId"`
	Amount     int64           `json:"amount"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var dtos []productDTO
	if err := c.do(ctx, http.MethodGet, "product", nil, nil, &dtos); err != nil {
		return nil, fmt.Errorf("c.do: %w", err)
	}

	products, err := mapProductsToDomain(dtos)
	if err != nil {
		return nil, fmt.Errorf("mapProductsToDomain: %w", err)
	}

	return products, nil
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var resp struct {
		Categories []categoryDTO `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "category/getAll", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("c.do: %w", err)
	}

	categories := make([]domain.Category, 0, len(resp.Categories))
	for _, dto := range resp.Categories {
		if dto.IsDeleted {
			continue
		}
		categories = append(categories, domain.Category{ID: dto.ID, Name: dto.Name})
	}

	return categories, nil
}

// SubmitSale deducts the sold quantities from the remote stock. It goes
// through the submit client, see WithSubmitClient.
func (c *Client) SubmitSale(ctx context.Context, items []domain.SaleItem) error {
	if len(items) == 0 {
		return fmt.Errorf("items are empty")
	}

	dtos := make([]saleItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, saleItemDTO{
			ProductID:  int64(item.ProductID),
			Amount:     item.Quantity,
			FinalPrice: item.FinalUnitPrice,
		})
	}

	if err := c.doWith(ctx, c.submitClient, http.MethodPatch, "stock/dedact", nil, dtos, nil); err != nil {
		return fmt.Errorf("c.do: %w", err)
	}

	return nil
}

func mapProductToDomain(dto productDTO) (domain.Product, error) {
	product := domain.Product{
		ID:          domain.ProductID(dto.ID),
		Name:        dto.ProductName,
		Description: dto.Description,
		Category:    dto.Category,
		Supplier:    dto.Supplier,
		Unit:        dto.Unit,
	}

	fields := []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{name: "buying_price", value: dto.BuyingPrice, dst: &product.BuyingPrice},
		{name: "selling_price", value: dto.SellingPrice, dst: &product.SellingPrice},
		{name: "Quantity", value: dto.Quantity, dst: &product.Stock},
		{name: "MinimumStockLevel", value: dto.MinimumStockLevel, dst: &product.MinimumStock},
	}

	for _, f := range fields {
		d, err := parseDecimal(f.value)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product[%d] %s[%s] is not valid: %w", dto.ID, f.name, f.value, err)
		}
		*f.dst = d
	}

	return product, nil
}

func mapProductsToDomain(dtos []productDTO) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(dtos))

	for _, dto := range dtos {
		product, err := mapProductToDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("mapProductToDomain: %w", err)
		}

		products = append(products, product)
	}

	return products, nil
}

// parseDecimal treats an empty field as zero.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
