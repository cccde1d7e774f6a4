package handler

import (
	"github.com/google/uuid"
	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	SessionID string           `json:"session_id"`
	User      domain.User      `json:"user"`
	Settings  *domain.Settings `json:"settings,omitempty"`
}

type AddItemRequest struct {
	ProductID domain.ProductID `json:"product_id" binding:"required"`
}

type ChangeQuantityRequest struct {
	Delta int64 `json:"delta"`
}

type SetPriceRequest struct {
	Price string `json:"price"`
}

type SetPaymentMethodRequest struct {
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

type SetCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProductResponse struct {
	ID           domain.ProductID `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Unit         string           `json:"unit"`
	SellingPrice decimal.Decimal  `json:"selling_price"`
	Price        string           `json:"price"`
	Stock        int64            `json:"stock"`
	InStock      bool             `json:"in_stock"`
	LowStock     bool             `json:"low_stock"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CatalogResponse struct {
	Products   []ProductResponse  `json:"products"`
	Categories []CategoryResponse `json:"categories"`
	Category   string             `json:"category"`
	Query      string             `json:"query"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
	Filtered   int                `json:"filtered"`
}

type CartLineResponse struct {
	ProductID         domain.ProductID `json:"product_id"`
	Name              string           `json:"name"`
	Category          string           `json:"category"`
	Quantity          int64            `json:"quantity"`
	Stock             int64            `json:"stock"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	OriginalUnitPrice decimal.Decimal  `json:"original_unit_price"`
	LineTotal         decimal.Decimal  `json:"line_total"`
	Formatted         string           `json:"formatted_line_total"`
}

type CustomerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CartResponse struct {
	Applied       *bool              `json:"applied,omitempty"`
	Lines         []CartLineResponse `json:"lines"`
	Total         decimal.Decimal    `json:"total"`
	Formatted     string             `json:"formatted_total"`
	Currency      string             `json:"currency"`
	Step          domain.Step        `json:"step"`
	PaymentMethod string             `json:"payment_method"`
	Customer      CustomerResponse   `json:"customer"`
	Committing    bool               `json:"committing"`
}

type ReceiptLineResponse struct {
	ProductID domain.ProductID `json:"product_id"`
	Name      string           `json:"name"`
	Quantity  int64            `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	LineTotal decimal.Decimal  `json:"line_total"`
}

type ReceiptResponse struct {
	ID            uuid.UUID             `json:"id"`
	Organization  OrganizationResponse  `json:"organization"`
	Lines         []ReceiptLineResponse `json:"lines"`
	Total         decimal.Decimal       `json:"total"`
	Currency      string                `json:"currency"`
	Formatted     string                `json:"formatted_total"`
	PaymentMethod string                `json:"payment_method"`
	Customer      CustomerResponse      `json:"customer"`
	ProcessedBy   string                `json:"processed_by"`
	CreatedAt     string                `json:"created_at"`
	Text          string                `json:"text,omitempty"`
}

type OrganizationResponse struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	TIN      string `json:"tin,omitempty"`
}

type InventoryItemResponse struct {
	ProductName       string          `json:"product_name"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	MinimumStockLevel decimal.Decimal `json:"minimum_stock_level"`
	Status            string          `json:"status"`
}

type DashboardResponse struct {
	MonthlyPurchases decimal.Decimal         `json:"monthly_purchases"`
	MonthlySales     decimal.Decimal         `json:"monthly_sales"`
	DailySales       decimal.Decimal         `json:"daily_sales"`
	TotalRevenue     decimal.Decimal         `json:"total_revenue"`
	TotalCost        decimal.Decimal         `json:"total_cost"`
	EstimatedProfit  decimal.Decimal         `json:"estimated_profit"`
	ProfitMargin     decimal.Decimal         `json:"profit_margin"`
	LowStockItems    []InventoryItemResponse `json:"low_stock_items"`
}

func mapProductToResponse(p domain.Product, unit currency.Unit, tag language.Tag) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Unit:         p.Unit,
		SellingPrice: p.SellingPrice,
		Price:        domain.NewMoney(p.SellingPrice, unit).Format(tag),
		Stock:        p.AvailableUnits(),
		InStock:      p.InStock(),
		LowStock:     p.LowStock(),
	}
}

func mapCategoriesToResponse(categories []domain.Category) []CategoryResponse {
	result := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return result
}

func mapCartToResponse(cart *domain.Cart, unit currency.Unit, tag language.Tag) CartResponse {
	lines := cart.Lines()

	result := CartResponse{
		Lines:         make([]CartLineResponse, 0, len(lines)),
		Total:         cart.Total(),
		Currency:      unit.String(),
		Step:          cart.Step(),
		PaymentMethod: cart.PaymentMethod().String(),
		Customer: CustomerResponse{
			Name:  cart.Customer().Name,
			Email: cart.Customer().Email,
		},
		Committing: cart.Committing(),
	}
	result.Formatted = domain.NewMoney(result.Total, unit).Format(tag)

	for _, l := range lines {
		result.Lines = append(result.Lines, CartLineResponse{
			ProductID:         l.ProductID,
			Name:              l.Name,
			Category:          l.Category,
			Quantity:          l.Quantity,
			Stock:             l.Stock,
			UnitPrice:         l.UnitPrice,
			OriginalUnitPrice: l.OriginalUnitPrice,
			LineTotal:         l.LineTotal(),
			Formatted:         domain.NewMoney(l.LineTotal(), unit).Format(tag),
		})
	}

	return result
}

func mapReceiptToResponse(r domain.Receipt, tag language.Tag) ReceiptResponse {
	result := ReceiptResponse{
		ID: r.ID,
		Organization: OrganizationResponse{
			Name:     r.Organization.Name,
			Location: r.Organization.Location,
			Phone:    r.Organization.Phone,
			Email:    r.Organization.Email,
			TIN:      r.Organization.TIN,
		},
		Lines:         make([]ReceiptLineResponse, 0, len(r.Lines)),
		Total:         r.Total.Amount,
		Currency:      r.Total.Currency.String(),
		Formatted:     r.Total.Format(tag),
		PaymentMethod: r.PaymentMethod.String(),
		Customer: CustomerResponse{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
		},
		ProcessedBy: r.ProcessedBy,
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	for _, l := range r.Lines {
		result.Lines = append(result.Lines, ReceiptLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal(),
		})
	}

	return result
}

func mapDashboardToResponse(d domain.DashboardData) DashboardResponse {
	result := DashboardResponse{
		MonthlyPurchases: d.MonthlyPurchases,
		MonthlySales:     d.MonthlySales,
		DailySales:       d.DailySales,
		TotalRevenue:     d.EstimatedProfit.TotalRevenue,
		TotalCost:        d.EstimatedProfit.TotalCost,
		EstimatedProfit:  d.EstimatedProfit.EstimatedProfit,
		ProfitMargin:     d.EstimatedProfit.ProfitMargin,
		LowStockItems:    make([]InventoryItemResponse, 0, len(d.LowStockItems)),
	}

	for _, item := range d.LowStockItems {
		result.LowStockItems = append(result.LowStockItems, InventoryItemResponse{
			ProductName:       item.ProductName,
			CurrentStock:      item.CurrentStock,
			MinimumStockLevel: item.MinimumStockLevel,
			Status:            item.Status,
		})
	}

	return result
}
