package domain

import (
	"github.com/shopspring/decimal"
)

const InventoryStatusLowStock = "Low Stock"

type InventoryItem struct {
	ProductName       string
	CurrentStock      decimal.Decimal
	MinimumStockLevel decimal.Decimal
	Status            string
}

type EstimatedProfit struct {
	TotalRevenue    decimal.Decimal
	TotalCost       decimal.Decimal
	EstimatedProfit decimal.Decimal
	ProfitMargin    decimal.Decimal
}

type DashboardData struct {
	MonthlyPurchases decimal.Decimal
	MonthlySales     decimal.Decimal
	DailySales       decimal.Decimal
	EstimatedProfit  EstimatedProfit
	LowStockItems    []InventoryItem
}
