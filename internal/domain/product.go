package domain

import (
	"github.com/shopspring/decimal"
)

type ProductID int64

type Product struct {
	ID           ProductID
	Name         string
	Description  string
	Category     string
	Supplier     string
	Unit         string
	BuyingPrice  decimal.Decimal
	SellingPrice decimal.Decimal
	Stock        decimal.Decimal
	MinimumStock decimal.Decimal
}

// AvailableUnits is the stock quantity truncated to whole units.
func (p Product) AvailableUnits() int64 {
	return p.Stock.Truncate(0).IntPart()
}

func (p Product) InStock() bool {
	return p.AvailableUnits() > 0
}

func (p Product) LowStock() bool {
	return p.Stock.LessThanOrEqual(p.MinimumStock)
}

type Category struct {
	ID   int64
	Name string
}
