package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

type salesDTO struct {
	Sales decimal.Decimal `json:"sales"`
}

type profitDTO struct {
	Data struct {
		TotalRevenue    decimal.Decimal `json:"totalRevenue"`
		TotalCost       decimal.Decimal `json:"totalCost"`
		EstimatedProfit decimal.Decimal `json:"estimatedProfit"`
		ProfitMargin    decimal.Decimal `json:"profitMargin"`
	} `json:"data"`
}

type inventoryDTO struct {
	Data []struct {
		ProductName       string          `json:"productName"`
		CurrentStock      decimal.Decimal `json:"currentStock"`
		MinimumStockLevel decimal.Decimal `json:"minimumStockLevel"`
		Status            string          `json:"status"`
	} `json:"data"`
}

// Dashboard fetches the stat cards for the month and day containing now.
// The five requests run in parallel; the first failure cancels the rest.
func (c *Client) Dashboard(ctx context.Context, now time.Time) (domain.DashboardData, error) {
	month := dateRange(startOfMonth(now), endOfMonth(now))
	day := dateRange(now, now)

	var (
		purchases, monthly, daily salesDTO
		profit                    profitDTO
		inventory                 inventoryDTO
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.do(gctx, http.MethodGet, "dashboard/getPurchasesByDate", month, nil, &purchases)
	})
	g.Go(func() error {
		return c.do(gctx, http.MethodGet, "dashboard/getSalesByDate", month, nil, &monthly)
	})
	g.Go(func() error {
		return c.do(gctx, http.MethodGet, "dashboard/getSalesByDate", day, nil, &daily)
	})
	g.Go(func() error {
		return c.do(gctx, http.MethodGet, "report/estimated-profit", month, nil, &profit)
	})
	g.Go(func() error {
		return c.do(gctx, http.MethodGet, "report/inventory-status", nil, nil, &inventory)
	})

	if err := g.Wait(); err != nil {
		return domain.DashboardData{}, fmt.Errorf("g.Wait: %w", err)
	}

	var lowStock []domain.InventoryItem
	for _, item := range inventory.Data {
		if item.Status != domain.InventoryStatusLowStock {
			continue
		}
		lowStock = append(lowStock, domain.InventoryItem{
			ProductName:       item.ProductName,
			CurrentStock:      item.CurrentStock,
			MinimumStockLevel: item.MinimumStockLevel,
			Status:            item.Status,
		})
	}

	return domain.DashboardData{
		MonthlyPurchases: purchases.Sales,
		MonthlySales:     monthly.Sales,
		DailySales:       daily.Sales,
		EstimatedProfit: domain.EstimatedProfit{
			TotalRevenue:    profit.Data.TotalRevenue,
			TotalCost:       profit.Data.TotalCost,
			EstimatedProfit: profit.Data.EstimatedProfit,
			ProfitMargin:    profit.Data.ProfitMargin,
		},
		LowStockItems: lowStock,
	}, nil
}

func dateRange(start, end time.Time) url.Values {
	return url.Values{
		"startDate": {start.Format(dateLayout)},
		"endDate":   {end.Format(dateLayout)},
	}
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func endOfMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, -1)
}
