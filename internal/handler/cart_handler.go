package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/pos-demo/internal/catalog"
	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/nikolayk812/pos-demo/internal/receipt"
	"github.com/nikolayk812/pos-demo/internal/register"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

type CartHandler struct {
	defaultCurrency currency.Unit
	tag             language.Tag
	logger          *zap.Logger
}

func NewCartHandler(defaultCurrency currency.Unit, tag language.Tag, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		defaultCurrency: defaultCurrency,
		tag:             tag,
		logger:          logger,
	}
}

// Catalog applies the category, q and page parameters that are present and
// returns the resulting page.
func (h *CartHandler) Catalog(c *gin.Context) {
	reg := registerFrom(c)
	unit := h.currency(reg.Session)

	var resp CatalogResponse

	reg.Catalog(func(cat *catalog.Catalog) {
		if category, ok := c.GetQuery("category"); ok {
			cat.SetCategory(category)
		}
		if q, ok := c.GetQuery("q"); ok {
			cat.SetQuery(q)
		}
		if page, ok := c.GetQuery("page"); ok {
			if n, err := strconv.Atoi(page); err == nil {
				cat.SetPage(n)
			}
		}

		products := cat.Page()
		resp = CatalogResponse{
			Products:   make([]ProductResponse, 0, len(products)),
			Categories: mapCategoriesToResponse(cat.Categories()),
			Category:   cat.Category(),
			Query:      cat.Query(),
			Page:       cat.CurrentPage(),
			TotalPages: cat.TotalPages(),
			Filtered:   cat.Filtered(),
		}
		for _, p := range products {
			resp.Products = append(resp.Products, mapProductToResponse(p, unit, h.tag))
		}
	})

	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Cart(c *gin.Context) {
	reg := registerFrom(c)

	c.JSON(http.StatusOK, mapCartToResponse(reg.Cart, h.currency(reg.Session), h.tag))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if !h.bind(c, &req) {
		return
	}

	reg := registerFrom(c)

	product, ok := reg.Product(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	h.respond(c, reg, reg.Cart.AddItem(product))
}

func (h *CartHandler) ChangeQuantity(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	var req ChangeQuantityRequest
	if !h.bind(c, &req) {
		return
	}

	reg := registerFrom(c)
	h.respond(c, reg, reg.Cart.ChangeQuantity(id, req.Delta))
}

func (h *CartHandler) SetPrice(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	var req SetPriceRequest
	if !h.bind(c, &req) {
		return
	}

	reg := registerFrom(c)
	h.respond(c, reg, reg.Cart.SetUnitPrice(id, req.Price))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	reg := registerFrom(c)
	h.respond(c, reg, reg.Cart.RemoveItem(id))
}

func (h *CartHandler) AdvanceToPayment(c *gin.Context) {
	reg := registerFrom(c)
	h.respond(c, reg, reg.Cart.AdvanceToPayment())
}

func (h *CartHandler) GoBackToItems(c *gin.Context) {
	reg := registerFrom(c)
	h.respond(c, reg, reg.Cart.GoBackToItems())
}

func (h *CartHandler) SetPaymentMethod(c *gin.Context) {
	var req SetPaymentMethodRequest
	if !h.bind(c, &req) {
		return
	}

	reg := registerFrom(c)
	h.respond(c, reg, reg.Cart.SetPaymentMethod(req.PaymentMethod))
}

func (h *CartHandler) SetCustomer(c *gin.Context) {
	var req SetCustomerRequest
	if !h.bind(c, &req) {
		return
	}

	reg := registerFrom(c)
	h.respond(c, reg, reg.Cart.SetCustomerInfo(req.Name, req.Email))
}

// Commit completes the sale. On failure the cart is kept for a retry and
// the remote reason is returned.
func (h *CartHandler) Commit(c *gin.Context) {
	reg := registerFrom(c)

	result, err := reg.Complete(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cart is empty",
			})
		case errors.Is(err, domain.ErrNotAtPayment):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Cart is not at the payment step",
			})
		case errors.Is(err, domain.ErrCommitInProgress):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Sale is already being processed",
			})
		default:
			c.JSON(http.StatusBadGateway, gin.H{
				"error": remoteMessage(err, "Failed to complete sale"),
				"cart":  mapCartToResponse(reg.Cart, h.currency(reg.Session), h.tag),
			})
		}
		return
	}

	resp := mapReceiptToResponse(result.Receipt, h.tag)

	text, err := receipt.String(result.Receipt, h.tag)
	if err != nil {
		h.logger.Error("Failed to render receipt",
			zap.String("receipt_id", result.Receipt.ID.String()),
			zap.Error(err))
	}
	resp.Text = text

	c.JSON(http.StatusOK, gin.H{
		"receipt": resp,
		"cart":    mapCartToResponse(reg.Cart, h.currency(reg.Session), h.tag),
	})
}

func (h *CartHandler) respond(c *gin.Context, reg *register.Register, applied bool) {
	resp := mapCartToResponse(reg.Cart, h.currency(reg.Session), h.tag)
	resp.Applied = &applied

	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return false
	}
	return true
}

func (h *CartHandler) productID(c *gin.Context) (domain.ProductID, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product id",
		})
		return 0, false
	}
	return domain.ProductID(id), true
}

func (h *CartHandler) currency(sess domain.Session) currency.Unit {
	return domain.ParseCurrency(sess.CurrencyCode(), h.defaultCurrency)
}
