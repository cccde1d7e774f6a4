package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/pos-demo/internal/auth"
	"github.com/nikolayk812/pos-demo/internal/register"
	"go.uber.org/zap"
)

type RouterParams struct {
	Auth     *AuthHandler
	Cart     *CartHandler
	Receipts *ReceiptHandler // nil without a receipt journal

	AuthService *auth.Service
	Registry    *register.Registry
	Logger      *zap.Logger
}

func NewRouter(p RouterParams) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(Logger(p.Logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/login", p.Auth.Login)
		v1.POST("/logout", p.Auth.Logout)
	}

	authed := v1.Group("", RequireSession(p.AuthService, p.Registry, p.Logger))
	{
		authed.GET("/dashboard", p.Auth.Dashboard)
	}

	reg := authed.Group("", RequireRegister(p.Registry))
	{
		reg.GET("/catalog", p.Cart.Catalog)

		reg.GET("/cart", p.Cart.Cart)
		reg.POST("/cart/items", p.Cart.AddItem)
		reg.PATCH("/cart/items/:id/quantity", p.Cart.ChangeQuantity)
		reg.PUT("/cart/items/:id/price", p.Cart.SetPrice)
		reg.DELETE("/cart/items/:id", p.Cart.RemoveItem)
		reg.POST("/cart/payment", p.Cart.AdvanceToPayment)
		reg.DELETE("/cart/payment", p.Cart.GoBackToItems)
		reg.PUT("/cart/payment-method", p.Cart.SetPaymentMethod)
		reg.PUT("/cart/customer", p.Cart.SetCustomer)
		reg.POST("/cart/commit", p.Cart.Commit)
	}

	if p.Receipts != nil {
		authed.GET("/receipts", p.Receipts.ListReceipts)
		authed.GET("/receipts/:id", p.Receipts.GetReceipt)
		authed.GET("/receipts/:id/print", p.Receipts.PrintReceipt)
	}

	return router
}
