package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/nikolayk812/pos-demo/internal/port"
	"github.com/nikolayk812/pos-demo/internal/receipt"
	"github.com/nikolayk812/pos-demo/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type ReceiptHandler struct {
	journal port.ReceiptRepository
	tag     language.Tag
	logger  *zap.Logger
}

func NewReceiptHandler(journal port.ReceiptRepository, tag language.Tag, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		journal: journal,
		tag:     tag,
		logger:  logger,
	}
}

func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	r, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, mapReceiptToResponse(r, h.tag))
}

const defaultReceiptLimit = 20

// ListReceipts returns the latest journaled receipts, newest first.
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	limit := defaultReceiptLimit
	if v, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > math.MaxInt32 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = n
	}

	receipts, err := h.journal.ListReceipts(c.Request.Context(), int32(limit))
	if err != nil {
		h.logger.Error("Failed to list receipts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list receipts",
		})
		return
	}

	resp := make([]ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		resp = append(resp, mapReceiptToResponse(r, h.tag))
	}

	c.JSON(http.StatusOK, resp)
}

// PrintReceipt re-renders a journaled receipt as plain text.
func (h *ReceiptHandler) PrintReceipt(c *gin.Context) {
	r, ok := h.load(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)

	if err := receipt.Render(c.Writer, r, h.tag); err != nil {
		h.logger.Error("Failed to render receipt",
			zap.String("receipt_id", r.ID.String()),
			zap.Error(err))
	}
}

func (h *ReceiptHandler) load(c *gin.Context) (r domain.Receipt, ok bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid receipt id",
		})
		return r, false
	}

	r, err = h.journal.GetReceipt(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReceiptNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Receipt not found",
			})
			return r, false
		}

		h.logger.Error("Failed to get receipt",
			zap.String("receipt_id", id.String()),
			zap.Error(err))

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get receipt",
		})
		return r, false
	}

	return r, true
}
