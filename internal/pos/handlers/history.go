package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pos-system/internal/export"
	"pos-system/internal/pos/domain"
	"pos-system/internal/pos/service"
	"pos-system/internal/receipt"
)

// maxRecent caps every history listing and export.
const maxRecent = 50

func (h *Handler) ListSales(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(maxRecent)))
	if err != nil || limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}
	orders, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.lg.Error("list_sales_failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sales history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) ExportSales(c *gin.Context) {
	orders, err := h.repo.ListRecent(c.Request.Context(), maxRecent)
	if err != nil {
		h.lg.Error("export_sales_failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sales history"})
		return
	}
	buf, err := export.ToXLSX(orders)
	if err != nil {
		h.lg.Error("export_sales_failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=recent_sales.xlsx")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	orderID := c.Param("id")
	if err := h.repo.DeleteOrder(c.Request.Context(), orderID); err != nil {
		h.lg.Error("delete_order_failed", err, map[string]any{"order_id": orderID})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
		return
	}
	// Deleting an absent order is a no-op by contract.
	c.JSON(http.StatusOK, gin.H{"deleted": orderID})
}

// ClearSales wipes the entire history; the caller must confirm explicitly.
func (h *Handler) ClearSales(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clearing all sales is irreversible, pass confirm=true"})
		return
	}
	if err := h.repo.ClearAll(c.Request.Context()); err != nil {
		h.lg.Error("clear_sales_failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear sales history"})
		return
	}
	h.lg.Info("sales_cleared", nil)
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// GetReceipt regenerates a receipt for a stored order, as HTML by default
// or as PDF with ?format=pdf.
func (h *Handler) GetReceipt(c *gin.Context) {
	orderID := c.Param("id")
	order, err := h.repo.GetOrder(c.Request.Context(), orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		h.lg.Error("get_receipt_failed", err, map[string]any{"order_id": orderID})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}

	view := service.ToView(order)
	if c.DefaultQuery("format", "html") == "pdf" {
		data, err := receipt.RenderPDF(h.storeName, view)
		if err != nil {
			h.lg.Error("render_receipt_failed", err, map[string]any{"order_id": orderID})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render receipt"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=receipt-"+orderID+".pdf")
		c.Data(http.StatusOK, "application/pdf", data)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=receipt-"+orderID+".html")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(receipt.RenderHTML(h.storeName, view)))
}
