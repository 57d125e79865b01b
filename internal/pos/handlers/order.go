package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-system/internal/auth"
	"pos-system/internal/cart"
	"pos-system/internal/pos/domain"
	"pos-system/internal/pos/domain/dto"
)

func (h *Handler) GetCart(c *gin.Context) {
	lines := h.sessions.Cart(auth.SessionID(c)).Lines()
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// AddToCart resolves the SKU against the catalog, applies an optional unit
// price override and merges the line into the session cart.
func (h *Handler) AddToCart(c *gin.Context) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	cat, err := h.catalog.Load()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "menu catalog unavailable"})
		return
	}
	item, ok := cat.FindBySKU(req.SKU)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown sku " + req.SKU})
		return
	}

	price := item.UnitPrice
	if req.UnitPrice != nil {
		price = *req.UnitPrice
	}

	sessionCart := h.sessions.Cart(auth.SessionID(c))
	if err := sessionCart.Add(cart.Item{
		SKU:       item.SKU,
		Category:  item.Category,
		Item:      item.Item,
		UnitPrice: price,
	}, req.Qty); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lines": sessionCart.Lines()})
}

func (h *Handler) ResetCart(c *gin.Context) {
	h.sessions.Reset(auth.SessionID(c))
	c.JSON(http.StatusOK, gin.H{"lines": []cart.Line{}})
}

func (h *Handler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	resp, err := h.orders.Checkout(c.Request.Context(), auth.SessionID(c), req)
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cart is empty"})
	case errors.Is(err, domain.ErrInvalidPayment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateOrderID):
		c.JSON(http.StatusConflict, gin.H{"error": "order id already exists, pick a fresh one"})
	case err != nil:
		h.lg.Error("checkout_failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save order"})
	default:
		c.JSON(http.StatusCreated, resp)
	}
}
