package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-system/internal/auth"
	"pos-system/internal/catalog"
)

type loginRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passphrase is required"})
		return
	}
	token, sessionID, err := h.gate.Login(req.Passphrase)
	switch {
	case errors.Is(err, auth.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect passphrase"})
	default:
		c.JSON(http.StatusOK, gin.H{"token": token, "session_id": sessionID})
	}
}

// GetCatalog returns the menu, optionally filtered by ?category=. A broken
// menu file degrades to an empty catalog with a warning, never an error
// status: the register must stay usable.
func (h *Handler) GetCatalog(c *gin.Context) {
	cat, err := h.catalog.Load()
	warnings := cat.Warnings
	if err != nil {
		warnings = append(warnings, err.Error())
		h.lg.Warn("catalog_unavailable", map[string]any{"reason": err.Error()})
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    cat.FilterByCategory(c.DefaultQuery("category", catalog.AllCategories)),
		"warnings": warnings,
	})
}

func (h *Handler) GetCategories(c *gin.Context) {
	cat, err := h.catalog.Load()
	if err != nil {
		h.lg.Warn("catalog_unavailable", map[string]any{"reason": err.Error()})
	}
	c.JSON(http.StatusOK, gin.H{"categories": append([]string{catalog.AllCategories}, cat.Categories()...)})
}

func (h *Handler) ReloadCatalog(c *gin.Context) {
	h.catalog.Invalidate()
	cat, err := h.catalog.Load()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"reloaded": true, "items": 0, "warning": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reloaded": true, "items": len(cat.Items), "warnings": cat.Warnings})
}
