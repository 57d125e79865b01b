package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-system/internal/auth"
	"pos-system/internal/catalog"
	"pos-system/internal/common/logger"
	"pos-system/internal/pos/repository"
	"pos-system/internal/pos/service"
	"pos-system/internal/session"
)

// Handler wires the HTTP surface of the register: catalog browsing, cart
// edits, checkout, sales history and exports.
type Handler struct {
	catalog   *catalog.Loader
	sessions  *session.Manager
	orders    service.OrderServiceInterface
	repo      repository.OrderRepositoryInterface
	gate      *auth.Gate
	lg        *logger.Logger
	storeName string
}

func New(cat *catalog.Loader, sessions *session.Manager, orders service.OrderServiceInterface,
	repo repository.OrderRepositoryInterface, gate *auth.Gate, lg *logger.Logger, storeName string) *Handler {
	return &Handler{
		catalog:   cat,
		sessions:  sessions,
		orders:    orders,
		repo:      repo,
		gate:      gate,
		lg:        lg,
		storeName: storeName,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/login", h.Login)

	api := r.Group("/", h.gate.Middleware())
	{
		api.GET("/catalog", h.GetCatalog)
		api.GET("/catalog/categories", h.GetCategories)
		api.POST("/catalog/reload", h.ReloadCatalog)

		api.GET("/cart", h.GetCart)
		api.POST("/cart/items", h.AddToCart)
		api.POST("/cart/reset", h.ResetCart)

		api.POST("/checkout", h.Checkout)

		api.GET("/sales", h.ListSales)
		api.GET("/sales/export", h.ExportSales)
		api.DELETE("/sales", h.ClearSales)
		api.GET("/orders/:id/receipt", h.GetReceipt)
		api.DELETE("/orders/:id", h.DeleteOrder)
	}
}
