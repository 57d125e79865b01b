package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"pos-system/internal/cart"
	"pos-system/internal/common/logger"
	"pos-system/internal/pos/domain"
	"pos-system/internal/pos/domain/dao"
	"pos-system/internal/pos/domain/dto"
	"pos-system/internal/pos/repository"
	"pos-system/internal/pricing"
	"pos-system/internal/receipt"
	"pos-system/internal/session"
)

// Order ID policies for a duplicate identifier: reject surfaces the
// conflict to the caller, regenerate retries once with a fresh suffix.
const (
	PolicyReject     = "reject"
	PolicyRegenerate = "regenerate"
)

type OrderService struct {
	repo        repository.OrderRepositoryInterface
	sessions    *session.Manager
	publisher   KitchenPublisher
	lg          *logger.Logger
	storeName   string
	receiptsDir string
	idPolicy    string
}

type Options struct {
	StoreName     string
	ReceiptsDir   string
	OrderIDPolicy string
}

func NewOrderService(repo repository.OrderRepositoryInterface, sessions *session.Manager,
	publisher KitchenPublisher, lg *logger.Logger, opts Options) OrderServiceInterface {
	return &OrderService{
		repo:        repo,
		sessions:    sessions,
		publisher:   publisher,
		lg:          lg,
		storeName:   opts.StoreName,
		receiptsDir: opts.ReceiptsDir,
		idPolicy:    opts.OrderIDPolicy,
	}
}

// Checkout turns the session cart into a persisted order: validate, price,
// save atomically, write the receipt documents, notify the kitchen and
// reset the cart. An empty cart is rejected before any side effect.
func (s *OrderService) Checkout(ctx context.Context, sessionID string, req dto.CheckoutRequest) (dto.CheckoutResponse, error) {
	c := s.sessions.Cart(sessionID)
	lines := c.Lines()
	if len(lines) == 0 {
		return dto.CheckoutResponse{}, domain.ErrEmptyCart
	}

	switch req.PaymentMethod {
	case "Cash", "Card", "Online":
	default:
		return dto.CheckoutResponse{}, fmt.Errorf("%w: %q", domain.ErrInvalidPayment, req.PaymentMethod)
	}
	if strings.TrimSpace(req.Cashier) == "" {
		req.Cashier = "Cashier"
	}

	totals, err := pricing.Compute(lines, pricing.Inputs{
		TaxRate:  req.TaxRate,
		Service:  req.Service,
		Discount: req.Discount,
	})
	if err != nil {
		return dto.CheckoutResponse{}, err
	}

	orderID := req.OrderID
	if orderID == "" {
		orderID = NewOrderID(time.Now())
	}

	order := dao.Order{
		OrderID:       orderID,
		Cashier:       req.Cashier,
		PaymentMethod: req.PaymentMethod,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Service:       totals.Service,
		Discount:      totals.Discount,
		Total:         totals.GrandTotal,
		Lines:         toOrderLines(lines),
	}

	saved, err := s.repo.SaveOrder(ctx, order)
	if errors.Is(err, domain.ErrDuplicateOrderID) && s.idPolicy == PolicyRegenerate {
		order.OrderID = orderID + "-" + uuid.NewString()[:8]
		s.lg.Warn("order_id_regenerated", map[string]any{"old": orderID, "new": order.OrderID})
		saved, err = s.repo.SaveOrder(ctx, order)
	}
	if err != nil {
		return dto.CheckoutResponse{}, err
	}

	htmlPath, pdfPath := s.writeReceipts(saved)
	notified := s.notifyKitchen(ctx, saved)
	s.sessions.Reset(sessionID)

	s.lg.Info("order_saved", map[string]any{
		"order_id": saved.OrderID,
		"total":    saved.Total,
		"lines":    len(saved.Lines),
	})

	return dto.CheckoutResponse{
		OrderID:         saved.OrderID,
		Timestamp:       saved.Timestamp,
		Subtotal:        saved.Subtotal,
		Tax:             saved.Tax,
		Service:         saved.Service,
		Discount:        saved.Discount,
		Total:           saved.Total,
		ChangeDue:       pricing.ChangeDue(saved.PaymentMethod, req.AmountTendered, saved.Total),
		KitchenNotified: notified,
		ReceiptHTML:     htmlPath,
		ReceiptPDF:      pdfPath,
	}, nil
}

// NewOrderID builds the register's default identifier shape.
func NewOrderID(now time.Time) string {
	return now.Format("SNG-20060102-150405")
}

func toOrderLines(lines []cart.Line) []dao.OrderLine {
	out := make([]dao.OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, dao.OrderLine{
			SKU:       l.SKU,
			Item:      l.Item,
			UnitPrice: l.UnitPrice,
			Qty:       l.Qty,
			LineTotal: l.LineTotal,
		})
	}
	return out
}

// writeReceipts persists the printable documents next to the database so a
// receipt can be re-printed even if the client never downloads it. Failures
// are logged, not fatal: the order itself is already durable.
func (s *OrderService) writeReceipts(o dao.Order) (htmlPath, pdfPath string) {
	if err := os.MkdirAll(s.receiptsDir, 0o755); err != nil {
		s.lg.Error("receipts_dir_failed", err, map[string]any{"dir": s.receiptsDir})
		return "", ""
	}
	view := ToView(o)

	htmlPath = filepath.Join(s.receiptsDir, "receipt-"+o.OrderID+".html")
	if err := os.WriteFile(htmlPath, []byte(receipt.RenderHTML(s.storeName, view)), 0o644); err != nil {
		s.lg.Error("receipt_html_failed", err, map[string]any{"order_id": o.OrderID})
		htmlPath = ""
	}

	pdfPath = filepath.Join(s.receiptsDir, "receipt-"+o.OrderID+".pdf")
	pdfBytes, err := receipt.RenderPDF(s.storeName, view)
	if err == nil {
		err = os.WriteFile(pdfPath, pdfBytes, 0o644)
	}
	if err != nil {
		s.lg.Error("receipt_pdf_failed", err, map[string]any{"order_id": o.OrderID})
		pdfPath = ""
	}
	return htmlPath, pdfPath
}

// notifyKitchen publishes a ticket for the kitchen display. The order is
// already durable at this point, so a broker failure must not fail the
// checkout; it is logged and reported in the response flag.
func (s *OrderService) notifyKitchen(ctx context.Context, o dao.Order) bool {
	if s.publisher == nil {
		return false
	}
	ticket := dto.KitchenTicket{
		OrderID:   o.OrderID,
		Timestamp: o.Timestamp,
		Cashier:   o.Cashier,
	}
	for _, l := range o.Lines {
		ticket.Items = append(ticket.Items, dto.TicketItem{Item: l.Item, Qty: l.Qty})
	}
	body, err := json.Marshal(ticket)
	if err != nil {
		s.lg.Error("kitchen_ticket_marshal_failed", err, map[string]any{"order_id": o.OrderID})
		return false
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.publisher.PublishTicket(pctx, body); err != nil {
		s.lg.Error("kitchen_publish_failed", err, map[string]any{"order_id": o.OrderID})
		return false
	}
	return true
}

// ToView adapts a stored order to the renderer's snapshot.
func ToView(o dao.Order) receipt.OrderView {
	view := receipt.OrderView{
		OrderID:       o.OrderID,
		Timestamp:     o.Timestamp,
		Cashier:       o.Cashier,
		PaymentMethod: o.PaymentMethod,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		Service:       o.Service,
		Discount:      o.Discount,
		Total:         o.Total,
	}
	for _, l := range o.Lines {
		view.Lines = append(view.Lines, receipt.LineView{
			Item:      l.Item,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	return view
}
