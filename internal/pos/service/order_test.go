package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"pos-system/internal/cart"
	"pos-system/internal/common/logger"
	"pos-system/internal/pos/domain"
	"pos-system/internal/pos/domain/dao"
	"pos-system/internal/pos/domain/dto"
	"pos-system/internal/session"
)

// fakeRepo implements the order repository contract in memory, including
// the duplicate-id behavior and timestamp stamping of the real store.
type fakeRepo struct {
	saved   map[string]dao.Order
	saveErr error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{saved: map[string]dao.Order{}} }

func (f *fakeRepo) InitSchema(ctx context.Context) error { return nil }

func (f *fakeRepo) SaveOrder(ctx context.Context, order dao.Order) (dao.Order, error) {
	if f.saveErr != nil {
		return dao.Order{}, f.saveErr
	}
	if _, ok := f.saved[order.OrderID]; ok {
		return dao.Order{}, fmt.Errorf("order %s: %w", order.OrderID, domain.ErrDuplicateOrderID)
	}
	order.Timestamp = time.Now().UTC().Truncate(time.Second)
	for i := range order.Lines {
		order.Lines[i].OrderID = order.OrderID
		order.Lines[i].LineNo = i + 1
	}
	f.saved[order.OrderID] = order
	return order, nil
}

func (f *fakeRepo) ListRecent(ctx context.Context, limit int) ([]dao.Order, error) {
	orders := make([]dao.Order, 0, len(f.saved))
	for _, o := range f.saved {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].Timestamp.After(orders[j].Timestamp) })
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (f *fakeRepo) GetOrder(ctx context.Context, orderID string) (dao.Order, error) {
	o, ok := f.saved[orderID]
	if !ok {
		return dao.Order{}, fmt.Errorf("order %s: %w", orderID, domain.ErrOrderNotFound)
	}
	return o, nil
}

func (f *fakeRepo) DeleteOrder(ctx context.Context, orderID string) error {
	delete(f.saved, orderID) // absent id is a no-op, like the real store
	return nil
}

func (f *fakeRepo) ClearAll(ctx context.Context) error {
	f.saved = map[string]dao.Order{}
	return nil
}

type fakePublisher struct {
	published [][]byte
	err       error
}

func (f *fakePublisher) PublishTicket(ctx context.Context, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, body)
	return nil
}

func newService(t *testing.T, repo *fakeRepo, pub KitchenPublisher, policy string) (OrderServiceInterface, *session.Manager, string) {
	t.Helper()
	sessions := session.NewManager()
	dir := t.TempDir()
	svc := NewOrderService(repo, sessions, pub, logger.New("test"), Options{
		StoreName:     "Smash and Grill",
		ReceiptsDir:   dir,
		OrderIDPolicy: policy,
	})
	return svc, sessions, dir
}

func fillCart(t *testing.T, sessions *session.Manager, sessionID string) {
	t.Helper()
	c := sessions.Cart(sessionID)
	if err := c.Add(cart.Item{SKU: "B1", Item: "Smash Burger", UnitPrice: 500}, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(cart.Item{SKU: "B1", Item: "Smash Burger", UnitPrice: 500}, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(cart.Item{SKU: "S1", Item: "Fries", UnitPrice: 200}, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _, _ := newService(t, newFakeRepo(), nil, PolicyReject)
	_, err := svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{PaymentMethod: "Cash"})
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc, sessions, dir := newService(t, repo, pub, PolicyReject)
	fillCart(t, sessions, "s1")

	resp, err := svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{
		OrderID:        "SNG-TEST-001",
		Cashier:        "Ali",
		PaymentMethod:  "Cash",
		TaxRate:        0.13,
		AmountTendered: 3500,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// 5x500 + 1x200 = 2700; tax 351; total 3051; change 449.
	if resp.Subtotal != 2700 {
		t.Fatalf("subtotal: expected 2700, got %v", resp.Subtotal)
	}
	if resp.Tax != 351 {
		t.Fatalf("tax: expected 351, got %v", resp.Tax)
	}
	if resp.Total != 3051 {
		t.Fatalf("total: expected 3051, got %v", resp.Total)
	}
	if resp.ChangeDue != 449 {
		t.Fatalf("change: expected 449, got %v", resp.ChangeDue)
	}
	if resp.Timestamp.IsZero() {
		t.Fatalf("expected a persistence timestamp")
	}

	saved, err := repo.GetOrder(context.Background(), "SNG-TEST-001")
	if err != nil {
		t.Fatalf("get saved order: %v", err)
	}
	if len(saved.Lines) != 2 {
		t.Fatalf("expected 2 lines (merged B1 + S1), got %d", len(saved.Lines))
	}
	if saved.Lines[0].LineNo != 1 || saved.Lines[1].LineNo != 2 {
		t.Fatalf("line numbers must be 1-based insertion order: %+v", saved.Lines)
	}
	if saved.Lines[0].SKU != "B1" || saved.Lines[0].Qty != 5 {
		t.Fatalf("unexpected first line: %+v", saved.Lines[0])
	}

	// Cart is cleared after a successful checkout.
	if sessions.Cart("s1").Len() != 0 {
		t.Fatalf("expected cart reset after checkout")
	}

	// Receipt documents are written next to the database.
	if !resp.KitchenNotified || len(pub.published) != 1 {
		t.Fatalf("expected one kitchen ticket, got %d (notified=%v)", len(pub.published), resp.KitchenNotified)
	}
	for _, name := range []string{"receipt-SNG-TEST-001.html", "receipt-SNG-TEST-001.pdf"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected receipt file %s: %v", name, err)
		}
	}
}

func TestCheckoutInvalidPayment(t *testing.T) {
	svc, sessions, _ := newService(t, newFakeRepo(), nil, PolicyReject)
	fillCart(t, sessions, "s1")
	_, err := svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{PaymentMethod: "Crypto"})
	if !errors.Is(err, domain.ErrInvalidPayment) {
		t.Fatalf("expected ErrInvalidPayment, got %v", err)
	}
	if sessions.Cart("s1").Len() == 0 {
		t.Fatalf("rejected checkout must not clear the cart")
	}
}

func TestCheckoutDuplicateIDRejectPolicy(t *testing.T) {
	repo := newFakeRepo()
	svc, sessions, _ := newService(t, repo, nil, PolicyReject)

	fillCart(t, sessions, "s1")
	if _, err := svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{
		OrderID: "SNG-DUP", PaymentMethod: "Cash", TaxRate: 0.13,
	}); err != nil {
		t.Fatalf("first checkout: %v", err)
	}

	fillCart(t, sessions, "s1")
	_, err := svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{
		OrderID: "SNG-DUP", PaymentMethod: "Cash", TaxRate: 0.13,
	})
	if !errors.Is(err, domain.ErrDuplicateOrderID) {
		t.Fatalf("expected ErrDuplicateOrderID, got %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("failed checkout must not add rows, got %d orders", len(repo.saved))
	}
	if sessions.Cart("s1").Len() == 0 {
		t.Fatalf("failed checkout must keep the cart for retry")
	}
}

func TestCheckoutDuplicateIDRegeneratePolicy(t *testing.T) {
	repo := newFakeRepo()
	svc, sessions, _ := newService(t, repo, nil, PolicyRegenerate)

	fillCart(t, sessions, "s1")
	if _, err := svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{
		OrderID: "SNG-DUP", PaymentMethod: "Cash", TaxRate: 0.13,
	}); err != nil {
		t.Fatalf("first checkout: %v", err)
	}

	fillCart(t, sessions, "s1")
	resp, err := svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{
		OrderID: "SNG-DUP", PaymentMethod: "Cash", TaxRate: 0.13,
	})
	if err != nil {
		t.Fatalf("regenerate checkout: %v", err)
	}
	if resp.OrderID == "SNG-DUP" || !strings.HasPrefix(resp.OrderID, "SNG-DUP-") {
		t.Fatalf("expected a suffixed order id, got %q", resp.OrderID)
	}
	if len(repo.saved) != 2 {
		t.Fatalf("expected 2 orders after regenerate, got %d", len(repo.saved))
	}
}

func TestCheckoutGeneratesOrderIDWhenEmpty(t *testing.T) {
	svc, sessions, _ := newService(t, newFakeRepo(), nil, PolicyReject)
	fillCart(t, sessions, "s1")
	resp, err := svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{PaymentMethod: "Card", TaxRate: 0.13})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !strings.HasPrefix(resp.OrderID, "SNG-") {
		t.Fatalf("expected generated id with SNG prefix, got %q", resp.OrderID)
	}
	// Non-cash payment reports the 0.00 change sentinel.
	if resp.ChangeDue != 0 {
		t.Fatalf("expected no change for card, got %v", resp.ChangeDue)
	}
}

// A broker outage must not fail a checkout whose order is already durable.
func TestCheckoutSurvivesPublishFailure(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, sessions, _ := newService(t, repo, pub, PolicyReject)
	fillCart(t, sessions, "s1")

	resp, err := svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{PaymentMethod: "Cash", TaxRate: 0.13})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if resp.KitchenNotified {
		t.Fatalf("expected kitchen_notified=false on publish failure")
	}
	if len(repo.saved) != 1 {
		t.Fatalf("order must still be persisted")
	}
}

func TestCheckoutPersistenceFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.saveErr = errors.New("storage unreachable")
	svc, sessions, dir := newService(t, repo, nil, PolicyReject)
	fillCart(t, sessions, "s1")

	_, err := svc.Checkout(context.Background(), "s1", dto.CheckoutRequest{PaymentMethod: "Cash", TaxRate: 0.13})
	if err == nil {
		t.Fatalf("expected persistence error")
	}
	if sessions.Cart("s1").Len() == 0 {
		t.Fatalf("failed checkout must keep the cart")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("no receipts must be written for a failed checkout")
	}
}

func TestNewOrderIDShape(t *testing.T) {
	id := NewOrderID(time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC))
	if id != "SNG-20250102-150405" {
		t.Fatalf("unexpected order id %q", id)
	}
}
