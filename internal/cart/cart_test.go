package cart

import "testing"

func TestAddMergesRepeatedSKU(t *testing.T) {
	c := New()
	item := Item{SKU: "B1", Category: "Burgers", Item: "Smash Burger", UnitPrice: 500}

	if err := c.Add(item, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(item, 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Qty != 5 {
		t.Fatalf("expected qty 5, got %d", lines[0].Qty)
	}
	if lines[0].LineTotal != 2500 {
		t.Fatalf("expected line total 2500, got %v", lines[0].LineTotal)
	}
}

func TestAddKeepsFirstUnitPriceOnMerge(t *testing.T) {
	c := New()
	if err := c.Add(Item{SKU: "B1", Item: "Smash Burger", UnitPrice: 500}, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	// A later override for the same SKU must not change the existing line.
	if err := c.Add(Item{SKU: "B1", Item: "Smash Burger", UnitPrice: 999}, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	lines := c.Lines()
	if lines[0].UnitPrice != 500 {
		t.Fatalf("expected unit price 500, got %v", lines[0].UnitPrice)
	}
	if lines[0].LineTotal != 1000 {
		t.Fatalf("expected line total 1000, got %v", lines[0].LineTotal)
	}
}

func TestAddRejectsNonPositiveQty(t *testing.T) {
	c := New()
	for _, qty := range []int{0, -1} {
		if err := c.Add(Item{SKU: "B1"}, qty); err == nil {
			t.Fatalf("expected error for qty %d", qty)
		}
	}
	if c.Len() != 0 {
		t.Fatalf("rejected adds must not mutate the cart, got %d lines", c.Len())
	}
}

func TestLinesPreserveInsertionOrder(t *testing.T) {
	c := New()
	for _, sku := range []string{"D1", "B1", "S1"} {
		if err := c.Add(Item{SKU: sku, Item: sku, UnitPrice: 100}, 1); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	// Merging into B1 must not move it.
	if err := c.Add(Item{SKU: "B1", Item: "B1", UnitPrice: 100}, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	lines := c.Lines()
	want := []string{"D1", "B1", "S1"}
	for i, sku := range want {
		if lines[i].SKU != sku {
			t.Fatalf("position %d: expected %s, got %s", i, sku, lines[i].SKU)
		}
	}
}

func TestLinesRoundToTwoDecimals(t *testing.T) {
	c := New()
	if err := c.Add(Item{SKU: "X", UnitPrice: 0.335}, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := c.Lines()[0].LineTotal; got != 0.67 {
		t.Fatalf("expected 0.67, got %v", got)
	}
}

func TestResetEmptiesCart(t *testing.T) {
	c := New()
	_ = c.Add(Item{SKU: "B1", UnitPrice: 500}, 2)
	c.Reset()
	if c.Len() != 0 {
		t.Fatalf("expected empty cart after reset")
	}
	if lines := c.Lines(); lines == nil || len(lines) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", lines)
	}
}
