package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func product(t *testing.T, price string) ProductSummary {
	t.Helper()
	return ProductSummary{
		ID:    uuid.New(),
		Title: "test product",
		Price: dec(t, price),
	}
}

func TestAddItemMergesQuantities(t *testing.T) {
	var state State
	p := product(t, "100")

	state.AddItem(p, 2)
	state.AddItem(p, 3)

	if len(state.Lines) != 1 {
		t.Fatalf("expected single line, got %d", len(state.Lines))
	}
	if state.Lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", state.Lines[0].Quantity)
	}
}

func TestAddItemAppendsDistinctProducts(t *testing.T) {
	var state State
	p1 := product(t, "100")
	p2 := product(t, "50")

	state.AddItem(p1, 1)
	state.AddItem(p2, 2)

	if len(state.Lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(state.Lines))
	}
	if state.Lines[0].ProductID != p1.ID || state.Lines[1].ProductID != p2.ID {
		t.Fatalf("expected lines in add order")
	}
}

func TestAddItemSnapshotsProductFields(t *testing.T) {
	var state State
	p := ProductSummary{ID: uuid.New(), Title: "mug", Price: dec(t, "49.50"), Image: "mug.jpg"}

	state.AddItem(p, 1)

	line := state.Lines[0]
	if line.Title != "mug" || line.Image != "mug.jpg" || !line.Price.Equal(p.Price) {
		t.Fatalf("expected snapshot of product fields, got %+v", line)
	}
}

func TestUpdateQuantitySetsAbsolute(t *testing.T) {
	var state State
	p := product(t, "100")
	state.AddItem(p, 2)

	state.UpdateQuantity(p.ID, 7)

	if state.Lines[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", state.Lines[0].Quantity)
	}
}

func TestUpdateQuantityZeroOrLessRemoves(t *testing.T) {
	for _, qty := range []int{0, -1} {
		var state State
		p := product(t, "100")
		state.AddItem(p, 2)

		state.UpdateQuantity(p.ID, qty)

		if len(state.Lines) != 0 {
			t.Fatalf("qty %d: expected empty cart, got %d lines", qty, len(state.Lines))
		}
	}
}

func TestUpdateQuantityUnknownProductNoop(t *testing.T) {
	var state State
	state.AddItem(product(t, "100"), 1)

	state.UpdateQuantity(uuid.New(), 4)

	if len(state.Lines) != 1 || state.Lines[0].Quantity != 1 {
		t.Fatalf("expected untouched cart, got %+v", state.Lines)
	}
}

func TestRemoveItemUnknownProductNoop(t *testing.T) {
	var state State
	state.AddItem(product(t, "100"), 1)

	state.RemoveItem(uuid.New())

	if len(state.Lines) != 1 {
		t.Fatalf("expected untouched cart, got %d lines", len(state.Lines))
	}
}

func TestSubtotalEmptyCartIsZero(t *testing.T) {
	var state State
	if !state.Subtotal().IsZero() {
		t.Fatalf("expected zero subtotal, got %s", state.Subtotal())
	}
}

func TestSubtotalSumsPriceTimesQuantity(t *testing.T) {
	var state State
	state.AddItem(product(t, "100.50"), 2)
	state.AddItem(product(t, "49.25"), 3)

	want := dec(t, "348.75")
	if !state.Subtotal().Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, state.Subtotal())
	}
}

func TestItemCountSumsQuantities(t *testing.T) {
	var state State
	state.AddItem(product(t, "10"), 2)
	state.AddItem(product(t, "20"), 5)

	if state.ItemCount() != 7 {
		t.Fatalf("expected 7 items, got %d", state.ItemCount())
	}
}

func TestShippingFeeThresholdBoundary(t *testing.T) {
	cases := []struct {
		price string
		want  string
	}{
		{"1000", "99"},   // exactly at the threshold still pays
		{"1000.01", "0"}, // strictly above ships free
		{"999.99", "99"},
		{"2500", "0"},
	}
	for _, tc := range cases {
		var state State
		state.AddItem(product(t, tc.price), 1)
		if got := state.ShippingFee(); !got.Equal(dec(t, tc.want)) {
			t.Fatalf("subtotal %s: expected shipping %s, got %s", tc.price, tc.want, got)
		}
	}
}

func TestTaxIsVATRoundedToCents(t *testing.T) {
	var state State
	state.AddItem(product(t, "333.33"), 1)

	// 333.33 * 0.15 = 49.9995 -> 50.00
	if got := state.Tax(); !got.Equal(dec(t, "50.00")) {
		t.Fatalf("expected tax 50.00, got %s", got)
	}
}

func TestTotalAddsSubtotalAndShipping(t *testing.T) {
	var state State
	state.AddItem(product(t, "100"), 2)

	// 200 + 99 = 299; the cart total carries no VAT
	if got := state.Total(); !got.Equal(dec(t, "299")) {
		t.Fatalf("expected total 299, got %s", got)
	}
}

func TestTotalWithTaxAddsVAT(t *testing.T) {
	var state State
	state.AddItem(product(t, "100"), 2)

	// 200 + 99 + 30 = 329
	if got := state.TotalWithTax(); !got.Equal(dec(t, "329")) {
		t.Fatalf("expected checkout total 329, got %s", got)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	var state State
	state.AddItem(product(t, "10"), 1)

	state.Clear()

	if len(state.Lines) != 0 || !state.Subtotal().IsZero() {
		t.Fatalf("expected empty cart after clear")
	}
}

func TestTogglePresentedFlips(t *testing.T) {
	var state State
	state.TogglePresented()
	if !state.Presented {
		t.Fatalf("expected presented after first toggle")
	}
	state.TogglePresented()
	if state.Presented {
		t.Fatalf("expected hidden after second toggle")
	}
}

func TestCartLifecycleScenario(t *testing.T) {
	var state State
	p1 := product(t, "100")

	state.AddItem(p1, 2)
	if !state.Subtotal().Equal(dec(t, "200")) {
		t.Fatalf("expected subtotal 200, got %s", state.Subtotal())
	}
	if !state.ShippingFee().Equal(dec(t, "99")) {
		t.Fatalf("expected shipping 99, got %s", state.ShippingFee())
	}
	if !state.Total().Equal(dec(t, "299")) {
		t.Fatalf("expected total 299, got %s", state.Total())
	}

	state.AddItem(p1, 3)
	if len(state.Lines) != 1 || state.Lines[0].Quantity != 5 {
		t.Fatalf("expected merged line with quantity 5, got %+v", state.Lines)
	}
	if !state.Subtotal().Equal(dec(t, "500")) {
		t.Fatalf("expected subtotal 500, got %s", state.Subtotal())
	}
	if !state.ShippingFee().Equal(dec(t, "99")) {
		t.Fatalf("expected shipping 99, got %s", state.ShippingFee())
	}

	state.UpdateQuantity(p1.ID, 0)
	if len(state.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", state.Lines)
	}
	if !state.Subtotal().IsZero() {
		t.Fatalf("expected zero subtotal, got %s", state.Subtotal())
	}
}
