// Package cart implements the storefront cart: a pure in-memory state
// container with the pricing rules, wrapped by a session that persists every
// transition and mirrors it to the signed-in user's record.
package cart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tigraytip/storefront-backend/pkg/config"
	"github.com/tigraytip/storefront-backend/pkg/types"
)

// ProductSummary is the catalog data a cart line snapshots at add time.
type ProductSummary struct {
	ID    uuid.UUID
	Title string
	Price decimal.Decimal
	Image string
}

// Pricing holds the storefront money rules: orders above the free-shipping
// threshold ship free, everything else pays the flat fee, and VAT applies to
// the subtotal.
type Pricing struct {
	FreeShippingOver decimal.Decimal
	ShippingFee      decimal.Decimal
	VATRate          decimal.Decimal
}

// DefaultPricing returns the stock rules: free shipping over 1000, flat fee
// of 99, 15% VAT.
func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingOver: decimal.NewFromInt(1000),
		ShippingFee:      decimal.NewFromInt(99),
		VATRate:          decimal.NewFromFloat(0.15),
	}
}

// PricingFromConfig parses the configured decimal strings.
func PricingFromConfig(cfg config.CartConfig) (Pricing, error) {
	over, err := decimal.NewFromString(cfg.FreeShipOver)
	if err != nil {
		return Pricing{}, fmt.Errorf("parsing free-ship threshold %q: %w", cfg.FreeShipOver, err)
	}
	fee, err := decimal.NewFromString(cfg.ShippingFee)
	if err != nil {
		return Pricing{}, fmt.Errorf("parsing shipping fee %q: %w", cfg.ShippingFee, err)
	}
	rate, err := decimal.NewFromString(cfg.VATRate)
	if err != nil {
		return Pricing{}, fmt.Errorf("parsing vat rate %q: %w", cfg.VATRate, err)
	}
	return Pricing{FreeShippingOver: over, ShippingFee: fee, VATRate: rate}, nil
}

func (p Pricing) isZero() bool {
	return p.FreeShippingOver.IsZero() && p.ShippingFee.IsZero() && p.VATRate.IsZero()
}

// State is the pure cart reducer. Lines hold at most one entry per product id
// and stored quantities are always >= 1. The zero value is an empty cart with
// default pricing. State performs no I/O.
type State struct {
	Lines     types.CartLines
	Presented bool

	pricing Pricing
}

// NewState returns an empty cart using the provided pricing rules.
func NewState(pricing Pricing) State {
	return State{pricing: pricing}
}

// AddItem merges qty into an existing line for the product or appends a new
// snapshot line. Callers pass qty >= 1; the reducer does not re-check.
func (s *State) AddItem(product ProductSummary, qty int) {
	for i := range s.Lines {
		if s.Lines[i].ProductID == product.ID {
			s.Lines[i].Quantity += qty
			return
		}
	}
	s.Lines = append(s.Lines, types.CartLine{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  qty,
	})
}

// RemoveItem drops the line for the product. No-op when absent.
func (s *State) RemoveItem(productID uuid.UUID) {
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the absolute quantity for the product's line. qty <= 0
// removes the line. No-op when the product is absent.
func (s *State) UpdateQuantity(productID uuid.UUID, qty int) {
	if qty <= 0 {
		s.RemoveItem(productID)
		return
	}
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			s.Lines[i].Quantity = qty
			return
		}
	}
}

// Clear empties the cart.
func (s *State) Clear() {
	s.Lines = nil
}

// TogglePresented flips the open/closed presentation flag.
func (s *State) TogglePresented() {
	s.Presented = !s.Presented
}

// Subtotal is the sum of unit price times quantity across all lines.
func (s *State) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ItemCount is the total quantity across all lines.
func (s *State) ItemCount() int {
	count := 0
	for _, line := range s.Lines {
		count += line.Quantity
	}
	return count
}

// ShippingFee is zero when the subtotal strictly exceeds the free-shipping
// threshold, the flat fee otherwise. A subtotal exactly at the threshold
// still pays the fee.
func (s *State) ShippingFee() decimal.Decimal {
	if s.Subtotal().GreaterThan(s.rules().FreeShippingOver) {
		return decimal.Zero
	}
	return s.rules().ShippingFee
}

// Tax is VAT on the subtotal, rounded to cents.
func (s *State) Tax() decimal.Decimal {
	return s.Subtotal().Mul(s.rules().VATRate).Round(2)
}

// Total is subtotal plus shipping. VAT is a checkout concern; the cart
// presents pre-tax figures.
func (s *State) Total() decimal.Decimal {
	return s.Subtotal().Add(s.ShippingFee())
}

// TotalWithTax is the checkout figure: subtotal plus shipping plus VAT.
func (s *State) TotalWithTax() decimal.Decimal {
	return s.Total().Add(s.Tax())
}

func (s *State) rules() Pricing {
	if s.pricing.isZero() {
		return DefaultPricing()
	}
	return s.pricing
}
