package domain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCommitInProgress = errors.New("sale commit already in progress")
	ErrNotAtPayment     = errors.New("cart is not at the payment step")
)

type Step string

const (
	StepItems   Step = "items"
	StepPayment Step = "payment"
)

func (s Step) String() string {
	return string(s)
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobile:
		return true
	}
	return false
}

func (m PaymentMethod) String() string {
	return string(m)
}

type CustomerInfo struct {
	Name  string
	Email string
}

type CartLine struct {
	ProductID ProductID
	Name      string
	Category  string
	// Stock is the product's available units when the line was last grown.
	Stock int64

	Quantity          int64
	UnitPrice         decimal.Decimal
	OriginalUnitPrice decimal.Decimal
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// SaleItem is what the remote system of record receives for one line.
type SaleItem struct {
	ProductID      ProductID
	Quantity       int64
	FinalUnitPrice decimal.Decimal
}

// SaleSnapshot is the cart as it was when a commit was dispatched.
type SaleSnapshot struct {
	Lines         []CartLine
	PaymentMethod PaymentMethod
	Customer      CustomerInfo
	Total         decimal.Decimal
	TakenAt       time.Time
}

func (s SaleSnapshot) Items() []SaleItem {
	items := make([]SaleItem, 0, len(s.Lines))
	for _, l := range s.Lines {
		items = append(items, SaleItem{
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			FinalUnitPrice: l.UnitPrice,
		})
	}
	return items
}

type SubmitFunc func(ctx context.Context, items []SaleItem) error

// Cart is the in-progress sale of one register.
// Mutators report whether the change was applied; a false result is a soft
// rejection and leaves the cart untouched. While a commit is in flight every
// mutator is rejected.
type Cart struct {
	mu sync.Mutex

	lines         []CartLine
	step          Step
	paymentMethod PaymentMethod
	customer      CustomerInfo
	committing    bool

	now func() time.Time
}

func NewCart() *Cart {
	return &Cart{
		step:          StepItems,
		paymentMethod: PaymentCash,
		now:           time.Now,
	}
}

func (c *Cart) AddItem(p Product) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.committing {
		return false
	}

	stock := p.AvailableUnits()
	if stock <= 0 {
		return false
	}

	i := c.index(p.ID)
	if i < 0 {
		c.lines = append(c.lines, CartLine{
			ProductID:         p.ID,
			Name:              p.Name,
			Category:          p.Category,
			Stock:             stock,
			Quantity:          1,
			UnitPrice:         p.SellingPrice,
			OriginalUnitPrice: p.SellingPrice,
		})
		return true
	}

	line := &c.lines[i]
	if line.Quantity+1 > stock {
		return false
	}

	line.Quantity++
	line.Stock = stock

	return true
}

func (c *Cart) ChangeQuantity(id ProductID, delta int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.committing {
		return false
	}

	i := c.index(id)
	if i < 0 {
		return false
	}

	line := &c.lines[i]

	newQty := max(0, line.Quantity+delta)
	if newQty > line.Stock {
		return false
	}

	if newQty == 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
		return true
	}

	line.Quantity = newQty

	return true
}

func (c *Cart) RemoveItem(id ProductID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.committing {
		return false
	}

	i := c.index(id)
	if i < 0 {
		return false
	}

	c.lines = slices.Delete(c.lines, i, i+1)

	return true
}

// SetUnitPrice accepts a non-negative decimal in text form.
func (c *Cart) SetUnitPrice(id ProductID, newPrice string) bool {
	price, err := decimal.NewFromString(strings.TrimSpace(newPrice))
	if err != nil || price.IsNegative() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.committing {
		return false
	}

	i := c.index(id)
	if i < 0 {
		return false
	}

	c.lines[i].UnitPrice = price

	return true
}

func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.total()
}

func (c *Cart) AdvanceToPayment() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.committing || len(c.lines) == 0 || c.step != StepItems {
		return false
	}

	c.step = StepPayment

	return true
}

func (c *Cart) GoBackToItems() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.committing {
		return false
	}

	c.step = StepItems

	return true
}

func (c *Cart) SetPaymentMethod(m PaymentMethod) bool {
	if !m.Valid() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.committing {
		return false
	}

	c.paymentMethod = m

	return true
}

func (c *Cart) SetCustomerInfo(name, email string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.committing {
		return false
	}

	c.customer = CustomerInfo{Name: name, Email: email}

	return true
}

// CommitSale hands a snapshot of the lines to submit. Only a non-empty cart
// at the payment step can be committed. The cart lock is not held during
// submit; edits made meanwhile are rejected. On success the cart is reset
// and the snapshot returned, on failure the cart is left as it was.
func (c *Cart) CommitSale(ctx context.Context, submit SubmitFunc) (SaleSnapshot, error) {
	c.mu.Lock()

	if c.committing {
		c.mu.Unlock()
		return SaleSnapshot{}, ErrCommitInProgress
	}

	if len(c.lines) == 0 {
		c.mu.Unlock()
		return SaleSnapshot{}, ErrEmptyCart
	}

	if c.step != StepPayment {
		c.mu.Unlock()
		return SaleSnapshot{}, ErrNotAtPayment
	}

	snapshot := SaleSnapshot{
		Lines:         slices.Clone(c.lines),
		PaymentMethod: c.paymentMethod,
		Customer:      c.customer,
		Total:         c.total(),
		TakenAt:       c.now(),
	}
	c.committing = true
	c.mu.Unlock()

	err := submit(ctx, snapshot.Items())

	c.mu.Lock()
	defer c.mu.Unlock()

	c.committing = false

	if err != nil {
		return SaleSnapshot{}, fmt.Errorf("submit sale: %w", err)
	}

	c.reset()

	return snapshot, nil
}

func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.lines)
}

func (c *Cart) Line(id ProductID) (CartLine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return CartLine{}, false
	}

	return c.lines[i], true
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.lines) == 0
}

func (c *Cart) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.step
}

func (c *Cart) PaymentMethod() PaymentMethod {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.paymentMethod
}

func (c *Cart) Customer() CustomerInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.customer
}

func (c *Cart) Committing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.committing
}

func (c *Cart) index(id ProductID) int {
	return slices.IndexFunc(c.lines, func(l CartLine) bool {
		return l.ProductID == id
	})
}

func (c *Cart) total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

func (c *Cart) reset() {
	c.lines = nil
	c.step = StepItems
	c.paymentMethod = PaymentCash
	c.customer = CustomerInfo{}
}
