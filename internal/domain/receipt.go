package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const DefaultOrganizationName = "Hardware Store"

type Organization struct {
	Name     string
	Location string
	Phone    string
	Email    string
	TIN      string
}

type ReceiptLine struct {
	ProductID         ProductID
	Name              string
	Quantity          int64
	UnitPrice         decimal.Decimal
	OriginalUnitPrice decimal.Decimal
}

func (l ReceiptLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

type Receipt struct {
	ID            uuid.UUID
	Organization  Organization
	Lines         []ReceiptLine
	Total         Money
	PaymentMethod PaymentMethod
	Customer      CustomerInfo
	ProcessedBy   string

	CreatedAt time.Time
}

// NewReceipt captures a committed sale; the cart itself is already reset by
// the time the receipt is needed.
func NewReceipt(id uuid.UUID, snapshot SaleSnapshot, session Session, def currency.Unit) Receipt {
	org := Organization{Name: DefaultOrganizationName}
	if s := session.Settings; s != nil {
		if s.OrganizationName != "" {
			org.Name = s.OrganizationName
		}
		org.Location = s.Location
		org.Phone = s.OrganizationPhone
		org.Email = s.OrganizationEmail
		org.TIN = s.TIN
	}

	lines := make([]ReceiptLine, 0, len(snapshot.Lines))
	for _, l := range snapshot.Lines {
		lines = append(lines, ReceiptLine{
			ProductID:         l.ProductID,
			Name:              l.Name,
			Quantity:          l.Quantity,
			UnitPrice:         l.UnitPrice,
			OriginalUnitPrice: l.OriginalUnitPrice,
		})
	}

	processedBy := session.User.FullName()
	if processedBy == "" {
		processedBy = "Unknown"
	}

	return Receipt{
		ID:            id,
		Organization:  org,
		Lines:         lines,
		Total:         NewMoney(snapshot.Total, ParseCurrency(session.CurrencyCode(), def)),
		PaymentMethod: snapshot.PaymentMethod,
		Customer:      snapshot.Customer,
		ProcessedBy:   processedBy,
		CreatedAt:     snapshot.TakenAt,
	}
}

func (r Receipt) LineMoney(amount decimal.Decimal) Money {
	return NewMoney(amount, r.Total.Currency)
}
