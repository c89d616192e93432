package cart

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/paycalc/internal/pricing"
)

// CalculatePaymentRequest is the payload accepted by the calculate-payment endpoint.
type CalculatePaymentRequest struct {
	PaymentMethod string        `json:"paymentMethod" validate:"required,oneof=pix creditCard"`
	Items         []ItemRequest `json:"items" validate:"required,min=1,dive"`
	Card          *CardRequest  `json:"card" validate:"-"`
	Installments  *int          `json:"installments" validate:"omitempty,min=2,max=12"`
}

type ItemRequest struct {
	Name      string   `json:"name" validate:"required"`
	UnitPrice string   `json:"unitPrice" validate:"required"`
	Quantity  *float64 `json:"quantity" validate:"required"`
}

// CardRequest is only validated for credit card payments; pix ignores it.
type CardRequest struct {
	HolderName string `json:"holderName" validate:"required"`
	Number     string `json:"number" validate:"required"`
	ExpiryDate string `json:"expiryDate" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
}

// PaymentResult is the JSON rendering of a calculated payment.
type PaymentResult struct {
	Items            []pricing.Item `json:"items"`
	Subtotal         float64        `json:"subtotal"`
	Discount         float64        `json:"discount"`
	Interest         float64        `json:"interest"`
	Total            float64        `json:"total"`
	PaymentMethod    string         `json:"paymentMethod"`
	Installments     *int           `json:"installments"`
	InstallmentValue *float64       `json:"installmentValue"`
}

func (in CalculatePaymentRequest) toItems() []pricing.Item {
	items := make([]pricing.Item, 0, len(in.Items))
	for _, it := range in.Items {
		var qty float64
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		items = append(items, pricing.Item{Name: it.Name, UnitPrice: it.UnitPrice, Quantity: qty})
	}
	return items
}

func (c *CardRequest) toCard() *pricing.Card {
	if c == nil {
		return nil
	}
	return &pricing.Card{
		HolderName: c.HolderName,
		Number:     c.Number,
		ExpiryDate: c.ExpiryDate,
		CVV:        c.CVV,
	}
}

// NewPaymentResult maps a calculator result onto its wire representation.
func NewPaymentResult(res pricing.Result) PaymentResult {
	out := PaymentResult{
		Items:         res.Items,
		Subtotal:      amount(res.Subtotal),
		Discount:      amount(res.Discount),
		Interest:      amount(res.Interest),
		Total:         amount(res.Total),
		PaymentMethod: string(res.PaymentMethod),
		Installments:  res.Installments,
	}
	if out.Items == nil {
		out.Items = []pricing.Item{}
	}
	if res.InstallmentValue != nil {
		v := amount(*res.InstallmentValue)
		out.InstallmentValue = &v
	}
	return out
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
