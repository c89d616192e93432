package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/paycalc/internal/common"
)

const amountPlaces = 2

var (
	cashDiscountRate    = decimal.RequireFromString("0.10")
	monthlyInterestRate = decimal.RequireFromString("0.01")
	one                 = decimal.NewFromInt(1)
)

// Item describes a cart line as received from the client.
type Item struct {
	Name      string  `json:"name"`
	UnitPrice string  `json:"unitPrice"`
	Quantity  float64 `json:"quantity"`
}

// Result aggregates the computed payment breakdown. Amounts are rounded to cents.
type Result struct {
	Items            []Item
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	Interest         decimal.Decimal
	Total            decimal.Decimal
	PaymentMethod    Method
	Installments     *int
	InstallmentValue *decimal.Decimal
}

// NormalizePrice parses a textual price accepting either comma or dot as the decimal separator.
func NormalizePrice(value string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	return decimal.NewFromString(normalized)
}

// Calculate validates the cart and computes the payable total for the chosen method.
// Pix payments and single-installment card payments receive the cash discount;
// card payments in more than one installment accrue compound monthly interest.
func Calculate(items []Item, method Method, card *Card, installments *int) (Result, error) {
	if !method.Valid() {
		return Result{}, common.InvalidArgument(fmt.Sprintf("Unsupported payment method %q", string(method)))
	}
	if err := ValidateItems(items); err != nil {
		return Result{}, err
	}
	subtotal := Subtotal(items)

	if method == MethodCreditCard {
		if err := ValidateCard(card, installments); err != nil {
			return Result{}, err
		}
	}

	discount := decimal.Zero
	interest := decimal.Zero
	total := subtotal

	switch {
	case IsCashEquivalent(method, installments):
		discount = subtotal.Mul(cashDiscountRate)
		total = subtotal.Sub(discount)
	case installments != nil && *installments > 1:
		total = subtotal.Mul(one.Add(monthlyInterestRate).Pow(decimal.NewFromInt(int64(*installments))))
		interest = total.Sub(subtotal)
	}

	var installmentValue *decimal.Decimal
	if installments != nil && *installments > 1 {
		v := total.Div(decimal.NewFromInt(int64(*installments))).Round(amountPlaces)
		installmentValue = &v
	}

	return Result{
		Items:            append([]Item(nil), items...),
		Subtotal:         subtotal.Round(amountPlaces),
		Discount:         discount.Round(amountPlaces),
		Interest:         interest.Round(amountPlaces),
		Total:            total.Round(amountPlaces),
		PaymentMethod:    method,
		Installments:     copyInt(installments),
		InstallmentValue: installmentValue,
	}, nil
}

// ValidateItems checks every item in order and stops at the first invalid field.
func ValidateItems(items []Item) error {
	if len(items) == 0 {
		return common.InvalidArgument("Items must not be empty")
	}
	for i, it := range items {
		if emptyName(it.Name) {
			return common.InvalidArgument(fmt.Sprintf("Name at position %d must be a non-empty string", i))
		}
		price, err := NormalizePrice(it.UnitPrice)
		if err != nil || !price.IsPositive() {
			return common.InvalidArgument(fmt.Sprintf("Price at position %d must be a positive number", i))
		}
		if it.Quantity <= 0 || math.IsNaN(it.Quantity) || math.IsInf(it.Quantity, 0) {
			return common.InvalidArgument(fmt.Sprintf("Quantity at position %d must be greater than or equal to 1", i))
		}
	}
	return nil
}

// Subtotal sums price times quantity over items. Lines that cannot be parsed count as zero.
func Subtotal(items []Item) decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range items {
		price, err := NormalizePrice(it.UnitPrice)
		if err != nil || math.IsNaN(it.Quantity) || math.IsInf(it.Quantity, 0) {
			continue
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromFloat(it.Quantity)))
	}
	return subtotal
}

// IsCashEquivalent reports whether the payment qualifies for the cash discount.
func IsCashEquivalent(method Method, installments *int) bool {
	if method == MethodPix {
		return true
	}
	return method == MethodCreditCard && (installments == nil || *installments == 1)
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
