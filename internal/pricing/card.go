package pricing

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/noah-isme/paycalc/internal/common"
)

const (
	minCardDigits   = 13
	maxCardDigits   = 19
	maxInstallments = 12
)

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	cvvPattern    = regexp.MustCompile(`^[0-9]{3,4}$`)
)

// Card holds the card fields supplied with a credit card payment.
// Only the format is checked; nothing is charged or stored.
type Card struct {
	HolderName string `json:"holderName"`
	Number     string `json:"number"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

// CardDigits strips every non-digit character from the card number.
func CardDigits(number string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
}

// ValidateCard checks the card format and the installment upper bound.
// Installments below 1 are not rejected here.
func ValidateCard(card *Card, installments *int) error {
	if card == nil {
		return common.InvalidArgument("Card details are required for credit card payments")
	}
	digits := CardDigits(card.Number)
	if len(digits) < minCardDigits || len(digits) > maxCardDigits {
		return common.InvalidArgument("Invalid card number")
	}
	if !expiryPattern.MatchString(card.ExpiryDate) {
		return common.InvalidArgument("Expiry date must be in MM/YY format")
	}
	if !cvvPattern.MatchString(card.CVV) {
		return common.InvalidArgument("CVV must have 3 or 4 digits")
	}
	if installments != nil && *installments > maxInstallments {
		return common.InvalidArgument("Number of installments must be between 1 and 12")
	}
	return nil
}

// MaskedNumber renders the card number with all but the last four digits hidden.
func (c Card) MaskedNumber() string {
	digits := CardDigits(c.Number)
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

// emptyName treats blank names and the literal "0" as missing.
func emptyName(s string) bool {
	return isBlank(s) || strings.TrimSpace(s) == "0"
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
