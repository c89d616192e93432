package pricing

import (
	"fmt"
	"strings"

	"github.com/noah-isme/paycalc/internal/common"
)

// Method identifies how the customer settles the cart.
type Method string

const (
	// MethodPix is an instant bank transfer, always treated as a cash payment.
	MethodPix Method = "pix"
	// MethodCreditCard is a card payment, optionally split into installments.
	MethodCreditCard Method = "creditCard"
)

// ParseMethod maps the wire value onto a known payment method.
func ParseMethod(value string) (Method, error) {
	switch Method(strings.TrimSpace(value)) {
	case MethodPix:
		return MethodPix, nil
	case MethodCreditCard:
		return MethodCreditCard, nil
	default:
		return "", common.InvalidArgument(fmt.Sprintf("Unsupported payment method %q", value))
	}
}

// Description returns the human readable label of the method.
func (m Method) Description() string {
	switch m {
	case MethodPix:
		return "PIX"
	case MethodCreditCard:
		return "Credit Card"
	default:
		return string(m)
	}
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	return m == MethodPix || m == MethodCreditCard
}
