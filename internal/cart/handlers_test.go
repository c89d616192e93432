package cart_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/paycalc/internal/cart"
)

type envelope struct {
	Status  bool                `json:"status"`
	Data    *cart.PaymentResult `json:"data"`
	Message string              `json:"message"`
}

const validItems = `[{"name":"Product 1","unitPrice":"100,00","quantity":2},{"name":"Product 2","unitPrice":"50.00","quantity":1}]`

const validCard = `{"holderName":"John Doe","number":"4111111111111111","expiryDate":"12/25","cvv":"123"}`

func newHandler() *cart.Handler {
	return &cart.Handler{
		Svc:      &cart.Service{Logger: zerolog.Nop()},
		Validate: cart.NewValidator(),
	}
}

func doCalculate(t *testing.T, h *cart.Handler, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/calculate-payment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.CalculatePayment(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestCalculatePaymentHandler(t *testing.T) {
	h := newHandler()

	t.Run("pix", func(t *testing.T) {
		rec, env := doCalculate(t, h, `{"paymentMethod":"pix","items":`+validItems+`}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, env.Status)
		require.NotNil(t, env.Data)
		require.Equal(t, 250.0, env.Data.Subtotal)
		require.Equal(t, 25.0, env.Data.Discount)
		require.Equal(t, 0.0, env.Data.Interest)
		require.Equal(t, 225.0, env.Data.Total)
		require.Equal(t, "pix", env.Data.PaymentMethod)
		require.Nil(t, env.Data.Installments)
		require.Nil(t, env.Data.InstallmentValue)
		require.Len(t, env.Data.Items, 2)
		require.Equal(t, "100,00", env.Data.Items[0].UnitPrice)
	})

	t.Run("credit card installments", func(t *testing.T) {
		rec, env := doCalculate(t, h, `{"paymentMethod":"creditCard","items":`+validItems+`,"card":`+validCard+`,"installments":6}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, env.Status)
		require.Equal(t, 250.0, env.Data.Subtotal)
		require.Equal(t, 0.0, env.Data.Discount)
		require.Equal(t, 15.38, env.Data.Interest)
		require.Equal(t, 265.38, env.Data.Total)
		require.Equal(t, 6, *env.Data.Installments)
		require.Equal(t, 44.23, *env.Data.InstallmentValue)
	})

	t.Run("credit card without installments", func(t *testing.T) {
		rec, env := doCalculate(t, h, `{"paymentMethod":"creditCard","items":`+validItems+`,"card":`+validCard+`}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 225.0, env.Data.Total)
		require.Equal(t, 25.0, env.Data.Discount)
	})

	t.Run("pix ignores partial card", func(t *testing.T) {
		rec, env := doCalculate(t, h, `{"paymentMethod":"pix","items":`+validItems+`,"card":{"holderName":"x"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, env.Status)
		require.Equal(t, 225.0, env.Data.Total)
		require.Equal(t, "pix", env.Data.PaymentMethod)
	})

	t.Run("null fields are rendered", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/cart/calculate-payment", strings.NewReader(`{"paymentMethod":"pix","items":`+validItems+`}`))
		rec := httptest.NewRecorder()
		h.CalculatePayment(rec, req)
		body := rec.Body.String()
		require.Contains(t, body, `"installments":null`)
		require.Contains(t, body, `"installmentValue":null`)
		require.Contains(t, body, `"total":225`)
	})
}

func TestCalculatePaymentHandlerErrors(t *testing.T) {
	h := newHandler()
	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"malformed json", `{"paymentMethod":`, "Error calculating payment: invalid payload"},
		{"missing method", `{"items":` + validItems + `}`, "Error calculating payment: The paymentMethod field is required."},
		{"unknown method", `{"paymentMethod":"boleto","items":` + validItems + `}`, "Error calculating payment: The selected paymentMethod is invalid."},
		{"empty items", `{"paymentMethod":"pix","items":[]}`, "Error calculating payment: The items field must have at least 1 items."},
		{"missing quantity", `{"paymentMethod":"pix","items":[{"name":"a","unitPrice":"1"}]}`, "Error calculating payment: The items.0.quantity field is required."},
		{"missing second name", `{"paymentMethod":"pix","items":[{"name":"a","unitPrice":"1","quantity":1},{"unitPrice":"1","quantity":1}]}`, "Error calculating payment: The items.1.name field is required."},
		{"missing card", `{"paymentMethod":"creditCard","items":` + validItems + `}`, "Error calculating payment: The card field is required."},
		{"empty card", `{"paymentMethod":"creditCard","items":` + validItems + `,"card":{}}`, "Error calculating payment: The card.holderName field is required."},
		{"missing cvv", `{"paymentMethod":"creditCard","items":` + validItems + `,"card":{"holderName":"a","number":"4111111111111111","expiryDate":"12/25"}}`, "Error calculating payment: The card.cvv field is required."},
		{"installments below two", `{"paymentMethod":"creditCard","items":` + validItems + `,"card":` + validCard + `,"installments":1}`, "Error calculating payment: The installments field must be at least 2."},
		{"installments above twelve", `{"paymentMethod":"creditCard","items":` + validItems + `,"card":` + validCard + `,"installments":13}`, "Error calculating payment: The installments field must not be greater than 12."},
		{"negative price", `{"paymentMethod":"pix","items":[{"name":"Product 1","unitPrice":"-100","quantity":1}]}`, "Error calculating payment: Price at position 0 must be a positive number"},
		{"zero quantity", `{"paymentMethod":"pix","items":[{"name":"Product 1","unitPrice":"100,00","quantity":0}]}`, "Error calculating payment: Quantity at position 0 must be greater than or equal to 1"},
		{"invalid card number", `{"paymentMethod":"creditCard","items":` + validItems + `,"card":{"holderName":"a","number":"123","expiryDate":"12/25","cvv":"123"}}`, "Error calculating payment: Invalid card number"},
		{"invalid expiry", `{"paymentMethod":"creditCard","items":` + validItems + `,"card":{"holderName":"a","number":"4111111111111111","expiryDate":"13/25","cvv":"123"}}`, "Error calculating payment: Expiry date must be in MM/YY format"},
		{"invalid cvv", `{"paymentMethod":"creditCard","items":` + validItems + `,"card":{"holderName":"a","number":"4111111111111111","expiryDate":"12/25","cvv":"12"}}`, "Error calculating payment: CVV must have 3 or 4 digits"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doCalculate(t, h, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.False(t, env.Status)
			require.Nil(t, env.Data)
			require.Equal(t, tc.message, env.Message)
		})
	}
}

func TestCalculatePaymentHandlerIsDeterministic(t *testing.T) {
	h := newHandler()
	body := `{"paymentMethod":"creditCard","items":` + validItems + `,"card":` + validCard + `,"installments":12}`

	first := httptest.NewRecorder()
	h.CalculatePayment(first, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	second := httptest.NewRecorder()
	h.CalculatePayment(second, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, first.Code)
	require.True(t, bytes.Equal(first.Body.Bytes(), second.Body.Bytes()))
}

func TestCalculatePaymentHandlerWithoutService(t *testing.T) {
	h := &cart.Handler{}
	rec, env := doCalculate(t, h, `{}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.False(t, env.Status)
}
