package cart

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/noah-isme/paycalc/internal/common"
)

func TestServiceRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	qty := 1.0
	installments := 3
	svc := &Service{Logger: zerolog.Nop(), Tracer: provider.Tracer("test")}
	res, err := svc.CalculatePayment(context.Background(), CalculatePaymentRequest{
		PaymentMethod: "creditCard",
		Items:         []ItemRequest{{Name: "Mouse", UnitPrice: "100", Quantity: &qty}},
		Card:          &CardRequest{HolderName: "A", Number: "4111111111111111", ExpiryDate: "01/30", CVV: "123"},
		Installments:  &installments,
	})
	require.NoError(t, err)
	require.Equal(t, "103.03", res.Total.StringFixed(2))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "cart.calculate_payment", spans[0].Name())
}

func TestServiceRejectsUnknownMethod(t *testing.T) {
	svc := &Service{Logger: zerolog.Nop()}
	_, err := svc.CalculatePayment(context.Background(), CalculatePaymentRequest{PaymentMethod: "boleto"})
	require.True(t, common.IsInvalidArgument(err))
}

func TestNilServiceIsNotConfigured(t *testing.T) {
	var svc *Service
	_, err := svc.CalculatePayment(context.Background(), CalculatePaymentRequest{})
	require.ErrorIs(t, err, ErrNotConfigured)
}
