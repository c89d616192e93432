package cart

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/paycalc/internal/obs"
	"github.com/noah-isme/paycalc/internal/pricing"
)

// ErrNotConfigured is returned when the service is used without its dependencies.
var ErrNotConfigured = errors.New("cart service not configured")

// Service bridges transport payloads to the payment calculator.
type Service struct {
	Logger zerolog.Logger
	Tracer trace.Tracer
}

func (s *Service) tracer() trace.Tracer {
	if s.Tracer != nil {
		return s.Tracer
	}
	return otel.Tracer("cart")
}

// CalculatePayment converts the request into calculator inputs and returns the breakdown.
func (s *Service) CalculatePayment(ctx context.Context, in CalculatePaymentRequest) (pricing.Result, error) {
	if s == nil {
		return pricing.Result{}, ErrNotConfigured
	}
	method, err := pricing.ParseMethod(in.PaymentMethod)
	if err != nil {
		obs.ObservePaymentCalculation(in.PaymentMethod, obs.ResultInvalid, 0)
		return pricing.Result{}, err
	}

	_, span := s.tracer().Start(ctx, "cart.calculate_payment")
	defer span.End()
	span.SetAttributes(
		attribute.String("payment.method", string(method)),
		attribute.Int("cart.items", len(in.Items)),
	)
	if in.Installments != nil {
		span.SetAttributes(attribute.Int("payment.installments", *in.Installments))
	}

	card := in.Card.toCard()
	result, err := pricing.Calculate(in.toItems(), method, card, in.Installments)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		obs.ObservePaymentCalculation(string(method), obs.ResultInvalid, 0)
		evt := s.Logger.Debug().Str("payment_method", string(method)).Str("reason", err.Error())
		if card != nil {
			evt = evt.Str("card", card.MaskedNumber())
		}
		evt.Msg("payment calculation rejected")
		return pricing.Result{}, err
	}

	obs.ObservePaymentCalculation(string(method), obs.ResultOK, result.Total.InexactFloat64())
	s.Logger.Debug().
		Str("payment_method", method.Description()).
		Str("subtotal", result.Subtotal.StringFixed(2)).
		Str("total", result.Total.StringFixed(2)).
		Msg("payment calculated")
	return result, nil
}
