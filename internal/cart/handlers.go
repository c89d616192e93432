package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/paycalc/internal/common"
	"github.com/noah-isme/paycalc/internal/pricing"
)

const errorPrefix = "Error calculating payment: "

var indexPath = regexp.MustCompile(`\[(\d+)\]`)

// Handler wires the cart payment calculation to HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// NewValidator returns a validator reporting fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CalculatePayment validates the request and responds with the payment breakdown.
func (h *Handler) CalculatePayment(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.Failure(w, http.StatusInternalServerError, errorPrefix+"cart service not configured")
		return
	}
	var payload CalculatePaymentRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&payload); err != nil {
		common.Failure(w, http.StatusBadRequest, errorPrefix+"invalid payload")
		return
	}
	if err := h.validator().Struct(payload); err != nil {
		common.Failure(w, http.StatusBadRequest, errorPrefix+describeValidation(err, ""))
		return
	}
	if msg := h.cardViolation(payload); msg != "" {
		common.Failure(w, http.StatusBadRequest, errorPrefix+msg)
		return
	}
	res, err := h.Svc.CalculatePayment(r.Context(), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Success(w, http.StatusOK, NewPaymentResult(res))
}

func (h *Handler) validator() *validator.Validate {
	if h.Validate == nil {
		h.Validate = NewValidator()
	}
	return h.Validate
}

// cardViolation requires a complete card for credit card payments only.
// Pix payments ignore whatever card was sent.
func (h *Handler) cardViolation(payload CalculatePaymentRequest) string {
	if payload.PaymentMethod != string(pricing.MethodCreditCard) {
		return ""
	}
	if payload.Card == nil {
		return "The card field is required."
	}
	if err := h.validator().Struct(payload.Card); err != nil {
		return describeValidation(err, "card.")
	}
	return ""
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		common.Failure(w, status, errorPrefix+appErr.Error())
		return
	}
	if errors.Is(err, ErrNotConfigured) {
		common.Failure(w, http.StatusInternalServerError, errorPrefix+err.Error())
		return
	}
	common.Failure(w, http.StatusBadRequest, errorPrefix+err.Error())
}

// describeValidation renders the first failure with dotted field paths (items.0.name).
func describeValidation(err error, prefix string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	field = prefix + indexPath.ReplaceAllString(field, ".$1")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("The %s field must have at least %s items.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
