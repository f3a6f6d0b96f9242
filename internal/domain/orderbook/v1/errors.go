package orderbookv1

import (
	"errors"
	"fmt"

	pkgerrors "github.com/BryanOwens012/order-book/pkg/errors"
)

var (
	// ErrInvalidOrder is returned for malformed orders and for mutations of terminal orders.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrInsufficientLiquidity is returned when a market order cannot be fully filled.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrOrderNotFound is returned when cancel or update references no resting order.
	ErrOrderNotFound = errors.New("order not found")
	// ErrFillFailure means the fill rule produced no executed pair. It indicates a bug.
	ErrFillFailure = errors.New("fill failure")
	// ErrUnknownTicker is returned when no order book exists for a ticker.
	ErrUnknownTicker = errors.New("unknown ticker")
)

// OrderError reports a failure together with the order it concerns.
// Kind is one of the Err* sentinels, so errors.Is works on it.
type OrderError struct {
	Kind    error
	Order   *Order
	Message string
}

// NewOrderError builds an OrderError of the given kind.
func NewOrderError(kind error, order *Order, format string, args ...any) *OrderError {
	return &OrderError{
		Kind:    kind,
		Order:   order,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *OrderError) Unwrap() error {
	return e.Kind
}

// Code maps err onto the shared error code catalogue.
func Code(err error) pkgerrors.ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidOrder):
		return pkgerrors.InvalidOrderError
	case errors.Is(err, ErrInsufficientLiquidity):
		var orderErr *OrderError
		if errors.As(err, &orderErr) && orderErr.Order != nil && orderErr.Order.Direction == Ask {
			return pkgerrors.ErrInsufficientBidVolume
		}
		return pkgerrors.ErrInsufficientAskVolume
	case errors.Is(err, ErrOrderNotFound):
		return pkgerrors.OrderNotFoundError
	case errors.Is(err, ErrFillFailure):
		return pkgerrors.FillFailureError
	case errors.Is(err, ErrUnknownTicker):
		return pkgerrors.UnknownTickerError
	default:
		return pkgerrors.GeneralInternalServerError
	}
}
