package errors

import (
	"bytes"
	"reflect"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// InvalidOrderError is raised for structurally invalid orders or mutations of terminal orders.
	InvalidOrderError ErrorCode = "invalid_order"
	// ErrInsufficientAskVolume is raised when a bid market order runs out of asks.
	ErrInsufficientAskVolume ErrorCode = "insufficient_ask_volume"
	// ErrInsufficientBidVolume is raised when an ask market order runs out of bids.
	ErrInsufficientBidVolume ErrorCode = "insufficient_bid_volume"
	// OrderNotFoundError is raised when cancel/update references no resting order.
	OrderNotFoundError ErrorCode = "order_not_found"
	// FillFailureError signals a broken invariant in the fill rule.
	FillFailureError ErrorCode = "fill_failure"
	// UnknownTickerError is raised when no order book exists for a ticker.
	UnknownTickerError ErrorCode = "unknown_ticker"

	// ConfigError represents an invalid configuration value.
	ConfigError ErrorCode = "config_error"
	// KafkaConfigError represents an invalid kafka configuration.
	KafkaConfigError ErrorCode = "kafka_config_error"
	// KafkaPublishError represents a failure writing to a kafka topic.
	KafkaPublishError ErrorCode = "kafka_publish_error"
)

// BaseError is an `error` type containing an array of ErrorDetails.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// HasDetails reports whether any ErrorDetails were collected.
func (b *BaseError) HasDetails() bool {
	return len(b.details) > 0
}

// Error implement error interface
func (b *BaseError) Error() string {
	buff := bytes.NewBufferString("")

	buff.WriteString("Error on\n")
	for _, err := range b.details {
		buff.WriteString("code: ")
		buff.WriteString(err.Code)
		buff.WriteString("; error: ")
		buff.WriteString(err.Error())
		buff.WriteString("; field: ")
		buff.WriteString(err.Field)
		buff.WriteString("; object: ")
		if err.Object != nil {
			buff.WriteString(reflect.TypeOf(err.Object).String())
		}
		buff.WriteString("\n")
	}

	return strings.TrimSpace(buff.String())
}

// IsAnyCodeEqual check if any ErrorDetails code is equal with given code
func (b *BaseError) IsAnyCodeEqual(code string) bool {
	for _, d := range b.GetDetails() {
		if d.Code == code {
			return true
		}
	}
	return false
}
