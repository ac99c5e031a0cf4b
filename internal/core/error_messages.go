package core

// error_messages.go maps technical errors to user-friendly messages with
// codes for support reference.
//
// # Customer Errors (CUS001-CUS099)
//
//	CUS001 - Customer not found
//	CUS002 - Invalid customer data (form validation)
//
// # Browser Errors (BRW001-BRW099)
//
//	BRW001 - Invalid page size
//	BRW002 - Unknown column
//	BRW003 - Column cannot be sorted
//	BRW004 - Column cannot be hidden
//
// # Address Lookup Errors (CEP001-CEP099)
//
//	CEP001 - Invalid CEP (not 8 digits)
//	CEP002 - CEP not found
//	CEP003 - Lookup service unavailable
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled ("context canceled")
//	REQ002 - Request timed out ("context deadline exceeded", "timeout")
//	REQ003 - Malformed request (ErrBadRequest, invalid sort direction)
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests ("rate limit")
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check application logs for the original error.
//
// Sentinel errors are matched first with errors.Is / errors.As. Remaining
// errors are matched case-insensitively against text patterns; the first
// matching pattern wins.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/crm/internal/browser"
	"github.com/JonMunkholm/crm/internal/cep"
	"github.com/JonMunkholm/crm/internal/customer"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
	Status  int    // HTTP status suggested for the error
}

var (
	msgCustomerNotFound = UserMessage{
		Message: "Customer not found",
		Action:  "Refresh the list; the customer may have been removed",
		Code:    "CUS001",
		Status:  http.StatusNotFound,
	}
	msgInvalidCustomer = UserMessage{
		Message: "Some customer fields are invalid",
		Action:  "Review the highlighted fields and submit again",
		Code:    "CUS002",
		Status:  http.StatusUnprocessableEntity,
	}
	msgInvalidPageSize = UserMessage{
		Message: "Invalid page size",
		Action:  "Choose one of the offered page sizes",
		Code:    "BRW001",
		Status:  http.StatusBadRequest,
	}
	msgUnknownColumn = UserMessage{
		Message: "Unknown column",
		Action:  "Reload the page to get the current columns",
		Code:    "BRW002",
		Status:  http.StatusBadRequest,
	}
	msgNotSortable = UserMessage{
		Message: "This column cannot be sorted",
		Action:  "Sort by another column",
		Code:    "BRW003",
		Status:  http.StatusBadRequest,
	}
	msgNotHideable = UserMessage{
		Message: "This column cannot be hidden",
		Action:  "Hide another column",
		Code:    "BRW004",
		Status:  http.StatusBadRequest,
	}
	msgInvalidCEP = UserMessage{
		Message: "Invalid CEP",
		Action:  "Type the 8 digits of the postal code",
		Code:    "CEP001",
		Status:  http.StatusBadRequest,
	}
	msgCEPNotFound = UserMessage{
		Message: "CEP not found",
		Action:  "Check the postal code or fill in the address manually",
		Code:    "CEP002",
		Status:  http.StatusNotFound,
	}
	msgBadRequest = UserMessage{
		Message: "The request could not be understood",
		Action:  "Check the submitted values and try again",
		Code:    "REQ003",
		Status:  http.StatusBadRequest,
	}
	msgCEPUnavailable = UserMessage{
		Message: "Address lookup is unavailable",
		Action:  "Fill in the address manually or try again later",
		Code:    "CEP003",
		Status:  http.StatusBadGateway,
	}
)

// ErrBadRequest marks malformed input: undecodable bodies, bad parameters.
var ErrBadRequest = errors.New("bad request")

// sentinels are matched in order with errors.Is.
var sentinels = []struct {
	err error
	msg UserMessage
}{
	{customer.ErrNotFound, msgCustomerNotFound},
	{browser.ErrUnknownColumn, msgUnknownColumn},
	{browser.ErrNotSortable, msgNotSortable},
	{browser.ErrNotHideable, msgNotHideable},
	{cep.ErrInvalidCEP, msgInvalidCEP},
	{cep.ErrNotFound, msgCEPNotFound},
	{cep.ErrUnavailable, msgCEPUnavailable},
	{ErrBadRequest, msgBadRequest},
	{browser.ErrInvalidDirection, msgBadRequest},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
		Status:  499,
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Please try again",
		Code:    "REQ002",
		Status:  http.StatusGatewayTimeout,
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catch errors that crossed a boundary as plain text.
var errorPatterns = []errorPattern{
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
			Status:  http.StatusTooManyRequests,
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
			Status:  499,
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
			Status:  http.StatusGatewayTimeout,
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
			Status:  http.StatusGatewayTimeout,
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
	Status:  http.StatusInternalServerError,
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var verrs customer.ValidationErrors
	if errors.As(err, &verrs) {
		return msgInvalidCustomer
	}
	var cfgErr *browser.ConfigurationError
	if errors.As(err, &cfgErr) {
		return msgInvalidPageSize
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
