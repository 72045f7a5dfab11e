package services

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// AppError is a business error carrying the HTTP status and code the API answers with.
type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func newError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// Errors shared by several services.
var (
	ErrUserNotFound     = newError(http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	ErrCustomerNotFound = newError(http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found")
	ErrOrderNotFound    = newError(http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
	ErrInvoiceNotFound  = newError(http.StatusNotFound, "INVOICE_NOT_FOUND", "Invoice not found")
	ErrProviderNotFound = newError(http.StatusBadRequest, "PROVIDER_NOT_FOUND", "Provider not found")
	ErrAddressRequired  = newError(http.StatusUnprocessableEntity, "ADDRESS_REQUIRED", "The user has no delivery address for this order")
	ErrInvalidStatus    = newError(http.StatusBadRequest, "INVALID_STATUS", "Unknown order status")
	ErrInvalidLocation  = newError(http.StatusBadRequest, "INVALID_LOCATION", "Unknown warehouse location")
	ErrGuideExists      = newError(http.StatusConflict, "GUIDE_EXISTS", "An order with this guide already exists")
	ErrUsernameExists   = newError(http.StatusConflict, "USERNAME_EXISTS", "This username is already taken")
	ErrInvalidLogin     = newError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
	ErrInvoiceExists    = newError(http.StatusConflict, "INVOICE_EXISTS", "This order already has an invoice")
	ErrInvalidWeight    = newError(http.StatusBadRequest, "INVALID_WEIGHT", "Weight must be a positive number within range")
	ErrInvalidTotal     = newError(http.StatusBadRequest, "INVALID_TOTAL", "Total must be a non-negative number within range")
	ErrNothingToUpdate  = newError(http.StatusBadRequest, "NO_ORDERS_SELECTED", "No orders selected for the bulk update")
)

// isUniqueViolation relies on gorm.Config.TranslateError mapping driver errors.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// AsAppError unwraps err into an *AppError when it is one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
