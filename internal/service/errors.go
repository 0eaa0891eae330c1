package service

import (
	"github.com/dukerupert/brokkr/internal/domain"
)

// Lookup errors - use domain.ENOTFOUND
var (
	ErrServiceNotFound = domain.Errorf(domain.ENOTFOUND, "", "Service not found")
	ErrInvoiceNotFound = domain.Errorf(domain.ENOTFOUND, "", "Invoice not found")
)

// Validation errors - use domain.EINVALID
var (
	ErrInvalidQuantity    = domain.Errorf(domain.EINVALID, "", "Quantity must be greater than 0")
	ErrMissingDescription = domain.Errorf(domain.EINVALID, "", "Line description is required")
	ErrInvalidLineKind    = domain.Errorf(domain.EINVALID, "", "Unknown invoice line kind")
	ErrServiceLineKind    = domain.Errorf(domain.EINVALID, "", "Service lines are created with the invoice, not appended")
	ErrMissingContext     = domain.Errorf(domain.EINVALID, "", "Either pricing factors or a timestamp is required")
)

// Invoice lifecycle errors
var (
	ErrInvoiceLocked          = domain.ErrInvoiceLocked
	ErrInvoiceExists          = domain.ErrInvoiceExists
	ErrConcurrentModification = domain.ErrConcurrentModification
)
