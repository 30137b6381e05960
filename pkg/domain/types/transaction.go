package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TransactionID represents a transfer transaction identifier
type TransactionID string

// String returns the string representation
func (id TransactionID) String() string {
	return string(id)
}

// NewTransactionID creates a new TransactionID
func NewTransactionID() TransactionID {
	return TransactionID(uuid.New().String())
}

// Validate checks if the transaction ID is valid (non-empty)
func (id TransactionID) Validate() error {
	if id == "" {
		return goerr.New("transaction ID cannot be empty")
	}
	return nil
}

// Status represents the pipeline status of a transaction
type Status string

const (
	StatusSubmitted     Status = "SUBMITTED"
	StatusComplete      Status = "COMPLETE"
	StatusBadRequest    Status = "BAD_REQUEST"
	StatusCDUnavailable Status = "CD_UNAVAILABLE"
	StatusEPUnavailable Status = "EP_UNAVAILABLE"
)

// AllStatuses returns every known status in display order
func AllStatuses() []Status {
	return []Status{
		StatusSubmitted,
		StatusComplete,
		StatusBadRequest,
		StatusCDUnavailable,
		StatusEPUnavailable,
	}
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusComplete, StatusBadRequest, StatusCDUnavailable, StatusEPUnavailable:
		return true
	default:
		return false
	}
}

// DisplayName returns the human readable name used by charts and filters
func (s Status) DisplayName() string {
	switch s {
	case StatusSubmitted:
		return "Submitted"
	case StatusComplete:
		return "Complete"
	case StatusBadRequest:
		return "Bad Request"
	case StatusCDUnavailable:
		return "CD Unavailable"
	case StatusEPUnavailable:
		return "EP Unavailable"
	default:
		return string(s)
	}
}

// IsEgress reports whether the status is recorded at the egress server
func (s Status) IsEgress() bool {
	return s == StatusComplete || s == StatusEPUnavailable
}
