package model

import (
	"fmt"
	"time"

	"github.com/secmon-lab/opsdash/pkg/domain/types"
)

const (
	// NotAvailable is shown wherever a value is absent
	NotAvailable = "N/A"

	displayTimeLayout = "2006-01-02 15:04:05.000"
	wireTimeLayout    = "2006-01-02T15:04:05.000Z07:00"
)

// Transaction is a file transfer observed by the ingress and egress servers
type Transaction struct {
	ID            types.TransactionID `firestore:"id"`
	Username      string              `firestore:"username"`
	FileName      string              `firestore:"file_name"`
	FileSize      int64               `firestore:"file_size"`
	IngressServer string              `firestore:"ingress_server"`
	IngressTime   time.Time           `firestore:"ingress_time"`
	EgressServer  string              `firestore:"egress_server"`
	EgressTime    *time.Time          `firestore:"egress_time"`
	Status        types.Status        `firestore:"status"`
}

// TransitSeconds returns the elapsed seconds between ingress and egress.
// ok is false when the transaction has not reached the egress server.
func (t *Transaction) TransitSeconds() (seconds float64, ok bool) {
	if t.EgressTime == nil || t.IngressTime.IsZero() {
		return 0, false
	}
	return t.EgressTime.Sub(t.IngressTime).Seconds(), true
}

// ToRecord converts the transaction into its JSON wire form
func (t *Transaction) ToRecord() TransactionRecord {
	size := t.FileSize
	rec := TransactionRecord{
		TransactionID:  t.ID.String(),
		Username:       t.Username,
		FileName:       t.FileName,
		FileSize:       &size,
		IngressServer:  t.IngressServer,
		EgressServer:   t.EgressServer,
		Status:         t.Status.String(),
		IngressTimeStr: NotAvailable,
		EgressTimeStr:  NotAvailable,
		TransitTime:    NotAvailable,
	}

	if !t.IngressTime.IsZero() {
		ingress := t.IngressTime.Format(wireTimeLayout)
		rec.IngressTime = &ingress
		rec.IngressTimeStr = t.IngressTime.Format(displayTimeLayout)
	}
	if t.EgressTime != nil {
		egress := t.EgressTime.Format(wireTimeLayout)
		rec.EgressTime = &egress
		rec.EgressTimeStr = t.EgressTime.Format(displayTimeLayout)
	}
	if transit, ok := t.TransitSeconds(); ok {
		rec.TransitTimeSeconds = &transit
		rec.TransitTime = fmt.Sprintf("%.3fs", transit)
	}

	return rec
}

// TransactionRecord is the transaction as served by the dashboard API.
// Field order matches the order of keys in the JSON documents.
type TransactionRecord struct {
	TransactionID      string   `json:"transaction_id"`
	Username           string   `json:"username"`
	FileName           string   `json:"file_name"`
	FileSize           *int64   `json:"file_size"`
	IngressServer      string   `json:"ingress_server"`
	IngressTime        *string  `json:"ingress_time"`
	EgressServer       string   `json:"egress_server"`
	EgressTime         *string  `json:"egress_time"`
	Status             string   `json:"status"`
	TransitTimeSeconds *float64 `json:"transit_time_seconds"`
	IngressTimeStr     string   `json:"ingress_time_str"`
	EgressTimeStr      string   `json:"egress_time_str"`
	TransitTime        string   `json:"transit_time"`
}

// TransactionQuery selects transactions from a repository.
// Zero values disable the corresponding condition.
type TransactionQuery struct {
	Since    time.Time
	Until    time.Time
	Username string
	Limit    int
}

// Match reports whether t satisfies the time and username conditions
func (q TransactionQuery) Match(t *Transaction) bool {
	if !q.Since.IsZero() && t.IngressTime.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && t.IngressTime.After(q.Until) {
		return false
	}
	if q.Username != "" && t.Username != q.Username {
		return false
	}
	return true
}
