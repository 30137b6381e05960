package table

import (
	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

// Filter selects records by exact username and status. Empty fields match
// every record.
type Filter struct {
	Username string
	Status   string
}

// Active reports whether any condition is set
func (f Filter) Active() bool {
	return f.Username != "" || f.Status != ""
}

// Match reports whether rec satisfies the filter
func (f Filter) Match(rec *model.TransactionRecord) bool {
	if f.Username != "" && rec.Username != f.Username {
		return false
	}
	if f.Status != "" && rec.Status != f.Status {
		return false
	}
	return true
}

// Apply returns the matching records in their original order
func (f Filter) Apply(records []model.TransactionRecord) []model.TransactionRecord {
	matched := make([]model.TransactionRecord, 0, len(records))
	for i := range records {
		if f.Match(&records[i]) {
			matched = append(matched, records[i])
		}
	}
	return matched
}

// Table filters all and renders the result with copy actions. When records
// exist but none pass an active filter the table says so instead of
// reporting an empty list.
func (f Filter) Table(all []model.TransactionRecord) *model.TransactionTable {
	matched := f.Apply(all)
	t := Render(matched, true)
	if len(matched) == 0 && len(all) > 0 && f.Active() {
		t.Message = model.PlaceholderNoMatch
	}
	return t
}
