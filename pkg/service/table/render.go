package table

import (
	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

const unknownStatus = "UNKNOWN"

// Render builds the transactions table for records. When includeActions is
// set every row carries the text copied by its copy action.
func Render(records []model.TransactionRecord, includeActions bool) *model.TransactionTable {
	t := &model.TransactionTable{
		Columns:        model.TransactionColumns,
		IncludeActions: includeActions,
	}

	if len(records) == 0 {
		t.Panel = model.Panel{State: model.PanelNoData, Message: model.PlaceholderNoTransactions}
		return t
	}

	t.Panel = model.Panel{State: model.PanelOK}
	t.Rows = make([]model.TransactionRow, 0, len(records))
	for i := range records {
		t.Rows = append(t.Rows, renderRow(&records[i], includeActions))
	}
	return t
}

func renderRow(rec *model.TransactionRecord, includeActions bool) model.TransactionRow {
	status := rec.Status
	if status == "" {
		status = unknownStatus
	}

	row := model.TransactionRow{
		ID:          rec.TransactionID,
		Username:    orNA(rec.Username),
		FileName:    orNA(rec.FileName),
		Size:        FormatFileSize(rec.FileSize),
		IngressTime: FormatTimeOnly(rec.IngressTimeStr),
		EgressTime:  FormatTimeOnly(rec.EgressTimeStr),
		Transit:     orNA(rec.TransitTime),
		Status:      status,
		StatusClass: StatusClass(rec.Status),
	}
	if includeActions {
		row.CopyText = ExportText(rec)
	}
	return row
}
