package model

import "time"

// ReportFormat is the file format of a downloadable report
type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatHTML ReportFormat = "html"
)

// IsValid checks if the format is supported
func (f ReportFormat) IsValid() bool {
	return f == ReportFormatCSV || f == ReportFormatHTML
}

// ReportRequest selects the transactions of a report
type ReportRequest struct {
	Start    time.Time
	End      time.Time
	Username string // empty means all users
	Format   ReportFormat
}

// ReportStats summarizes a subset of transactions
type ReportStats struct {
	TotalTransactions        int
	TotalBytes               int64
	MaxDataRate              float64
	AvgDataRate              float64
	MaxTransitTime           float64
	AvgTransitTime           float64
	P75TransitTime           float64
	P95TransitTime           float64
	P99TransitTime           float64
	StatusBreakdown          map[string]int
	MinFileSize              int64
	AvgFileSize              float64
	MaxFileSize              int64
	TransactionRatePerMinute float64

	MaxDataRateFormatted    string
	AvgDataRateFormatted    string
	MaxTransitTimeFormatted string
	AvgTransitTimeFormatted string
	P75TransitTimeFormatted string
	P95TransitTimeFormatted string
	P99TransitTimeFormatted string
	MinFileSizeFormatted    string
	AvgFileSizeFormatted    string
	MaxFileSizeFormatted    string

	StartTimeStr string
	EndTimeStr   string
}

// UserReportStats pairs a username with its stats
type UserReportStats struct {
	Username string
	Stats    ReportStats
}

// ReportData is the input of the HTML report template
type ReportData struct {
	Transactions []TransactionRecord
	Overall      ReportStats
	Users        []UserReportStats
	GeneratedAt  time.Time
}

// Report is a generated report file
type Report struct {
	Filename    string
	ContentType string
	Body        []byte
}
