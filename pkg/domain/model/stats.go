package model

// IngressStats aggregates transactions seen by the ingress server
type IngressStats struct {
	BadRequest        int     `json:"BAD_REQUEST"`
	CDUnavailable     int     `json:"CD_UNAVAILABLE"`
	Submitted         int     `json:"SUBMITTED"`
	TotalTx           int     `json:"total_tx"`
	TxPerSec          float64 `json:"tx_per_sec"`
	BadRequestRate    float64 `json:"bad_request_rate"`
	CDUnavailableRate float64 `json:"cd_unavailable_rate"`
}

// EgressStats aggregates transactions that reached the egress server.
// Latency fields are preformatted strings, "-" when no sample exists.
type EgressStats struct {
	Complete                 int      `json:"COMPLETE"`
	EPUnavailable            int      `json:"EP_UNAVAILABLE"`
	TotalTx                  int      `json:"total_tx"`
	TotalBytes               int64    `json:"total_bytes"`
	TotalDurationSeconds     float64  `json:"total_duration_seconds"`
	DataRateMbps             float64  `json:"data_rate_mbps"`
	TxPerSec                 float64  `json:"tx_per_sec"`
	PeakTxPerSec             *float64 `json:"peak_tx_per_sec,omitempty"`
	AvgTransitTime           string   `json:"avg_transit_time"`
	MaxTransitTime           string   `json:"max_transit_time"`
	P95TransitTime           string   `json:"p95_transit_time"`
	P99TransitTime           string   `json:"p99_transit_time"`
	EPUnavailableRate        float64  `json:"ep_unavailable_rate"`
	TotalVolumeCompleteBytes int64    `json:"total_volume_complete_bytes"`
	TotalVolumeCompleteStr   string   `json:"total_volume_complete_str"`
}

// GeneralStats holds figures that span ingress and egress
type GeneralStats struct {
	ActiveUsers int     `json:"active_users"`
	SuccessRate float64 `json:"success_rate"`
}

// DashboardStats is the "stats" object of the dashboard API
type DashboardStats struct {
	Ingress IngressStats `json:"ingress"`
	Egress  EgressStats  `json:"egress"`
	General GeneralStats `json:"general"`
}

// DashboardResponse is returned by GET /api/dashboard-stats
type DashboardResponse struct {
	Stats                *DashboardStats     `json:"stats"`
	TimeWindow           int                 `json:"time_window"`
	TransactionsInWindow []TransactionRecord `json:"transactions_in_window"`
	Timestamp            string              `json:"timestamp"`
}

// FeedResponse is returned by GET /api/transactions-feed
type FeedResponse struct {
	Transactions []TransactionRecord `json:"transactions"`
	NumItems     int                 `json:"num_items"`
	Timestamp    string              `json:"timestamp"`
}

// UsernamesResponse is returned by GET /api/usernames
type UsernamesResponse struct {
	Usernames []string `json:"usernames"`
}

// DBStatus is returned by GET /api/db-status
type DBStatus struct {
	Backend      string `json:"backend"`
	Host         string `json:"host"`
	TotalRecords int    `json:"total_records"`
	Newest       string `json:"newest,omitempty"`
}

// DBTableStats is returned by GET /api/db-table-stats. TableStats maps each
// table or collection to its record count. DBSize is NotAvailable when the
// backend cannot report it.
type DBTableStats struct {
	TableStats   map[string]int `json:"table_stats"`
	TotalRecords int            `json:"total_records"`
	DBSize       string         `json:"db_size"`
}

// ClearResult is returned by POST /admin/clear-db
type ClearResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	MessageType string `json:"message_type"`
}
