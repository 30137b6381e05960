package model

import (
	"time"

	"github.com/secmon-lab/opsdash/pkg/domain/types"
)

// Fixed placeholder texts shown in place of a panel's content
const (
	PlaceholderNoTransactions = "No transactions to display."
	PlaceholderNoMatch        = "No transactions match the selected filters."
	PlaceholderNoChartData    = "No transaction data available"
	PlaceholderLoading        = "Loading..."

	ErrorLoadingStatistics       = "Error loading statistics"
	ErrorLoadingTransactions     = "Error loading transactions"
	ErrorLoadingStatisticsData   = "Error loading statistics data."
	ErrorLoadingTransactionsData = "Error loading transactions data."
	ErrorLoadingFeed             = "Error loading transactions."
)

// PanelState is the display state of a dashboard panel
type PanelState string

const (
	PanelOK      PanelState = "ok"
	PanelLoading PanelState = "loading"
	PanelNoData  PanelState = "no-data"
	PanelError   PanelState = "error"
)

// Panel carries a state and the placeholder text shown for non-ok states
type Panel struct {
	State   PanelState
	Message string
}

// TransactionColumns are the table headers without the actions column
var TransactionColumns = []string{"Username", "File", "Size", "Ingress", "Egress", "Transit", "Status"}

// TransactionRow is one record prepared for display
type TransactionRow struct {
	ID          string
	Username    string
	FileName    string
	Size        string
	IngressTime string
	EgressTime  string
	Transit     string
	Status      string
	StatusClass string
	CopyText    string
}

// TransactionTable is the rendered transactions table
type TransactionTable struct {
	Panel
	Columns        []string
	Rows           []TransactionRow
	IncludeActions bool
}

// StatCards holds the four headline values of the dashboard
type StatCards struct {
	TotalVolume string
	TxPerSec    string
	AvgLatency  string
	ActiveUsers string
}

// StatItem is a labelled value inside a detail panel
type StatItem struct {
	Label string
	Value string
}

// DetailPanel is a titled group of stat items
type DetailPanel struct {
	Title string
	Items []StatItem
}

// DashboardView is everything a binding needs to draw the dashboard
type DashboardView struct {
	TimeWindow  types.TimeWindow
	Cards       StatCards
	Stats       Panel
	Panels      []DetailPanel
	Chart       *DonutChart
	Table       *TransactionTable
	RefreshedAt time.Time
}

// FeedView is everything a binding needs to draw the live feed
type FeedView struct {
	Table          *TransactionTable
	NumItems       int
	Usernames      []string
	UsernameFilter string
	StatusFilter   string
	Total          int
	RefreshedAt    time.Time
}
