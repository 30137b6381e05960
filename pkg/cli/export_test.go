package cli

var BuildReportRequest = buildReportRequest
