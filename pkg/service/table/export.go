package table

import (
	"strconv"
	"strings"

	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

// ExportText serializes rec as "key: value" lines in wire field order.
// Display-only fields and null values are left out.
func ExportText(rec *model.TransactionRecord) string {
	type field struct {
		key   string
		value *string
	}
	str := func(s string) *string { return &s }

	fields := []field{
		{"transaction_id", str(rec.TransactionID)},
		{"username", str(rec.Username)},
		{"file_name", str(rec.FileName)},
		{"file_size", nil},
		{"ingress_server", str(rec.IngressServer)},
		{"ingress_time", rec.IngressTime},
		{"egress_server", str(rec.EgressServer)},
		{"egress_time", rec.EgressTime},
		{"status", str(rec.Status)},
		{"transit_time_seconds", nil},
		{"ingress_time_str", str(rec.IngressTimeStr)},
		{"egress_time_str", str(rec.EgressTimeStr)},
		{"transit_time", str(rec.TransitTime)},
	}
	if rec.FileSize != nil {
		fields[3].value = str(strconv.FormatInt(*rec.FileSize, 10))
	}
	if rec.TransitTimeSeconds != nil {
		fields[9].value = str(strconv.FormatFloat(*rec.TransitTimeSeconds, 'f', -1, 64))
	}

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.value == nil || strings.Contains(f.key, "_str") || f.key == "transit_time" {
			continue
		}
		lines = append(lines, f.key+": "+*f.value)
	}
	return strings.Join(lines, "\n")
}
