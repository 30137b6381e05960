package table

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// FormatFileSize renders a byte count with 1024-based units and one decimal.
// A nil size renders as "N/A".
func FormatFileSize(size *int64) string {
	if size == nil {
		return model.NotAvailable
	}

	b := *size
	switch {
	case b < kib:
		return fmt.Sprintf("%d B", b)
	case b < mib:
		return fmt.Sprintf("%.1f KB", float64(b)/kib)
	case b < gib:
		return fmt.Sprintf("%.1f MB", float64(b)/mib)
	default:
		return fmt.Sprintf("%.1f GB", float64(b)/gib)
	}
}

// FormatTimeOnly returns the time part of a "date time" string. Strings
// without a space are returned unchanged.
func FormatTimeOnly(ts string) string {
	if ts == "" {
		return model.NotAvailable
	}
	parts := strings.Split(ts, " ")
	if len(parts) > 1 {
		return parts[1]
	}
	return ts
}

var statusClassReplacer = strings.NewReplacer(" ", "-", "_", "-")

// StatusClass returns the badge class for a status. Every space or underscore
// becomes one hyphen, so runs are kept.
func StatusClass(status string) string {
	if status == "" {
		return "unknown"
	}
	return statusClassReplacer.Replace(strings.ToLower(status))
}

func orNA(s string) string {
	if s == "" {
		return model.NotAvailable
	}
	return s
}
