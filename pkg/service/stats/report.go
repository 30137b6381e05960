package stats

import (
	"sort"

	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

const unknownStatus = "UNKNOWN"

// Report summarizes txs for a report. durationMinutes is the length of the
// report range; zero leaves the per-minute rate at zero.
func Report(txs []*model.Transaction, durationMinutes float64) model.ReportStats {
	if len(txs) == 0 {
		return model.ReportStats{
			StatusBreakdown:         map[string]int{},
			MaxDataRateFormatted:    "0 Bps",
			AvgDataRateFormatted:    "0 Bps",
			MaxTransitTimeFormatted: "0 ms",
			AvgTransitTimeFormatted: "0 ms",
			P75TransitTimeFormatted: "0 ms",
			P95TransitTimeFormatted: "0 ms",
			P99TransitTimeFormatted: "0 ms",
			MinFileSizeFormatted:    "0 Bytes",
			AvgFileSizeFormatted:    "0 Bytes",
			MaxFileSizeFormatted:    "0 Bytes",
		}
	}

	r := model.ReportStats{
		TotalTransactions: len(txs),
		StatusBreakdown:   make(map[string]int),
	}

	var rates, transit []float64
	var sizeSum int64
	sizeCount := 0

	for _, t := range txs {
		r.TotalBytes += t.FileSize
		if t.FileSize > 0 {
			if sizeCount == 0 || t.FileSize < r.MinFileSize {
				r.MinFileSize = t.FileSize
			}
			if t.FileSize > r.MaxFileSize {
				r.MaxFileSize = t.FileSize
			}
			sizeSum += t.FileSize
			sizeCount++
		}

		status := t.Status.String()
		if status == "" {
			status = unknownStatus
		}
		r.StatusBreakdown[status]++

		if d, ok := t.TransitSeconds(); ok && d > 0 && t.FileSize > 0 {
			rates = append(rates, float64(t.FileSize*8)/d)
			transit = append(transit, d)
		}
	}

	if sizeCount > 0 {
		r.AvgFileSize = float64(sizeSum) / float64(sizeCount)
	}

	r.MaxDataRate, r.AvgDataRate = maxMean(rates)
	r.MaxTransitTime, r.AvgTransitTime = maxMean(transit)
	r.P75TransitTime = Percentile(transit, 75)
	r.P95TransitTime = Percentile(transit, 95)
	r.P99TransitTime = Percentile(transit, 99)

	if durationMinutes > 0 {
		r.TransactionRatePerMinute = round1(float64(len(txs)) / durationMinutes)
	}

	r.MaxDataRateFormatted = FormatDataRate(r.MaxDataRate)
	r.AvgDataRateFormatted = FormatDataRate(r.AvgDataRate)
	r.MaxTransitTimeFormatted = FormatDuration(r.MaxTransitTime)
	r.AvgTransitTimeFormatted = FormatDuration(r.AvgTransitTime)
	r.P75TransitTimeFormatted = FormatDuration(r.P75TransitTime)
	r.P95TransitTimeFormatted = FormatDuration(r.P95TransitTime)
	r.P99TransitTimeFormatted = FormatDuration(r.P99TransitTime)
	r.MinFileSizeFormatted = FormatBytesSI(float64(r.MinFileSize))
	r.AvgFileSizeFormatted = FormatBytesSI(r.AvgFileSize)
	r.MaxFileSizeFormatted = FormatBytesSI(float64(r.MaxFileSize))

	return r
}

// UserReports returns per-user stats ordered by username
func UserReports(txs []*model.Transaction) []model.UserReportStats {
	byUser := make(map[string][]*model.Transaction)
	for _, t := range txs {
		byUser[t.Username] = append(byUser[t.Username], t)
	}

	names := make([]string, 0, len(byUser))
	for name := range byUser {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]model.UserReportStats, 0, len(names))
	for _, name := range names {
		result = append(result, model.UserReportStats{
			Username: name,
			Stats:    Report(byUser[name], 0),
		})
	}
	return result
}

func maxMean(values []float64) (hi, mean float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	hi = values[0]
	for _, v := range values {
		sum += v
		if v > hi {
			hi = v
		}
	}
	return hi, sum / float64(len(values))
}
