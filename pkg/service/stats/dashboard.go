package stats

import (
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
)

// Dashboard aggregates the transactions of a time window of windowMinutes
func Dashboard(txs []*model.Transaction, windowMinutes int) model.DashboardStats {
	var s model.DashboardStats
	s.Egress.AvgTransitTime = NoValue
	s.Egress.MaxTransitTime = NoValue
	s.Egress.P95TransitTime = NoValue
	s.Egress.P99TransitTime = NoValue
	s.Egress.TotalVolumeCompleteStr = FormatBytesSI(0)

	if len(txs) == 0 {
		return s
	}

	var (
		transit    []float64
		rateBytes  int64
		users      = make(map[string]struct{})
		perSecond  = make(map[int64]int)
		peakBucket int
	)

	for _, t := range txs {
		s.Ingress.TotalTx++
		if t.Username != "" {
			users[t.Username] = struct{}{}
		}

		switch t.Status {
		case types.StatusBadRequest:
			s.Ingress.BadRequest++
		case types.StatusCDUnavailable:
			s.Ingress.CDUnavailable++
		case types.StatusSubmitted:
			s.Ingress.Submitted++
		}

		if !t.Status.IsEgress() {
			continue
		}

		s.Egress.TotalTx++
		if t.Status == types.StatusComplete {
			s.Egress.Complete++
			s.Egress.TotalVolumeCompleteBytes += t.FileSize
		} else {
			s.Egress.EPUnavailable++
		}

		if t.EgressTime != nil {
			sec := t.EgressTime.Unix()
			perSecond[sec]++
			if perSecond[sec] > peakBucket {
				peakBucket = perSecond[sec]
			}
		}

		if t.FileSize == 0 {
			continue
		}
		duration, ok := t.TransitSeconds()
		if !ok {
			continue
		}
		s.Egress.TotalBytes += t.FileSize
		if duration > 0 {
			transit = append(transit, duration)
			rateBytes += t.FileSize
			s.Egress.TotalDurationSeconds += duration
		}
	}

	if len(transit) > 0 {
		sum, longest := 0.0, transit[0]
		for _, d := range transit {
			sum += d
			if d > longest {
				longest = d
			}
		}
		s.Egress.AvgTransitTime = FormatDuration(sum / float64(len(transit)))
		s.Egress.MaxTransitTime = FormatDuration(longest)
		s.Egress.P95TransitTime = FormatDuration(Percentile(transit, 95))
		s.Egress.P99TransitTime = FormatDuration(Percentile(transit, 99))
	}

	if total := s.Egress.TotalDurationSeconds; total > 0 && len(transit) > 0 {
		s.Egress.DataRateMbps = round1(float64(rateBytes) * 8 / (1024 * 1024) / total)
		s.Egress.TxPerSec = round1(float64(len(transit)) / total)
	}

	if peakBucket > 0 {
		peak := float64(peakBucket)
		s.Egress.PeakTxPerSec = &peak
	}

	if windowMinutes > 0 {
		s.Ingress.TxPerSec = round1(float64(s.Ingress.TotalTx) / float64(windowMinutes*60))
	}

	if n := s.Ingress.TotalTx; n > 0 {
		s.Ingress.BadRequestRate = round1(float64(s.Ingress.BadRequest) / float64(n) * 100)
		s.Ingress.CDUnavailableRate = round1(float64(s.Ingress.CDUnavailable) / float64(n) * 100)
	}

	if n := s.Egress.Complete + s.Egress.EPUnavailable; n > 0 {
		s.Egress.EPUnavailableRate = round1(float64(s.Egress.EPUnavailable) / float64(n) * 100)
	}

	s.General.ActiveUsers = len(users)

	failed := s.Ingress.BadRequest + s.Ingress.CDUnavailable + s.Egress.EPUnavailable
	if attempts := s.Egress.Complete + failed; attempts > 0 {
		s.General.SuccessRate = round1(float64(s.Egress.Complete) / float64(attempts) * 100)
	}

	s.Egress.TotalVolumeCompleteStr = FormatBytesSI(float64(s.Egress.TotalVolumeCompleteBytes))
	return s
}

// StatusCounts returns the chart input for s in display order
func StatusCounts(s *model.DashboardStats) []model.CategoryCount {
	if s == nil {
		return nil
	}
	return []model.CategoryCount{
		{Name: types.StatusSubmitted.DisplayName(), Count: s.Ingress.Submitted},
		{Name: types.StatusComplete.DisplayName(), Count: s.Egress.Complete},
		{Name: types.StatusBadRequest.DisplayName(), Count: s.Ingress.BadRequest},
		{Name: types.StatusCDUnavailable.DisplayName(), Count: s.Ingress.CDUnavailable},
		{Name: types.StatusEPUnavailable.DisplayName(), Count: s.Egress.EPUnavailable},
	}
}
