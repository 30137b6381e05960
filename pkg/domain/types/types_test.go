package types_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
)

func TestTransactionID(t *testing.T) {
	id := types.NewTransactionID()
	gt.NoError(t, id.Validate())
	gt.True(t, id != types.NewTransactionID())
	gt.Error(t, types.TransactionID("").Validate())
}

func TestStatus(t *testing.T) {
	for _, s := range types.AllStatuses() {
		gt.True(t, s.IsValid())
	}
	gt.False(t, types.Status("PENDING").IsValid())
	gt.False(t, types.Status("complete").IsValid())

	gt.Equal(t, types.StatusBadRequest.DisplayName(), "Bad Request")
	gt.Equal(t, types.StatusCDUnavailable.DisplayName(), "CD Unavailable")
	gt.Equal(t, types.Status("OTHER").DisplayName(), "OTHER")

	gt.True(t, types.StatusComplete.IsEgress())
	gt.True(t, types.StatusEPUnavailable.IsEgress())
	gt.False(t, types.StatusSubmitted.IsEgress())
	gt.False(t, types.StatusCDUnavailable.IsEgress())
}

func TestTimeWindow(t *testing.T) {
	gt.Equal(t, types.TimeWindow(15).Duration(), 15*time.Minute)
	gt.Equal(t, types.TimeWindow(15).String(), "15m")
	gt.Equal(t, types.TimeWindow(360).String(), "6h")
	gt.Equal(t, types.TimeWindow(90).String(), "90m")

	gt.NoError(t, types.DefaultTimeWindow.Validate())
	gt.Error(t, types.TimeWindow(0).Validate())
	gt.Error(t, types.TimeWindow(-1).Validate())

	gt.Equal(t, types.TimeWindow(60).Next(), types.TimeWindow(360))
	gt.Equal(t, types.TimeWindow(1440).Next(), types.TimeWindow(5))
	gt.Equal(t, types.TimeWindow(7).Next(), types.TimeWindow(5))
}
