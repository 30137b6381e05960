package clipboard_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/opsdash/pkg/service/clipboard"
)

func TestMemory(t *testing.T) {
	m := clipboard.NewMemory()
	gt.Equal(t, m.Text(), "")

	gt.NoError(t, m.WriteText("transaction_id: tx-1"))
	gt.Equal(t, m.Text(), "transaction_id: tx-1")

	gt.NoError(t, m.WriteText("status: COMPLETE"))
	gt.Equal(t, m.Text(), "status: COMPLETE")
}

func TestNew(t *testing.T) {
	gt.V(t, clipboard.New()).NotNil()
}
