package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/domain/model"
)

func TestRenderPDF(t *testing.T) {
	report := model.SalesReport{
		GeneratedAt: time.Date(2025, time.November, 20, 12, 0, 0, 0, time.UTC),
		Records: []model.SalesRecord{
			{SerialNo: 1, CustomerName: "Mary Smith", ItemNo: "SZ-VELOCITY-1", AmountCents: 13999, Country: model.US},
			{SerialNo: 2, CustomerName: "John Brown", ItemNo: "SZ-APEX-2", AmountCents: 15050, Country: model.DE},
		},
	}

	pdf, err := RenderPDF(report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Greater(t, len(pdf), 500)
}
