package generate_excel

import (
	"broker-app/internal/storage"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type MockGenerateExcelStorage struct {
	mock.Mock
}

func (m *MockGenerateExcelStorage) GetQuotationCharges(ctx context.Context, filter storage.ReportFilter) ([]storage.QuotationChargesRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.QuotationChargesRow), args.Error(1)
}

func raw(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheetName, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestGenerateExcel(t *testing.T) {
	st := new(MockGenerateExcelStorage)
	st.On("GetQuotationCharges", mock.Anything, mock.Anything).Return([]storage.QuotationChargesRow{
		{
			Name:             "PUR-SQTN-2026-00001",
			Supplier:         "SUP-001",
			TransactionDate:  time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			Freight:          storage.FreightExclusive,
			TotalQty:         5,
			FreightPerUnit:   2,
			TotalFreightCost: 10,
			LabourPerUnit:    3,
			LabourTotalCost:  15,
			LoadingCharges:   100,
			GrandTotal:       425,
		},
		{
			Name:             "PUR-SQTN-2026-00002",
			Supplier:         "SUP-002",
			TransactionDate:  time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC),
			Freight:          storage.FreightInclusive,
			TotalQty:         3,
			TotalFreightCost: 0,
			GrandTotal:       90,
		},
	}, nil)

	data, err := NewGenerateService(st).GenerateExcel(context.Background(), storage.ReportFilter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	assert.Equal(t, "Supplier Quotation", raw(t, f, "A1"))
	assert.Equal(t, "Grand Total", raw(t, f, "K1"))

	assert.Equal(t, "PUR-SQTN-2026-00001", raw(t, f, "A2"))
	assert.Equal(t, "2026-01-05", raw(t, f, "C2"))
	assert.Equal(t, "Exclusive", raw(t, f, "D2"))
	assert.Equal(t, "10", raw(t, f, "G2"))

	// итоги
	assert.Equal(t, "Total", raw(t, f, "A4"))
	assert.Equal(t, "8", raw(t, f, "E4"))
	assert.Equal(t, "10", raw(t, f, "G4"))
	assert.Equal(t, "15", raw(t, f, "I4"))
	assert.Equal(t, "515", raw(t, f, "K4"))
}

func TestGenerateExcel_Empty(t *testing.T) {
	st := new(MockGenerateExcelStorage)
	st.On("GetQuotationCharges", mock.Anything, mock.Anything).Return([]storage.QuotationChargesRow{}, nil)

	data, err := NewGenerateService(st).GenerateExcel(context.Background(), storage.ReportFilter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Total", raw(t, f, "A2"))
	assert.Equal(t, "0", raw(t, f, "K2"))
}

func TestGenerateExcel_StorageError(t *testing.T) {
	st := new(MockGenerateExcelStorage)
	st.On("GetQuotationCharges", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err := NewGenerateService(st).GenerateExcel(context.Background(), storage.ReportFilter{})
	assert.ErrorContains(t, err, "fetch data")
}
