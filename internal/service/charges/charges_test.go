package charges

import (
	"broker-app/internal/storage"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		in          Inputs
		wantFreight float64
		wantLabour  float64
	}{
		{"basic", Inputs{TotalQty: 5, FreightPerUnit: 2, LabourPerUnit: 3}, 10, 15},
		{"no items", Inputs{TotalQty: 0, FreightPerUnit: 7.5, LabourPerUnit: 4}, 0, 0},
		{"no rates", Inputs{TotalQty: 10}, 0, 0},
		{"fractional", Inputs{TotalQty: 2.5, FreightPerUnit: 1.2, LabourPerUnit: 0.4}, 2.5 * 1.2, 2.5 * 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Calculate(tt.in)
			assert.Equal(t, tt.wantFreight, out.TotalFreightCost)
			assert.Equal(t, tt.wantLabour, out.LabourTotalCost)
		})
	}
}

func TestCalculate_ProductForNonNegativeInputs(t *testing.T) {
	values := []float64{0, 0.5, 1, 3, 12.75, 1000}

	for _, q := range values {
		for _, f := range values {
			for _, l := range values {
				out := Calculate(Inputs{TotalQty: q, FreightPerUnit: f, LabourPerUnit: l})
				require.Equal(t, f*q, out.TotalFreightCost, "q=%v f=%v", q, f)
				require.Equal(t, l*q, out.LabourTotalCost, "q=%v l=%v", q, l)
			}
		}
	}
}

func TestNumOrZero(t *testing.T) {
	assert.Equal(t, 0.0, NumOrZero(nil))
	assert.Equal(t, 0.0, NumOrZero(ptr(math.NaN())))
	assert.Equal(t, 4.2, NumOrZero(ptr(4.2)))
	assert.Equal(t, -1.0, NumOrZero(ptr(-1)))
}

func TestInputsOf_NaNQtyIsZero(t *testing.T) {
	in := InputsOf(&storage.SupplierQuotation{TotalQty: math.NaN(), FreightPerUnit: ptr(3)})

	assert.Equal(t, 0.0, in.TotalQty)
	assert.Equal(t, 3.0, in.FreightPerUnit)
	assert.Equal(t, 0.0, in.LabourPerUnit)
}

func TestApply_MissingRatesAreZero(t *testing.T) {
	doc := &storage.SupplierQuotation{TotalQty: 10}

	out := Apply(doc)

	assert.Equal(t, 0.0, out.TotalFreightCost)
	assert.Equal(t, 0.0, doc.TotalFreightCost)
	assert.Equal(t, 0.0, doc.LabourTotalCost)
}

func TestApply_WritesOutputs(t *testing.T) {
	doc := &storage.SupplierQuotation{
		TotalQty:       5,
		FreightPerUnit: ptr(2),
		LabourPerUnit:  ptr(3),
	}

	Apply(doc)

	assert.Equal(t, 10.0, doc.TotalFreightCost)
	assert.Equal(t, 15.0, doc.LabourTotalCost)
}

func TestApply_Idempotent(t *testing.T) {
	doc := &storage.SupplierQuotation{
		TotalQty:       7,
		FreightPerUnit: ptr(1.1),
		LabourPerUnit:  ptr(0.3),
	}

	first := Apply(doc)
	second := Apply(doc)

	assert.Equal(t, first, second)
	assert.Equal(t, first.TotalFreightCost, doc.TotalFreightCost)
	assert.Equal(t, first.LabourTotalCost, doc.LabourTotalCost)
}

func TestCalculateTotals(t *testing.T) {
	doc := &storage.SupplierQuotation{
		LoadingCharges: 50,
		Items: []storage.SupplierQuotationItem{
			{ItemCode: "CEMENT", Qty: 3, Rate: 10.005},
			{ItemCode: "SAND", Qty: 2, Rate: 4.5},
		},
	}

	CalculateTotals(doc)

	assert.Equal(t, 5.0, doc.TotalQty)
	assert.Equal(t, 30.02, doc.Items[0].Amount)
	assert.Equal(t, 9.0, doc.Items[1].Amount)
	assert.Equal(t, 39.02, doc.Total)
	assert.Equal(t, 89.02, doc.GrandTotal)
	assert.Equal(t, 1, doc.Items[0].Idx)
	assert.Equal(t, 2, doc.Items[1].Idx)
}

func TestApplyGrandTotal_IncludesCharges(t *testing.T) {
	doc := &storage.SupplierQuotation{
		Total:            100,
		TotalFreightCost: 10,
		LabourTotalCost:  15,
		LoadingCharges:   5,
	}

	ApplyGrandTotal(doc)

	assert.Equal(t, 130.0, doc.GrandTotal)
}

func TestPurchaseOrderTotals(t *testing.T) {
	po := &storage.PurchaseOrder{
		Items: []storage.PurchaseOrderItem{
			{Qty: 2, Rate: 12.5},
			{Qty: 1, Rate: 800},
		},
	}

	PurchaseOrderTotals(po)

	assert.Equal(t, 3.0, po.TotalQty)
	assert.Equal(t, 25.0, po.Items[0].Amount)
	assert.Equal(t, 825.0, po.Total)
	assert.Equal(t, 825.0, po.GrandTotal)
}
