// Package charges derives freight and labour costs of a supplier quotation
// from per-unit rates and the aggregate quantity of its line items.
package charges

import (
	"broker-app/internal/storage"
	"math"
)

type Inputs struct {
	TotalQty       float64
	FreightPerUnit float64
	LabourPerUnit  float64
}

type Outputs struct {
	TotalFreightCost float64 `json:"total_freight_cost"`
	LabourTotalCost  float64 `json:"labour_total_cost"`
}

// NumOrZero читает числовое поле формы: пустое значение считается нулём.
func NumOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return numOrZero(*v)
}

func numOrZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func Calculate(in Inputs) Outputs {
	return Outputs{
		TotalFreightCost: in.FreightPerUnit * in.TotalQty,
		LabourTotalCost:  in.LabourPerUnit * in.TotalQty,
	}
}

// InputsOf снимает входные значения с документа.
func InputsOf(doc *storage.SupplierQuotation) Inputs {
	return Inputs{
		TotalQty:       numOrZero(doc.TotalQty),
		FreightPerUnit: NumOrZero(doc.FreightPerUnit),
		LabourPerUnit:  NumOrZero(doc.LabourPerUnit),
	}
}

// Apply пересчитывает стоимость фрахта и работ и записывает её в документ.
// total_qty должен быть уже актуален.
func Apply(doc *storage.SupplierQuotation) Outputs {
	out := Calculate(InputsOf(doc))

	doc.TotalFreightCost = out.TotalFreightCost
	doc.LabourTotalCost = out.LabourTotalCost

	return out
}
