package charges

import (
	"broker-app/internal/storage"
	"github.com/shopspring/decimal"
)

const currencyPrecision = 2

// CalculateTotals пересчитывает суммы строк, total_qty и итоги документа.
func CalculateTotals(doc *storage.SupplierQuotation) {
	totalQty := decimal.Zero
	total := decimal.Zero

	for i := range doc.Items {
		item := &doc.Items[i]
		item.Idx = i + 1

		qty := decimal.NewFromFloat(item.Qty)
		amount := qty.Mul(decimal.NewFromFloat(item.Rate)).Round(currencyPrecision)
		item.Amount = amount.InexactFloat64()

		totalQty = totalQty.Add(qty)
		total = total.Add(amount)
	}

	doc.TotalQty = totalQty.InexactFloat64()
	doc.Total = total.InexactFloat64()

	ApplyGrandTotal(doc)
}

// ApplyGrandTotal складывает сумму позиций с фрахтом, работами и погрузкой.
func ApplyGrandTotal(doc *storage.SupplierQuotation) {
	grand := decimal.NewFromFloat(doc.Total).
		Add(decimal.NewFromFloat(doc.TotalFreightCost)).
		Add(decimal.NewFromFloat(doc.LabourTotalCost)).
		Add(decimal.NewFromFloat(doc.LoadingCharges)).
		Round(currencyPrecision)

	doc.GrandTotal = grand.InexactFloat64()
}

// PurchaseOrderTotals считает то же для заказа на закупку.
func PurchaseOrderTotals(po *storage.PurchaseOrder) {
	totalQty := decimal.Zero
	total := decimal.Zero

	for i := range po.Items {
		item := &po.Items[i]

		qty := decimal.NewFromFloat(item.Qty)
		amount := qty.Mul(decimal.NewFromFloat(item.Rate)).Round(currencyPrecision)
		item.Amount = amount.InexactFloat64()

		totalQty = totalQty.Add(qty)
		total = total.Add(amount)
	}

	po.TotalQty = totalQty.InexactFloat64()
	po.Total = total.InexactFloat64()
	po.GrandTotal = po.Total
}
