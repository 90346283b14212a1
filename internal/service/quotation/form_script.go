package quotation

import (
	"broker-app/internal/form"
	"broker-app/internal/service/charges"
	"broker-app/internal/storage"
)

const PartyField = "party_name"

// RegisterFormScript подписывает пересчёт фрахта и работ на изменения
// заявки поставщика и её строк.
func RegisterFormScript(reg *form.Registry) {
	reg.On(storage.DocTypeSupplierQuotation, form.EventOnload, func(f *form.Form) {
		f.SetQuery(PartyField, form.Query{
			Filters: map[string]any{"is_party": 1},
		})
	})

	reg.On(storage.DocTypeSupplierQuotation, form.EventCalculateTotals, func(f *form.Form) {
		charges.CalculateTotals(f.Doc)
	})

	reg.On(storage.DocTypeSupplierQuotation, "freight_per_unit", calculateCharges)
	reg.On(storage.DocTypeSupplierQuotation, "labour_per_unit", calculateCharges)

	reg.On(storage.DocTypeSupplierQuotationItem, "qty", calculateCharges)
	reg.On(storage.DocTypeSupplierQuotationItem, form.EventItemsRemove, calculateCharges)

	// цена не меняет total_qty: фрахт и работы прежние, пересчитываются только суммы
	reg.On(storage.DocTypeSupplierQuotationItem, "rate", func(f *form.Form) {
		f.Trigger(form.EventCalculateTotals)
	})

	// погрузка входит в grand_total
	reg.On(storage.DocTypeSupplierQuotation, "loading_charges", func(f *form.Form) {
		charges.ApplyGrandTotal(f.Doc)
	})
}

func calculateCharges(f *form.Form) {
	f.Trigger(form.EventCalculateTotals)

	charges.Apply(f.Doc)
	charges.ApplyGrandTotal(f.Doc)
}
