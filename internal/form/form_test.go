package form

import (
	"broker-app/internal/storage"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc() *storage.SupplierQuotation {
	return &storage.SupplierQuotation{
		Items: []storage.SupplierQuotationItem{
			{Idx: 1, ItemCode: "A", Qty: 2},
			{Idx: 2, ItemCode: "B", Qty: 3},
		},
	}
}

func TestRegistry_HandlersRunInRegistrationOrder(t *testing.T) {
	reg := NewRegistry()

	var calls []string
	reg.On(storage.DocTypeSupplierQuotation, "freight_per_unit", func(*Form) { calls = append(calls, "first") })
	reg.On(storage.DocTypeSupplierQuotation, "freight_per_unit", func(*Form) { calls = append(calls, "second") })
	reg.On(storage.DocTypeSupplierQuotationItem, "freight_per_unit", func(*Form) { calls = append(calls, "child") })

	f := New(reg, newDoc())
	require.NoError(t, f.SetValue("freight_per_unit", 2.0))

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestRegistry_Events(t *testing.T) {
	reg := NewRegistry()
	reg.On(storage.DocTypeSupplierQuotation, "labour_per_unit", func(*Form) {})
	reg.On(storage.DocTypeSupplierQuotation, EventOnload, func(*Form) {})
	reg.On(storage.DocTypeSupplierQuotationItem, "qty", func(*Form) {})

	assert.Equal(t, []string{"labour_per_unit", "onload"}, reg.Events(storage.DocTypeSupplierQuotation))
	assert.Equal(t, []string{"qty"}, reg.Events(storage.DocTypeSupplierQuotationItem))
}

func TestSetValue_Coercion(t *testing.T) {
	f := New(NewRegistry(), newDoc())

	require.NoError(t, f.SetValue("freight_per_unit", "2.5"))
	require.NotNil(t, f.Doc.FreightPerUnit)
	assert.Equal(t, 2.5, *f.Doc.FreightPerUnit)

	require.NoError(t, f.SetValue("freight_per_unit", ""))
	assert.Nil(t, f.Doc.FreightPerUnit)

	require.NoError(t, f.SetValue("labour_per_unit", nil))
	assert.Nil(t, f.Doc.LabourPerUnit)

	require.NoError(t, f.SetValue("labour_per_unit", 4))
	assert.Equal(t, 4.0, *f.Doc.LabourPerUnit)

	require.NoError(t, f.SetValue("freight", storage.FreightExclusive))
	assert.Equal(t, storage.FreightExclusive, f.Doc.Freight)
}

func TestSetValue_Errors(t *testing.T) {
	f := New(NewRegistry(), newDoc())

	err := f.SetValue("total_freight_cost", 10.0)
	assert.ErrorIs(t, err, ErrUnknownField)

	err = f.SetValue("freight_per_unit", "abc")
	assert.ErrorIs(t, err, ErrInvalidValue)

	err = f.SetValue("freight_per_unit", true)
	assert.ErrorIs(t, err, ErrInvalidValue)

	err = f.SetValue("remarks", 12.0)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSetItemValue(t *testing.T) {
	reg := NewRegistry()
	fired := 0
	reg.On(storage.DocTypeSupplierQuotationItem, "qty", func(*Form) { fired++ })

	f := New(reg, newDoc())

	require.NoError(t, f.SetItemValue(2, "qty", 7.0))
	assert.Equal(t, 7.0, f.Doc.Items[1].Qty)
	assert.Equal(t, 1, fired)

	require.NoError(t, f.SetItemValue(1, "rate", 9.0))
	assert.Equal(t, 9.0, f.Doc.Items[0].Rate)
	assert.Equal(t, 1, fired)

	assert.ErrorIs(t, f.SetItemValue(3, "qty", 1.0), ErrNoSuchItem)
	assert.ErrorIs(t, f.SetItemValue(0, "qty", 1.0), ErrNoSuchItem)
	assert.ErrorIs(t, f.SetItemValue(1, "amount", 1.0), ErrUnknownField)
}

func TestRemoveItem_HandlersSeeCommittedRemoval(t *testing.T) {
	reg := NewRegistry()

	var seen []storage.SupplierQuotationItem
	reg.On(storage.DocTypeSupplierQuotationItem, EventItemsRemove, func(f *Form) {
		seen = append([]storage.SupplierQuotationItem(nil), f.Doc.Items...)
	})

	f := New(reg, newDoc())
	require.NoError(t, f.RemoveItem(1))

	require.Len(t, seen, 1)
	assert.Equal(t, "B", seen[0].ItemCode)
	assert.Equal(t, 1, seen[0].Idx)

	assert.ErrorIs(t, f.RemoveItem(5), ErrNoSuchItem)
}

func TestAddItem(t *testing.T) {
	reg := NewRegistry()
	added := false
	reg.On(storage.DocTypeSupplierQuotationItem, EventItemsAdd, func(*Form) { added = true })

	f := New(reg, newDoc())
	f.AddItem(storage.SupplierQuotationItem{ItemCode: "C", Qty: 1})

	assert.True(t, added)
	require.Len(t, f.Doc.Items, 3)
	assert.Equal(t, 3, f.Doc.Items[2].Idx)
}

func TestLoadAndQuery(t *testing.T) {
	reg := NewRegistry()
	reg.On(storage.DocTypeSupplierQuotation, EventOnload, func(f *Form) {
		f.SetQuery("party_name", Query{Filters: map[string]any{"is_party": 1}})
	})

	f := New(reg, newDoc())

	_, ok := f.Query("party_name")
	assert.False(t, ok)

	f.Load()

	q, ok := f.Query("party_name")
	require.True(t, ok)
	assert.Equal(t, 1, q.Filters["is_party"])
}
