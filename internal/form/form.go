package form

import (
	"broker-app/internal/storage"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// События жизненного цикла формы
const (
	EventOnload          = "onload"
	EventCalculateTotals = "calculate_totals"
	EventItemsAdd        = "items_add"
	EventItemsRemove     = "items_remove"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid value")
	ErrNoSuchItem   = errors.New("no such item")
)

// Query задаёт фильтр для выбора значений в поле-ссылке.
type Query struct {
	Filters map[string]any `json:"filters"`
}

// Form: документ заявки поставщика в состоянии редактирования.
type Form struct {
	Doc *storage.SupplierQuotation

	registry *Registry
	queries  map[string]Query
}

func New(registry *Registry, doc *storage.SupplierQuotation) *Form {
	return &Form{
		Doc:      doc,
		registry: registry,
		queries:  make(map[string]Query),
	}
}

func (f *Form) Load() {
	f.fire(storage.DocTypeSupplierQuotation, EventOnload)
}

// Trigger запускает именованное событие родительского документа.
func (f *Form) Trigger(event string) {
	f.fire(storage.DocTypeSupplierQuotation, event)
}

func (f *Form) SetQuery(field string, q Query) {
	f.queries[field] = q
}

func (f *Form) Query(field string) (Query, bool) {
	q, ok := f.queries[field]
	return q, ok
}

// SetValue записывает поле документа и оповещает подписчиков этого поля.
func (f *Form) SetValue(field string, value any) error {
	const op = "form.SetValue"

	d := f.Doc

	switch field {
	case "freight_per_unit", "labour_per_unit", "distance_km":
		v, err := toFloatPtr(value)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", op, field, err)
		}
		switch field {
		case "freight_per_unit":
			d.FreightPerUnit = v
		case "labour_per_unit":
			d.LabourPerUnit = v
		case "distance_km":
			d.DistanceKM = v
		}
	case "loading_charges":
		v, err := toFloatPtr(value)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", op, field, err)
		}
		d.LoadingCharges = numOrZero(v)
	case "freight", "party_name", "remarks", "location":
		s, err := toString(value)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", op, field, err)
		}
		switch field {
		case "freight":
			d.Freight = s
		case "party_name":
			d.PartyName = s
		case "remarks":
			d.Remarks = s
		case "location":
			d.Location = s
		}
	default:
		return fmt.Errorf("%s: %q: %w", op, field, ErrUnknownField)
	}

	f.fire(storage.DocTypeSupplierQuotation, field)

	return nil
}

// SetItemValue записывает поле строки с номером idx (с единицы).
func (f *Form) SetItemValue(idx int, field string, value any) error {
	const op = "form.SetItemValue"

	item, err := f.item(idx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch field {
	case "qty", "rate":
		v, err := toFloatPtr(value)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", op, field, err)
		}
		if field == "qty" {
			item.Qty = numOrZero(v)
		} else {
			item.Rate = numOrZero(v)
		}
	case "uom", "item_code", "item_name", "description":
		s, err := toString(value)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", op, field, err)
		}
		switch field {
		case "uom":
			item.UOM = s
		case "item_code":
			item.ItemCode = s
		case "item_name":
			item.ItemName = s
		case "description":
			item.Description = s
		}
	default:
		return fmt.Errorf("%s: %q: %w", op, field, ErrUnknownField)
	}

	f.fire(storage.DocTypeSupplierQuotationItem, field)

	return nil
}

func (f *Form) AddItem(item storage.SupplierQuotationItem) {
	item.Idx = len(f.Doc.Items) + 1
	f.Doc.Items = append(f.Doc.Items, item)

	f.fire(storage.DocTypeSupplierQuotationItem, EventItemsAdd)
}

// RemoveItem удаляет строку до оповещения подписчиков, так что они видят
// уже изменённую табличную часть.
func (f *Form) RemoveItem(idx int) error {
	const op = "form.RemoveItem"

	if _, err := f.item(idx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	items := f.Doc.Items
	f.Doc.Items = append(items[:idx-1:idx-1], items[idx:]...)
	for i := range f.Doc.Items {
		f.Doc.Items[i].Idx = i + 1
	}

	f.fire(storage.DocTypeSupplierQuotationItem, EventItemsRemove)

	return nil
}

func (f *Form) item(idx int) (*storage.SupplierQuotationItem, error) {
	if idx < 1 || idx > len(f.Doc.Items) {
		return nil, fmt.Errorf("idx %d: %w", idx, ErrNoSuchItem)
	}
	return &f.Doc.Items[idx-1], nil
}

func (f *Form) fire(docType, event string) {
	for _, h := range f.registry.handlersFor(docType, event) {
		h(f)
	}
}

func numOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func toFloatPtr(value any) (*float64, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		return &v, nil
	case *float64:
		return v, nil
	case int:
		f := float64(v)
		return &f, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, ErrInvalidValue
		}
		return &f, nil
	default:
		return nil, ErrInvalidValue
	}
}

func toString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", ErrInvalidValue
	}
}
