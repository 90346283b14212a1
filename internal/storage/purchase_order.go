package storage

import "time"

type PurchaseOrder struct {
	Name              string              `json:"name"`
	Supplier          string              `json:"supplier"`
	SupplierName      string              `json:"supplier_name"`
	SupplierQuotation string              `json:"supplier_quotation"`
	Company           string              `json:"company"`
	TransactionDate   time.Time           `json:"transaction_date"`
	ScheduleDate      time.Time           `json:"schedule_date"`
	Status            string              `json:"status"`
	DocStatus         int                 `json:"docstatus"`
	TotalQty          float64             `json:"total_qty"`
	Total             float64             `json:"total"`
	GrandTotal        float64             `json:"grand_total"`
	Freight           string              `json:"freight"`
	LoadingCharges    float64             `json:"loading_charges"`
	Items             []PurchaseOrderItem `json:"items"`
	CreatedAt         time.Time           `json:"creation"`
}

type PurchaseOrderItem struct {
	ItemCode              string    `json:"item_code"`
	ItemName              string    `json:"item_name"`
	Description           string    `json:"description"`
	Qty                   float64   `json:"qty"`
	Rate                  float64   `json:"rate"`
	Amount                float64   `json:"amount"`
	UOM                   string    `json:"uom"`
	ScheduleDate          time.Time `json:"schedule_date"`
	SupplierQuotation     string    `json:"supplier_quotation"`
	SupplierQuotationItem *int64    `json:"supplier_quotation_item"`
}

type PurchaseOrderFilter struct {
	Supplier          string
	SupplierQuotation string
	Status            string
	Start             int
	PageLength        int
}

const (
	POStatusDraft     = "Draft"
	POStatusToReceive = "To Receive and Bill"
)

// ServiceItem: активная закупочная услуга (транспорт) из справочника товаров.
type ServiceItem struct {
	ItemCode string  `json:"item_code"`
	ItemName string  `json:"item_name"`
	StockUOM string  `json:"stock_uom"`
	Rate     float64 `json:"rate"`
}

func (po *PurchaseOrder) FreightTerms() (string, float64) {
	return po.Freight, po.LoadingCharges
}
