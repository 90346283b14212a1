package storage

import "time"

const (
	DocTypeSupplierQuotation     = "Supplier Quotation"
	DocTypeSupplierQuotationItem = "Supplier Quotation Item"
	DocTypePurchaseOrder         = "Purchase Order"
)

// Режимы фрахта
const (
	FreightInclusive = "Inclusive"
	FreightExclusive = "Exclusive"
)

// Состояния workflow заявки поставщика
const (
	StateDraft           = "Draft"
	StatePendingApproval = "Pending Approval"
	StateApproved        = "Approved"
	StateRejected        = "Rejected"
	StateConvertedToPO   = "Converted to PO"
)

const ItemGroupServices = "Services"

type SupplierQuotation struct {
	Name            string     `json:"name"`
	Supplier        string     `json:"supplier"`
	SupplierName    string     `json:"supplier_name"`
	Company         string     `json:"company"`
	TransactionDate time.Time  `json:"transaction_date"`
	ValidTill       *time.Time `json:"valid_till"`
	Freight         string     `json:"freight"`
	LoadingCharges  float64    `json:"loading_charges"`
	DistanceKM      *float64   `json:"distance_km"`
	Location        string     `json:"location"`
	Remarks         string     `json:"remarks"`
	PartyName       string     `json:"party_name"`
	WorkflowState   string     `json:"workflow_state"`
	POCreated       bool       `json:"po_created"`

	// nil, если поле не заполнено в форме
	FreightPerUnit *float64 `json:"freight_per_unit"`
	LabourPerUnit  *float64 `json:"labour_per_unit"`

	TotalQty         float64 `json:"total_qty"`
	TotalFreightCost float64 `json:"total_freight_cost"`
	LabourTotalCost  float64 `json:"labour_total_cost"`
	Total            float64 `json:"total"`
	GrandTotal       float64 `json:"grand_total"`

	Items []SupplierQuotationItem `json:"items"`

	CreatedAt time.Time `json:"creation"`
	UpdatedAt time.Time `json:"modified"`
}

type SupplierQuotationItem struct {
	ID          int64   `json:"id"`
	Idx         int     `json:"idx"`
	ItemCode    string  `json:"item_code"`
	ItemName    string  `json:"item_name"`
	Description string  `json:"description"`
	ItemGroup   string  `json:"item_group"`
	Qty         float64 `json:"qty"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
	UOM         string  `json:"uom"`
}

type QuotationFilter struct {
	Supplier      string
	WorkflowState string
	Start         int
	PageLength    int
}

type QuotationChargesRow struct {
	Name             string    `json:"name"`
	Supplier         string    `json:"supplier"`
	TransactionDate  time.Time `json:"transaction_date"`
	Freight          string    `json:"freight"`
	TotalQty         float64   `json:"total_qty"`
	FreightPerUnit   float64   `json:"freight_per_unit"`
	TotalFreightCost float64   `json:"total_freight_cost"`
	LabourPerUnit    float64   `json:"labour_per_unit"`
	LabourTotalCost  float64   `json:"labour_total_cost"`
	LoadingCharges   float64   `json:"loading_charges"`
	GrandTotal       float64   `json:"grand_total"`
}

type ReportFilter struct {
	From     time.Time
	To       time.Time
	Supplier string
	States   []string
}

func (sq *SupplierQuotation) FreightTerms() (string, float64) {
	return sq.Freight, sq.LoadingCharges
}
