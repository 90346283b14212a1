package storage

// ItemPriceAdmin: строка прайс-листа закупки, редактируется из админки.
type ItemPriceAdmin struct {
	ID        int64   `json:"id"`
	ItemCode  string  `json:"item_code"`
	PriceList string  `json:"price_list"`
	Rate      float64 `json:"price_list_rate"`
}

type ItemAdmin struct {
	ItemCode       string `json:"item_code"`
	ItemName       string `json:"item_name"`
	ItemGroup      string `json:"item_group"`
	StockUOM       string `json:"stock_uom"`
	IsPurchaseItem bool   `json:"is_purchase_item"`
	Disabled       bool   `json:"disabled"`
}
