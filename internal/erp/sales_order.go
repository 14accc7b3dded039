package erp

// SalesOrderDraft is the wire shape for a new sales order submission.
// Validation tags are enforced by the order entry service before the
// draft ever reaches the ERP.
type SalesOrderDraft struct {
	CardCode string           `json:"cardCode" validate:"required"`
	PONo     string           `json:"numAtCard"`
	DueDate  string           `json:"docDueDate" validate:"required"`
	ShipTo   string           `json:"shipTo"`
	BillTo   string           `json:"billTo"`
	Comments string           `json:"comments" validate:"max=254"`
	Lines    []SalesOrderLine `json:"documentLines" validate:"required,min=1,dive"`
}

// SalesOrderLine is one draft line. Quantities and prices arrive from the
// order form as plain numbers.
type SalesOrderLine struct {
	ItemCode string  `json:"itemCode" validate:"required"`
	Qty      float64 `json:"quantity" validate:"gt=0"`
	Price    float64 `json:"unitPrice" validate:"gte=0"`
}
