package supplier

// Status is the supplier-side order lifecycle status.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusConfirmed  Status = "confirmed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether polling may stop at this status. Anything outside
// the terminal set - processing, empty, or an unknown value - keeps the
// poller going.
func (s Status) Terminal() bool {
	switch s {
	case StatusConfirmed, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// BookedRate references a priced, held inventory unit selected by the
// caller. It is immutable and consumed by Prebook.
type BookedRate struct {
	BookHash             string  `json:"book_hash"`
	MatchHash            string  `json:"match_hash,omitempty"`
	Residency            string  `json:"residency,omitempty"`
	Currency             string  `json:"currency,omitempty"`
	PriceIncreasePercent int     `json:"price_increase_percent,omitempty"`
	Guests               []Guest `json:"guests,omitempty"`
}

// Guest is a single traveller record submitted with OrderFinish.
type Guest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsChild   bool   `json:"is_child"`
	Age       int    `json:"age,omitempty"`
}

// Price is an amount with its currency code.
type Price struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currency_code"`
}

// PaymentType describes one payment option the supplier accepts for an
// order.
type PaymentType struct {
	Type         string  `json:"type"`
	Amount       float64 `json:"amount,omitempty"`
	CurrencyCode string  `json:"currency_code,omitempty"`
}

// PrebookResult is the confirmed rate returned by Prebook. Its BookHash is
// the one OrderForm must use.
type PrebookResult struct {
	BookHash     string  `json:"book_hash"`
	Price        float64 `json:"price"`
	CurrencyCode string  `json:"currency_code"`
	PriceChanged bool    `json:"price_changed"`
}

// MultiroomPrebookResult carries per-room accounting for a multiroom
// prebook. Failures are partial: some rooms may hold while others fail.
type MultiroomPrebookResult struct {
	TotalRooms      int             `json:"total_rooms"`
	SuccessfulRooms int             `json:"successful_rooms"`
	FailedRooms     int             `json:"failed_rooms"`
	Rooms           []PrebookResult `json:"rooms,omitempty"`
}

// OrderFormRoom is the per-room breakdown of an order form response.
type OrderFormRoom struct {
	ItemID         string   `json:"item_id"`
	BookHash       string   `json:"book_hash,omitempty"`
	RequiredFields []string `json:"required_fields,omitempty"`
}

// OrderFormResult is produced by OrderForm and consumed both by the caller
// (to render a guest/payment form) and by OrderFinish.
//
// Recovered is set only by the recovery resolver. A recovered result has
// unknown required-field and pricing data - empty RequiredFields/Rooms and a
// zero-amount FinalPrice are placeholders, not real values, and must not be
// used to re-render a fresh guest form.
type OrderFormResult struct {
	OrderID        string          `json:"order_id"`
	ItemID         string          `json:"item_id"`
	RequiredFields []string        `json:"required_fields"`
	Rooms          []OrderFormRoom `json:"rooms"`
	PaymentTypes   []PaymentType   `json:"payment_types_available"`
	FinalPrice     Price           `json:"final_price"`
	Recovered      bool            `json:"-"`
}

// MultiroomOrderFormResult is the multiroom variant of OrderFormResult.
type MultiroomOrderFormResult struct {
	TotalRooms      int             `json:"total_rooms"`
	SuccessfulRooms int             `json:"successful_rooms"`
	FailedRooms     int             `json:"failed_rooms"`
	OrderIDs        []string        `json:"order_ids,omitempty"`
	Rooms           []OrderFormRoom `json:"rooms,omitempty"`
	PaymentTypes    []PaymentType   `json:"payment_types_available,omitempty"`
	FinalPrice      Price           `json:"final_price"`
	Recovered       bool            `json:"-"`
}

// OrderFinishResult acknowledges that the supplier accepted the finish call
// and moved the order into asynchronous processing.
type OrderFinishResult struct {
	OrderID string `json:"order_id,omitempty"`
	Status  Status `json:"status,omitempty"`
}

// MultiroomOrderFinishResult is the multiroom variant of OrderFinishResult.
type MultiroomOrderFinishResult struct {
	TotalRooms      int      `json:"total_rooms"`
	SuccessfulRooms int      `json:"successful_rooms"`
	FailedRooms     int      `json:"failed_rooms"`
	OrderIDs        []string `json:"order_ids,omitempty"`
}

// OrderInfo is the read-only view of a supplier-side order.
type OrderInfo struct {
	OrderID        string        `json:"order_id"`
	ItemID         string        `json:"item_id,omitempty"`
	PartnerOrderID string        `json:"partner_order_id,omitempty"`
	Status         Status        `json:"status"`
	Amount         Price         `json:"amount"`
	PaymentTypes   []PaymentType `json:"payment_types,omitempty"`
}

// OrderDocuments lists the document downloads available for an order.
type OrderDocuments struct {
	OrderID    string   `json:"order_id"`
	VoucherURL string   `json:"voucher_url,omitempty"`
	InvoiceURL string   `json:"invoice_url,omitempty"`
	Extra      []string `json:"extra,omitempty"`
}

// ContractData is the financial/contract snapshot for the B2B account.
type ContractData struct {
	ContractID   string  `json:"contract_id"`
	CurrencyCode string  `json:"currency_code"`
	Balance      float64 `json:"balance"`
	CreditLimit  float64 `json:"credit_limit"`
}

// DestinationInfo is the enrichment payload for a destination, served
// through the cache-then-proxy destinations feature.
type DestinationInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}
