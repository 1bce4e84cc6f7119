package checkout

import "time"

// ReceiptItem is one printed line.
type ReceiptItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Receipt is the normalized proof of sale handed to print and export
// renderers. Built once per committed transaction, read-only afterward.
type Receipt struct {
	InvoiceNo   string        `json:"invoice_no"`
	Items       []ReceiptItem `json:"items"`
	Subtotal    int64         `json:"subtotal"`
	Discount    int64         `json:"discount"`
	Total       int64         `json:"total"`
	Payment     int64         `json:"payment"`
	Change      int64         `json:"change"`
	CashierName string        `json:"cashier_name"`
	Date        time.Time     `json:"date"`
}

// BuildReceipt composes a receipt from the committed transaction and the
// settled pricing. Line names, prices and totals come from the transaction,
// which the server priced authoritatively; the locally frozen pricing is
// used only when the server returned no figures at all. The inputs are
// guaranteed well-formed by the session state machine, so there is no
// failure path.
func BuildReceipt(tx *Transaction, pricing Pricing, payment int64, cashierName string) *Receipt {
	items := make([]ReceiptItem, len(tx.Items))
	for i, it := range tx.Items {
		items[i] = ReceiptItem{
			Name:     it.ProductName,
			Price:    it.UnitPrice,
			Quantity: it.Quantity,
		}
	}

	subtotal, discount, total := tx.Subtotal, tx.Discount, tx.Total
	if subtotal == 0 && total == 0 && pricing.Subtotal != 0 {
		subtotal, discount, total = pricing.Subtotal, pricing.Discount, pricing.Total
	}

	return &Receipt{
		InvoiceNo:   tx.InvoiceNo,
		Items:       items,
		Subtotal:    subtotal,
		Discount:    discount,
		Total:       total,
		Payment:     payment,
		Change:      payment - total,
		CashierName: cashierName,
		Date:        tx.CreatedAt,
	}
}
