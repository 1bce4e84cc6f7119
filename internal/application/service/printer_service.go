package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/deskastudio/kasir-umkm-api/internal/checkout"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/entity"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/repository"
	"github.com/deskastudio/kasir-umkm-api/pkg/apperror"
	"github.com/deskastudio/kasir-umkm-api/pkg/printer"
	"github.com/deskastudio/kasir-umkm-api/pkg/utils"
)

// StoreInfo is the store identity printed on the receipt header.
type StoreInfo struct {
	Name    string
	Address string
	Phone   string
	Footer  string
}

// PrinterService formats receipts and drives the thermal printer.
type PrinterService struct {
	printer         printer.Printer
	transactionRepo repository.TransactionRepository
	store           StoreInfo
	printerType     string
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	transactionRepo repository.TransactionRepository,
	store StoreInfo,
	printerType string,
) *PrinterService {
	return &PrinterService{
		printer:         p,
		transactionRepo: transactionRepo,
		store:           store,
		printerType:     printerType,
	}
}

// PrinterStatus reports the printer configuration and reachability.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page. The receipt is returned as well so the
// handler can respond with it when no printer is attached.
func (s *PrinterService) TestPrint() (*checkout.Receipt, error) {
	receipt := &checkout.Receipt{
		InvoiceNo: "TEST-0001",
		Items: []checkout.ReceiptItem{
			{Name: "Contoh Produk A", Price: 10000, Quantity: 1},
			{Name: "Contoh Produk B", Price: 5000, Quantity: 2},
		},
		Subtotal:    20000,
		Discount:    0,
		Total:       20000,
		Payment:     20000,
		Change:      0,
		CashierName: "System",
		Date:        time.Now(),
	}

	if err := s.printer.Print(s.FormatReceipt(receipt)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// PrintTransactionReceipt rebuilds the receipt for a settled transaction
// and prints it (reprints included).
func (s *PrinterService) PrintTransactionReceipt(ctx context.Context, transactionID uuid.UUID) (*checkout.Receipt, error) {
	transaction, err := s.transactionRepo.GetWithDetails(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	receipt := receiptFromTransaction(transaction)
	if err := s.printer.Print(s.FormatReceipt(receipt)); err != nil {
		log.Printf("Printer error (transaction %s): %v", transactionID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

func receiptFromTransaction(t *entity.Transaction) *checkout.Receipt {
	receipt := &checkout.Receipt{
		InvoiceNo:   t.InvoiceNo,
		Subtotal:    t.Subtotal,
		Discount:    t.Discount,
		Total:       t.Total,
		Payment:     t.Payment,
		Change:      t.Change,
		CashierName: t.CashierName,
		Date:        t.CreatedAt,
	}
	for _, d := range t.Details {
		receipt.Items = append(receipt.Items, checkout.ReceiptItem{
			Name:     d.ProductName,
			Price:    d.UnitPrice,
			Quantity: d.Quantity,
		})
	}
	return receipt
}

// FormatReceipt converts a receipt into ESC/POS bytes for 58mm paper.
func (s *PrinterService) FormatReceipt(r *checkout.Receipt) []byte {
	doc := printer.NewDocument(32)

	doc.Align(printer.AlignCenter).
		Bold(true).
		Size(printer.SizeDouble).
		Line(s.store.Name).
		Size(printer.SizeNormal).
		Bold(false)

	if s.store.Address != "" {
		doc.Line(s.store.Address)
	}
	if s.store.Phone != "" {
		doc.Line(s.store.Phone)
	}

	doc.Align(printer.AlignLeft).
		Rule('-').
		KV("No:", r.InvoiceNo).
		KV("Tanggal:", r.Date.Format("02/01/2006 15:04")).
		KV("Kasir:", r.CashierName).
		Rule('-')

	for _, item := range r.Items {
		doc.Item(item.Quantity, item.Name, utils.FormatRupiah(item.Price*int64(item.Quantity)))
		if item.Quantity > 1 {
			doc.Linef("  @ %s", utils.FormatRupiah(item.Price))
		}
	}

	doc.Rule('-').
		KV("Subtotal:", utils.FormatRupiah(r.Subtotal))
	if r.Discount > 0 {
		doc.KV("Diskon:", "-"+utils.FormatRupiah(r.Discount))
	}
	doc.Bold(true).
		KV("TOTAL:", utils.FormatRupiah(r.Total)).
		Bold(false).
		KV("Bayar:", utils.FormatRupiah(r.Payment)).
		KV("Kembali:", utils.FormatRupiah(r.Change)).
		Rule('-')

	footer := s.store.Footer
	if footer == "" {
		footer = "Terima kasih!"
	}
	doc.Align(printer.AlignCenter).
		Feed(1).
		Line(footer).
		Align(printer.AlignLeft).
		Feed(3).
		PartialCut()

	return doc.Bytes()
}
