package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/deskastudio/kasir-umkm-api/internal/checkout"
	"github.com/deskastudio/kasir-umkm-api/internal/gateway"
	"github.com/deskastudio/kasir-umkm-api/pkg/utils"
)

// catalogFilter asks for the largest page the server will serve; the
// register works from one snapshot, not paged browsing.
var catalogFilter = checkout.ProductFilter{ActiveOnly: true, Limit: 100}

// kasir is the terminal register: it logs a cashier in, keeps a catalog
// snapshot and a cart, and settles sales against the API. All pricing shown
// here is advisory; the server reprices every sale at commit time.
func main() {
	serverURL := flag.String("server", "http://localhost:8080/api/v1", "API base URL including the version prefix")
	username := flag.String("username", "", "cashier username")
	flag.Parse()

	client := gateway.NewClient(*serverURL)
	reader := bufio.NewReader(os.Stdin)
	ctx := context.Background()

	user := strings.TrimSpace(*username)
	if user == "" {
		user = prompt(reader, "Username: ")
	}
	password := prompt(reader, "Password: ")

	login, err := client.Login(ctx, user, password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	fmt.Printf("Selamat datang, %s\n\n", login.User.Name)

	cashier := checkout.Cashier{ID: login.User.ID, Name: login.User.Name}
	session := checkout.NewSession(client, client, cashier)

	if err := session.Reload(ctx, catalogFilter); err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	r := &register{
		client:  client,
		session: session,
		cashier: cashier,
		reader:  reader,
	}
	r.printHelp()
	r.loop(ctx)
}

type register struct {
	client  *gateway.Client
	session *checkout.Session
	cashier checkout.Cashier
	reader  *bufio.Reader
}

func (r *register) loop(ctx context.Context) {
	for {
		line := prompt(r.reader, "kasir> ")
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "help":
			r.printHelp()
		case "list":
			r.printCatalog(strings.Join(args, " "))
		case "reload":
			r.reload(ctx)
		case "add":
			r.add(args)
		case "qty":
			r.adjust(args)
		case "rm":
			r.remove(args)
		case "clear":
			r.report(r.session.ClearCart())
		case "cart":
			r.printCart()
		case "pay":
			r.pay(ctx, args)
		case "cancel":
			r.report(r.session.CancelPayment())
		case "exit", "quit":
			return
		default:
			fmt.Printf("Unknown command %q, try 'help'\n", cmd)
		}
	}
}

func (r *register) report(err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func (r *register) printHelp() {
	fmt.Print(`Commands:
  list [search]     show catalog (optionally filtered)
  reload            refresh the catalog from the server
  add <code>        add one unit by product code
  qty <code> <n>    change a line quantity by n (negative to reduce)
  rm <code>         remove a line
  cart              show the cart with live totals
  clear             empty the cart
  pay               settle: discount, payment, receipt (retries a failed commit)
  cancel            abandon a pending or failed settlement
  exit              quit
`)
}

func (r *register) printCatalog(search string) {
	needle := strings.ToLower(search)
	for _, p := range r.session.Snapshot().Products() {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Code), needle) {
			continue
		}
		fmt.Printf("  %-12s %-30s %12s  stok %d\n",
			p.Code, p.Name, utils.FormatRupiah(p.Price), p.Stock)
	}
}

func (r *register) reload(ctx context.Context) {
	if err := r.session.Reload(ctx, catalogFilter); err != nil {
		fmt.Printf("Reload failed: %v\n", err)
		return
	}
	fmt.Printf("Catalog loaded: %d products\n", len(r.session.Snapshot().Products()))
}

func (r *register) findByCode(code string) (checkout.Product, bool) {
	for _, p := range r.session.Snapshot().Products() {
		if strings.EqualFold(p.Code, code) {
			return p, true
		}
	}
	return checkout.Product{}, false
}

func (r *register) add(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: add <code>")
		return
	}
	p, ok := r.findByCode(args[0])
	if !ok {
		fmt.Printf("No product with code %q\n", args[0])
		return
	}
	r.report(r.session.AddLine(p.ID))
}

func (r *register) adjust(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: qty <code> <delta>")
		return
	}
	p, ok := r.findByCode(args[0])
	if !ok {
		fmt.Printf("No product with code %q\n", args[0])
		return
	}
	delta, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Println("Usage: qty <code> <delta>")
		return
	}
	r.report(r.session.AdjustQuantity(p.ID, delta))
}

func (r *register) remove(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: rm <code>")
		return
	}
	p, ok := r.findByCode(args[0])
	if !ok {
		fmt.Printf("No product with code %q\n", args[0])
		return
	}
	r.report(r.session.RemoveLine(p.ID))
}

func (r *register) printCart() {
	lines := r.session.Lines()
	if len(lines) == 0 {
		fmt.Println("Cart is empty")
		return
	}
	for _, l := range lines {
		fmt.Printf("  %dx %-30s %12s\n",
			l.Quantity, l.Name, utils.FormatRupiah(l.UnitPrice*int64(l.Quantity)))
	}
	pricing := r.session.LivePricing(checkout.NoDiscount)
	fmt.Printf("  Subtotal: %s\n", utils.FormatRupiah(pricing.Subtotal))
}

// pay walks one settlement: pick a discount, freeze pricing, read the
// tendered amount and commit. After an ambiguous failure the next pay
// resubmits with the frozen pricing and the same idempotency key, so a
// commit that did land server-side is replayed, not repeated.
func (r *register) pay(ctx context.Context, args []string) {
	var pricing checkout.Pricing
	if r.session.State() == checkout.StateCommitFailed {
		p, err := r.session.RetryPayment()
		if err != nil {
			fmt.Printf("Cannot retry payment: %v\n", err)
			return
		}
		pricing = p
		fmt.Println("Resubmitting the failed settlement.")
	} else {
		spec, ok := r.readDiscount()
		if !ok {
			return
		}
		p, err := r.session.BeginPayment(spec)
		if err != nil {
			fmt.Printf("Cannot start payment: %v\n", err)
			return
		}
		pricing = p
	}
	fmt.Printf("Subtotal %s, diskon %s\n",
		utils.FormatRupiah(pricing.Subtotal), utils.FormatRupiah(pricing.Discount))
	fmt.Printf("TOTAL %s\n", utils.FormatRupiah(pricing.Total))

	payment, ok := r.readPayment(pricing.Total)
	if !ok {
		if err := r.session.CancelPayment(); err != nil {
			fmt.Printf("Cancel failed: %v\n", err)
		}
		return
	}

	tx, err := r.session.Commit(ctx, payment)
	if err != nil {
		var commitErr *checkout.CommitError
		if errors.As(err, &commitErr) {
			fmt.Printf("Commit failed after submission: %v\n", err)
			fmt.Println("Run 'pay' again to resubmit safely, or 'cancel' to abandon.")
		} else {
			fmt.Printf("Commit rejected: %v\n", err)
		}
		return
	}

	r.printReceipt(r.session.Receipt())

	if err := r.session.Reconcile(ctx, catalogFilter); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	// Committed is terminal; start a fresh session for the next customer
	// reusing the reconciled snapshot via a reload
	r.session = checkout.NewSession(r.client, r.client, r.cashier)
	if err := r.session.Reload(ctx, catalogFilter); err != nil {
		fmt.Printf("Warning: catalog reload failed: %v\n", err)
	}
	fmt.Printf("Transaksi %s tersimpan\n\n", tx.InvoiceNo)
}

func (r *register) readDiscount() (checkout.DiscountSpec, bool) {
	raw := prompt(r.reader, "Diskon (contoh: 10% atau 5000, kosong = tanpa diskon): ")
	if raw == "" {
		return checkout.NoDiscount, true
	}
	if strings.HasSuffix(raw, "%") {
		value, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
		if err != nil || value < 0 {
			fmt.Println("Invalid discount")
			return checkout.DiscountSpec{}, false
		}
		return checkout.DiscountSpec{Kind: checkout.DiscountPercent, Value: value}, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		fmt.Println("Invalid discount")
		return checkout.DiscountSpec{}, false
	}
	return checkout.DiscountSpec{Kind: checkout.DiscountFixed, Value: value}, true
}

func (r *register) readPayment(total int64) (int64, bool) {
	for {
		raw := prompt(r.reader, "Bayar (kosong = batal): ")
		if raw == "" {
			return 0, false
		}
		payment, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || payment < 0 {
			fmt.Println("Invalid amount")
			continue
		}
		if payment < total {
			fmt.Printf("Kurang %s\n", utils.FormatRupiah(total-payment))
			continue
		}
		return payment, true
	}
}

func (r *register) printReceipt(receipt *checkout.Receipt) {
	if receipt == nil {
		return
	}
	fmt.Println(strings.Repeat("=", 44))
	fmt.Printf("No      : %s\n", receipt.InvoiceNo)
	fmt.Printf("Tanggal : %s\n", receipt.Date.Format("02-01-2006 15:04"))
	fmt.Printf("Kasir   : %s\n", receipt.CashierName)
	fmt.Println(strings.Repeat("-", 44))
	for _, item := range receipt.Items {
		fmt.Printf("%dx %-28s %12s\n",
			item.Quantity, item.Name, utils.FormatRupiah(item.Price*int64(item.Quantity)))
	}
	fmt.Println(strings.Repeat("-", 44))
	fmt.Printf("%-20s %12s\n", "Subtotal", utils.FormatRupiah(receipt.Subtotal))
	if receipt.Discount > 0 {
		fmt.Printf("%-20s %12s\n", "Diskon", utils.FormatRupiah(receipt.Discount))
	}
	fmt.Printf("%-20s %12s\n", "TOTAL", utils.FormatRupiah(receipt.Total))
	fmt.Printf("%-20s %12s\n", "Bayar", utils.FormatRupiah(receipt.Payment))
	fmt.Printf("%-20s %12s\n", "Kembali", utils.FormatRupiah(receipt.Change))
	fmt.Println(strings.Repeat("=", 44))
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		os.Exit(0)
	}
	return strings.TrimSpace(line)
}
