package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/tallypos/terminal/pkg/backend"
	"github.com/tallypos/terminal/pkg/money"
)

// width matches an 80 mm thermal printer at the usual font size.
const width = 40

const timestampLayout = "02/01/2006 15:04"

// Formatter renders confirmed transactions as fixed-width receipt text.
// Rendering is pure; the same transaction always yields the same bytes.
type Formatter struct {
	storeName string
	tagline   string
}

// NewFormatter builds a formatter with the store header lines.
func NewFormatter(storeName, tagline string) *Formatter {
	if storeName == "" {
		storeName = "TALLY POS"
	}
	return &Formatter{storeName: storeName, tagline: tagline}
}

// Render lays out the receipt for a confirmed sale. Optional fields
// (customer, per-line discount, aggregate discount, notes) omit their rows
// entirely rather than printing empty ones.
func (f *Formatter) Render(tx backend.Transaction) string {
	var b strings.Builder

	writeCentered(&b, f.storeName)
	if f.tagline != "" {
		writeCentered(&b, f.tagline)
	}
	b.WriteString(strings.Repeat("=", width) + "\n")

	writeField(&b, "No. Transaksi", tx.TransactionCode)
	writeField(&b, "Tanggal", tx.TransactionDate.Format(timestampLayout))
	writeField(&b, "Kasir", cashierName(tx))
	if tx.Customer != nil {
		writeField(&b, "Pelanggan", tx.Customer.Name)
	}
	b.WriteString(strings.Repeat("-", width) + "\n")

	for _, detail := range tx.Details {
		writeLeft(&b, detail.ProductName)
		qty := fmt.Sprintf("  %d x %s", detail.Quantity, money.FormatIDR(detail.UnitPrice))
		writeRow(&b, qty, money.FormatIDR(detail.UnitPrice.Mul(decimal.NewFromInt(int64(detail.Quantity)))))
		if detail.DiscountAmount.IsPositive() {
			writeRow(&b, "  Diskon", "-"+money.FormatIDR(detail.DiscountAmount))
		}
	}
	b.WriteString(strings.Repeat("-", width) + "\n")

	writeRow(&b, "Subtotal", money.FormatIDR(tx.Subtotal))
	if tx.DiscountAmount.IsPositive() {
		writeRow(&b, "Diskon", "-"+money.FormatIDR(tx.DiscountAmount))
	}
	if tx.TaxAmount.IsPositive() {
		writeRow(&b, "Pajak", money.FormatIDR(tx.TaxAmount))
	}
	writeRow(&b, "TOTAL", money.FormatIDR(tx.TotalAmount))
	b.WriteString(strings.Repeat("-", width) + "\n")

	writeRow(&b, fmt.Sprintf("Bayar (%s)", tx.PaymentMethod.Label()), money.FormatIDR(tx.PaymentAmount))
	writeRow(&b, "Kembalian", money.FormatIDR(tx.ChangeAmount))
	if tx.Notes != nil && *tx.Notes != "" {
		b.WriteString(strings.Repeat("-", width) + "\n")
		writeField(&b, "Catatan", *tx.Notes)
	}
	b.WriteString(strings.Repeat("=", width) + "\n")

	writeCentered(&b, "Terima kasih atas kunjungan Anda")
	writeCentered(&b, "Barang yang sudah dibeli")
	writeCentered(&b, "tidak dapat dikembalikan")

	return b.String()
}

func cashierName(tx backend.Transaction) string {
	if tx.User.FullName != "" {
		return tx.User.FullName
	}
	return tx.User.Username
}

func writeCentered(b *strings.Builder, text string) {
	text = truncate(text, width)
	pad := (width - utf8.RuneCountInString(text)) / 2
	b.WriteString(strings.Repeat(" ", pad) + text + "\n")
}

func writeLeft(b *strings.Builder, text string) {
	b.WriteString(truncate(text, width) + "\n")
}

// writeField prints an aligned "label : value" pair.
func writeField(b *strings.Builder, label, value string) {
	line := fmt.Sprintf("%-13s : %s", label, value)
	b.WriteString(truncate(line, width) + "\n")
}

// writeRow prints a label with a right-aligned amount on the same line.
// Widths count runes, not bytes, so accented product names stay aligned.
func writeRow(b *strings.Builder, label, amount string) {
	gap := width - utf8.RuneCountInString(label) - utf8.RuneCountInString(amount)
	if gap < 1 {
		label = truncate(label, width-utf8.RuneCountInString(amount)-1)
		gap = 1
	}
	b.WriteString(label + strings.Repeat(" ", gap) + amount + "\n")
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
