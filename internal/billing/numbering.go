package billing

import "fmt"

// FormatInvoiceNumber renders prefix plus the sequence zero-padded to five
// digits, e.g. "NZ-00007". Sequences past 99999 keep all their digits.
func FormatInvoiceNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s%05d", prefix, seq)
}
