package render

import (
	"fmt"
	"strings"
	"time"

	"docpress/internal/domain/document"
)

// typeWord returns the filename/kind word for a document type.
func typeWord(t document.Type) string {
	switch t {
	case document.TypeQuotation:
		return "QUOTATION"
	case document.TypeProforma:
		return "PROFORMA"
	default:
		return "INVOICE"
	}
}

var filenameSanitizer = strings.NewReplacer(
	`\`, "_", `/`, "_", `:`, "_", `*`, "_",
	`?`, "_", `"`, "_", `<`, "_", `>`, "_", `|`, "_",
)

// Filename derives the deterministic, filesystem-safe artifact name from
// type, customer, date and number:
// "INVOICE for Acme Ltd at 2024-05-01, INV-0501-01.pdf".
func Filename(rec *document.Record, at time.Time) string {
	number := rec.Number
	if number == "" {
		number = "DRAFT"
	}
	raw := fmt.Sprintf("%s for %s at %s, %s.pdf",
		typeWord(rec.Type),
		rec.Customer.Name,
		at.Format("2006-01-02"),
		number,
	)
	return filenameSanitizer.Replace(raw)
}
