// Package render lays out finalized document records into paginated PDF
// artifacts: company header, title band, customer/meta boxes, itemized
// table, payment/summary boxes, free-text sections, barcode, watermark and
// footer with deferred page numbering.
package render

import (
	"github.com/go-playground/validator/v10"

	"docpress/internal/core/apperror"
	"docpress/internal/core/types"
)

// NumberFormat selects the numeric notation for monetary cells.
type NumberFormat string

const (
	// NumberPlain renders full decimal values with thousand separators.
	NumberPlain NumberFormat = "plain"
	// NumberCompact renders locale-compact values (1.2K, 3.4M).
	NumberCompact NumberFormat = "compact"
)

// Settings is the caller-supplied render configuration. It is resolved once
// per render call into an immutable snapshot so a disabled flag behaves
// identically to missing data everywhere in the layout.
type Settings struct {
	IncludeHeader          bool `json:"includeHeader"`
	IncludeFooter          bool `json:"includeFooter"`
	IncludeTerms           bool `json:"includeTerms"`
	IncludePaymentDetails  bool `json:"includePaymentDetails"`
	IncludeClientPhone     bool `json:"includeClientPhone"`
	IncludeClientEmail     bool `json:"includeClientEmail"`
	IncludeClientAddress   bool `json:"includeClientAddress"`
	IncludeClientTaxID     bool `json:"includeClientTaxId"`
	IncludeWatermark       bool `json:"includeWatermark"`
	IncludeBarcode         bool `json:"includeBarcode"`
	IncludeCompanyDetails  bool `json:"includeCompanyDetails"`
	IncludeCustomerDetails bool `json:"includeCustomerDetails"`

	// IncludeItemDescriptions appends item descriptions beneath item names
	// in the table.
	IncludeItemDescriptions bool `json:"includeItemDescriptions"`

	NumberFormat NumberFormat `json:"numberFormat" validate:"omitempty,oneof=plain compact"`

	// BaseCurrency labels stored amounts; DisplayCurrency selects what the
	// artifact shows. When they differ, amounts are converted through the
	// record's immutable rate snapshot.
	BaseCurrency    string `json:"baseCurrency"`
	DisplayCurrency string `json:"displayCurrency"`

	TaxRate    types.Money `json:"taxRate"`
	IncludeTax bool        `json:"includeTax"`

	PageSize        string  `json:"pageSize" validate:"omitempty,oneof=a4 a3 letter legal"`
	PageOrientation string  `json:"pageOrientation" validate:"omitempty,oneof=portrait landscape"`
	FontSize        float64 `json:"fontSize" validate:"omitempty,gte=6,lte=16"`
	FontFamily      string  `json:"fontFamily"`

	FooterText   string   `json:"footerText"`
	PaymentLines []string `json:"paymentLines"`
}

// Company is the issuing company profile shown in the header and watermark.
type Company struct {
	Name     string `json:"name"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	TaxID    string `json:"taxId"`

	// Logo is the raw logo image (PNG/JPEG). LogoPath is consulted when
	// Logo is empty. Load failure degrades gracefully: the header is laid
	// out without the image.
	Logo     []byte `json:"-"`
	LogoPath string `json:"logoPath"`
}

// DefaultSettings returns the stock configuration: everything enabled, 16%
// tax, portrait A4.
func DefaultSettings() Settings {
	return Settings{
		IncludeHeader:           true,
		IncludeFooter:           true,
		IncludeTerms:            true,
		IncludePaymentDetails:   true,
		IncludeClientPhone:      true,
		IncludeClientEmail:      true,
		IncludeClientAddress:    true,
		IncludeClientTaxID:      true,
		IncludeWatermark:        true,
		IncludeBarcode:          true,
		IncludeCompanyDetails:   true,
		IncludeCustomerDetails:  true,
		IncludeItemDescriptions: true,
		NumberFormat:            NumberPlain,
		BaseCurrency:            "Ksh",
		DisplayCurrency:         "Ksh",
		TaxRate:                 types.MustMoney("0.16"),
		IncludeTax:              true,
		PageSize:                "a4",
		PageOrientation:         "portrait",
		FontSize:                9,
		FontFamily:              "Helvetica",
		FooterText:              "If you have any questions about this document, please contact us.",
		PaymentLines: []string{
			"Bank: I&M Bank",
			"Branch: Ruiru",
			"Account No (KSH): 05507023236350",
			"Account No (USD): 05507023231250",
			"SWIFT Code: IMBLKENA",
			"Bank Code: 57 | Branch Code: 055",
		},
	}
}

var validate = validator.New()

// Validate checks settings ahead of layout so a bad configuration fails at
// the call boundary instead of mid-render.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return apperror.NewValidation("invalid render settings").WithCause(err)
	}
	if s.TaxRate.IsNegative() || s.TaxRate.GreaterThan(types.NewMoneyFromInt(1)) {
		return apperror.NewValidation("tax rate must be a decimal fraction between 0 and 1").
			WithDetail("field", "taxRate")
	}
	return nil
}

// fontMapping maps configured font families to gofpdf core fonts.
var fontMapping = map[string]string{
	"Helvetica":       "helvetica",
	"Courier New":     "courier",
	"Times New Roman": "times",
}

// resolved is the immutable per-render snapshot of Settings: defaults
// filled, font mapped, page geometry fixed. Layout code reads only this.
type resolved struct {
	Settings

	font        string
	orientation string // gofpdf "P" / "L"
	sizeStr     string // gofpdf "A4" / "A3" / "Letter" / "Legal"
	bodySize    float64
}

func resolveSettings(s Settings) resolved {
	r := resolved{Settings: s}

	r.font = fontMapping[s.FontFamily]
	if r.font == "" {
		r.font = "helvetica"
	}

	switch s.PageOrientation {
	case "landscape":
		r.orientation = "L"
	default:
		r.orientation = "P"
	}

	switch s.PageSize {
	case "a3":
		r.sizeStr = "A3"
	case "letter":
		r.sizeStr = "Letter"
	case "legal":
		r.sizeStr = "Legal"
	default:
		r.sizeStr = "A4"
	}

	r.bodySize = s.FontSize
	if r.bodySize == 0 {
		r.bodySize = 9
	}

	if r.NumberFormat == "" {
		r.NumberFormat = NumberPlain
	}
	if r.DisplayCurrency == "" {
		r.DisplayCurrency = r.BaseCurrency
	}

	return r
}

// convertsCurrency reports whether monetary cells go through the snapshot
// rate before formatting.
func (r resolved) convertsCurrency() bool {
	return r.DisplayCurrency != "" && r.DisplayCurrency != r.BaseCurrency
}
