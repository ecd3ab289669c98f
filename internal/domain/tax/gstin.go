package tax

import (
	"regexp"
	"strings"
)

// gstinPattern matches the structural layout of a GSTIN:
// state code, PAN (5 letters + 4 digits + 1 letter), entity code,
// the fixed letter Z and a check character.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// checksumAlphabet is the base-36 alphabet used by the GSTIN check digit scheme
const checksumAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const gstinLength = 15

// GSTIN is a validated Goods and Services Tax Identification Number.
// The zero value is invalid; construct via NewGSTIN.
type GSTIN struct {
	value string
}

// NewGSTIN validates and creates a GSTIN value object.
// Input is trimmed and upper-cased before validation. A GSTIN must be
// 15 characters, structurally well formed, carry a recognised state code
// and pass the mod-36 checksum.
func NewGSTIN(value string) (GSTIN, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if len(normalized) != gstinLength {
		return GSTIN{}, ErrInvalidGSTIN.WithField("gstin")
	}
	if !gstinPattern.MatchString(normalized) {
		return GSTIN{}, ErrInvalidGSTIN.WithField("gstin")
	}
	if !IsValidStateCode(normalized[:2]) {
		return GSTIN{}, ErrInvalidGSTIN.WithField("gstin")
	}
	if computeCheckChar(normalized[:gstinLength-1]) != normalized[gstinLength-1] {
		return GSTIN{}, ErrInvalidGSTIN.WithField("gstin")
	}
	return GSTIN{value: normalized}, nil
}

// computeCheckChar derives the check character for the first 14 characters.
// Each character's base-36 value is multiplied by an alternating factor of
// 1 and 2, the product's base-36 digits are summed, and the check character
// is the value that brings the total to a multiple of 36.
func computeCheckChar(body string) byte {
	sum := 0
	for i := 0; i < len(body); i++ {
		v := strings.IndexByte(checksumAlphabet, body[i])
		factor := 1
		if i%2 == 1 {
			factor = 2
		}
		p := v * factor
		sum += p/36 + p%36
	}
	return checksumAlphabet[(36-sum%36)%36]
}

// String returns the canonical 15-character GSTIN
func (g GSTIN) String() string {
	return g.value
}

// IsZero reports whether the GSTIN is the zero value (unset)
func (g GSTIN) IsZero() bool {
	return g.value == ""
}

// StateCode returns the two-digit GST state code prefix
func (g GSTIN) StateCode() string {
	if g.IsZero() {
		return ""
	}
	return g.value[:2]
}

// StateName returns the state or union territory the GSTIN is registered in
func (g GSTIN) StateName() string {
	name, _ := StateName(g.StateCode())
	return name
}

// PAN returns the embedded 10-character Permanent Account Number
func (g GSTIN) PAN() string {
	if g.IsZero() {
		return ""
	}
	return g.value[2:12]
}

// EntityCode returns the registration sequence character for the PAN holder
func (g GSTIN) EntityCode() string {
	if g.IsZero() {
		return ""
	}
	return g.value[12:13]
}
