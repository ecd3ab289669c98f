package tax

import "github.com/finbooks/backend/internal/domain/shared"

// SupplyType identifies the jurisdiction of a supply under GST
type SupplyType string

const (
	SupplyIntraState SupplyType = "INTRA_STATE" // CGST + SGST apply
	SupplyInterState SupplyType = "INTER_STATE" // IGST applies
)

// IsValid checks if the supply type is valid
func (s SupplyType) IsValid() bool {
	return s == SupplyIntraState || s == SupplyInterState
}

// String returns the string representation
func (s SupplyType) String() string {
	return string(s)
}

// ResolveJurisdiction determines the supply type for a transaction.
// A valid counterparty GSTIN takes precedence: its state code is the
// place of supply. Without one, the explicitly recorded place of supply
// is used. With neither, the transaction cannot be classified and an
// error is returned rather than a guessed default.
func ResolveJurisdiction(orgStateCode string, counterparty GSTIN, placeOfSupply string) (SupplyType, error) {
	if !counterparty.IsZero() {
		return ResolveSupplyType(orgStateCode, counterparty.StateCode())
	}
	if placeOfSupply != "" {
		return ResolveSupplyType(orgStateCode, placeOfSupply)
	}
	return "", shared.ErrUnclassifiable
}

// ResolveSupplyType determines whether a supply is intra-state or
// inter-state by comparing the supplier's state code with the place
// of supply. Both codes must be recognised GST state codes.
func ResolveSupplyType(supplierStateCode, placeOfSupplyCode string) (SupplyType, error) {
	if !IsValidStateCode(supplierStateCode) {
		return "", ErrInvalidStateCode.WithField("supplier_state_code")
	}
	if !IsValidStateCode(placeOfSupplyCode) {
		return "", ErrInvalidStateCode.WithField("place_of_supply")
	}
	if supplierStateCode == placeOfSupplyCode {
		return SupplyIntraState, nil
	}
	return SupplyInterState, nil
}
