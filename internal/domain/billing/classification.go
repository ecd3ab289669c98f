package billing

import (
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/domain/tax"
)

// Bucket is the statutory reporting category of an outward supply
type Bucket string

const (
	// BucketB2B covers supplies to a counterparty with a valid registration
	BucketB2B Bucket = "B2B"
	// BucketB2CL covers inter-state supplies to unregistered counterparties
	// above the large-invoice threshold
	BucketB2CL Bucket = "B2CL"
	// BucketB2CS covers all remaining unregistered supplies
	BucketB2CS Bucket = "B2CS"
)

// IsValid checks if the bucket is a known reporting category
func (b Bucket) IsValid() bool {
	return b == BucketB2B || b == BucketB2CL || b == BucketB2CS
}

// String returns the string representation
func (b Bucket) String() string {
	return string(b)
}

// Buckets returns the reporting categories in statutory order
func Buckets() []Bucket {
	return []Bucket{BucketB2B, BucketB2CL, BucketB2CS}
}

// Classify buckets an outward supply. A registered counterparty always
// lands in B2B regardless of value. Unregistered inter-state supplies go
// to B2CL only when the invoice taxable value strictly exceeds the
// threshold; everything else is B2CS.
func Classify(registered bool, supplyType tax.SupplyType, taxableValue, threshold valueobject.Money) (Bucket, error) {
	if !supplyType.IsValid() {
		return "", shared.ErrUnclassifiable
	}
	if registered {
		return BucketB2B, nil
	}
	if supplyType == tax.SupplyInterState {
		large, err := taxableValue.GreaterThan(threshold)
		if err != nil {
			return "", err
		}
		if large {
			return BucketB2CL, nil
		}
	}
	return BucketB2CS, nil
}
