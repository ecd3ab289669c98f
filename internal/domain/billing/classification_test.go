package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/domain/tax"
)

func TestClassify(t *testing.T) {
	threshold := valueobject.NewMoneyINRFromFloat(250000)

	t.Run("registered counterparty is B2B regardless of value", func(t *testing.T) {
		bucket, err := Classify(true, tax.SupplyIntraState, valueobject.NewMoneyINRFromFloat(10), threshold)
		require.NoError(t, err)
		assert.Equal(t, BucketB2B, bucket)

		bucket, err = Classify(true, tax.SupplyInterState, valueobject.NewMoneyINRFromFloat(1000000), threshold)
		require.NoError(t, err)
		assert.Equal(t, BucketB2B, bucket)
	})

	t.Run("large unregistered inter-state is B2CL only above threshold", func(t *testing.T) {
		bucket, err := Classify(false, tax.SupplyInterState, valueobject.NewMoneyINRFromFloat(250000.01), threshold)
		require.NoError(t, err)
		assert.Equal(t, BucketB2CL, bucket)
	})

	t.Run("exactly the threshold stays B2CS", func(t *testing.T) {
		bucket, err := Classify(false, tax.SupplyInterState, valueobject.NewMoneyINRFromFloat(250000.00), threshold)
		require.NoError(t, err)
		assert.Equal(t, BucketB2CS, bucket)
	})

	t.Run("unregistered intra-state is always B2CS", func(t *testing.T) {
		bucket, err := Classify(false, tax.SupplyIntraState, valueobject.NewMoneyINRFromFloat(900000), threshold)
		require.NoError(t, err)
		assert.Equal(t, BucketB2CS, bucket)
	})

	t.Run("rejects unknown supply type", func(t *testing.T) {
		_, err := Classify(false, tax.SupplyType(""), valueobject.NewMoneyINRFromFloat(100), threshold)
		assert.Error(t, err)
	})
}
