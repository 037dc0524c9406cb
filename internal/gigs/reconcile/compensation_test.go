package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCompensation_RateOnly(t *testing.T) {
	rate, fee := NormalizeCompensation(CompRate, "45.50")
	require.NotNil(t, rate)
	assert.Equal(t, int64(4550), *rate)
	assert.Nil(t, fee)
}

func TestNormalizeCompensation_FeeOnly(t *testing.T) {
	rate, fee := NormalizeCompensation(CompFee, "300")
	require.NotNil(t, fee)
	assert.Equal(t, int64(30000), *fee)
	assert.Nil(t, rate)
}

func TestNormalizeCompensation_EmptyAmountIsNullBoth(t *testing.T) {
	rate, fee := NormalizeCompensation(CompRate, "")
	assert.Nil(t, rate)
	assert.Nil(t, fee)
}

func TestNormalizeCompensation_NonNumericIsNullBoth(t *testing.T) {
	rate, fee := NormalizeCompensation(CompFee, "a lot")
	assert.Nil(t, rate)
	assert.Nil(t, fee)
}

func TestNormalizeCompensation_NegativeIsNullBoth(t *testing.T) {
	rate, fee := NormalizeCompensation(CompRate, "-10")
	assert.Nil(t, rate)
	assert.Nil(t, fee)
}

func TestNormalizeCompensation_UnknownTypeFallsBackToRate(t *testing.T) {
	rate, fee := NormalizeCompensation("salary", "100")
	require.NotNil(t, rate)
	assert.Equal(t, int64(10000), *rate)
	assert.Nil(t, fee)
}
