package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeServiceType_Aliases(t *testing.T) {
	assert.Equal(t, ServiceCategoryLTL, NormalizeServiceType("LTL"))
	assert.Equal(t, ServiceCategoryLTL, NormalizeServiceType("Less-Than-Truckload"))
	assert.Equal(t, ServiceCategoryFTL, NormalizeServiceType("Full Truckload"))
	assert.Equal(t, ServiceCategoryOcean, NormalizeServiceType("ocean FCL"))
	assert.Equal(t, ServiceCategoryAir, NormalizeServiceType("  Air Freight "))
	assert.Equal(t, ServiceCategoryCourier, NormalizeServiceType("parcel"))
}

func TestNormalizeServiceType_TokenFallback(t *testing.T) {
	assert.Equal(t, ServiceCategoryLTL, NormalizeServiceType("ltl freight shipment"))
	assert.Equal(t, ServiceCategoryRail, NormalizeServiceType("domestic intermodal move"))
}

func TestNormalizeServiceType_Unknown(t *testing.T) {
	assert.Equal(t, ServiceCategoryUnknown, NormalizeServiceType(""))
	assert.Equal(t, ServiceCategoryUnknown, NormalizeServiceType("pigeon post"))
}
