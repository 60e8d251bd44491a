package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyOutsourcing(t *testing.T) {
	// cloud wins over everything else
	assert.Equal(t, ClassificationCloud, ClassifyOutsourcing(OutsourcingQuestionnaire{
		A5CloudHosted:     true,
		A3IsInsourcing:    true,
		A4Utilities:       true,
		A1ContinuingBasis: true,
	}))

	// exempted categories beat insourcing and outsourcing
	assert.Equal(t, ClassificationExempted, ClassifyOutsourcing(OutsourcingQuestionnaire{
		A4MarketDataProviders: true,
		A3IsInsourcing:        true,
	}))
	assert.Equal(t, ClassificationExempted, ClassifyOutsourcing(OutsourcingQuestionnaire{
		A4ClearingSettlement: true,
	}))

	assert.Equal(t, ClassificationInsourcing, ClassifyOutsourcing(OutsourcingQuestionnaire{
		A3IsInsourcing:       true,
		A1ContinuingBasis:    true,
		A2CouldBeDoneInHouse: true,
	}))

	// outsourcing needs both A1 and A2
	assert.Equal(t, ClassificationOutsourcing, ClassifyOutsourcing(OutsourcingQuestionnaire{
		A1ContinuingBasis:    true,
		A2CouldBeDoneInHouse: true,
	}))
	assert.Equal(t, ClassificationNotOutsourcing, ClassifyOutsourcing(OutsourcingQuestionnaire{
		A1ContinuingBasis: true,
	}))
	assert.Equal(t, ClassificationNotOutsourcing, ClassifyOutsourcing(OutsourcingQuestionnaire{}))
}

func TestNOCRequired(t *testing.T) {
	// cloud classification always requires NOC
	assert.True(t, NOCRequired(OutsourcingQuestionnaire{}, ClassificationCloud, VendorTypeLocal))

	// non-outsourcing classifications never do
	assert.False(t, NOCRequired(OutsourcingQuestionnaire{B1DataProcessing: true}, ClassificationExempted, VendorTypeInternational))
	assert.False(t, NOCRequired(OutsourcingQuestionnaire{B1DataProcessing: true}, ClassificationNotOutsourcing, VendorTypeInternational))

	// outsourcing + international vendor requires NOC regardless of Section B
	assert.True(t, NOCRequired(OutsourcingQuestionnaire{}, ClassificationOutsourcing, VendorTypeInternational))

	// outsourcing + local vendor depends on Section B answers
	assert.False(t, NOCRequired(OutsourcingQuestionnaire{}, ClassificationOutsourcing, VendorTypeLocal))
	assert.True(t, NOCRequired(OutsourcingQuestionnaire{B5PaymentSystems: true}, ClassificationOutsourcing, VendorTypeLocal))
	assert.True(t, NOCRequired(OutsourcingQuestionnaire{B7TreasuryTrading: true}, ClassificationOutsourcing, VendorTypeLocal))
}

func TestRiskCategoryFromScore(t *testing.T) {
	assert.Equal(t, RiskLow, RiskCategoryFromScore(0))
	assert.Equal(t, RiskLow, RiskCategoryFromScore(24.9))
	assert.Equal(t, RiskMedium, RiskCategoryFromScore(25))
	assert.Equal(t, RiskMedium, RiskCategoryFromScore(49.9))
	assert.Equal(t, RiskHigh, RiskCategoryFromScore(50))
	assert.Equal(t, RiskHigh, RiskCategoryFromScore(74.9))
	assert.Equal(t, RiskVeryHigh, RiskCategoryFromScore(75))
	assert.Equal(t, RiskVeryHigh, RiskCategoryFromScore(100))
}
