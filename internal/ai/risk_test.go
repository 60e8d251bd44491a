package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScorerSelectsBackend(t *testing.T) {
	assert.IsType(t, &heuristicScorer{}, NewScorer("", ""))
	assert.IsType(t, &openaiScorer{}, NewScorer("sk-test", ""))
}

func TestHeuristicScorer(t *testing.T) {
	s := &heuristicScorer{}

	// local vendor with questionnaire and country: baseline only
	res, err := s.Score(context.Background(), RiskInput{
		VendorName:    "Acme Trading LLC",
		Country:       "SA",
		VendorType:    "local",
		Questionnaire: `{"q1": true}`,
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Score)
	assert.Equal(t, "Low", res.Level)
	assert.Empty(t, res.TopRiskDrivers)

	// international vendor with no questionnaire and no country maxes the rubric
	res, err = s.Score(context.Background(), RiskInput{
		VendorName: "Offshore Holdings",
		VendorType: "international",
	})
	require.NoError(t, err)
	assert.Equal(t, 75.0, res.Score)
	assert.Equal(t, "High", res.Level)
	assert.Len(t, res.TopRiskDrivers, 3)
	assert.Equal(t, "Low", res.ConfidenceLevel)
	assert.NotZero(t, res.AssessedAt)
}
