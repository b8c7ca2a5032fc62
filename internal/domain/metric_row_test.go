package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectIDFromJSON(t *testing.T) {
	row := MetricRow{MetadataRaw: `{"patient_id":"someone@example.com","source":"lambda_process_metrics"}`}
	assert.Equal(t, "someone@example.com", row.SubjectID())
}

func TestSubjectIDFromStructRendering(t *testing.T) {
	row := MetricRow{MetadataRaw: "{patient_id=abc123, date=2024-01-02, processed_at=2024-01-03T01:00:00}"}
	assert.Equal(t, "abc123", row.SubjectID())
}

func TestSubjectIDDefensive(t *testing.T) {
	for _, raw := range []string{"", "garbage", "{}", `{"patient_id": 12}`, "[1,2]"} {
		assert.Equal(t, "", MetricRow{MetadataRaw: raw}.SubjectID(), raw)
	}
}

func TestValueReadinessScore(t *testing.T) {
	score := 72
	row := MetricRow{ReadinessScore: &score}
	v := row.Value(MetricReadinessScore)
	if assert.NotNil(t, v) {
		assert.Equal(t, 72.0, *v)
	}
	assert.Nil(t, MetricRow{}.Value(MetricHRV))
}

func TestLowerIsBetter(t *testing.T) {
	assert.True(t, MetricRestingHeartRate.LowerIsBetter())
	assert.False(t, MetricHRV.LowerIsBetter())
}

func TestCloneSharesNoPointers(t *testing.T) {
	hrv, steps, score := 55.0, 8000.0, 72
	row := MetricRow{Date: "2024-01-01", HRV: &hrv, Steps: &steps, ReadinessScore: &score}

	clone := row.Clone()
	*clone.HRV = 0
	*clone.Steps = 0
	*clone.ReadinessScore = 0

	assert.Equal(t, 55.0, *row.HRV)
	assert.Equal(t, 8000.0, *row.Steps)
	assert.Equal(t, 72, *row.ReadinessScore)
	assert.Nil(t, clone.SleepScore)
	assert.Equal(t, "2024-01-01", clone.Date)
}
