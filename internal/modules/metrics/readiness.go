package metrics

import (
	"math"

	"github.com/aristath/readiness/internal/domain"
)

// Component weights of the readiness score.
const (
	weightHRV      = 0.25
	weightSleep    = 0.25
	weightRecovery = 0.20
	weightRHR      = 0.15
	weightActivity = 0.10

	// stepsTarget is the daily step count treated as a full activity score
	// when no movement index is available.
	stepsTarget = 15000.0

	minReadinessComponents = 2
)

type scoreComponent struct {
	score  float64
	weight float64
}

// ReadinessScore computes the 0-100 composite readiness for a row from its six
// raw fields. Returns nil when fewer than two components carry a signal: a
// single metric is not enough to claim a composite score.
func ReadinessScore(row domain.MetricRow) *int {
	components := make([]scoreComponent, 0, 5)

	if v, ok := finite(row.HRV); ok {
		components = append(components, scoreComponent{clamp01((v-20)/80) * 100, weightHRV})
	}
	if v, ok := finite(row.SleepScore); ok {
		components = append(components, scoreComponent{v, weightSleep})
	}
	if v, ok := finite(row.RecoveryIndex); ok {
		components = append(components, scoreComponent{v, weightRecovery})
	}
	if v, ok := finite(row.RestingHeartRate); ok {
		components = append(components, scoreComponent{clamp01((90-v)/50) * 100, weightRHR})
	}
	if v, ok := finite(row.MovementIndex); ok {
		components = append(components, scoreComponent{v, weightActivity})
	} else if v, ok := finite(row.Steps); ok {
		components = append(components, scoreComponent{v / stepsTarget * 100, weightActivity})
	}

	if len(components) < minReadinessComponents {
		return nil
	}

	var weighted, totalWeight float64
	for _, c := range components {
		weighted += c.score * c.weight
		totalWeight += c.weight
	}

	score := int(math.Round(weighted / totalWeight))
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	return &score
}

func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}

func finite(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}
