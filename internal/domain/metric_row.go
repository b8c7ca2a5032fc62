package domain

import (
	"encoding/json"
	"strings"
)

// MetricRow is one calendar day of the subject's metrics.
// Nil pointers mean "no signal for this day", distinct from zero.
type MetricRow struct {
	Date string `json:"date"`

	HRV              *float64 `json:"hrv"`
	RestingHeartRate *float64 `json:"restingHeartRate"`
	SleepScore       *float64 `json:"sleepScore"`
	Steps            *float64 `json:"steps"`
	RecoveryIndex    *float64 `json:"recoveryIndex"`
	MovementIndex    *float64 `json:"movementIndex"`

	HRVBaseline              *float64 `json:"hrvBaseline"`
	RestingHeartRateBaseline *float64 `json:"restingHeartRateBaseline"`
	RecoveryBaseline         *float64 `json:"recoveryBaseline"`
	MovementBaseline         *float64 `json:"movementBaseline"`
	StepsBaseline            *float64 `json:"stepsBaseline"`

	LowHRV               bool    `json:"lowHrv"`
	HighRestingHeartRate bool    `json:"highRestingHeartRate"`
	LowSleep             bool    `json:"lowSleep"`
	LowRecovery          bool    `json:"lowRecovery"`
	LowMovement          bool    `json:"lowMovement"`
	LowSteps             bool    `json:"lowSteps"`
	IsAnomalous          bool    `json:"isAnomalous"`
	AnomalySeverity      float64 `json:"anomalySeverity"`

	ReadinessScore *int `json:"readinessScore"`

	MetadataRaw string `json:"metadataRaw"`
	ProcessedAt string `json:"processedAt"`
}

// Clone returns a copy that shares no pointers with r.
func (r MetricRow) Clone() MetricRow {
	out := r
	for _, p := range []**float64{
		&out.HRV, &out.RestingHeartRate, &out.SleepScore, &out.Steps,
		&out.RecoveryIndex, &out.MovementIndex,
		&out.HRVBaseline, &out.RestingHeartRateBaseline, &out.RecoveryBaseline,
		&out.MovementBaseline, &out.StepsBaseline,
	} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	if out.ReadinessScore != nil {
		v := *out.ReadinessScore
		out.ReadinessScore = &v
	}
	return out
}

// Metric names a numeric field of MetricRow.
type Metric string

const (
	MetricHRV              Metric = "hrv"
	MetricRestingHeartRate Metric = "restingHeartRate"
	MetricSleepScore       Metric = "sleepScore"
	MetricSteps            Metric = "steps"
	MetricRecoveryIndex    Metric = "recoveryIndex"
	MetricMovementIndex    Metric = "movementIndex"
	MetricReadinessScore   Metric = "readinessScore"
)

// AllMetrics lists every metric trend analysis reports on.
var AllMetrics = []Metric{
	MetricHRV,
	MetricRestingHeartRate,
	MetricSleepScore,
	MetricSteps,
	MetricRecoveryIndex,
	MetricMovementIndex,
	MetricReadinessScore,
}

// LowerIsBetter reports the polarity of a metric.
func (m Metric) LowerIsBetter() bool {
	return m == MetricRestingHeartRate
}

// Value returns the row's value for m, or nil.
func (r MetricRow) Value(m Metric) *float64 {
	switch m {
	case MetricHRV:
		return r.HRV
	case MetricRestingHeartRate:
		return r.RestingHeartRate
	case MetricSleepScore:
		return r.SleepScore
	case MetricSteps:
		return r.Steps
	case MetricRecoveryIndex:
		return r.RecoveryIndex
	case MetricMovementIndex:
		return r.MovementIndex
	case MetricReadinessScore:
		if r.ReadinessScore == nil {
			return nil
		}
		v := float64(*r.ReadinessScore)
		return &v
	}
	return nil
}

// SubjectID extracts the subject identity from MetadataRaw.
// Accepts a JSON object or the key=value struct rendering produced by the
// query engine. Returns "" when nothing usable is found.
func (r MetricRow) SubjectID() string {
	meta := ParseMetadata(r.MetadataRaw)
	if id := meta["patient_id"]; id != "" {
		return id
	}
	return meta["subject_id"]
}

// ParseMetadata parses the opaque metadata string into flat string pairs.
// Never fails; unparseable input yields an empty map.
func ParseMetadata(raw string) map[string]string {
	out := map[string]string{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		for k, v := range obj {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
		return out
	}

	// {patient_id=abc, date=2024-01-02, processed_at=...}
	body := strings.TrimSuffix(strings.TrimPrefix(raw, "{"), "}")
	for _, part := range strings.Split(body, ",") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}
