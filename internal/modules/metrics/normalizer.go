package metrics

import (
	"math"
	"strconv"
	"strings"

	"github.com/aristath/readiness/internal/domain"
)

// Upstream column names of the processed-metrics table.
const (
	ColDate             = "date"
	ColHRV              = "hrv"
	ColRestingHR        = "resting_hr"
	ColSleepScore       = "sleep_score"
	ColSteps            = "steps"
	ColRecoveryIndex    = "recovery_index"
	ColMovementIndex    = "movement_index"
	ColHRVBaseline      = "hrv_baseline"
	ColRHRBaseline      = "rhr_baseline"
	ColRecoveryBaseline = "recovery_baseline"
	ColMovementBaseline = "movement_baseline"
	ColStepsBaseline    = "steps_baseline"
	ColLowHRV           = "low_hrv_flag"
	ColHighRHR          = "high_rhr_flag"
	ColLowSleep         = "low_sleep_flag"
	ColLowRecovery      = "low_recovery_flag"
	ColLowMovement      = "low_movement_flag"
	ColLowSteps         = "low_steps_flag"
	ColIsAnomalous      = "is_anomalous"
	ColAnomalySeverity  = "anomaly_severity"
	ColMetadata         = "_metadata"
	ColProcessedAt      = "processed_at"
)

// NormalizeRow converts an untyped result row into a MetricRow and computes its
// readiness score. It never fails: unusable cells degrade to nil, false or 0
// field by field and the rest of the row is kept.
//
// Missing anomaly flags read as false, not unknown. This is intentional.
func NormalizeRow(raw domain.RawRow) domain.MetricRow {
	row := domain.MetricRow{
		Date: cellString(raw[ColDate]),

		HRV:              cellNumber(raw[ColHRV]),
		RestingHeartRate: cellNumber(raw[ColRestingHR]),
		SleepScore:       cellNumber(raw[ColSleepScore]),
		Steps:            cellNumber(raw[ColSteps]),
		RecoveryIndex:    cellNumber(raw[ColRecoveryIndex]),
		MovementIndex:    cellNumber(raw[ColMovementIndex]),

		HRVBaseline:              cellNumber(raw[ColHRVBaseline]),
		RestingHeartRateBaseline: cellNumber(raw[ColRHRBaseline]),
		RecoveryBaseline:         cellNumber(raw[ColRecoveryBaseline]),
		MovementBaseline:         cellNumber(raw[ColMovementBaseline]),
		StepsBaseline:            cellNumber(raw[ColStepsBaseline]),

		LowHRV:               cellBool(raw[ColLowHRV]),
		HighRestingHeartRate: cellBool(raw[ColHighRHR]),
		LowSleep:             cellBool(raw[ColLowSleep]),
		LowRecovery:          cellBool(raw[ColLowRecovery]),
		LowMovement:          cellBool(raw[ColLowMovement]),
		LowSteps:             cellBool(raw[ColLowSteps]),
		IsAnomalous:          cellBool(raw[ColIsAnomalous]),

		MetadataRaw: cellString(raw[ColMetadata]),
		ProcessedAt: cellString(raw[ColProcessedAt]),
	}

	if sev := cellNumber(raw[ColAnomalySeverity]); sev != nil && *sev > 0 {
		row.AnomalySeverity = *sev
	}

	// Date columns sometimes come back as full timestamps.
	if len(row.Date) > 10 && row.Date[4] == '-' && row.Date[7] == '-' {
		row.Date = row.Date[:10]
	}

	if row.ProcessedAt == "" {
		row.ProcessedAt = domain.ParseMetadata(row.MetadataRaw)["processed_at"]
	}

	row.ReadinessScore = ReadinessScore(row)
	return row
}

// NormalizeRows normalizes a batch, preserving order.
func NormalizeRows(raw []domain.RawRow) []domain.MetricRow {
	rows := make([]domain.MetricRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, NormalizeRow(r))
	}
	return rows
}

func cellNumber(c domain.Cell) *float64 {
	var v float64
	switch c.Kind {
	case domain.CellDouble:
		v = c.Double
	case domain.CellInteger:
		v = float64(c.Int)
	case domain.CellString:
		s := strings.TrimSpace(c.Text)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		v = parsed
	default:
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func cellBool(c domain.Cell) bool {
	switch c.Kind {
	case domain.CellBoolean:
		return c.Bool
	case domain.CellInteger:
		return c.Int == 1
	case domain.CellDouble:
		return c.Double == 1
	case domain.CellString:
		s := strings.TrimSpace(c.Text)
		return strings.EqualFold(s, "true") || s == "1"
	}
	return false
}

func cellString(c domain.Cell) string {
	return c.String()
}
