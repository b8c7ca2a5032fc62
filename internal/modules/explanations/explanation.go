// Package explanations looks up the daily natural-language explanation written
// by the upstream pipeline for the tracked subject.
package explanations

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/aristath/readiness/internal/domain"
)

// Explanation is the presentation shape of one day's artifact.
type Explanation struct {
	Date           string                 `json:"date" msgpack:"date"`
	Explanation    string                 `json:"explanation" msgpack:"explanation"`
	Insights       []string               `json:"insights" msgpack:"insights"`
	Flags          []string               `json:"flags" msgpack:"flags"`
	MetricsSummary map[string]interface{} `json:"metricsSummary,omitempty" msgpack:"metrics_summary,omitempty"`
	GeneratedAt    string                 `json:"generatedAt,omitempty" msgpack:"generated_at,omitempty"`
}

// Upstream writers have used several names for the same content; first match wins.
var (
	explanationKeys = []string{"explanation", "text", "content"}
	insightKeys     = []string{"insights", "summary"}
	flagKeys        = []string{"flags", "anomaly_flags"}
)

// Parse decodes an artifact body. The body must be a JSON object; every field
// inside it is optional.
func Parse(date string, body []byte) (*Explanation, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil || doc == nil {
		if err == nil {
			err = errNotObject
		}
		return nil, domain.NewParseError("explanation for "+date+" is not a JSON object", err)
	}

	e := &Explanation{
		Date:        date,
		Explanation: firstString(doc, explanationKeys),
		Insights:    firstList(doc, insightKeys),
		Flags:       firstList(doc, flagKeys),
	}

	if raw, ok := doc["metrics_summary"]; ok {
		var summary map[string]interface{}
		if json.Unmarshal(raw, &summary) == nil && len(summary) > 0 {
			e.MetricsSummary = summary
		}
	}
	if raw, ok := doc["_metadata"]; ok {
		var meta struct {
			GeneratedAt string `json:"generated_at"`
		}
		if json.Unmarshal(raw, &meta) == nil {
			e.GeneratedAt = meta.GeneratedAt
		}
	}
	return e, nil
}

var errNotObject = errors.New("top-level value is not an object")

func firstString(doc map[string]json.RawMessage, keys []string) string {
	for _, k := range keys {
		raw, ok := doc[k]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstList accepts a string array or a single string. Non-string elements are dropped.
func firstList(doc map[string]json.RawMessage, keys []string) []string {
	for _, k := range keys {
		raw, ok := doc[k]
		if !ok {
			continue
		}

		var single string
		if json.Unmarshal(raw, &single) == nil {
			if single = strings.TrimSpace(single); single != "" {
				return []string{single}
			}
			continue
		}

		var items []interface{}
		if json.Unmarshal(raw, &items) != nil {
			continue
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return []string{}
}
