package evaluator

import (
	"encoding/json"
	"strings"
)

// Result is the strongly-typed view of an evaluator response. Absent fields
// stay nil/empty; the raw payload is always retained for diagnostics.
type Result struct {
	OverallScore         *float64
	Scores               map[string]float64
	FeedbackStrengths    string
	FeedbackImprovements string
	FeedbackSuggestions  string
	Summary              string
	Raw                  map[string]any
}

// Normalize maps a raw evaluator payload to a Result. Evaluator responses are
// schematically inconsistent across versions, so each field is probed through
// an ordered list of candidate keys.
func Normalize(raw map[string]any) Result {
	if raw == nil {
		raw = map[string]any{}
	}

	// Some evaluator versions nest everything under "result" or "analysis".
	body := raw
	for _, key := range []string{"result", "analysis"} {
		if nested, ok := raw[key].(map[string]any); ok {
			body = nested
			break
		}
	}

	result := Result{
		OverallScore: firstNumber(body, "overall_score", "total_weighted_score", "total_score", "score"),
		Scores:       firstScoreMap(body, "scores", "scores_breakdown", "evaluation_scores"),
		Summary:      firstString(body, "summary", "overall_summary", "workflow_overall"),
		Raw:          raw,
	}

	if feedback, ok := body["feedback"].(map[string]any); ok {
		result.FeedbackStrengths = joinedList(feedback, "strengths")
		result.FeedbackImprovements = joinedList(feedback, "improvements")
		result.FeedbackSuggestions = joinedList(feedback, "suggestions")
	}
	if result.FeedbackStrengths == "" {
		result.FeedbackStrengths = firstString(body, "feedback_positive")
	}
	if result.FeedbackImprovements == "" {
		result.FeedbackImprovements = firstString(body, "feedback_criticism")
	}
	if result.FeedbackSuggestions == "" {
		result.FeedbackSuggestions = firstString(body, "feedback_suggestions")
	}

	return result
}

// RawScoreTotal sums the sub-scores; used for the judge-facing summary.
func (r Result) RawScoreTotal() float64 {
	var total float64
	for _, score := range r.Scores {
		total += score
	}
	return total
}

func firstNumber(raw map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		if value, ok := asNumber(raw[key]); ok {
			return &value
		}
	}
	return nil
}

func firstScoreMap(raw map[string]any, keys ...string) map[string]float64 {
	for _, key := range keys {
		nested, ok := raw[key].(map[string]any)
		if !ok {
			continue
		}
		scores := make(map[string]float64, len(nested))
		for name, value := range nested {
			if number, ok := asNumber(value); ok {
				scores[name] = number
			}
		}
		if len(scores) > 0 {
			return scores
		}
	}
	return nil
}

func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := raw[key].(string); ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func joinedList(raw map[string]any, key string) string {
	items, ok := raw[key].([]any)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := item.(string); ok && strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, ". ")
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
