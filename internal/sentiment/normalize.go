package sentiment

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Labels is the canonical emotion order used for every chart.
var Labels = [8]string{"Joy", "Anger", "Sadness", "Fear", "Neutral", "Surprise", "Disgust", "Love"}

// Colors are the slice colours, index-aligned with Labels.
var Colors = [8]string{"#ffcc00", "#ff6666", "#6699ff", "#ff9966", "#cccccc", "#99cc33", "#ff3333", "#ff66cc"}

// Vector holds one score per canonical label.
type Vector [8]float64

// Scores is the emotion mapping as sent by the backend, keyed by lowercase
// emotion name.
type Scores map[string]float64

// UnmarshalJSON decodes a score object, dropping entries whose value is not a
// number. Numeric strings are accepted. A null or non-object payload decodes
// to a nil map instead of failing the whole response.
func (s *Scores) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		*s = nil
		return nil
	}

	out := make(Scores, len(raw))
	for key, value := range raw {
		if v, ok := parseScore(value); ok {
			out[key] = v
		}
	}
	*s = out
	return nil
}

func parseScore(value json.RawMessage) (float64, bool) {
	value = bytes.TrimSpace(value)
	if bytes.Equal(value, []byte("null")) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(value, &f); err == nil {
		return f, true
	}
	var str string
	if err := json.Unmarshal(value, &str); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Normalize maps scores onto the canonical label order. Missing labels, a nil
// map and non-finite values all become 0.
func Normalize(scores Scores) Vector {
	var v Vector
	for i, label := range Labels {
		score, ok := scores[strings.ToLower(label)]
		if !ok || math.IsNaN(score) || math.IsInf(score, 0) {
			continue
		}
		v[i] = score
	}
	return v
}

// Slice is one chart segment.
type Slice struct {
	Label string
	Color string
	Value float64
	Share float64 // Value relative to the vector total, 0 when the total is 0
}

// Slices pairs each value with its label and colour in canonical order.
// Negative values count as 0 when computing shares.
func Slices(v Vector) []Slice {
	total := 0.0
	for _, value := range v {
		if value > 0 {
			total += value
		}
	}

	slices := make([]Slice, len(v))
	for i, value := range v {
		slices[i] = Slice{Label: Labels[i], Color: Colors[i], Value: value}
		if total > 0 && value > 0 {
			slices[i].Share = value / total
		}
	}
	return slices
}

// Dominant returns the label with the highest score. ok is false when every
// score is 0 or below.
func Dominant(v Vector) (label string, ok bool) {
	best := 0.0
	for i, value := range v {
		if value > best {
			best = value
			label = Labels[i]
			ok = true
		}
	}
	return label, ok
}

// Overall classifies a vector as positive, negative or neutral by comparing
// joy against the sum of anger, sadness, fear and disgust. A joy score close
// to one half, or an all-zero vector, is neutral.
func Overall(v Vector) string {
	joy := v[0]
	negative := v[1] + v[2] + v[3] + v[6]
	switch {
	case joy == 0 && negative == 0:
		return "neutral"
	case joy >= 0.495 && joy <= 0.509:
		return "neutral"
	case joy > negative:
		return "positive"
	default:
		return "negative"
	}
}
