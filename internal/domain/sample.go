package domain

import "time"

// AxisTimeLayout is the wall-clock layout used on chart time axes.
const AxisTimeLayout = "15:04:05"

// Sample is one tick of simulated emission telemetry.
type Sample struct {
	Seq       uint64             `json:"seq"`
	Timestamp time.Time          `json:"ts"`
	Time      string             `json:"time"`
	Values    map[string]float64 `json:"values"`
}

// NewSample stamps values with the capture time and its axis label.
func NewSample(seq uint64, ts time.Time, values map[string]float64) Sample {
	return Sample{
		Seq:       seq,
		Timestamp: ts,
		Time:      ts.Format(AxisTimeLayout),
		Values:    values,
	}
}

// Value returns the channel value, or fallback when the channel is absent.
func (s Sample) Value(channel string, fallback float64) float64 {
	if v, ok := s.Values[channel]; ok {
		return v
	}
	return fallback
}

// Clone returns a copy that does not share the values map.
func (s Sample) Clone() Sample {
	out := s
	if s.Values != nil {
		out.Values = make(map[string]float64, len(s.Values))
		for k, v := range s.Values {
			out.Values[k] = v
		}
	}
	return out
}
