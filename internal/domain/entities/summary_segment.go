package entities

// SummarySegment is one excerpt of the source video chosen for the summary.
// Importance is used for reporting only and never for output ordering.
type SummarySegment struct {
	StartTime  float64 `json:"start_time" validate:"gte=0"`
	EndTime    float64 `json:"end_time" validate:"gtfield=StartTime"`
	Importance int     `json:"importance" validate:"min=1,max=10"`
	Topic      string  `json:"topic" validate:"required"`
	Reason     string  `json:"reason"`
}

// Duration returns the length of the excerpt in seconds
func (s SummarySegment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// TotalDuration sums the lengths of all segments
func TotalDuration(segments []SummarySegment) float64 {
	var total float64
	for _, s := range segments {
		total += s.Duration()
	}
	return total
}
