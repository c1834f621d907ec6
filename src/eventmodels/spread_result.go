package eventmodels

// SpreadResult is the fitted relationship between two aligned price series.
// Spread[i] = closeA[i] - Beta*closeB[i]. ZScores standardize the spread by the
// normalizer's mean and standard deviation; with whole sample normalization
// Mean and Std describe the entire series.
type SpreadResult struct {
	Beta    float64   `json:"beta"`
	Mean    float64   `json:"mean"`
	Std     float64   `json:"std"`
	Spread  []float64 `json:"spread"`
	ZScores []float64 `json:"z_scores"`
}

func (s *SpreadResult) Len() int {
	return len(s.Spread)
}
