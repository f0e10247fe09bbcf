package classifier

// labelScore is one entry of the image-classification response.
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// apiError is the error body returned by the inference endpoint.
type apiError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"` // Present while the model is loading
}
