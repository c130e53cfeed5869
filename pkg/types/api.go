package types

// PredictionRequest is the body of POST /predict. Each field holds one
// value per observation; row i of the batch is the i-th element of every
// field. A field that is absent or null decodes to nil; a null element is
// rejected with a *FieldError (see UnmarshalJSON).
type PredictionRequest struct {
	// Lateral acceleration samples.
	// example: [1.0]
	AccelerationY []float64 `json:"accelerationY" example:"1.0"`
	// Vertical acceleration samples.
	// example: [2.0]
	AccelerationZ []float64 `json:"accelerationZ" example:"2.0"`
	// Speed samples. The wire name is lowercase "speedv".
	// example: [3.0]
	SpeedV []float64 `json:"speedv" example:"3.0"`
	// Sample times as integer unix timestamps.
	// example: [1000]
	UnixTimestamp []int64 `json:"unixTimestamp" example:"1000"`
	// Latitude in decimal degrees.
	// example: [10.5]
	Latitude []float64 `json:"latitude" example:"10.5"`
	// Longitude in decimal degrees.
	// example: [20.5]
	Longitude []float64 `json:"longitude" example:"20.5"`
}

// PredictionResponse is returned by POST /predict on success.
type PredictionResponse struct {
	// Raw model outputs, one inner array per input row, in input order.
	Predictions [][]float32 `json:"predictions"`
}

// ErrorResponse is the JSON error payload for every failed request.
type ErrorResponse struct {
	// Human-readable cause.
	// example: Prediction error: input matrix has no rows
	Detail string `json:"detail" example:"Prediction error: input matrix has no rows"`
}

// InfoResponse is returned by GET /.
type InfoResponse struct {
	// example: ONNX Model Prediction API
	Message string `json:"message" example:"ONNX Model Prediction API"`
}
