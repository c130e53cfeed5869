package pipeline

import (
	"predictd/internal/model"
	"predictd/pkg/types"
)

// columns is the feature order the artifact was exported with. Changing it
// silently changes predictions.
var columns = [...]string{"accelerationY", "accelerationZ", "speedv", "unixTimestamp", "latitude", "longitude"}

// Columns returns the matrix column names in order.
func Columns() []string { return append([]string(nil), columns[:]...) }

// Coerce converts a float field value to the matrix element type.
func Coerce(v float64) float32 { return float32(v) }

// CoerceTimestamp converts an integer timestamp to the matrix element type
// with a plain cast. No scaling is applied; values above 2^24 lose precision.
func CoerceTimestamp(ts int64) float32 { return float32(ts) }

type field struct {
	name    string
	present bool
	n       int
	at      func(i int) float32
}

func floatField(name string, vs []float64) field {
	return field{name: name, present: vs != nil, n: len(vs), at: func(i int) float32 { return Coerce(vs[i]) }}
}

// fields lists the request fields in column order. Struct field order and
// JSON key order play no part.
func fields(req types.PredictionRequest) [len(columns)]field {
	ts := req.UnixTimestamp
	return [len(columns)]field{
		floatField(columns[0], req.AccelerationY),
		floatField(columns[1], req.AccelerationZ),
		floatField(columns[2], req.SpeedV),
		{name: columns[3], present: ts != nil, n: len(ts), at: func(i int) float32 { return CoerceTimestamp(ts[i]) }},
		floatField(columns[4], req.Latitude),
		floatField(columns[5], req.Longitude),
	}
}

// Validate checks that every field is present, that all fields have the
// same length and that the batch is not empty. It never truncates or pads.
func Validate(req types.PredictionRequest) error {
	_, err := validate(fields(req))
	return err
}

func validate(fs [len(columns)]field) (int, error) {
	for _, f := range fs {
		if !f.present {
			return 0, &ValidationError{Field: f.name, Msg: "field required"}
		}
	}
	n := fs[0].n
	for _, f := range fs[1:] {
		if f.n != n {
			lengths := make([]FieldLength, 0, len(fs))
			for _, g := range fs {
				lengths = append(lengths, FieldLength{Field: g.name, Length: g.n})
			}
			return 0, &ValidationError{Field: f.name, Msg: "all fields must have the same length", Lengths: lengths}
		}
	}
	if n == 0 {
		return 0, &ValidationError{Msg: "request must contain at least one row"}
	}
	return n, nil
}

// Assemble validates req and builds the N x 6 feature matrix.
func Assemble(req types.PredictionRequest) (model.Matrix, error) {
	fs := fields(req)
	n, err := validate(fs)
	if err != nil {
		return model.Matrix{}, err
	}
	m := model.NewMatrix(n, len(fs))
	for j, f := range fs {
		for i := 0; i < n; i++ {
			m.Set(i, j, f.at(i))
		}
	}
	return m, nil
}
