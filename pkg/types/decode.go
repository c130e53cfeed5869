package types

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
)

// FieldError reports a malformed element inside a request field.
type FieldError struct {
	Field string
	Index int
	Msg   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: element %d %s", e.Field, e.Index, e.Msg)
}

// StatusCode implements httpapi.HTTPError.
func (e *FieldError) StatusCode() int { return http.StatusUnprocessableEntity }

// UnmarshalJSON rejects null elements, which plain slices would keep as
// zeros. Timestamps accept integral numbers in any notation (1000, 1000.0,
// 1e3) and reject fractional ones.
func (r *PredictionRequest) UnmarshalJSON(b []byte) error {
	var raw struct {
		AccelerationY []*float64     `json:"accelerationY"`
		AccelerationZ []*float64     `json:"accelerationZ"`
		SpeedV        []*float64     `json:"speedv"`
		UnixTimestamp []*json.Number `json:"unixTimestamp"`
		Latitude      []*float64     `json:"latitude"`
		Longitude     []*float64     `json:"longitude"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out PredictionRequest
	var err error
	if out.AccelerationY, err = floats("accelerationY", raw.AccelerationY); err != nil {
		return err
	}
	if out.AccelerationZ, err = floats("accelerationZ", raw.AccelerationZ); err != nil {
		return err
	}
	if out.SpeedV, err = floats("speedv", raw.SpeedV); err != nil {
		return err
	}
	if out.UnixTimestamp, err = timestamps("unixTimestamp", raw.UnixTimestamp); err != nil {
		return err
	}
	if out.Latitude, err = floats("latitude", raw.Latitude); err != nil {
		return err
	}
	if out.Longitude, err = floats("longitude", raw.Longitude); err != nil {
		return err
	}
	*r = out
	return nil
}

// floats keeps nil as nil so a missing field stays distinguishable from [].
func floats(name string, src []*float64) ([]float64, error) {
	if src == nil {
		return nil, nil
	}
	dst := make([]float64, len(src))
	for i, v := range src {
		if v == nil {
			return nil, &FieldError{Field: name, Index: i, Msg: "is null"}
		}
		dst[i] = *v
	}
	return dst, nil
}

func timestamps(name string, src []*json.Number) ([]int64, error) {
	if src == nil {
		return nil, nil
	}
	dst := make([]int64, len(src))
	for i, v := range src {
		if v == nil {
			return nil, &FieldError{Field: name, Index: i, Msg: "is null"}
		}
		ts, ok := integral(*v)
		if !ok {
			return nil, &FieldError{Field: name, Index: i, Msg: fmt.Sprintf("is not an integer: %s", v.String())}
		}
		dst[i] = ts
	}
	return dst, nil
}

func integral(n json.Number) (int64, bool) {
	if v, err := n.Int64(); err == nil {
		return v, true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
