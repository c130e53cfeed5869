package types

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestPredictionRequestDecode(t *testing.T) {
	var req PredictionRequest
	body := `{"accelerationY":[1,2],"accelerationZ":[],"unixTimestamp":[1000, 1000.0, 1e3]}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(req.AccelerationY) != 2 || req.AccelerationY[1] != 2 {
		t.Fatalf("accelerationY=%v", req.AccelerationY)
	}
	if req.AccelerationZ == nil || len(req.AccelerationZ) != 0 {
		t.Fatalf("empty array must stay non-nil, got %#v", req.AccelerationZ)
	}
	if req.SpeedV != nil {
		t.Fatalf("absent field must decode to nil, got %#v", req.SpeedV)
	}
	for i, ts := range req.UnixTimestamp {
		if ts != 1000 {
			t.Fatalf("timestamp %d = %d, want 1000", i, ts)
		}
	}
}

func TestPredictionRequestDecode_NullField(t *testing.T) {
	var req PredictionRequest
	if err := json.Unmarshal([]byte(`{"speedv":null}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.SpeedV != nil {
		t.Fatalf("null field must decode to nil")
	}
}

func TestPredictionRequestDecode_Rejects(t *testing.T) {
	cases := []struct {
		body  string
		field string
		index int
	}{
		{`{"accelerationY":[1,null]}`, "accelerationY", 1},
		{`{"longitude":[null]}`, "longitude", 0},
		{`{"unixTimestamp":[null]}`, "unixTimestamp", 0},
		{`{"unixTimestamp":[5, 1000.5]}`, "unixTimestamp", 1},
		{`{"unixTimestamp":[1e300]}`, "unixTimestamp", 0},
	}
	for _, c := range cases {
		var req PredictionRequest
		err := json.Unmarshal([]byte(c.body), &req)
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Fatalf("%s: expected *FieldError, got %v", c.body, err)
		}
		if fe.Field != c.field || fe.Index != c.index {
			t.Fatalf("%s: got field=%s index=%d", c.body, fe.Field, fe.Index)
		}
		if fe.StatusCode() != http.StatusUnprocessableEntity {
			t.Fatalf("status=%d", fe.StatusCode())
		}
	}
}

func TestPredictionRequestDecode_WrongTypeIsSyntaxLevel(t *testing.T) {
	var req PredictionRequest
	err := json.Unmarshal([]byte(`{"latitude":["north"]}`), &req)
	if err == nil {
		t.Fatalf("expected error for string element")
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		t.Fatalf("type mismatch should surface as a decode error, got %v", fe)
	}
}
