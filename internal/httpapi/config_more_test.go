package httpapi

import (
	"testing"
	"time"
)

func TestSetMaxBodyBytes_DefaultWhenNonPositive(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(0)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB on zero, got %d", maxBodyBytes)
	}
}

func TestSetMaxBodyBytes_PositiveSetsValue(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(1234)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
}

func TestSetPredictTimeoutSeconds_NormalizesNegativeToZero(t *testing.T) {
	defer SetPredictTimeoutSeconds(0)
	SetPredictTimeoutSeconds(-5)
	if predictTimeout != 0 {
		t.Fatalf("expected 0, got %v", predictTimeout)
	}
	SetPredictTimeoutSeconds(3)
	if predictTimeout != 3*time.Second {
		t.Fatalf("expected 3s, got %v", predictTimeout)
	}
}

func TestSetCORSOptions_CopiesSlices(t *testing.T) {
	defer SetCORSOptions(false, nil, nil, nil)
	origins := []string{"http://a"}
	SetCORSOptions(true, origins, nil, nil)
	origins[0] = "http://b"
	if corsOptions == nil || corsOptions.AllowedOrigins[0] != "http://a" {
		t.Fatalf("origins aliased caller slice: %+v", corsOptions)
	}
	SetCORSOptions(false, origins, nil, nil)
	if corsOptions != nil {
		t.Fatalf("disabling CORS must clear options")
	}
}
