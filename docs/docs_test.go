package docs

import (
	"encoding/json"
	"testing"
)

func TestSwaggerDocRenders(t *testing.T) {
	var doc struct {
		Info struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Version     string `json:"version"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc); err != nil {
		t.Fatalf("doc is not valid JSON: %v", err)
	}
	if doc.Info.Title != "predictd API" || doc.Info.Version != "1.0" {
		t.Fatalf("unexpected info: %+v", doc.Info)
	}
	if doc.Info.Description != "HTTP API serving batch predictions from a single ONNX model." {
		t.Fatalf("description drifted from cmd/predictd/docs.go: %q", doc.Info.Description)
	}
	for _, p := range []string{"/", "/predict"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Fatalf("missing path %s", p)
		}
	}
}
