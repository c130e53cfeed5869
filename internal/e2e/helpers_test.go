package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"predictd/internal/httpapi"
	"predictd/internal/model"
	"predictd/internal/pipeline"
)

// sumHandle predicts the row sum and the first feature for every row.
type sumHandle struct {
	calls atomic.Int64
	fail  error
}

func (h *sumHandle) InputWidth() int { return 6 }

func (h *sumHandle) Infer(m model.Matrix) (model.Matrix, error) {
	h.calls.Add(1)
	if h.fail != nil {
		return model.Matrix{}, h.fail
	}
	out := model.NewMatrix(m.Rows, 2)
	for i := 0; i < m.Rows; i++ {
		var s float32
		for _, v := range m.Row(i) {
			s += v
		}
		out.Set(i, 0, s)
		out.Set(i, 1, m.At(i, 0))
	}
	return out, nil
}

func newServerForHandle(t *testing.T, h model.Handle) *httptest.Server {
	t.Helper()
	p, err := pipeline.New(h)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	srv := httptest.NewServer(httpapi.NewMux(p))
	t.Cleanup(srv.Close)
	return srv
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
