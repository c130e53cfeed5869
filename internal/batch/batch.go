// Package batch scores a CSV file of sensor readings through the prediction
// pipeline, one request for the whole file.
package batch

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"predictd/internal/pipeline"
	"predictd/pkg/types"
)

// Reading is one CSV row. Header names match the JSON wire names.
type Reading struct {
	AccelerationY float64 `csv:"accelerationY"`
	AccelerationZ float64 `csv:"accelerationZ"`
	SpeedV        float64 `csv:"speedv"`
	UnixTimestamp int64   `csv:"unixTimestamp"`
	Latitude      float64 `csv:"latitude"`
	Longitude     float64 `csv:"longitude"`
}

// Predictor is satisfied by *pipeline.Pipeline.
type Predictor interface {
	Predict(ctx context.Context, req types.PredictionRequest) (types.PredictionResponse, error)
}

// ReadRequest decodes CSV readings into a single PredictionRequest and
// validates it. Every feature column must be present in the header; extra
// columns are ignored. A file with no rows fails with a
// *pipeline.ValidationError.
func ReadRequest(r io.Reader) (types.PredictionRequest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.PredictionRequest{}, fmt.Errorf("read csv: %w", err)
	}
	if err := checkCells(data); err != nil {
		return types.PredictionRequest{}, err
	}
	var rows []*Reading
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return types.PredictionRequest{}, fmt.Errorf("decode csv: %w", err)
	}
	n := len(rows)
	req := types.PredictionRequest{
		AccelerationY: make([]float64, n),
		AccelerationZ: make([]float64, n),
		SpeedV:        make([]float64, n),
		UnixTimestamp: make([]int64, n),
		Latitude:      make([]float64, n),
		Longitude:     make([]float64, n),
	}
	for i, row := range rows {
		req.AccelerationY[i] = row.AccelerationY
		req.AccelerationZ[i] = row.AccelerationZ
		req.SpeedV[i] = row.SpeedV
		req.UnixTimestamp[i] = row.UnixTimestamp
		req.Latitude[i] = row.Latitude
		req.Longitude[i] = row.Longitude
	}
	if err := pipeline.Validate(req); err != nil {
		return types.PredictionRequest{}, err
	}
	return req, nil
}

// checkCells fails on missing feature columns and on empty feature cells,
// both of which gocsv would otherwise decode as zeros.
func checkCells(data []byte) error {
	cr := csv.NewReader(bytes.NewReader(data))
	header, err := cr.Read()
	if err == io.EOF {
		return fmt.Errorf("csv is empty")
	}
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range pipeline.Columns() {
		if _, ok := pos[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("csv header is missing columns: %s", strings.Join(missing, ", "))
	}
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read csv row %d: %w", row, err)
		}
		for _, c := range pipeline.Columns() {
			if strings.TrimSpace(rec[pos[c]]) == "" {
				return fmt.Errorf("csv row %d: %s is empty", row, c)
			}
		}
	}
}

// WriteResults writes one CSV line per prediction row, prefixed with the
// zero-based input row index.
func WriteResults(w io.Writer, resp types.PredictionResponse) error {
	cw := csv.NewWriter(w)
	width := 0
	if len(resp.Predictions) > 0 {
		width = len(resp.Predictions[0])
	}
	header := []string{"row"}
	for j := 0; j < width; j++ {
		header = append(header, "prediction_"+strconv.Itoa(j))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, row := range resp.Predictions {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, strconv.Itoa(i))
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Score predicts req with p and writes results to out. It returns the
// number of scored rows.
func Score(ctx context.Context, p Predictor, req types.PredictionRequest, out io.Writer) (int, error) {
	resp, err := p.Predict(ctx, req)
	if err != nil {
		return 0, err
	}
	if err := WriteResults(out, resp); err != nil {
		return 0, fmt.Errorf("write results: %w", err)
	}
	return len(resp.Predictions), nil
}
