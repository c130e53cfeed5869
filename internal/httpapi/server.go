package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"predictd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Predict(ctx context.Context, req types.PredictionRequest) (types.PredictionResponse, error)
	Ready() bool
}

// infoMessage is returned by GET /.
const infoMessage = "ONNX Model Prediction API"

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	if corsOptions != nil {
		r.Use(cors.Handler(*corsOptions))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/", handleInfo)
	r.Post("/predict", handlePredict(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

// handleInfo godoc
// @Summary      Service info
// @Tags         meta
// @Produce      json
// @Success      200  {object}  types.InfoResponse
// @Router       / [get]
func handleInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(types.InfoResponse{Message: infoMessage}); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// handlePredict godoc
// @Summary      Predict from a batch of sensor readings
// @Description  All six fields must have the same length; row i of the response corresponds to element i of every field.
// @Tags         predict
// @Accept       json
// @Produce      json
// @Param        request  body      types.PredictionRequest  true  "Sensor readings"
// @Success      200      {object}  types.PredictionResponse
// @Failure      413      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      422      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Router       /predict [post]
func handlePredict(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		req, err := decodeRequest(r.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			var fieldErr *types.FieldError
			switch {
			case errors.As(err, &tooLarge):
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			case errors.As(err, &fieldErr):
				writeJSONError(w, fieldErr.StatusCode(), fieldErr.Error())
			default:
				writeJSONError(w, http.StatusUnprocessableEntity, "invalid JSON body: "+err.Error())
			}
			return
		}

		start := time.Now()
		lvl := requestLogLevel(r)
		if lvl >= LevelDebug {
			ev := zlog.Debug().Str("path", r.URL.Path).Int("rows", len(req.AccelerationY))
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				ev = ev.Str("request_id", rid)
			}
			ev.Msg("predict start")
		}

		ctx, cancel := predictContext(r.Context())
		defer cancel()
		resp, err := svc.Predict(ctx, req)
		if err != nil {
			// Client disconnected or server shutting down; nobody is listening.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := writePredictError(w, err)
			logPredictEnd(r, lvl, status, len(req.AccelerationY), start, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
		logPredictEnd(r, lvl, http.StatusOK, len(resp.Predictions), start, nil)
	}
}

// decodeRequest reads exactly one JSON object from body.
func decodeRequest(body io.Reader) (types.PredictionRequest, error) {
	var req types.PredictionRequest
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, err
		}
		return req, errors.New("unexpected data after JSON object")
	}
	return req, nil
}
