package httpapi

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the structured logger used by the HTTP layer. Nop until SetLogger.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// defaultLogLevel is read once; unset means info.
var defaultLogLevel = func() LogLevel {
	v, ok := os.LookupEnv("PREDICTD_REQUEST_LOG")
	if !ok {
		return LevelInfo
	}
	return parseLevel(v)
}()

func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// logPredictEnd emits the "predict end" line. Failures are logged from
// LevelError, successes from LevelInfo.
func logPredictEnd(r *http.Request, lvl LogLevel, status, rows int, start time.Time, err error) {
	if lvl == LevelOff || (err == nil && lvl < LevelInfo) {
		return
	}
	ev := zlog.Info()
	if err != nil {
		ev = zlog.Error().Err(err)
	}
	ev = ev.Int("status", status).Int("rows", rows).Dur("dur", time.Since(start))
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		ev = ev.Str("request_id", rid)
	}
	ev.Msg("predict end")
}
