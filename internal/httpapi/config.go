package httpapi

import (
	"time"

	"github.com/go-chi/cors"
)

// defaultMaxBodyBytes caps a /predict body at 1 MiB, a few thousand rows.
const defaultMaxBodyBytes int64 = 1 << 20

// Settings read by NewMux and the /predict handler. cmd/predictd sets them
// once from config before the server starts.
var (
	maxBodyBytes   = defaultMaxBodyBytes
	predictTimeout time.Duration
	// nil leaves CORS off.
	corsOptions *cors.Options
)

// SetMaxBodyBytes sets the /predict body limit; n <= 0 restores 1 MiB.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		n = defaultMaxBodyBytes
	}
	maxBodyBytes = n
}

// SetPredictTimeoutSeconds bounds each prediction. 0 (or less) means the
// request runs until the client or the server gives up.
func SetPredictTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	predictTimeout = time.Duration(sec) * time.Second
}

// SetCORSOptions turns CORS on for routers built afterwards. Empty methods
// or headers fall back to go-chi/cors defaults.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	if !enabled {
		corsOptions = nil
		return
	}
	corsOptions = &cors.Options{
		AllowedOrigins: append([]string(nil), origins...),
		AllowedMethods: append([]string(nil), methods...),
		AllowedHeaders: append([]string(nil), headers...),
	}
}
