package httpapi

import "context"

// serverBaseCtx is a process-level context that can be canceled on shutdown.
// Defaults to Background if not set.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by handlers.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// predictContext derives the context for one /predict call: canceled when
// the client goes away, the server shuts down or the predict timeout fires.
func predictContext(reqCtx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(reqCtx)
	stop := context.AfterFunc(serverBaseCtx, cancel)
	if predictTimeout > 0 {
		tctx, tcancel := context.WithTimeout(ctx, predictTimeout)
		return tctx, func() {
			tcancel()
			stop()
			cancel()
		}
	}
	return ctx, func() {
		stop()
		cancel()
	}
}
