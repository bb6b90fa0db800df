package checkout

import (
	"context"
	"log/slog"
	"net/http"

	"storefront/internal/storage"
	"storefront/pkg/requestcontext"
)

type resultKey struct{}

// FromContext returns the allowed result the guard attached to the request.
func FromContext(ctx context.Context) (Result, bool) {
	res, ok := ctx.Value(resultKey{}).(Result)
	return res, ok
}

// WithResult attaches res to ctx. Handler tests use it to skip the guard.
func WithResult(ctx context.Context, res Result) context.Context {
	return context.WithValue(ctx, resultKey{}, res)
}

// Guard protects checkout routes. Allowed requests continue with the result
// in their context; refused ones get a 303 to the remediation page and the
// message is kept as a one-shot for the checkout UI.
func Guard(p *Pipeline, kv storage.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithReturnPath(r.Context(), r.URL.RequestURI())

			res := p.Authorize(ctx, requestcontext.ReturnPath(ctx))
			if res.Allowed {
				next.ServeHTTP(w, r.WithContext(WithResult(ctx, res)))
				return
			}

			key := storage.KeyCheckoutMessage
			if res.Reason == ReasonProfileIncomplete || res.Reason == ReasonCartEmpty {
				key = storage.KeyCheckoutWarning
			}
			if err := kv.Set(ctx, key, res.Message); err != nil {
				logger.WarnContext(ctx, "failed to store checkout message",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
			}

			http.Redirect(w, r, Redirect(res), http.StatusSeeOther)
		})
	}
}
