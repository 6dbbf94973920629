package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kiranshivaraju/integrity/internal/api/response"
)

const healthTimeout = 3 * time.Second

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler returns an http.HandlerFunc for GET /api/v1/health. All
// dependencies are pinged concurrently; any failure yields 503 DEGRADED.
func NewHealthHandler(deps map[string]Pinger) http.HandlerFunc {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		results := make([]string, len(names))
		var g errgroup.Group
		for i, name := range names {
			g.Go(func() error {
				results[i] = "ok"
				if err := deps[name].Ping(ctx); err != nil {
					results[i] = "degraded"
				}
				return nil
			})
		}
		_ = g.Wait()

		checks := make(map[string]string, len(names))
		degraded := false
		for i, name := range names {
			checks[name] = results[i]
			degraded = degraded || results[i] != "ok"
		}

		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
