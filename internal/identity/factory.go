package identity

import (
	"context"
	"fmt"

	"github.com/kiranshivaraju/integrity/internal/config"
	"github.com/kiranshivaraju/integrity/internal/store"
)

// New returns the backend selected by cfg.Provider. The local backend keeps
// its users in st.
func New(ctx context.Context, cfg config.IdentityConfig, st store.Store) (Service, error) {
	switch cfg.Provider {
	case "firebase":
		return NewFirebase(ctx, cfg.Firebase, nil), nil
	case "local":
		return NewLocal(st, cfg.Local), nil
	default:
		return nil, fmt.Errorf("unsupported identity provider: %q", cfg.Provider)
	}
}
