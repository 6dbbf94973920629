package aierr_test

import (
	"errors"
	"net"
	"net/http"
	"testing"

	"github.com/kiranshivaraju/integrity/internal/ai/aierr"
	"github.com/kiranshivaraju/integrity/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	base := errors.New("upstream said no")

	assert.ErrorIs(t, aierr.FromStatus(http.StatusTooManyRequests, base), models.ErrQuotaExceeded)
	assert.ErrorIs(t, aierr.FromStatus(http.StatusBadGateway, base), models.ErrTransport)
	assert.ErrorIs(t, aierr.FromStatus(http.StatusRequestTimeout, base), models.ErrTransport)

	err := aierr.FromStatus(http.StatusBadRequest, base)
	assert.Equal(t, base, err)
	assert.NotErrorIs(t, err, models.ErrTransport)
}

func TestFromNetwork(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	assert.ErrorIs(t, aierr.FromNetwork(opErr), models.ErrTransport)

	plain := errors.New("bad json")
	assert.Equal(t, plain, aierr.FromNetwork(plain))
}
