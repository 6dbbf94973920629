// Package aierr maps provider SDK failures onto the generation sentinels.
package aierr

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/kiranshivaraju/integrity/pkg/models"
)

// FromStatus wraps err with the sentinel matching an HTTP status code.
// Statuses that are neither quota nor transport faults pass through unchanged.
func FromStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", models.ErrQuotaExceeded, err)
	case status == http.StatusRequestTimeout, status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %v", models.ErrTransport, err)
	}
	return err
}

// FromNetwork marks connection-level failures as transport errors.
func FromNetwork(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", models.ErrTransport, err)
	}
	return err
}
