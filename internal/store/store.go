package store

import (
	"context"
	"errors"

	"github.com/kiranshivaraju/integrity/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All persistence goes through here.
//
// Records are append-only: the store assigns identity on append and never
// updates or deletes them. List methods return the user's records in store
// order (insertion order); sorting for display is the caller's concern.
// Append normalizes the record's CreatedAt with models.Timestamp in place so
// the caller holds the value a later List returns.
type Store interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error

	AppendDetectionReport(ctx context.Context, report *models.DetectionReport) (string, error)
	ListDetectionReports(ctx context.Context, userID string) ([]*models.DetectionReport, error)

	AppendSession(ctx context.Context, session *models.SessionRecord) (string, error)
	ListSessions(ctx context.Context, userID string) ([]*models.SessionRecord, error)

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
