package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kiranshivaraju/integrity/internal/config"
	"github.com/kiranshivaraju/integrity/pkg/models"
)

const (
	detectionCollection = "ai_detection_reports"
	sessionCollection   = "assignments"
	userCollection      = "users"
)

type detectionDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	SourceText  string             `bson:"source_text"`
	Confidence  string             `bson:"confidence"`
	Explanation string             `bson:"explanation"`
	Origin      string             `bson:"origin"`
	CreatedAt   time.Time          `bson:"created_at"`
}

type sessionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Prompt    string             `bson:"prompt"`
	Breakdown string             `bson:"breakdown"`
	Feedback  string             `bson:"feedback"`
	CreatedAt time.Time          `bson:"created_at"`
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	DisplayName  string    `bson:"display_name"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

// MongoStore implements the Store interface on a MongoDB database, one
// collection per record type.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo dials MongoDB, verifies the connection and ensures indexes.
func ConnectMongo(ctx context.Context, cfg config.MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := NewMongoStore(client, cfg.Database)
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// NewMongoStore wraps an already connected client.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database)}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(userCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create user email index: %w", err)
	}
	for _, name := range []string{detectionCollection, sessionCollection} {
		_, err := s.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "_id", Value: 1}},
		})
		if err != nil {
			return fmt.Errorf("create %s user index: %w", name, err)
		}
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// --- Detection Reports ---

func (s *MongoStore) AppendDetectionReport(ctx context.Context, r *models.DetectionReport) (string, error) {
	r.CreatedAt = models.Timestamp(r.CreatedAt)
	res, err := s.db.Collection(detectionCollection).InsertOne(ctx, detectionDoc{
		UserID:      r.UserID,
		SourceText:  r.SourceText,
		Confidence:  string(r.Confidence),
		Explanation: r.Explanation,
		Origin:      string(r.Origin),
		CreatedAt:   r.CreatedAt,
	})
	if err != nil {
		return "", fmt.Errorf("append detection report: %w", err)
	}
	return insertedID(res)
}

func (s *MongoStore) ListDetectionReports(ctx context.Context, userID string) ([]*models.DetectionReport, error) {
	var docs []detectionDoc
	if err := s.findByUser(ctx, detectionCollection, userID, &docs); err != nil {
		return nil, fmt.Errorf("list detection reports: %w", err)
	}

	reports := make([]*models.DetectionReport, 0, len(docs))
	for _, d := range docs {
		reports = append(reports, &models.DetectionReport{
			ID:          d.ID.Hex(),
			UserID:      d.UserID,
			SourceText:  d.SourceText,
			Confidence:  models.ConfidenceLevel(d.Confidence),
			Explanation: d.Explanation,
			Origin:      models.Origin(d.Origin),
			CreatedAt:   d.CreatedAt.UTC(),
		})
	}
	return reports, nil
}

// --- Sessions ---

func (s *MongoStore) AppendSession(ctx context.Context, rec *models.SessionRecord) (string, error) {
	rec.CreatedAt = models.Timestamp(rec.CreatedAt)
	res, err := s.db.Collection(sessionCollection).InsertOne(ctx, sessionDoc{
		UserID:    rec.UserID,
		Prompt:    rec.Prompt,
		Breakdown: rec.Breakdown,
		Feedback:  rec.Feedback,
		CreatedAt: rec.CreatedAt,
	})
	if err != nil {
		return "", fmt.Errorf("append session: %w", err)
	}
	return insertedID(res)
}

func (s *MongoStore) ListSessions(ctx context.Context, userID string) ([]*models.SessionRecord, error) {
	var docs []sessionDoc
	if err := s.findByUser(ctx, sessionCollection, userID, &docs); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]*models.SessionRecord, 0, len(docs))
	for _, d := range docs {
		sessions = append(sessions, &models.SessionRecord{
			ID:        d.ID.Hex(),
			UserID:    d.UserID,
			Prompt:    d.Prompt,
			Breakdown: d.Breakdown,
			Feedback:  d.Feedback,
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return sessions, nil
}

// --- Users ---

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.db.Collection(userCollection).InsertOne(ctx, userDoc{
		ID:           u.ID.String(),
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var d userDoc
	err := s.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	return &models.User{
		ID:           id,
		Email:        d.Email,
		DisplayName:  d.DisplayName,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
	}, nil
}

// findByUser decodes every document owned by userID in insertion order.
func (s *MongoStore) findByUser(ctx context.Context, collection, userID string, out any) error {
	cur, err := s.db.Collection(collection).Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func insertedID(res *mongo.InsertOneResult) (string, error) {
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

var _ Store = (*MongoStore)(nil)
