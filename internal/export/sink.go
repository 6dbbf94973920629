package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/kiranshivaraju/integrity/internal/config"
)

// ContentType is the media type of every exported artifact.
const ContentType = "application/pdf"

var (
	// ErrEmptyKey indicates an artifact name resolved to nothing.
	ErrEmptyKey = errors.New("export key must not be empty")
	// ErrInvalidKey indicates an artifact name containing a path traversal segment.
	ErrInvalidKey = errors.New("export key contains invalid path segment")
)

// Artifact describes a stored report.
type Artifact struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	Size     int    `json:"size"`
}

// Sink persists rendered reports.
type Sink interface {
	// Put stores data under key and returns where it went.
	Put(ctx context.Context, key string, data []byte) (*Artifact, error)
}

// FileName returns the report file name for a user: "@" becomes "_".
func FileName(userID string) string {
	name := strings.ReplaceAll(strings.TrimSpace(userID), "@", "_")
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	return name + "_session.pdf"
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

// LocalSink writes reports into a directory.
type LocalSink struct {
	dir string
}

// NewLocalSink creates dir if needed.
func NewLocalSink(dir string) (*LocalSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}
	return &LocalSink{dir: dir}, nil
}

func (s *LocalSink) Put(_ context.Context, key string, data []byte) (*Artifact, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", key, err)
	}
	return &Artifact{Key: key, Location: path, Size: len(data)}, nil
}

// AzureSink uploads reports to an Azure Blob Storage container.
type AzureSink struct {
	client    *azblob.Client
	container string
}

// NewAzureSink builds a client from a connection string. Call EnsureContainer
// before the first Put.
func NewAzureSink(cfg config.AzureConfig) (*AzureSink, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &AzureSink{client: client, container: cfg.Container}, nil
}

// EnsureContainer creates the container, tolerating one that already exists.
func (s *AzureSink) EnsureContainer(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("create container %s: %w", s.container, err)
	}
	return nil
}

func (s *AzureSink) Put(ctx context.Context, key string, data []byte) (*Artifact, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	contentType := ContentType
	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	}
	if _, err := s.client.UploadStream(ctx, s.container, key, bytes.NewReader(data), opts); err != nil {
		return nil, fmt.Errorf("upload blob %s: %w", key, err)
	}

	return &Artifact{
		Key:      key,
		Location: strings.TrimSuffix(s.client.URL(), "/") + "/" + s.container + "/" + key,
		Size:     len(data),
	}, nil
}

// NewSink returns the sink selected by cfg.Sink.
func NewSink(ctx context.Context, cfg config.ExportConfig) (Sink, error) {
	switch cfg.Sink {
	case "", "local":
		return NewLocalSink(cfg.Dir)
	case "azure":
		s, err := NewAzureSink(cfg.Azure)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureContainer(ctx); err != nil {
			return nil, err
		}
		slog.Info("export container ready", "container", cfg.Azure.Container)
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported export sink: %q", cfg.Sink)
	}
}
