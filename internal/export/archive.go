package export

import (
	"bytes"
	"context"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/stagehand/pkg/storage"
)

// ArchiveContentType is the content type of archived exports.
const ArchiveContentType = "application/json"

// Archive copies full workflow exports to blob storage. An archive backed by
// the disabled storage system does nothing.
type Archive struct {
	store  storage.System
	prefix string
	logger *slog.Logger
}

// NewArchive creates an archive writing under prefix.
func NewArchive(store storage.System, prefix string, logger *slog.Logger) *Archive {
	return &Archive{
		store:  store,
		prefix: prefix,
		logger: logger.With("system", "archive"),
	}
}

// Enabled reports whether exports are archived.
func (a *Archive) Enabled() bool {
	return !storage.IsDisabled(a.store)
}

// Name returns the archive name of filename exported at now under the export
// id: a YYYY/MM/DD/{id}/{filename} path relative to the archive prefix.
func Name(id uuid.UUID, filename string, now time.Time) string {
	return path.Join(now.Format("2006/01/02"), id.String(), filename)
}

// Save uploads data under a fresh export id and returns its archive name.
// Failures are logged and reported as an empty name; they never fail the
// caller's download.
func (a *Archive) Save(ctx context.Context, filename string, data []byte, now time.Time) string {
	if !a.Enabled() {
		return ""
	}

	name := Name(uuid.New(), filename, now)
	key := a.key(name)
	if err := a.store.Upload(ctx, key, bytes.NewReader(data), ArchiveContentType); err != nil {
		a.logger.Error("archive export failed", "key", key, "error", err)
		return ""
	}

	a.logger.Info("export archived", "key", key, "bytes", len(data))
	return name
}

// Open returns the export archived under name. The caller must close Body.
func (a *Archive) Open(ctx context.Context, name string) (*storage.Blob, error) {
	if name == "" {
		return nil, storage.ErrEmptyKey
	}
	return a.store.Download(ctx, a.key(name))
}

func (a *Archive) key(name string) string {
	if a.prefix == "" {
		return name
	}
	return a.prefix + "/" + name
}
