package repositoryimpl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/planweave/planweave/internal/reminder"
	"github.com/planweave/planweave/pkg/cerr"
	"github.com/planweave/planweave/pkg/storage"
)

// The whole collection lives in one blob under a single well-known key;
// absence of the key means an empty collection.
const remindersKey = "reminders/reminders.yaml"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func (r *YAMLRepository) Load(ctx context.Context) ([]*reminder.StoredReminder, error) {
	data, err := r.storage.Read(ctx, remindersKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, cerr.WrapStorageReadError("reminders", err)
	}
	var reminders []*reminder.StoredReminder
	if err := yaml.Unmarshal(data, &reminders); err != nil {
		// A corrupt blob must not block the plan view: start over empty
		// and surface the problem to operators only.
		slog.Warn("reminders: persisted collection is malformed, treating as empty", "error", err)
		return nil, nil
	}
	return reminders, nil
}

func (r *YAMLRepository) Save(ctx context.Context, reminders []*reminder.StoredReminder) error {
	data, err := yaml.Marshal(reminders)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal reminders: %w", err))
	}
	if err := r.storage.Write(ctx, remindersKey, data); err != nil {
		return cerr.WrapStorageWriteError("reminders", err)
	}
	return nil
}
