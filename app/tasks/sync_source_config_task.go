package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/travelwire/travelwire/app/database"
	"github.com/travelwire/travelwire/app/news"
)

type SyncSourceConfigTask struct {
	Task
	SourceConfig *news.Config
	sourceRepo   *database.SourceRepository
}

func NewSyncSourceConfigTask(sourceName string, sourceConfig *news.Config, sourceRepo *database.SourceRepository) *SyncSourceConfigTask {
	return &SyncSourceConfigTask{
		Task:         NewTask(TaskTypeSyncSourceConfig, sourceName),
		SourceConfig: sourceConfig,
		sourceRepo:   sourceRepo,
	}
}

func (t *SyncSourceConfigTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// User-defined sources keep their full configuration on the row; YAML
	// sources reload theirs from disk.
	var encoded string
	if t.SourceConfig.UserDefined {
		var err error
		encoded, err = news.EncodeConfig(t.SourceConfig)
		if err != nil {
			slog.Error("Task failed", "type", "SyncSourceConfig", "source", t.SourceName, "error", err)
			return fmt.Errorf("failed to encode source config: %w", err)
		}
	}

	err := t.sourceRepo.UpsertSource(
		t.SourceConfig.Name,
		t.SourceConfig.URL,
		t.SourceConfig.Kind,
		t.SourceConfig.UserDefined,
		t.SourceConfig.Settings.Enabled,
		encoded)
	if err != nil {
		slog.Error("Task failed", "type", "SyncSourceConfig", "source", t.SourceName, "error", err)
		return fmt.Errorf("failed to sync source config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncSourceConfig",
		"source", t.SourceName,
		"duration", t.GetDuration())

	return nil
}
