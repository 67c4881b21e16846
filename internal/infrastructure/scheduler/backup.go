package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/export"
)

// BackupSource produces a full-state backup.
type BackupSource interface {
	Backup(ctx context.Context) (*export.Backup, error)
}

// BackupJob writes backup files into a directory.
type BackupJob struct {
	source   BackupSource
	dir      string
	logger   zerolog.Logger
	onResult func(error)
	now      func() time.Time
}

// NewBackupJob creates a job writing into dir. onResult may be nil.
func NewBackupJob(source BackupSource, dir string, logger zerolog.Logger, onResult func(error)) *BackupJob {
	if onResult == nil {
		onResult = func(error) {}
	}
	return &BackupJob{
		source:   source,
		dir:      dir,
		logger:   logger,
		onResult: onResult,
		now:      time.Now,
	}
}

// Run writes one backup and returns the file path. The file is written under
// a temporary name and renamed, so readers never see a partial backup.
func (j *BackupJob) Run(ctx context.Context) (string, error) {
	path, err := j.run(ctx)
	j.onResult(err)
	return path, err
}

func (j *BackupJob) run(ctx context.Context) (string, error) {
	b, err := j.source.Backup(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to build backup: %w", err)
	}

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	tmp, err := os.CreateTemp(j.dir, ".backup-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.WriteBackup(tmp, *b); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup file: %w", err)
	}

	path := filepath.Join(j.dir, export.BackupFilename(j.now()))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move backup into place: %w", err)
	}

	return path, nil
}

// Scheduler runs the backup job on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// New registers job under spec, a standard five-field cron expression or a
// descriptor such as "@daily".
func New(spec string, job *BackupJob, logger zerolog.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithLogger(cronLogger{logger}), cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger})))

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		path, err := job.Run(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("scheduled backup failed")
			return
		}
		logger.Info().Str("path", path).Msg("scheduled backup written")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start runs the schedule until ctx is cancelled, then waits for a running
// job to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron.Start()
	s.logger.Info().Msg("backup scheduler started")

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.logger.Info().Msg("backup scheduler stopped")
	return ctx.Err()
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
