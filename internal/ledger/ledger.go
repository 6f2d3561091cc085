// Package ledger keeps an optional sqlite history of runs and exports.
// Everything here is best-effort: an open or write failure logs a debug
// line and the pipeline carries on without history.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/backmassage/speedexp/internal/logging"
)

// Run is one invocation of the tool.
type Run struct {
	ID         string `gorm:"primaryKey"`
	StartedAt  time.Time
	SourcePath string
	PitchMode  string
	Count      int
	Lossless   bool
}

// Export is one completed export of a run.
type Export struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	RunID      string `gorm:"index"`
	Number     int
	OutputPath string
	DurationS  float64
	SizeBytes  int64
	Attempts   int
	Converged  bool
	ResidualS  float64
}

// Ledger records runs and exports. A nil *Ledger is valid and ignores every
// call, so callers never branch on whether history is enabled.
type Ledger struct {
	db    *gorm.DB
	log   *logging.Logger
	runID string
}

// Open opens (or creates) the sqlite database at path and migrates the
// schema. Any failure returns nil: history is disabled for the run.
func Open(path string, log *logging.Logger) *Ledger {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Debug("ledger disabled: open %s: %v", path, err)
		return nil
	}
	if err := db.AutoMigrate(&Run{}, &Export{}); err != nil {
		log.Debug("ledger disabled: migrate: %v", err)
		return nil
	}
	return &Ledger{db: db, log: log}
}

// StartRun records the run row and remembers its ID for RecordExport.
func (l *Ledger) StartRun(sourcePath, pitchMode string, count int, lossless bool) {
	if l == nil {
		return
	}
	l.runID = uuid.NewString()
	err := l.db.Create(&Run{
		ID:         l.runID,
		StartedAt:  time.Now(),
		SourcePath: sourcePath,
		PitchMode:  pitchMode,
		Count:      count,
		Lossless:   lossless,
	}).Error
	if err != nil {
		l.log.Debug("ledger: record run: %v", err)
	}
}

// RecordExport records one completed export under the current run.
func (l *Ledger) RecordExport(e Export) {
	if l == nil {
		return
	}
	e.RunID = l.runID
	if err := l.db.Create(&e).Error; err != nil {
		l.log.Debug("ledger: record export %d: %v", e.Number, err)
	}
}

// Close releases the underlying sqlite handle.
func (l *Ledger) Close() {
	if l == nil {
		return
	}
	if db, err := l.db.DB(); err == nil {
		db.Close()
	}
}
