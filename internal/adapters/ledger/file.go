package ledger

// file.go — JSON-file persistence for the performance log.
//
// The log file is the bot's single durable authority: read fully, mutated in
// memory, written fully via temp-file + rename so a crash mid-write never
// exposes a half-written log. An older deployment persisted bare per-market
// positions in arbitrage_positions.json; Load migrates that file once into
// the unified schema and leaves the original untouched.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alejandrodnm/polyhedge/internal/domain"
)

const legacyPositionsFile = "arbitrage_positions.json"

// ErrDecode marks a log file that exists but does not parse. Callers can
// distinguish corruption from absence (absence yields a fresh log).
var ErrDecode = errors.New("performance log decode failed")

// FileLedger implements ports.Ledger on a local JSON file.
type FileLedger struct {
	path string
	now  func() time.Time
}

// NewFileLedger creates a ledger persisted at path.
func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path, now: time.Now}
}

// Load reads the performance log. A missing file yields a fresh log,
// seeded from the legacy positions file when one is present.
func (f *FileLedger) Load(_ context.Context) (*domain.PerformanceLog, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return f.freshLog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger.Load: read %q: %w", f.path, err)
	}

	var log domain.PerformanceLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("ledger.Load: %q: %w: %w", f.path, ErrDecode, err)
	}
	log.EnsureMaps()
	return &log, nil
}

// Save atomically replaces the persisted log.
func (f *FileLedger) Save(_ context.Context, log *domain.PerformanceLog) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("ledger.Save: marshal: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".performance_log-*.tmp")
	if err != nil {
		return fmt.Errorf("ledger.Save: temp file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ledger.Save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ledger.Save: close: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ledger.Save: rename to %q: %w", f.path, err)
	}
	return nil
}

// freshLog builds a new log, importing the legacy per-market positions file
// if one exists next to the configured path.
func (f *FileLedger) freshLog() *domain.PerformanceLog {
	log := domain.NewPerformanceLog(f.now())

	legacyPath := filepath.Join(filepath.Dir(f.path), legacyPositionsFile)
	data, err := os.ReadFile(legacyPath)
	if err != nil {
		return log
	}

	var legacy map[string]domain.Position
	if err := json.Unmarshal(data, &legacy); err != nil {
		slog.Warn("legacy positions file unreadable, starting empty",
			"path", legacyPath, "err", err)
		return log
	}

	for marketID, pos := range legacy {
		log.OpenPositions[marketID] = pos
	}
	if len(legacy) > 0 {
		slog.Info("migrated legacy positions into performance log",
			"path", legacyPath, "markets", len(legacy))
	}
	return log
}
