// Package baseline persists the exponential moving average of audit
// activity counters across probes, in an explicit little-endian,
// fixed-width binary record (see design notes on the non-portable
// native-endian layout this supersedes).
package baseline

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
)

// Magic is the fixed 8-byte file signature.
const Magic = "SNTLAUDT"

// CurrentVersion is the only version this package writes and accepts.
const CurrentVersion = 1

// recordSize is the fixed on-disk record length in bytes.
const recordSize = 64

// EMAAlpha is the exponential-smoothing factor applied to every tracked
// counter.
const EMAAlpha = 0.2

// userPathSuffix is the home-relative fallback location.
const userPathSuffix = ".sentinel/audit_baseline.dat"

// SystemPath is the system-wide baseline location, tried before the user
// path; a plain var (not a const) so tests -- and Config.BaselineSystemPath
// -- can redirect it.
var SystemPath = "/var/lib/sentinel/audit_baseline.dat"

// UserPathOverride, when non-empty, replaces the home-relative default
// returned by UserPath. Set from Config.BaselineUserPath; a plain var
// mirroring SystemPath's override convention.
var UserPathOverride string

// ErrNotFound indicates no usable baseline exists at either candidate path,
// or the file is present but fails a validity check (short read, bad
// magic, or unsupported version). Callers treat this exactly like "no
// baseline" -- never as an I/O error to propagate.
var ErrNotFound = errors.New("baseline: not found")

// UserPath returns the user-scoped baseline path under home, or
// UserPathOverride when set.
func UserPath(home string) string {
	if UserPathOverride != "" {
		return UserPathOverride
	}
	return filepath.Join(home, userPathSuffix)
}

// Load tries SystemPath then UserPath(home) and returns the first valid
// baseline found. Any failure (missing file, short read, bad magic,
// unsupported version) is folded into ErrNotFound per the "baseline I/O
// failure is never fatal" policy.
func Load(home string) (*model.Baseline, error) {
	for _, path := range []string{SystemPath, UserPath(home)} {
		if b, err := loadFrom(path); err == nil {
			return b, nil
		}
	}
	return nil, ErrNotFound
}

func loadFrom(path string) (*model.Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrNotFound
	}
	if len(data) != recordSize {
		return nil, ErrNotFound
	}
	if string(data[0:8]) != Magic {
		return nil, ErrNotFound
	}
	r := bytes.NewReader(data)
	var raw struct {
		Magic       [8]byte
		Version     uint32
		Created     int64
		Updated     int64
		SampleCount uint32
		AvgAuthFailures    float32
		AvgSudoCount       float32
		AvgSensitiveAccess float32
		AvgTmpExecutions   float32
		AvgShellSpawns     float32
		_                  [12]byte // reserved
	}
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return nil, ErrNotFound
	}
	if raw.Version != CurrentVersion {
		return nil, ErrNotFound
	}
	return &model.Baseline{
		Magic:              string(raw.Magic[:]),
		Version:            raw.Version,
		Created:            raw.Created,
		Updated:            raw.Updated,
		SampleCount:        raw.SampleCount,
		AvgAuthFailures:    float64(raw.AvgAuthFailures),
		AvgSudoCount:       float64(raw.AvgSudoCount),
		AvgSensitiveAccess: float64(raw.AvgSensitiveAccess),
		AvgTmpExecutions:   float64(raw.AvgTmpExecutions),
		AvgShellSpawns:     float64(raw.AvgShellSpawns),
	}, nil
}

// Save tries SystemPath first; on any failure it falls back to
// UserPath(home), creating the parent directory with mode 0700 if needed,
// then chmods the written file to 0600. Returns false on total failure --
// matching the "baseline write failure is non-fatal" policy; the error
// returned alongside it is purely informational for logging.
func Save(b *model.Baseline, home string) (bool, error) {
	data, err := encode(b)
	if err != nil {
		return false, err
	}

	if err := writeAndChmod(SystemPath, data); err == nil {
		return true, nil
	}

	userPath := UserPath(home)
	if err := os.MkdirAll(filepath.Dir(userPath), 0700); err != nil {
		return false, fmt.Errorf("create baseline dir: %w", err)
	}
	if err := writeAndChmod(userPath, data); err != nil {
		return false, fmt.Errorf("write baseline: %w", err)
	}
	return true, nil
}

func writeAndChmod(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}
	return os.Chmod(path, 0600)
}

func encode(b *model.Baseline) ([]byte, error) {
	var buf bytes.Buffer
	var magic [8]byte
	copy(magic[:], Magic)
	raw := struct {
		Magic       [8]byte
		Version     uint32
		Created     int64
		Updated     int64
		SampleCount uint32
		AvgAuthFailures    float32
		AvgSudoCount       float32
		AvgSensitiveAccess float32
		AvgTmpExecutions   float32
		AvgShellSpawns     float32
		_                  [12]byte
	}{
		Magic:              magic,
		Version:            CurrentVersion,
		Created:            b.Created,
		Updated:            b.Updated,
		SampleCount:        b.SampleCount,
		AvgAuthFailures:    float32(b.AvgAuthFailures),
		AvgSudoCount:       float32(b.AvgSudoCount),
		AvgSensitiveAccess: float32(b.AvgSensitiveAccess),
		AvgTmpExecutions:   float32(b.AvgTmpExecutions),
		AvgShellSpawns:     float32(b.AvgShellSpawns),
	}
	if err := binary.Write(&buf, binary.LittleEndian, raw); err != nil {
		return nil, fmt.Errorf("encode baseline: %w", err)
	}
	if buf.Len() != recordSize {
		return nil, fmt.Errorf("encode baseline: unexpected size %d, want %d", buf.Len(), recordSize)
	}
	return buf.Bytes(), nil
}

// Sample is one probe's tracked counters, folded into the baseline by
// Update.
type Sample struct {
	AuthFailures     int
	SudoCount        int
	SensitiveAccess  int
	TmpExecutions    int
	ShellSpawns      int
}

// Update folds one sample into the baseline. If the baseline is fresh
// (SampleCount == 0) each average is seeded verbatim from the sample
// (I6); otherwise the EMA formula avg' = alpha*sample + (1-alpha)*avg is
// applied per tracked field. SampleCount is a true count, never smoothed.
func Update(b *model.Baseline, s Sample, now int64) {
	if b.SampleCount == 0 {
		b.Magic = Magic
		b.Version = CurrentVersion
		b.Created = now
		b.AvgAuthFailures = float64(s.AuthFailures)
		b.AvgSudoCount = float64(s.SudoCount)
		b.AvgSensitiveAccess = float64(s.SensitiveAccess)
		b.AvgTmpExecutions = float64(s.TmpExecutions)
		b.AvgShellSpawns = float64(s.ShellSpawns)
	} else {
		b.AvgAuthFailures = ema(float64(s.AuthFailures), b.AvgAuthFailures)
		b.AvgSudoCount = ema(float64(s.SudoCount), b.AvgSudoCount)
		b.AvgSensitiveAccess = ema(float64(s.SensitiveAccess), b.AvgSensitiveAccess)
		b.AvgTmpExecutions = ema(float64(s.TmpExecutions), b.AvgTmpExecutions)
		b.AvgShellSpawns = ema(float64(s.ShellSpawns), b.AvgShellSpawns)
	}
	b.SampleCount++
	b.Updated = now
}

func ema(sample, avg float64) float64 {
	return EMAAlpha*sample + (1-EMAAlpha)*avg
}

// New returns a zeroed baseline ready for its first Update.
func New() *model.Baseline {
	return &model.Baseline{Magic: Magic, Version: CurrentVersion}
}
