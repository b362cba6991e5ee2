// Package source adapts the ausearch(8) subprocess into a sequence of raw
// audit record lines, the way internal/executor adapts BCC tool binaries
// in the teacher this package was generalized from.
package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/selfguard"
)

// maxOutputBytes caps captured stdout, mirroring the teacher executor's
// LimitedWriter guard against a runaway subprocess filling memory.
const maxOutputBytes = 50 * 1024 * 1024

// Query describes one ausearch invocation.
type Query struct {
	MessageType string // -m <msgtype>, e.g. "USER_AUTH"; empty to omit
	Key         string // -k <key>, e.g. "identity"; empty to omit
	Syscall     string // -sc <syscall>, e.g. "execve"; empty to omit
	Interpreted bool   // -i instead of --format raw
}

// Adapter spawns ausearch and yields its stdout as lines. A zero value is
// ready to use; Binary defaults to "ausearch" resolved via $PATH.
type Adapter struct {
	// Binary overrides the resolved ausearch path, primarily for tests.
	Binary string
	// Timeout bounds one invocation; zero means no timeout beyond the
	// caller's context.
	Timeout time.Duration
	// Tracker, when set, is told about each spawned ausearch child's PID,
	// which stays registered until the tracker is Reset (once per probe),
	// so domain.ParseSyscallContext can exclude the sentinel's own
	// subprocess noise from the SYSCALL correlation table. Nil is valid --
	// tracking is skipped entirely.
	Tracker *selfguard.Tracker
}

// New returns an Adapter using the default binary resolution.
func New() *Adapter {
	return &Adapter{Binary: "ausearch", Timeout: 30 * time.Second}
}

// Lines runs the query and returns its stdout split into lines. Per the
// adapter contract, spawn failures and non-zero exits both yield an empty,
// non-error result: the core treats the adapter as a read-only collaborator
// that never raises. Stderr is discarded.
func (a *Adapter) Lines(ctx context.Context, q Query) []string {
	bin := a.Binary
	if bin == "" {
		bin = "ausearch"
	}
	path, err := resolve(bin)
	if err != nil {
		return nil
	}

	args := buildArgs(q)

	runCtx := ctx
	var cancel context.CancelFunc
	if a.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, path, args...)
	cmd.Env = sanitizeEnv()

	var stdout bytes.Buffer
	cmd.Stdout = &limitedWriter{buf: &stdout, limit: maxOutputBytes}
	// Stderr discarded per contract ("2>/dev/null" in the reference shell
	// pipeline); ausearch commonly reports "<no matches>" there.
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		// Spawn failure: empty sequence, no error surfaced.
		return nil
	}

	if a.Tracker != nil {
		a.Tracker.Add(cmd.Process.Pid)
	}

	if err := cmd.Wait(); err != nil {
		// Non-zero exit: empty sequence, no error surfaced.
		return nil
	}

	return splitLines(stdout.String())
}

func buildArgs(q Query) []string {
	args := []string{"-ts", "today"}
	if q.MessageType != "" {
		args = append(args, "-m", q.MessageType)
	}
	if q.Key != "" {
		args = append(args, "-k", q.Key)
	}
	if q.Syscall != "" {
		args = append(args, "-sc", q.Syscall)
	}
	if q.Interpreted {
		args = append(args, "-i")
	} else {
		args = append(args, "--format", "raw")
	}
	return args
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	scanner := bufio.NewScanner(strings.NewReader(s))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// systemBinDirs are the directories where a root-owned, non-world-writable
// ausearch is expected on a standard distro; resolution outside these dirs
// (e.g. a test harness's PATH) skips the ownership check entirely rather
// than rejecting the binary, since CI sandboxes commonly run as a
// non-root user.
var systemBinDirs = []string{"/usr/sbin", "/sbin", "/usr/bin", "/bin"}

func resolve(bin string) (string, error) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", bin, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	dir := filepath.Dir(absPath)
	for _, sysDir := range systemBinDirs {
		if dir == sysDir {
			if err := verifyRootOwned(absPath); err != nil {
				return "", err
			}
			break
		}
	}
	return absPath, nil
}

func verifyRootOwned(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%q is a directory", path)
	}
	if perm := info.Mode().Perm(); perm&0002 != 0 {
		return fmt.Errorf("binary %q is world-writable (mode=%s)", path, info.Mode())
	}
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		if stat.Uid != 0 {
			return fmt.Errorf("binary %q is not owned by root (uid=%d)", path, stat.Uid)
		}
	}
	return nil
}

// sanitizeEnv builds a minimal subprocess environment, the same allowlist
// the teacher's executor.SecurityChecker.SanitizeEnv uses.
func sanitizeEnv() []string {
	safeVars := map[string]bool{
		"PATH":   true,
		"HOME":   true,
		"LANG":   true,
		"LC_ALL": true,
		"TERM":   true,
		"TMPDIR": true,
	}
	var env []string
	hasPath := false
	for _, e := range os.Environ() {
		parts := strings.SplitN(e, "=", 2)
		if len(parts) == 2 && safeVars[parts[0]] {
			env = append(env, e)
			if parts[0] == "PATH" {
				hasPath = true
			}
		}
	}
	if !hasPath {
		env = append(env, "PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin")
	}
	return env
}

// limitedWriter caps captured stdout, same shape as executor.LimitedWriter.
type limitedWriter struct {
	buf     *bytes.Buffer
	limit   int64
	written int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.written >= w.limit {
		return len(p), nil
	}
	remaining := w.limit - w.written
	if int64(len(p)) > remaining {
		n, err := w.buf.Write(p[:remaining])
		w.written += int64(n)
		return len(p), err
	}
	n, err := w.buf.Write(p)
	w.written += int64(n)
	return n, err
}
