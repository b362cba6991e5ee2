// Package procchain walks /proc to build process ancestry chains and
// flags chains with a shape commonly associated with compromise (a shell
// spawned beneath a network-facing or scheduler parent, or an ancestry
// that never reaches PID 1 within the depth budget).
//
// This grounds the external collaborators build_process_chain/
// is_suspicious_chain the core treats as given, following the /proc
// parsing style of the teacher's collector.ProcessCollector.
package procchain

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/model"
)

// ProcRoot is the /proc mount point; overridable in tests.
var ProcRoot = "/proc"

// Build places seedComm at index 0 and then walks the process ancestry
// starting at ppid, up to maxDepth total names (seed included). It stops
// at PID 1, a missing /proc entry, or the depth budget, whichever comes
// first.
func Build(seedComm string, ppid int, maxDepth int) model.ProcessChain {
	chain := model.ProcessChain{Names: []string{seedComm}, Depth: 1}
	if maxDepth <= 0 {
		maxDepth = model.MaxChainDepth
	}
	pid := ppid
	for pid > 1 && chain.Depth < maxDepth {
		comm, parent, ok := readStat(pid)
		if !ok {
			break
		}
		chain.Names = append(chain.Names, comm)
		chain.Depth++
		pid = parent
	}
	if pid > 1 && chain.Depth >= maxDepth {
		chain.Truncated = true
	}
	return chain
}

// readStat reads comm and ppid from /proc/<pid>/stat, the same field
// layout the teacher's ProcessCollector parses (comm is parenthesized and
// may itself contain spaces/parens, so it is located between the first
// '(' and the last ')').
func readStat(pid int) (comm string, ppid int, ok bool) {
	data, err := os.ReadFile(filepath.Join(ProcRoot, strconv.Itoa(pid), "stat"))
	if err != nil {
		return "", 0, false
	}
	s := string(data)
	open := strings.IndexByte(s, '(')
	closeParen := strings.LastIndexByte(s, ')')
	if open < 0 || closeParen < 0 || closeParen < open {
		return "", 0, false
	}
	comm = s[open+1 : closeParen]
	rest := strings.Fields(s[closeParen+1:])
	// rest[0] = state, rest[1] = ppid
	if len(rest) < 2 {
		return "", 0, false
	}
	ppidVal, err := strconv.Atoi(rest[1])
	if err != nil {
		return "", 0, false
	}
	return comm, ppidVal, true
}

// networkFacingParents and schedulerParents are the comm names treated as
// a meaningful launching context for a shell; a shell spawned directly
// beneath one of these is the classic reverse-shell/cron-backdoor shape.
var networkFacingParents = map[string]bool{
	"sshd": true, "httpd": true, "nginx": true, "apache2": true,
	"in.telnetd": true, "vsftpd": true, "smbd": true,
}

var schedulerParents = map[string]bool{
	"cron": true, "crond": true, "atd": true, "systemd": true,
}

var shellNames = map[string]bool{
	"sh": true, "bash": true, "dash": true, "zsh": true, "ksh": true,
}

// IsSuspicious flags a chain whose shape commonly indicates a spawned
// interactive shell under a network-facing or scheduled parent, or whose
// ancestry never reaches PID 1 within the depth budget (a hidden or
// reparented ancestor). Returns the reason string when true.
func IsSuspicious(chain model.ProcessChain) (bool, string) {
	if chain.Truncated {
		return true, "process ancestry did not reach PID 1 within depth budget"
	}
	for i, name := range chain.Names {
		if !shellNames[strings.ToLower(name)] {
			continue
		}
		if i+1 >= len(chain.Names) {
			continue // shell is the terminal/oldest entry seen; no parent to judge
		}
		parent := strings.ToLower(chain.Names[i+1])
		if networkFacingParents[parent] {
			return true, "shell spawned beneath network-facing process " + chain.Names[i+1]
		}
		if schedulerParents[parent] {
			return true, "shell spawned beneath scheduler process " + chain.Names[i+1]
		}
	}
	return false, ""
}
