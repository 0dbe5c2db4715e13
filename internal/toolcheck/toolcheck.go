// Package toolcheck runs preflight inspection of the external tools a suite
// relies on. Findings are warnings, never failures; the suite still runs and
// fails on its own terms.
package toolcheck

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// Warning describes one preflight finding.
type Warning struct {
	Tool    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Tool, w.Message)
}

var nodeRegex = regexp.MustCompile(`(?i)v?(\d+\.\d+(?:\.\d+)?)`)

// Check inspects the binaries the supplied commands invoke and the project's
// pinned node version, returning human-readable warnings.
func Check(root string, commands []string) []Warning {
	var warnings []Warning

	seen := make(map[string]struct{})
	for _, command := range commands {
		binary := binaryFor(command)
		if binary == "" {
			continue
		}
		if _, ok := seen[binary]; ok {
			continue
		}
		seen[binary] = struct{}{}
		if _, err := exec.LookPath(binary); err != nil {
			warnings = append(warnings, Warning{Tool: binary, Message: "executable not found on PATH"})
		}
	}

	if warn := nodeVersionWarning(root); warn != nil {
		warnings = append(warnings, *warn)
	}
	return warnings
}

// binaryFor returns the first real word of a shell command, skipping leading
// KEY=VALUE environment assignments.
func binaryFor(command string) string {
	for _, field := range strings.Fields(command) {
		if strings.Contains(field, "=") {
			continue
		}
		return field
	}
	return ""
}

func nodeVersionWarning(root string) *Warning {
	contents, err := os.ReadFile(filepath.Join(root, ".node-version"))
	if err != nil {
		return nil
	}
	required := strings.TrimSpace(string(contents))
	if required == "" {
		return nil
	}

	actual, err := detectNode()
	if err != nil {
		if missing(err) {
			return &Warning{Tool: "node", Message: fmt.Sprintf("executable not found; required %s", required)}
		}
		return &Warning{Tool: "node", Message: fmt.Sprintf("unable to detect version: %v", err)}
	}
	if !compareMajorMinor(required, actual) {
		return &Warning{
			Tool:    "node",
			Message: fmt.Sprintf("version mismatch: required %s (from .node-version) but found %s", required, actual),
		}
	}
	return nil
}

// detectNode returns the system Node.js version by calling `node -v`.
func detectNode() (string, error) {
	out, err := runCommand("node", "-v")
	if err != nil {
		return "", err
	}
	match := nodeRegex.FindStringSubmatch(out)
	if len(match) < 2 {
		return "", fmt.Errorf("unable to parse node version from %q", out)
	}
	return match[1], nil
}

func runCommand(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// compareMajorMinor compares major.minor portions of two semver-like versions.
func compareMajorMinor(desired, actual string) bool {
	d := semverPrefix(desired)
	a := semverPrefix(actual)
	if d == "" || a == "" {
		return false
	}
	return strings.EqualFold(d, a)
}

func semverPrefix(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return ""
	}
	return fmt.Sprintf("%s.%s", parts[0], parts[1])
}

func missing(cmdErr error) bool {
	return errors.Is(cmdErr, exec.ErrNotFound)
}
