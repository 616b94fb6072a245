// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/example/entity-audit/internal/core/audit"
	"github.com/example/entity-audit/internal/ports/secondary"
)

// ErrMarkerNotFound is wrapped (together with audit.ErrPatchSkipped) when an
// insertion marker is absent.
var ErrMarkerNotFound = errors.New("marker not found")

// Patcher implements secondary.FilePatcher with direct file mutation.
// Every call commits independently; there is no staging.
type Patcher struct{}

// NewPatcher creates a new Patcher.
func NewPatcher() *Patcher {
	return &Patcher{}
}

// ReplaceOnce replaces the first occurrence of match (every occurrence with
// opts.All). Regex replacements expand group references such as ${1}.
// A file without a match is left alone and ErrPatchSkipped returned.
func (p *Patcher) ReplaceOnce(path, match, replacement string, opts secondary.ReplaceOptions) error {
	content, err := readFile(path)
	if err != nil {
		return err
	}

	var updated string
	if opts.Regex {
		re, err := regexp.Compile(match)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", match, err)
		}
		if !re.MatchString(content) {
			return fmt.Errorf("%w: %q not found in %s", audit.ErrPatchSkipped, match, path)
		}
		if opts.All {
			updated = re.ReplaceAllString(content, replacement)
		} else {
			loc := re.FindStringSubmatchIndex(content)
			expanded := re.ExpandString(nil, replacement, content, loc)
			updated = content[:loc[0]] + string(expanded) + content[loc[1]:]
		}
	} else {
		if !strings.Contains(content, match) {
			return fmt.Errorf("%w: %q not found in %s", audit.ErrPatchSkipped, match, path)
		}
		n := 1
		if opts.All {
			n = -1
		}
		updated = strings.Replace(content, match, replacement, n)
	}

	if updated == content {
		return fmt.Errorf("%w: %s already up to date", audit.ErrPatchSkipped, path)
	}
	return writeFile(path, updated)
}

// InsertGuarded inserts insertion on its own line before the first line
// holding marker, unless the file already contains guard. An empty guard
// means the insertion itself.
func (p *Patcher) InsertGuarded(path, marker, insertion, guard string) error {
	content, err := readFile(path)
	if err != nil {
		return err
	}

	if guard == "" {
		guard = insertion
	}
	if strings.Contains(content, guard) {
		return fmt.Errorf("%w: %s already contains %q", audit.ErrPatchSkipped, path, guard)
	}

	idx := strings.Index(content, marker)
	if idx < 0 {
		return fmt.Errorf("%w: %w: %q in %s", audit.ErrPatchSkipped, ErrMarkerNotFound, marker, path)
	}

	lineStart := strings.LastIndex(content[:idx], "\n") + 1
	indent := leadingWhitespace(content[lineStart:idx])

	var b strings.Builder
	b.WriteString(content[:lineStart])
	for _, line := range strings.Split(strings.TrimRight(insertion, "\n"), "\n") {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(content[lineStart:])

	return writeFile(path, b.String())
}

// Contains reports whether the file contains text or matches pattern.
// Empty arguments are not checked.
func (p *Patcher) Contains(path, text, pattern string) (bool, error) {
	content, err := readFile(path)
	if err != nil {
		return false, err
	}

	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if re.MatchString(content) {
			return true, nil
		}
	}
	if text != "" && strings.Contains(content, text) {
		return true, nil
	}
	return false, nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// writeFile rewrites an existing file, keeping its permissions.
func writeFile(path, content string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
