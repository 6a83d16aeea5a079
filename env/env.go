// Package env loads KEY=VALUE pairs from a dotenv file into the process
// environment so the regular env-based configuration picks them up.
package env

import (
	"os"
	"strings"
)

// Line is one parsed KEY=VALUE pair.
type Line struct {
	Key string
	Val string
}

func dequote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func parseLine(raw string) (Line, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Line{}, false
	}
	trimmed = strings.TrimPrefix(trimmed, "export ")
	key, val, found := strings.Cut(trimmed, "=")
	if !found {
		return Line{}, false
	}
	return Line{Key: strings.TrimSpace(key), Val: dequote(strings.TrimSpace(val))}, true
}

// ParseBuffer parses dotenv content. Blank lines and #-comments are skipped.
func ParseBuffer(buf []byte) []Line {
	var lines []Line
	for _, raw := range strings.Split(string(buf), "\n") {
		if line, ok := parseLine(raw); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// ParseFile parses the dotenv file at filename. A missing file is not an
// error — it parses as empty.
func ParseFile(filename string) ([]Line, error) {
	buf, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseBuffer(buf), nil
}

// Load applies the dotenv file at filename to the process environment.
// Variables already set in the environment win over file values.
func Load(filename string) error {
	lines, err := ParseFile(filename)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, exists := os.LookupEnv(line.Key); !exists {
			if err := os.Setenv(line.Key, line.Val); err != nil {
				return err
			}
		}
	}
	return nil
}
