// Package envfile loads KEY=value pairs into the process environment without
// overriding variables that are already set.
package envfile

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

const fileName = ".env"

type Result struct {
	Path   string
	Loaded bool
	Keys   []string
	Err    error
}

// Load applies the first env file found: FOTEX_ENV_PATH, then a .env found by
// walking up from the working directory, then a .env inside any of extraDirs.
func Load(extraDirs ...string) Result {
	if override := strings.TrimSpace(os.Getenv("FOTEX_ENV_PATH")); override != "" {
		return LoadPath(override)
	}
	if cwd, err := os.Getwd(); err == nil {
		if path := findUpwards(cwd, fileName); path != "" {
			return LoadPath(path)
		}
	}
	for _, dir := range extraDirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		candidate := filepath.Join(dir, fileName)
		if _, err := os.Stat(candidate); err == nil {
			return LoadPath(candidate)
		}
	}
	return Result{}
}

func LoadPath(path string) Result {
	res := Result{Path: path}
	file, err := os.Open(path)
	if err != nil {
		res.Err = err
		return res
	}
	defer file.Close()
	res.Loaded = true
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			res.Err = err
			return res
		}
		res.Keys = append(res.Keys, key)
	}
	if err := scanner.Err(); err != nil {
		res.Err = err
	}
	return res
}

func parseLine(raw string) (string, string, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if quoted, ok := unquote(value); ok {
		return key, quoted, true
	}
	// Unquoted values may carry a trailing " # comment".
	if idx := strings.Index(value, " #"); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	return key, value, true
}

func unquote(value string) (string, bool) {
	if len(value) < 2 {
		return value, false
	}
	first, last := value[0], value[len(value)-1]
	if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
		return value[1 : len(value)-1], true
	}
	return value, false
}

func findUpwards(start, name string) string {
	dir := start
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
