package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	fileNamePattern = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	unsafeNameChars = regexp.MustCompile(`[^a-z0-9]+`)
)

const versionLayout = "20060102150405"

const fileTemplate = `-- +goose Up
-- +goose StatementBegin
-- TODO: %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- TODO: revert %[1]s
-- +goose StatementEnd
`

// Validate checks every .sql file in source: name shaped
// YYYYMMDDHHMMSS_snake_name.sql, unique version, and both goose sections.
func Validate(source fs.FS) error {
	files, err := fs.Glob(source, "*.sql")
	if err != nil {
		return err
	}
	byVersion := make(map[string]string, len(files))
	for _, name := range files {
		m := fileNamePattern.FindStringSubmatch(path.Base(name))
		if m == nil {
			return fmt.Errorf("invalid migration filename %q, want YYYYMMDDHHMMSS_name.sql", name)
		}
		if other, dup := byVersion[m[1]]; dup {
			return fmt.Errorf("version %s used by both %s and %s", m[1], other, name)
		}
		byVersion[m[1]] = name

		body, err := fs.ReadFile(source, name)
		if err != nil {
			return err
		}
		for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
			if !strings.Contains(string(body), marker) {
				return fmt.Errorf("%s: missing %q section", name, marker)
			}
		}
	}
	return nil
}

// CreateSQLMigration writes an empty goose migration named after name into
// dir and returns its path.
func CreateSQLMigration(dir, name string) (string, error) {
	slugged := strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if dir == "" || slugged == "" {
		return "", fmt.Errorf("migration needs a directory and a name, got dir=%q name=%q", dir, name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	file := filepath.Join(dir, time.Now().UTC().Format(versionLayout)+"_"+slugged+".sql")
	f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", file, err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, fileTemplate, slugged); err != nil {
		return "", err
	}
	return file, nil
}
