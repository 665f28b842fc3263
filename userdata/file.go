package userdata

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileProvider defines a public type used by gateAuth APIs.
//
// FileProvider verifies credentials against a flat JSON file holding an
// array of [User] records. The file is parsed once at construction;
// [FileProvider.Reload] re-parses it, clearing and rebuilding the table so
// removed users disappear immediately.
type FileProvider struct {
	path  string
	table *StaticProvider
}

// NewFileProvider creates a flat-file backend from the given path. A parse
// failure is a configuration error and prevents construction.
func NewFileProvider(path string) (*FileProvider, error) {
	p := &FileProvider{
		path:  path,
		table: NewStaticProvider(),
	}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload describes the reload operation and its observable behavior.
//
// Reload re-parses the user file and replaces the table atomically. On
// failure the previous table stays in effect.
func (p *FileProvider) Reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("userdata: read user file: %w", err)
	}

	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("userdata: parse user file %s: %w", p.path, err)
	}

	p.table.SetUsers(users)
	return nil
}

// Verify delegates to the in-memory table built from the file.
func (p *FileProvider) Verify(fields map[string]string) (map[string]string, error) {
	return p.table.Verify(fields)
}
