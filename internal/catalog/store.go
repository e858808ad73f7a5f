package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Source yields the product list in its canonical order; position defines the id.
type Source interface {
	Records(ctx context.Context) ([]ProductRecord, error)
	Ping(ctx context.Context) error
}

// FileSource reads a JSON array of records from disk on every call, so edits
// to the file are picked up without a restart.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Ping(ctx context.Context) error {
	_, err := os.Stat(s.Path)
	return err
}

func (s *FileSource) Records(ctx context.Context) ([]ProductRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	return DecodeRecords(data)
}

// DecodeRecords parses a JSON array of product records.
func DecodeRecords(data []byte) ([]ProductRecord, error) {
	var out []ProductRecord
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("decode products: expected a JSON array")
	}
	return out, nil
}
