package lang

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"
)

// LoadData decodes a YAML or JSON document into a data model. An empty
// document yields an empty model. The document must be a mapping.
func LoadData(ctx context.Context, r io.Reader) (map[string]any, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "data"))
	}

	vars := map[string]any{}

	if len(bytes.TrimSpace(data)) == 0 {
		return vars, nil
	}

	if err := yaml.UnmarshalContext(ctx, data, &vars); err != nil {
		return nil, ErrLoadData.Wrap(err)
	}

	if vars == nil {
		vars = map[string]any{}
	}

	return vars, nil
}

// LoadDataFile decodes the YAML or JSON file at path into a data model.
func LoadDataFile(ctx context.Context, path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	vars, err := LoadData(ctx, f)
	if err != nil {
		return nil, ErrLoadData.Wrap(err).With(slog.String("path", path))
	}

	return vars, nil
}
