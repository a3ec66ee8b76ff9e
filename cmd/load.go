package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/tripscore/internal/extract"
	"github.com/sells-group/tripscore/internal/fetcher"
)

// loadDocument reads every path concurrently and merges the records in path
// order. Markdown goes through the block parser, tables through column
// detection and everything else is read as a JSON or YAML payload.
func loadDocument(ctx context.Context, paths []string) (extract.Document, error) {
	docs := make([]extract.Document, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, path := range paths {
		g.Go(func() error {
			doc, err := loadFile(path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return extract.Document{}, err
	}

	out := extract.NewDocument()
	for _, d := range docs {
		out.Merge(d)
	}
	return out, nil
}

func loadFile(path string) (extract.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return extract.Document{}, eris.Wrapf(err, "read %s", path)
		}
		return extract.FromMarkdown(string(data)), nil
	case ".csv", ".tsv", ".xlsx":
		rows, err := fetcher.ReadTableFile(path)
		if err != nil {
			return extract.Document{}, err
		}
		return extract.FromTable(rows), nil
	default:
		data, err := fetcher.LoadPayload(path)
		if err != nil {
			return extract.Document{}, err
		}
		return extract.FromPayload(data), nil
	}
}

// readJSONInput decodes a JSON or YAML file into dst.
func readJSONInput(path string, dst any) error {
	data, err := fetcher.LoadPayload(path)
	if err != nil {
		return err
	}
	return eris.Wrapf(json.Unmarshal(data, dst), "decode %s", path)
}
