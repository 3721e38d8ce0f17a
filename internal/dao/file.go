package dao

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/a1s/ntable/internal/params"
)

// Dataset is the document shape of a dataset file when it is not a bare list.
type Dataset struct {
	Rows []any `yaml:"rows" json:"rows"`
}

// DatasetFile reads a YAML or JSON dataset and pushes its rows on change.
type DatasetFile struct {
	path string
	log  *slog.Logger
}

// NewDatasetFile returns a dataset file source for path.
func NewDatasetFile(path string, log *slog.Logger) *DatasetFile {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &DatasetFile{path: path, log: log.With("source", path)}
}

// Path returns the dataset path.
func (d *DatasetFile) Path() string {
	return d.path
}

// Read parses the file. The document is either a list of rows or a
// mapping with a rows key. JSON parses as YAML.
func (d *DatasetFile) Read() ([]any, error) {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", d.path, err)
	}
	if len(node.Content) == 0 {
		return []any{}, nil
	}
	doc := node.Content[0]
	if doc.Kind == yaml.SequenceNode {
		var rows []any
		if err := doc.Decode(&rows); err != nil {
			return nil, fmt.Errorf("decode dataset %s: %w", d.path, err)
		}
		return nonNil(rows), nil
	}

	var ds Dataset
	if err := doc.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", d.path, err)
	}

	return nonNil(ds.Rows), nil
}

// Watch pushes the rows through a.Apply every time the file is written.
// The file's directory is watched so editors replacing the file are seen.
// A file that fails to parse is logged and the previous rows stay.
// Watching stops when ctx is done.
func (d *DatasetFile) Watch(ctx context.Context, a Applier) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(d.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", d.path, err)
	}

	go d.watchLoop(ctx, watcher, a)

	return nil
}

func (d *DatasetFile) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, a Applier) {
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(d.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			rows, err := d.Read()
			if err != nil {
				d.log.Warn("dataset reload failed", "error", err)
				continue
			}
			d.log.Debug("dataset changed", "rows", len(rows))
			a.Apply(func(p *params.Params) { p.SetData(rows) })
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			d.log.Warn("watch error", "error", err)
		}
	}
}

func nonNil(rows []any) []any {
	if rows == nil {
		return []any{}
	}
	return rows
}
