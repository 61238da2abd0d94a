package hcl

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/pluginui/internal/config"
	"github.com/specialistvlad/pluginui/internal/ctxlog"
	"github.com/specialistvlad/pluginui/internal/fsutil"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths, in lexical order per path, and
// overlays each onto a copy of base. Later files win field by field.
func (l *Loader) Load(ctx context.Context, base *config.Model, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx, nil)

	model := *base
	files, err := l.collect(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Debug("No HCL configuration files found.", "paths", paths)
		return &model, nil
	}
	logger.Debug("Found HCL files to load", "files", files)

	parser := hclparse.NewParser()
	for _, path := range files {
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}

		var schema fileSchema
		if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
		}
		if err := apply(&model, &schema); err != nil {
			return nil, fmt.Errorf("invalid HCL file %s: %w", path, err)
		}
		logger.Debug("Applied configuration from HCL file", "file", path)
	}
	return &model, nil
}

// collect expands directories into their .hcl files.
func (l *Loader) collect(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat config path %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to walk config directory %s: %w", path, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

func apply(m *config.Model, s *fileSchema) error {
	if b := s.Bridge; b != nil {
		setString(&m.Bridge.Transport, b.Transport)
		setString(&m.Bridge.URL, b.URL)
		setString(&m.Bridge.Namespace, b.Namespace)
		if b.Timeout != nil {
			d, err := time.ParseDuration(*b.Timeout)
			if err != nil {
				return fmt.Errorf("bridge: invalid timeout '%s': %w", *b.Timeout, err)
			}
			m.Bridge.Timeout = d
		}
		if b.InsecureSkipVerify != nil {
			m.Bridge.InsecureSkipVerify = *b.InsecureSkipVerify
		}
		if b.QueueSize != nil {
			m.Bridge.QueueSize = *b.QueueSize
		}
	}
	if r := s.Registry; r != nil && r.StrictOwnership != nil {
		m.Registry.StrictOwnership = *r.StrictOwnership
	}
	if h := s.HTTP; h != nil && h.Port != nil {
		m.HTTP.Port = *h.Port
	}
	if lg := s.Log; lg != nil {
		setString(&m.Log.Level, lg.Level)
		setString(&m.Log.Format, lg.Format)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
