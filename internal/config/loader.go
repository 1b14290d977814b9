package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source records where a config value came from.
type Source struct {
	Kind   SourceKind
	Name   string // for default
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // key -> last file that set it
	Files   []string          // all loaded files, in load order
}

func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "solowindow", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "solowindow", "config.yaml"), nil
}

// Load reads the merged configuration from the standard location and returns an
// effective config ready for use by the daemon.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes. A missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	merged := newLayer()

	exists, err := pathExists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		ld := &includeLoader{seen: make(map[string]struct{})}
		if merged, err = ld.load(path); err != nil {
			return nil, err
		}
	}

	cfg, err := BuildEffectiveConfig(merged.raw)
	if err != nil {
		return nil, attachSourceContext(err, merged.sources)
	}
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, merged.sources)
	}

	return &LoadResult{
		Config:  cfg,
		Sources: merged.sources,
		Files:   merged.files,
	}, nil
}

// layer is the merged result of one file and everything it includes.
type layer struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
}

func newLayer() layer {
	return layer{sources: map[string]Source{}}
}

// over applies top on l; values set in top win.
func (l *layer) over(top layer) {
	l.raw = l.raw.merge(top.raw)
	for key, src := range top.sources {
		l.sources[key] = src
	}
	l.files = append(l.files, top.files...)
}

// includeLoader walks include directives depth first. Files reached twice
// through different includes are merged once; a file that includes itself
// through any chain is an error.
type includeLoader struct {
	seen  map[string]struct{}
	stack []string
}

type includeRef struct {
	Value  string
	Source Source
}

func (ld *includeLoader) load(path string) (layer, error) {
	canon, err := canonicalPath(path)
	if err != nil {
		return layer{}, err
	}
	for _, open := range ld.stack {
		if open == canon {
			return layer{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(ld.stack, " -> "), canon)
		}
	}
	if _, ok := ld.seen[canon]; ok {
		return newLayer(), nil
	}
	ld.seen[canon] = struct{}{}

	self, refs, err := parseFile(canon)
	if err != nil {
		return layer{}, err
	}

	ld.stack = append(ld.stack, canon)
	defer func() { ld.stack = ld.stack[:len(ld.stack)-1] }()

	out := newLayer()
	for _, ref := range refs {
		paths, err := expandInclude(canon, ref.Value)
		if err != nil {
			return layer{}, fmt.Errorf("%s:%d:%d: include %q: %w", ref.Source.File, ref.Source.Line, ref.Source.Column, ref.Value, err)
		}
		for _, incPath := range paths {
			inc, err := ld.load(incPath)
			if err != nil {
				return layer{}, err
			}
			out.over(inc)
		}
	}

	// The including file overrides its includes.
	out.over(self)
	return out, nil
}

// parseFile decodes one file strictly and records the position of every
// top-level key.
func parseFile(path string) (layer, []includeRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return layer{}, nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return layer{}, nil, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
	}

	out := newLayer()
	if err := decodeStrictYAML(data, &out.raw); err != nil {
		return layer{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	out.files = []string{path}

	var refs []includeRef
	root := rootMapping(&doc)
	if root == nil {
		return out, nil, nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		out.sources[key] = nodeSource(path, val)
		if key == "include" {
			refs = includeRefs(path, val)
		}
	}
	return out, refs, nil
}

func rootMapping(doc *yaml.Node) *yaml.Node {
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

func nodeSource(file string, node *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: node.Line, Column: node.Column}
}

func includeRefs(file string, val *yaml.Node) []includeRef {
	switch val.Kind {
	case yaml.ScalarNode:
		return []includeRef{{Value: val.Value, Source: nodeSource(file, val)}}
	case yaml.SequenceNode:
		refs := make([]includeRef, 0, len(val.Content))
		for _, item := range val.Content {
			if item.Kind == yaml.ScalarNode {
				refs = append(refs, includeRef{Value: item.Value, Source: nodeSource(file, item)})
			}
		}
		return refs
	default:
		return nil
	}
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// expandInclude resolves include relative to baseFile. A directory expands
// to its *.yaml and *.yml files in name order.
func expandInclude(baseFile string, include string) ([]string, error) {
	path, err := resolvePathRelativeToFile(baseFile, include)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(path, ent.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func resolvePathRelativeToFile(baseFile string, include string) (string, error) {
	switch {
	case include == "":
		return "", fmt.Errorf("path is empty")
	case include == "~" || strings.HasPrefix(include, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(include, "~")), nil
	case filepath.IsAbs(include):
		return include, nil
	default:
		return filepath.Join(filepath.Dir(baseFile), include), nil
	}
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func attachSourceContext(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
