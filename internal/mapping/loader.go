package mapping

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"CompanyAPI/internal/logger"

	"gopkg.in/yaml.v3"
)

//go:embed mappings.yml
var defaultMappings []byte

type fileMapping struct {
	DTO    string         `yaml:"dto"`
	Entity string         `yaml:"entity"`
	Fields []FieldMapping `yaml:"fields"`
}

type file struct {
	Mappings []fileMapping `yaml:"mappings"`
}

// Default builds the registry from the embedded mappings.yml.
func Default() (*Registry, error) {
	return Load(bytes.NewReader(defaultMappings))
}

func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Load parses a mappings document. The document is checked structurally on
// the yaml.Node tree before decoding so that typos fail startup.
func Load(src io.Reader) (*Registry, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("empty mappings document")
	}
	if err := validateYAMLNode(&root, "root"); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	var doc file
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	reg := NewRegistry()
	for _, m := range doc.Mappings {
		dto := strings.TrimSpace(m.DTO)
		entity := strings.TrimSpace(m.Entity)
		if dto == "" || entity == "" {
			return nil, fmt.Errorf("mapping requires dto and entity")
		}
		set, err := NewSet(m.Fields...)
		if err != nil {
			return nil, fmt.Errorf("%s -> %s: %w", dto, entity, err)
		}
		reg.Register(dto, entity, set)
		logger.Debug("property_mapping_loaded", map[string]any{
			"dto":    dto,
			"entity": entity,
			"fields": set.Sources(),
		})
	}
	return reg, nil
}
