package schema

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/molotkova/treatment-datasets/pkg/taxonomy"
)

// The persisted layout:
//
//	dataset:
//	  name: compas
//	  n_samples: 7214
//	  columns_digest: 5f1c...
//	  structural:
//	    numerical:   {num: 2, features: [0, 3]}
//	    categorical: {num: 1, features: [1]}
//	  fairness:
//	    sensitive: {num: 1, features: [1]}
//	    ...
type document struct {
	Dataset *datasetDoc `yaml:"dataset"`
}

type datasetDoc struct {
	Name          string      `yaml:"name"`
	NSamples      int         `yaml:"n_samples"`
	ColumnsDigest string      `yaml:"columns_digest,omitempty"`
	Structural    roleSection `yaml:"structural,omitempty"`
	Fairness      roleSection `yaml:"fairness,omitempty"`
}

type featuresDoc struct {
	Num      int   `yaml:"num"`
	Features []int `yaml:"features,flow"`
}

type roleEntry struct {
	role     taxonomy.Role
	features featuresDoc
}

// roleSection keeps roles in taxonomy declaration order when encoding.
type roleSection []roleEntry

func (r roleSection) IsZero() bool {
	return len(r) == 0
}

func (r roleSection) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, entry := range r {
		value := &yaml.Node{}
		if err := value.Encode(entry.features); err != nil {
			return nil, err
		}
		value.Style = yaml.FlowStyle
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(entry.role)},
			value,
		)
	}
	return node, nil
}

func (r *roleSection) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of role to features", node.Line)
	}
	var result roleSection
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		var features featuresDoc
		if err := valueNode.Decode(&features); err != nil {
			return fmt.Errorf("line %d: role %q: %w", valueNode.Line, keyNode.Value, err)
		}
		result = append(result, roleEntry{role: taxonomy.Role(keyNode.Value), features: features})
	}
	*r = result
	return nil
}

func (s *Schema) section(t taxonomy.Taxonomy) roleSection {
	var result roleSection
	for _, role := range t.Roles() {
		indexes, ok := s.roles[t][role]
		if !ok {
			continue
		}
		features := append([]int{}, indexes...)
		result = append(result, roleEntry{
			role:     role,
			features: featuresDoc{Num: len(features), Features: features},
		})
	}
	return result
}

func (s *Schema) MarshalYAML() (any, error) {
	return document{Dataset: &datasetDoc{
		Name:          s.name,
		NSamples:      s.sampleCount,
		ColumnsDigest: s.columnsDigest,
		Structural:    s.section(taxonomy.Structural),
		Fairness:      s.section(taxonomy.Fairness),
	}}, nil
}

// UnmarshalYAML tolerates missing sections: an absent dataset, taxonomy or
// role decodes as a role with zero features. Unknown role keys are dropped.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	var doc document
	if err := node.Decode(&doc); err != nil {
		return err
	}

	result := Schema{roles: map[taxonomy.Taxonomy]map[taxonomy.Role][]int{
		taxonomy.Structural: {},
		taxonomy.Fairness:   {},
	}}
	if doc.Dataset != nil {
		result.name = doc.Dataset.Name
		result.sampleCount = doc.Dataset.NSamples
		result.columnsDigest = doc.Dataset.ColumnsDigest
		result.fill(taxonomy.Structural, doc.Dataset.Structural)
		result.fill(taxonomy.Fairness, doc.Dataset.Fairness)
	}

	*s = result
	return nil
}

func (s *Schema) fill(t taxonomy.Taxonomy, section roleSection) {
	for _, entry := range section {
		if t.Rank(entry.role) < 0 {
			continue
		}
		s.roles[t][entry.role] = append([]int{}, entry.features.Features...)
	}
}

// Encode writes the schema as YAML.
func (s *Schema) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile persists the schema as YAML at path.
func (s *Schema) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Parse decodes a schema from YAML text.
func Parse(raw []byte) (*Schema, error) {
	s := &Schema{}
	if err := yaml.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if s.roles == nil {
		// Empty documents never reach UnmarshalYAML.
		s.roles = map[taxonomy.Taxonomy]map[taxonomy.Role][]int{
			taxonomy.Structural: {},
			taxonomy.Fairness:   {},
		}
	}
	return s, nil
}

// Load decodes a schema from inline text when raw is non-empty, and from the
// file at path otherwise.
func Load(path string, raw []byte) (*Schema, error) {
	switch {
	case len(raw) > 0:
		return Parse(raw)
	case path != "":
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		s, err := Parse(contents)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return s, nil
	default:
		return nil, ErrConfiguration
	}
}
