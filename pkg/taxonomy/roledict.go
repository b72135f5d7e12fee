package taxonomy

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrRoleDict = errors.New("reading role dictionary")

// Assignment lists the columns authored under one role.
type Assignment struct {
	Role    Role
	Columns []string
}

// RoleDict maps role names to ordered column-name lists. Unlike a Go map it
// keeps the order roles were authored in, which decides the flattened column
// order used by reordering.
//
// In YAML a RoleDict is a mapping whose keys are role names in any case:
//
//	Sensitive: [sex, race, age]
//	Target: [two_year_recid]
type RoleDict []Assignment

// Columns returns the columns listed under r, or nil.
func (d RoleDict) Columns(r Role) []string {
	for _, a := range d {
		if a.Role == r {
			return a.Columns
		}
	}
	return nil
}

// Roles returns the roles of d in authored order.
func (d RoleDict) Roles() []Role {
	roles := make([]Role, len(d))
	for i, a := range d {
		roles[i] = a.Role
	}
	return roles
}

// Flatten concatenates every role's columns in authored order.
func (d RoleDict) Flatten() []string {
	var result []string
	for _, a := range d {
		result = append(result, a.Columns...)
	}
	return result
}

func (d *RoleDict) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of role to columns", node.Line)
	}

	result := make(RoleDict, 0, len(node.Content)/2)
	seen := make(map[Role]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		role := Role(strings.ToLower(strings.TrimSpace(keyNode.Value)))
		if seen[role] {
			return fmt.Errorf("line %d: role %q listed twice", keyNode.Line, keyNode.Value)
		}
		seen[role] = true

		var columns []string
		if err := valueNode.Decode(&columns); err != nil {
			return fmt.Errorf("line %d: columns of role %q: %w", valueNode.Line, keyNode.Value, err)
		}
		result = append(result, Assignment{Role: role, Columns: columns})
	}

	*d = result
	return nil
}

func (d RoleDict) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, a := range d {
		value := &yaml.Node{}
		columns := a.Columns
		if columns == nil {
			columns = []string{}
		}
		if err := value.Encode(columns); err != nil {
			return nil, err
		}
		value.Style = yaml.FlowStyle
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(a.Role)},
			value,
		)
	}
	return node, nil
}

// ParseRoleDict decodes a RoleDict from YAML text.
func ParseRoleDict(raw []byte) (RoleDict, error) {
	var d RoleDict
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRoleDict, err)
	}
	return d, nil
}

// LoadRoleDict reads a RoleDict from a YAML file.
func LoadRoleDict(path string) (RoleDict, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRoleDict, err)
	}

	d, err := ParseRoleDict(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
