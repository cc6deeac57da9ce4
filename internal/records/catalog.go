package records

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/hirecast/core/algo"
	"github.com/huangsam/hirecast/schema"
	"gopkg.in/yaml.v3"
)

//go:embed default_roles.yaml
var defaultRolesYAML []byte

// roleCatalog is the on-disk layout of a roles file.
type roleCatalog struct {
	Roles []schema.RoleRecord `yaml:"roles"`
}

// DefaultRoles returns the built-in role catalog.
func DefaultRoles() ([]schema.RoleRecord, error) {
	return ParseRoles(defaultRolesYAML)
}

// LoadRoles reads a YAML role catalog from path.
func LoadRoles(path string) ([]schema.RoleRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roles file %q: %w", path, err)
	}
	roles, err := ParseRoles(data)
	if err != nil {
		return nil, fmt.Errorf("invalid roles file %q: %w", path, err)
	}
	return roles, nil
}

// ParseRoles decodes a YAML role catalog, trimming skill names and removing duplicates.
// Every role needs a unique id and a name, and skill names must pass schema.ValidateSkillName.
func ParseRoles(data []byte) ([]schema.RoleRecord, error) {
	var catalog roleCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse role catalog: %w", err)
	}

	roles := make([]schema.RoleRecord, 0, len(catalog.Roles))
	seen := make(map[string]struct{}, len(catalog.Roles))
	for i, role := range catalog.Roles {
		role.ID = strings.TrimSpace(role.ID)
		role.Name = strings.TrimSpace(role.Name)
		if role.ID == "" {
			return nil, fmt.Errorf("role #%d has no id", i+1)
		}
		if role.Name == "" {
			return nil, fmt.Errorf("role %q has no name", role.ID)
		}
		if _, dup := seen[role.ID]; dup {
			return nil, fmt.Errorf("duplicate role id %q", role.ID)
		}
		seen[role.ID] = struct{}{}

		skills := make([]string, 0, len(role.Skills))
		for _, s := range role.Skills {
			if s = strings.TrimSpace(s); s == "" {
				continue
			}
			if err := schema.ValidateSkillName(s); err != nil {
				return nil, fmt.Errorf("role %q: %w", role.ID, err)
			}
			skills = append(skills, s)
		}
		role.Skills = algo.UniqueSkills(skills)
		roles = append(roles, role)
	}
	return roles, nil
}
