package access

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Role permissions are keyed by the role stored on the employee record
// (ADMIN, HR, EMPLOYEE). Resources and actions may be wildcarded with "*".

type Permission struct {
	Resource string   `yaml:"resource"`
	Actions  []string `yaml:"actions"`
}

type Role struct {
	Description string       `yaml:"description"`
	Permissions []Permission `yaml:"permissions"`
}

type Policy struct {
	DefaultRole string              `yaml:"default_role"`
	Roles       map[string]Role     `yaml:"roles"`
	Inheritance map[string][]string `yaml:"inheritance"`
}

type RBAC struct {
	policy *Policy
	mu     sync.RWMutex
}

func New() *RBAC {
	return &RBAC{}
}

// LoadPolicy loads the role policy from a YAML file.
func (r *RBAC) LoadPolicy(filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("failed to read policy file: %w", err)
	}
	return r.LoadPolicyBytes(data)
}

func (r *RBAC) LoadPolicyBytes(data []byte) error {
	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return fmt.Errorf("failed to parse policy file: %w", err)
	}

	r.mu.Lock()
	r.policy = &policy
	r.mu.Unlock()

	slog.Info("RBAC policy loaded", "roles", len(policy.Roles))
	return nil
}

// expandRoles returns the role plus everything it inherits.
func (r *RBAC) expandRoles(role string) map[string]bool {
	roles := make(map[string]bool)
	r.addRole(role, roles)
	return roles
}

func (r *RBAC) addRole(role string, roles map[string]bool) {
	if roles[role] {
		return
	}
	roles[role] = true
	if r.policy.Inheritance == nil {
		return
	}
	for _, inherited := range r.policy.Inheritance[role] {
		r.addRole(inherited, roles)
	}
}

// Can checks whether the given role may perform an action on a resource.
func (r *RBAC) Can(role, resource, action string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.policy == nil {
		slog.Warn("RBAC policy not loaded")
		return false
	}

	if role == "" {
		role = r.policy.DefaultRole
	}

	for roleName := range r.expandRoles(role) {
		def, exists := r.policy.Roles[roleName]
		if !exists {
			continue
		}
		for _, perm := range def.Permissions {
			if perm.Resource != "*" && perm.Resource != resource {
				continue
			}
			for _, act := range perm.Actions {
				if act == "*" || act == action {
					return true
				}
			}
		}
	}
	return false
}
