// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// # User Roles

// UserRole names the capability group a user code belongs to.
type UserRole string

const (
	// Full panel access.
	RoleAdmin UserRole = "admin"

	// Staff of the systems area who log hours and manage items.
	RoleAreaWorker UserRole = "area_worker"

	// May browse everything but mutate nothing.
	RoleReadOnly UserRole = "read_only"
)

// Flags are the capability booleans derived from a user code.
type Flags struct {
	IsAdmin      bool `json:"isAdmin"`
	IsAreaWorker bool `json:"isAreaWorker"`
	OnlyView     bool `json:"onlyView"`
}

// # Role Table

// RoleTable maps user codes to exactly one [UserRole]. It replaces hard-coded
// allow-lists; membership semantics are the same.
type RoleTable struct {
	roles map[string]UserRole
}

// NewRoleTable builds a table from the three membership lists. A code listed
// under more than one role is rejected so the lists stay disjoint.
func NewRoleTable(admins, areaWorkers, readOnly []string) (*RoleTable, error) {
	table := &RoleTable{roles: make(map[string]UserRole)}

	lists := []struct {
		role  UserRole
		codes []string
	}{
		{RoleAdmin, admins},
		{RoleAreaWorker, areaWorkers},
		{RoleReadOnly, readOnly},
	}

	for _, list := range lists {
		for _, code := range list.codes {
			if err := table.assign(code, list.role); err != nil {
				return nil, err
			}
		}
	}

	return table, nil
}

// roleFile is the on-disk YAML shape accepted by [LoadRoleTable].
//
//	roles:
//	  EJQ001: admin
//	  LJP001: area_worker
//	  MFD001: read_only
type roleFile struct {
	Roles map[string]UserRole `yaml:"roles"`
}

// LoadRoleTable reads a YAML role file mapping user codes to roles.
func LoadRoleTable(path string) (*RoleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read role file %s: %w", path, err)
	}

	var file roleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("sec: failed to parse role file %s: %w", path, err)
	}

	table := &RoleTable{roles: make(map[string]UserRole, len(file.Roles))}
	for code, role := range file.Roles {
		switch role {
		case RoleAdmin, RoleAreaWorker, RoleReadOnly:
		default:
			return nil, fmt.Errorf("sec: unknown role %q for code %s", role, code)
		}
		if err := table.assign(code, role); err != nil {
			return nil, err
		}
	}

	return table, nil
}

func (table *RoleTable) assign(code string, role UserRole) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	if existing, found := table.roles[code]; found && existing != role {
		return fmt.Errorf("sec: code %s listed as both %s and %s", code, existing, role)
	}
	table.roles[code] = role
	return nil
}

// Role returns the role assigned to a code and whether one exists.
func (table *RoleTable) Role(code string) (UserRole, bool) {
	role, found := table.roles[code]
	return role, found
}

// Derive computes the capability flags for a user code. It is a pure function
// of the code: calling it any number of times yields the same flags.
func (table *RoleTable) Derive(code string) Flags {
	role, _ := table.Role(code)
	return Flags{
		IsAdmin:      role == RoleAdmin,
		IsAreaWorker: role == RoleAreaWorker,
		OnlyView:     role == RoleReadOnly,
	}
}

// IsAdmin reports whether identity holds the admin role. It lets admins act on
// records owned by others.
func (table *RoleTable) IsAdmin(identity *Identity) bool {
	return identity != nil && table.Derive(identity.UserCode).IsAdmin
}

// # Area Policy

// AreaPolicy is the coarse, path-based restriction applied during
// authentication: only the super-admin code or members of the systems area
// may enter the restricted prefixes.
type AreaPolicy struct {
	SuperAdminCode string
	SystemsArea    string
	Prefixes       []string
}

// Blocks reports whether the identity must be turned away from target. Repeated
// slashes and dot segments are resolved before matching.
func (policy AreaPolicy) Blocks(identity *Identity, target string) bool {
	if identity == nil {
		return true
	}
	if identity.UserCode == policy.SuperAdminCode || identity.Area == policy.SystemsArea {
		return false
	}

	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	target = path.Clean(target)

	for _, prefix := range policy.Prefixes {
		if target == prefix || strings.HasPrefix(target, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}
