// Package permissions holds the route table used by the RBAC middleware. It is embedded at
// build time from permissions.json.
package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"jumuia/shared/constant"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleAdmin, constant.RoleGeneralManager, constant.RoleManager, constant.RoleStaff}

// Permission lists the roles allowed on one endpoint. An empty list admits any authenticated caller
// and Skip makes the endpoint public.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the endpoint once authenticated.
func (p Permission) Allows(role string) bool {
	return p.Skip || len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	// Skip turns RBAC off for every route.
	Skip bool `json:"skip"`

	index map[string]Permission
}

// routeKey ignores method case and a trailing slash; chi reports a subrouter root as /v1/bookings/.
func routeKey(path, method string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return strings.ToUpper(method) + " " + path
}

// FindPermissions returns the entry for a chi route pattern, or the zero Permission.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	permission, _ := r.Lookup(path, method)

	return permission
}

// Lookup is FindPermissions that also reports whether the route is listed at all.
func (r *PermissionData) Lookup(path, method string) (Permission, bool) {
	permission, ok := r.index[routeKey(path, method)]

	return permission, ok
}

// Parse decodes a route table and rejects duplicate routes and unknown roles.
func Parse(raw []byte) (*PermissionData, error) {
	var data PermissionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	data.index = make(map[string]Permission, len(data.Endpoints))

	for _, endpoint := range data.Endpoints {
		key := routeKey(endpoint.Path, endpoint.Method)
		if _, dup := data.index[key]; dup {
			return nil, fmt.Errorf("duplicate permission entry %q", key)
		}

		for _, role := range endpoint.Permissions {
			if !slices.Contains(knownRoles, role) {
				return nil, fmt.Errorf("unknown role %q on %q", role, key)
			}
		}

		data.index[key] = endpoint
	}

	return &data, nil
}

// Get loads the embedded table. A broken table is a build defect, so it is fatal.
func Get() *PermissionData {
	data, err := Parse(permissionsData)
	if err != nil {
		log.Fatal().Err(err).Msg("Embedded permissions are invalid")
	}

	log.Info().Int("endpoints", len(data.Endpoints)).Msg("Loaded embedded permissions")

	return data
}
