// Package authz holds the role permission table: which role may perform
// which operation on reports. Rules live in a Casbin enforcer; admins
// inherit the pilot permissions.
package authz

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Resources.
const (
	ObjReport = "report"
	ObjQueue  = "queue"
)

// Operations.
const (
	ActSave    = "save"
	ActDelete  = "delete"
	ActReadOwn = "read_own"
	ActRead    = "read"
	ActDecide  = "decide"
	ActAssign  = "assign"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

var policies = [][]string{
	{string(models.RolePilot), ObjReport, ActSave},
	{string(models.RolePilot), ObjReport, ActDelete},
	{string(models.RolePilot), ObjReport, ActReadOwn},
	{string(models.RoleRegistrar), ObjQueue, ActRead},
	{string(models.RoleRegistrar), ObjQueue, ActDecide},
	{string(models.RoleRegistrar), ObjQueue, ActAssign},
}

var inheritance = [][]string{
	{string(models.RoleAdmin), string(models.RolePilot)},
}

type Enforcer struct {
	e *casbin.SyncedEnforcer
}

// New builds the enforcer from the built-in policy table.
func New() (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}

	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz enforcer: %w", err)
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, fmt.Errorf("authz policies: %w", err)
	}
	if _, err := e.AddGroupingPolicies(inheritance); err != nil {
		return nil, fmt.Errorf("authz roles: %w", err)
	}
	return &Enforcer{e: e}, nil
}

// Allowed reports whether role may perform act on obj. Enforcement errors
// deny.
func (a *Enforcer) Allowed(role models.Role, obj, act string) bool {
	ok, err := a.e.Enforce(string(role), obj, act)
	return err == nil && ok
}
