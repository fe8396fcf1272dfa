// Package acl flattens permission lists returned by the workspace API into the
// request shape accepted when the permissions are re-applied.
package acl

import (
	"errors"
	"fmt"
)

const (
	PermissionIsOwner   = "IS_OWNER"
	PermissionCanManage = "CAN_MANAGE"

	// AdminsGroup is never granted explicitly, the workspace manages it.
	AdminsGroup = "admins"
)

var (
	ErrNoPermissions = errors.New("acl entry has no permissions")
	ErrNoPrincipal   = errors.New("acl entry has neither user_name nor group_name")
)

type Permission struct {
	PermissionLevel     string   `json:"permission_level"`
	Inherited           bool     `json:"inherited,omitempty"`
	InheritedFromObject []string `json:"inherited_from_object,omitempty"`
}

// Entry is a single principal with all of its permissions, as exported.
type Entry struct {
	UserName       string       `json:"user_name,omitempty"`
	GroupName      string       `json:"group_name,omitempty"`
	AllPermissions []Permission `json:"all_permissions"`
}

// Grant is the flattened form of Entry.
type Grant struct {
	UserName        string `json:"user_name,omitempty"`
	GroupName       string `json:"group_name,omitempty"`
	PermissionLevel string `json:"permission_level"`
}

func (e Entry) IsUser() bool {
	return e.UserName != ""
}

func (e Entry) principal() string {
	if e.IsUser() {
		return e.UserName
	}
	return e.GroupName
}

// Build flattens entries keeping only the first permission of each one.
// The admins group is dropped. For jobs, whoami is asked for the caller and,
// unless the caller already owns the job, a CAN_MANAGE grant for the caller is
// appended as the last element.
func Build(entries []Entry, isJobs bool, whoami func() (string, error)) ([]Grant, error) {
	grants := make([]Grant, 0, len(entries)+1)
	currentOwner := ""

	for i, member := range entries {
		if member.principal() == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrNoPrincipal)
		}
		if len(member.AllPermissions) == 0 {
			return nil, fmt.Errorf("entry %d (%s): %w", i, member.principal(), ErrNoPermissions)
		}
		level := member.AllPermissions[0].PermissionLevel

		if member.IsUser() {
			grants = append(grants, Grant{UserName: member.UserName, PermissionLevel: level})
		} else {
			if member.GroupName == AdminsGroup {
				continue
			}
			grants = append(grants, Grant{GroupName: member.GroupName, PermissionLevel: level})
		}
		if level == PermissionIsOwner {
			currentOwner = member.principal()
		}
	}

	if !isJobs {
		return grants, nil
	}

	me, err := whoami()
	if err != nil {
		return nil, fmt.Errorf("while resolving current user: %w", err)
	}
	if currentOwner != me {
		grants = append(grants, Grant{UserName: me, PermissionLevel: PermissionCanManage})
	}

	return grants, nil
}
