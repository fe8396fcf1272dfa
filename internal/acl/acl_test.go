package acl

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	noCaller := func() (string, error) {
		return "", errors.New("whoami must not be called")
	}
	caller := func(name string) func() (string, error) {
		return func() (string, error) { return name, nil }
	}

	for tn, tc := range map[string]struct {
		entries  []Entry
		isJobs   bool
		whoami   func() (string, error)
		expected []Grant
	}{
		"admins group is dropped and no caller grant": {
			entries: []Entry{
				{UserName: "a", AllPermissions: []Permission{{PermissionLevel: PermissionIsOwner}}},
				{GroupName: AdminsGroup, AllPermissions: []Permission{{PermissionLevel: PermissionCanManage}}},
			},
			whoami:   noCaller,
			expected: []Grant{{UserName: "a", PermissionLevel: PermissionIsOwner}},
		},
		"only the first permission is considered": {
			entries: []Entry{
				{GroupName: "data-eng", AllPermissions: []Permission{
					{PermissionLevel: "CAN_VIEW"},
					{PermissionLevel: PermissionCanManage, Inherited: true, InheritedFromObject: []string{"/directories/"}},
				}},
			},
			whoami:   noCaller,
			expected: []Grant{{GroupName: "data-eng", PermissionLevel: "CAN_VIEW"}},
		},
		"order is preserved": {
			entries: []Entry{
				{UserName: "b@example.com", AllPermissions: []Permission{{PermissionLevel: "CAN_RESTART"}}},
				{GroupName: "users", AllPermissions: []Permission{{PermissionLevel: "CAN_ATTACH_TO"}}},
				{UserName: "a@example.com", AllPermissions: []Permission{{PermissionLevel: PermissionCanManage}}},
			},
			whoami: noCaller,
			expected: []Grant{
				{UserName: "b@example.com", PermissionLevel: "CAN_RESTART"},
				{GroupName: "users", PermissionLevel: "CAN_ATTACH_TO"},
				{UserName: "a@example.com", PermissionLevel: PermissionCanManage},
			},
		},
		"jobs owned by someone else get a caller grant appended last": {
			entries: []Entry{
				{UserName: "owner@example.com", AllPermissions: []Permission{{PermissionLevel: PermissionIsOwner}}},
				{GroupName: "users", AllPermissions: []Permission{{PermissionLevel: "CAN_VIEW"}}},
			},
			isJobs: true,
			whoami: caller("me@example.com"),
			expected: []Grant{
				{UserName: "owner@example.com", PermissionLevel: PermissionIsOwner},
				{GroupName: "users", PermissionLevel: "CAN_VIEW"},
				{UserName: "me@example.com", PermissionLevel: PermissionCanManage},
			},
		},
		"jobs owned by the caller get no extra grant": {
			entries: []Entry{
				{UserName: "me@example.com", AllPermissions: []Permission{{PermissionLevel: PermissionIsOwner}}},
			},
			isJobs:   true,
			whoami:   caller("me@example.com"),
			expected: []Grant{{UserName: "me@example.com", PermissionLevel: PermissionIsOwner}},
		},
		"jobs without any owner get a caller grant": {
			entries: []Entry{},
			isJobs:  true,
			whoami:  caller("me@example.com"),
			expected: []Grant{
				{UserName: "me@example.com", PermissionLevel: PermissionCanManage},
			},
		},
		"group owner is tracked": {
			entries: []Entry{
				{GroupName: "me@example.com", AllPermissions: []Permission{{PermissionLevel: PermissionIsOwner}}},
			},
			isJobs:   true,
			whoami:   caller("me@example.com"),
			expected: []Grant{{GroupName: "me@example.com", PermissionLevel: PermissionIsOwner}},
		},
	} {
		t.Run(tn, func(t *testing.T) {
			// when
			grants, err := Build(tc.entries, tc.isJobs, tc.whoami)

			// then
			require.NoError(t, err)
			assert.Equal(t, tc.expected, grants)
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Run("entry without permissions", func(t *testing.T) {
		// when
		_, err := Build([]Entry{{UserName: "a"}}, false, nil)

		// then
		assert.ErrorIs(t, err, ErrNoPermissions)
		assert.ErrorContains(t, err, "entry 0 (a)")
	})

	t.Run("entry without principal", func(t *testing.T) {
		// given
		var entries []Entry
		err := json.Unmarshal([]byte(`[
			{"user_name": "a", "all_permissions": [{"permission_level": "CAN_VIEW"}]},
			{"service_principal_name": "sp-1", "all_permissions": [{"permission_level": "CAN_MANAGE"}]}
		]`), &entries)
		require.NoError(t, err)

		// when
		grants, err := Build(entries, false, nil)

		// then
		assert.ErrorIs(t, err, ErrNoPrincipal)
		assert.ErrorContains(t, err, "entry 1")
		assert.Nil(t, grants)
	})

	t.Run("whoami failure", func(t *testing.T) {
		// given
		whoami := func() (string, error) { return "", errors.New("unauthorized") }

		// when
		_, err := Build([]Entry{}, true, whoami)

		// then
		assert.ErrorContains(t, err, "while resolving current user: unauthorized")
	})
}

func TestGrant_JSON(t *testing.T) {
	// given
	var entries []Entry
	err := json.Unmarshal([]byte(`[
		{"user_name": "a", "all_permissions": [{"permission_level": "IS_OWNER", "inherited": false}]},
		{"group_name": "admins", "all_permissions": [{"permission_level": "CAN_MANAGE", "inherited": true, "inherited_from_object": ["/jobs/"]}]}
	]`), &entries)
	require.NoError(t, err)

	// when
	grants, err := Build(entries, false, nil)
	require.NoError(t, err)
	data, err := json.Marshal(grants)

	// then
	require.NoError(t, err)
	assert.JSONEq(t, `[{"user_name":"a","permission_level":"IS_OWNER"}]`, string(data))
}
