package cmd_test

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartplace/idrole/cmd/idrole/cmd"
	"github.com/smartplace/idrole/pkg/identity"
	"github.com/smartplace/idrole/pkg/paper"
	"github.com/smartplace/idrole/pkg/permission"
	"github.com/smartplace/idrole/pkg/roles"
)

const (
	ana    = "11111111-1111-4111-8111-111111111111"
	ben    = "22222222-2222-4222-8222-222222222222"
	cai    = "33333333-3333-4333-8333-333333333333"
	dee    = "44444444-4444-4444-8444-444444444444"
	eve    = "55555555-5555-4555-8555-555555555555"
	cafe   = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	nobody = "99999999-9999-4999-8999-999999999999"
)

// run executes the CLI against a memory store seeded from the fixture.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := runLogged(t, "", args...)
	return stdout, err
}

// runLogged is run with LOG_LEVEL set to level; it also returns what was
// logged.
func runLogged(t *testing.T, level string, args ...string) (string, string, error) {
	t.Helper()

	for _, k := range []string{"REDIS_URL", "LOG_LEVEL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	if level != "" {
		t.Setenv("LOG_LEVEL", level)
	}

	var stdout, stderr bytes.Buffer
	root := cmd.NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--store", "memory", "--seed", "testdata/fixture.yaml"}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// logLine returns the first logged line containing msg.
func logLine(t *testing.T, logs, msg string) string {
	t.Helper()
	for _, line := range strings.Split(logs, "\n") {
		if strings.Contains(line, msg) {
			return line
		}
	}
	t.Fatalf("no %q in logs:\n%s", msg, logs)
	return ""
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestContextCommand(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		out, err := run(t, "context", ana)
		require.NoError(t, err)

		ictx := decode[identity.Context](t, out)
		assert.Equal(t, roles.Owner, ictx.PrimaryRole)
		require.Len(t, ictx.Assignments, 1)
		assert.Equal(t, cafe, ictx.Assignments[0].Scope.String())
		require.Len(t, ictx.BusinessRegistrations, 1)
		assert.Equal(t, "Corner Cafe", ictx.BusinessRegistrations[0].LegalName)
	})

	t.Run("manager", func(t *testing.T) {
		out, err := run(t, "context", ben)
		require.NoError(t, err)

		ictx := decode[identity.Context](t, out)
		assert.Equal(t, roles.Manager, ictx.PrimaryRole)
		assert.Equal(t, []roles.Role{roles.Manager, roles.Worker}, ictx.AvailableRoles)
	})

	t.Run("revoked contract leaves a seeker", func(t *testing.T) {
		out, err := run(t, "context", cai)
		require.NoError(t, err)

		ictx := decode[identity.Context](t, out)
		assert.Empty(t, ictx.Assignments)
		assert.Equal(t, roles.Seeker, ictx.PrimaryRole)
	})

	t.Run("inactive identity", func(t *testing.T) {
		_, err := run(t, "context", eve)
		assert.ErrorIs(t, err, identity.ErrIdentityInactive)
	})

	t.Run("unknown identity", func(t *testing.T) {
		_, err := run(t, "context", nobody)
		assert.ErrorIs(t, err, paper.ErrIdentityNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := run(t, "context", "not-a-uuid")
		assert.Error(t, err)
	})
}

func TestCanCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed bool
	}{
		{name: "manager views attendance in the cafe", args: []string{ben, "attendance", "view", "--business", cafe}, allowed: true},
		{name: "manager cannot delete the organization", args: []string{ben, "organization", "delete", "--business", cafe}},
		{name: "manager needs a business", args: []string{ben, "attendance", "view"}},
		{name: "owner manages payroll", args: []string{ana, "payroll", "update", "--business", cafe}, allowed: true},
		{name: "owner of one business only", args: []string{ana, "payroll", "update", "--business", nobody}},
		{name: "admin can do anything", args: []string{dee, "platform", "manage"}, allowed: true},
		{name: "seeker edits own profile", args: []string{cai, "profile", "update", "--target", cai}, allowed: true},
		{name: "seeker cannot edit others", args: []string{cai, "profile", "update", "--target", ben}},
		{name: "unknown action is denied", args: []string{ana, "payroll", "teleport", "--business", cafe}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"can"}, tt.args...)...)
			if tt.allowed {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, permission.ErrPermissionDenied)
			}

			result := decode[map[string]any](t, out)
			assert.Equal(t, tt.allowed, result["allowed"])
		})
	}
}

func TestSwitchCommand(t *testing.T) {
	out, err := run(t, "switch", ben, cafe)
	require.NoError(t, err)
	sw := decode[identity.Switch](t, out)
	assert.Equal(t, roles.Manager, sw.PrimaryRole)

	_, err = run(t, "switch", cai, cafe)
	assert.ErrorIs(t, err, identity.ErrAccessDenied)

	// admin standing is global, not in any business
	_, err = run(t, "switch", dee, cafe)
	assert.ErrorIs(t, err, identity.ErrAccessDenied)
}

func TestPotentialCommand(t *testing.T) {
	out, err := run(t, "potential", ana)
	require.NoError(t, err)

	potential := decode[roles.Potential](t, out)
	var found []roles.Role
	for _, p := range potential.Potential {
		found = append(found, p.Role)
	}
	assert.Contains(t, found, roles.Franchisee)
	assert.Contains(t, found, roles.Manager)
	assert.NotContains(t, found, roles.Admin)
}

func TestWriteCommands(t *testing.T) {
	t.Run("paper add then deactivate", func(t *testing.T) {
		out, err := run(t, "paper", "add", cai, "--type", "employment_contract", "--business", cafe, "--payload", "position=cook")
		require.NoError(t, err)
		p := decode[paper.Paper](t, out)
		assert.Equal(t, "cook", p.Payload["position"])

		_, err = run(t, "paper", "deactivate", ben, "b1b1b1b1-b1b1-41b1-81b1-b1b1b1b1b1b1")
		require.NoError(t, err)
	})

	t.Run("invalid paper", func(t *testing.T) {
		_, err := run(t, "paper", "add", cai, "--type", "employment_contract")
		assert.ErrorIs(t, err, paper.ErrInvalidPaper)

		_, err = run(t, "paper", "add", cai, "--type", "franchise_agreement", "--business", cafe, "--party", "broker")
		assert.ErrorIs(t, err, paper.ErrInvalidPaper)

		_, err = run(t, "paper", "add", cai, "--type", "employment_contract", "--business", cafe, "--payload", "no-equals")
		assert.Error(t, err)
	})

	t.Run("register identity and business", func(t *testing.T) {
		out, err := run(t, "identity", "register", "--name", "Fay", "--email", "fay@example.com")
		require.NoError(t, err)
		id := decode[paper.Identity](t, out)
		assert.Equal(t, paper.KindPersonal, id.Kind)

		out, err = run(t, "business", "register", ana, "--name", "Second Cafe", "--type", "corporation")
		require.NoError(t, err)
		reg := decode[paper.BusinessRegistration](t, out)
		assert.Equal(t, paper.BusinessCorporation, reg.BusinessType)
	})

	t.Run("paper list includes inactive papers", func(t *testing.T) {
		out, err := run(t, "paper", "list", cai)
		require.NoError(t, err)
		papers := decode[[]paper.Paper](t, out)
		require.Len(t, papers, 2)
		assert.False(t, papers[0].Active)
	})
}

func TestMatrixCommand(t *testing.T) {
	out, err := run(t, "matrix", "--role", "worker")
	require.NoError(t, err)

	entries := decode[[]struct {
		Role   roles.Role         `json:"role"`
		Grants []permission.Grant `json:"grants"`
	}](t, out)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Grants, permission.Grant{Pattern: "job_posting.apply"})

	_, err = run(t, "matrix", "--role", "janitor")
	assert.ErrorIs(t, err, permission.ErrUnknownRole)
}

func TestStoreFlag(t *testing.T) {
	var stdout bytes.Buffer
	root := cmd.NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--store", "sqlite", "context", ana})
	assert.Error(t, root.Execute())

	t.Setenv("MONGODB_URL", "")
	require.NoError(t, os.Unsetenv("MONGODB_URL"))
	root = cmd.NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--store", "mongo", "context", ana})
	assert.Error(t, root.Execute(), "mongo needs MONGODB_URL")

	_, err := run(t, "migrate")
	assert.Error(t, err, "migrate needs postgres")

	_, err = run(t, "watch")
	assert.Error(t, err, "watch needs redis")
}

func TestHealthCommand(t *testing.T) {
	out, err := run(t, "health")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestCommandLogs(t *testing.T) {
	t.Run("records carry the identity", func(t *testing.T) {
		_, logs, err := runLogged(t, "debug", "can", ben, "schedule", "view", "--business", cafe)
		require.NoError(t, err)
		assert.Contains(t, logLine(t, logs, "permission checked"), ben)

		_, logs, err = runLogged(t, "debug", "potential", ana)
		require.NoError(t, err)
		assert.Contains(t, logLine(t, logs, "potential analyzed"), ana)

		_, logs, err = runLogged(t, "debug", "switch", dee, cafe)
		require.ErrorIs(t, err, identity.ErrAccessDenied)
		assert.Contains(t, logLine(t, logs, "business context switch denied"), dee)
	})

	t.Run("connections released after a failed command", func(t *testing.T) {
		_, logs, err := runLogged(t, "debug", "can", cai, "schedule", "edit", "--business", cafe)
		require.ErrorIs(t, err, permission.ErrPermissionDenied)
		logLine(t, logs, "connections released")

		_, logs, err = runLogged(t, "debug", "context", nobody)
		require.ErrorIs(t, err, paper.ErrIdentityNotFound)
		logLine(t, logs, "connections released")
	})
}
