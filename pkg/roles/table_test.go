package roles_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartplace/idrole/pkg/paper"
	"github.com/smartplace/idrole/pkg/roles"
)

func TestTable(t *testing.T) {
	t.Parallel()

	table := roles.Table()

	t.Run("every role except seeker has a row", func(t *testing.T) {
		t.Parallel()

		for _, role := range roles.All() {
			has := slices.ContainsFunc(table, func(p roles.Prerequisite) bool { return p.Role == role })
			assert.Equal(t, role != roles.Seeker, has, role)
		}
	})

	t.Run("every paper type earns a role", func(t *testing.T) {
		t.Parallel()

		for _, pt := range paper.All() {
			assert.True(t, slices.ContainsFunc(table, func(p roles.Prerequisite) bool { return p.Paper == pt }), pt)
		}
	})

	t.Run("required roles come first", func(t *testing.T) {
		t.Parallel()

		seen := map[roles.Role]bool{}
		for _, row := range table {
			for _, req := range row.RequiresAny {
				assert.True(t, seen[req], "%s evaluated before %s", row.Role, req)
			}
			seen[row.Role] = true
		}
	})

	t.Run("returns a copy", func(t *testing.T) {
		t.Parallel()

		first := roles.Table()
		for i := range first {
			first[i].RequiresAny = append(first[i].RequiresAny, roles.Admin)
			first[i].Role = roles.Seeker
		}
		assert.NotEqual(t, first, roles.Table())
	})
}

func validRows() []roles.Prerequisite {
	return []roles.Prerequisite{
		{Role: roles.Admin, Paper: paper.TypeAdminAppointment},
		{Role: roles.Owner, Paper: paper.TypeBusinessRegistration, Scoped: true},
		{Role: roles.Worker, Paper: paper.TypeEmploymentContract, Scoped: true},
		{Role: roles.Franchisor, Paper: paper.TypeFranchiseAgreement, Party: paper.PartyFranchisor, Scoped: true},
		{Role: roles.Manager, Paper: paper.TypeAuthorityDelegation, Scoped: true, RequiresAny: []roles.Role{roles.Worker}},
		{Role: roles.Franchisee, Paper: paper.TypeFranchiseAgreement, Party: paper.PartyFranchisee, Scoped: true, RequiresAny: []roles.Role{roles.Manager}},
	}
}

func TestOrderTable(t *testing.T) {
	t.Parallel()

	t.Run("orders by dependency depth", func(t *testing.T) {
		t.Parallel()

		ordered, err := roles.OrderTable(validRows())
		require.NoError(t, err)

		var got []roles.Role
		for _, row := range ordered {
			got = append(got, row.Role)
		}
		assert.Equal(t, []roles.Role{
			roles.Admin, roles.Franchisor, roles.Owner, roles.Worker,
			roles.Manager,
			roles.Franchisee,
		}, got)
	})

	tests := []struct {
		name    string
		mutate  func([]roles.Prerequisite) []roles.Prerequisite
		wantErr error
	}{
		{
			name: "missing role",
			mutate: func(rows []roles.Prerequisite) []roles.Prerequisite {
				return rows[1:]
			},
			wantErr: roles.ErrInvalidTable,
		},
		{
			name: "seeker row",
			mutate: func(rows []roles.Prerequisite) []roles.Prerequisite {
				return append(rows, roles.Prerequisite{Role: roles.Seeker, Paper: paper.TypeEmploymentContract, Scoped: true})
			},
			wantErr: roles.ErrInvalidTable,
		},
		{
			name: "duplicate role",
			mutate: func(rows []roles.Prerequisite) []roles.Prerequisite {
				return append(rows, rows[2])
			},
			wantErr: roles.ErrInvalidTable,
		},
		{
			name: "unknown paper type",
			mutate: func(rows []roles.Prerequisite) []roles.Prerequisite {
				rows[2].Paper = "library_card"
				return rows
			},
			wantErr: roles.ErrInvalidTable,
		},
		{
			name: "unconsumed paper type",
			mutate: func(rows []roles.Prerequisite) []roles.Prerequisite {
				rows[4].Paper = paper.TypeEmploymentContract
				return rows
			},
			wantErr: roles.ErrInvalidTable,
		},
		{
			name: "scoping disagrees with paper type",
			mutate: func(rows []roles.Prerequisite) []roles.Prerequisite {
				rows[0].Scoped = true
				return rows
			},
			wantErr: roles.ErrInvalidTable,
		},
		{
			name: "requirement with different scoping",
			mutate: func(rows []roles.Prerequisite) []roles.Prerequisite {
				rows[4].RequiresAny = []roles.Role{roles.Admin}
				return rows
			},
			wantErr: roles.ErrInvalidTable,
		},
		{
			name: "cycle",
			mutate: func(rows []roles.Prerequisite) []roles.Prerequisite {
				rows[2].RequiresAny = []roles.Role{roles.Franchisee}
				return rows
			},
			wantErr: roles.ErrCircularDependency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := roles.OrderTable(tt.mutate(validRows()))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), err.Error())
		})
	}
}
