package roles_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartplace/idrole/pkg/paper"
	"github.com/smartplace/idrole/pkg/roles"
)

func findPotential(p roles.Potential, role roles.Role) []roles.PotentialRole {
	var result []roles.PotentialRole
	for _, pr := range p.Potential {
		if pr.Role == role {
			result = append(result, pr)
		}
	}
	return result
}

func TestAnalyzePotential(t *testing.T) {
	t.Parallel()

	t.Run("worker can become manager of the same business", func(t *testing.T) {
		t.Parallel()

		biz := uuid.New()
		contract := newPaper(paper.TypeEmploymentContract, biz, 0)
		got := roles.AnalyzePotential([]paper.Paper{contract})

		assert.Equal(t, roles.Compute([]paper.Paper{contract}), got.Current)

		managers := findPotential(got, roles.Manager)
		require.Len(t, managers, 1)
		assert.Equal(t, roles.ScopedTo(biz), managers[0].Scope)
		assert.False(t, managers[0].AnyBusiness)
		assert.Equal(t, paper.TypeAuthorityDelegation, managers[0].NextStep.PaperType)
		assert.Equal(t, "add authority_delegation for business "+biz.String(), managers[0].NextStep.Rationale)
	})

	t.Run("no papers advertises only roles without requirements", func(t *testing.T) {
		t.Parallel()

		got := roles.AnalyzePotential(nil)
		assert.Empty(t, got.Current)

		var advertised []roles.Role
		for _, pr := range got.Potential {
			assert.True(t, pr.AnyBusiness)
			advertised = append(advertised, pr.Role)
		}
		assert.Equal(t, []roles.Role{roles.Franchisor, roles.Owner, roles.Worker}, advertised)

		franchisor := findPotential(got, roles.Franchisor)
		require.Len(t, franchisor, 1)
		assert.Equal(t, paper.PartyFranchisor, franchisor[0].NextStep.Party)
		assert.Equal(t, "add franchise_agreement (party franchisor) for any business", franchisor[0].NextStep.Rationale)
	})

	t.Run("admin is never advertised", func(t *testing.T) {
		t.Parallel()

		got := roles.AnalyzePotential([]paper.Paper{newPaper(paper.TypeBusinessRegistration, uuid.New(), 0)})
		assert.Empty(t, findPotential(got, roles.Admin))
	})

	t.Run("owner can become franchisee and manager", func(t *testing.T) {
		t.Parallel()

		biz := uuid.New()
		got := roles.AnalyzePotential([]paper.Paper{newPaper(paper.TypeBusinessRegistration, biz, 0)})

		franchisee := findPotential(got, roles.Franchisee)
		require.Len(t, franchisee, 1)
		assert.Equal(t, roles.ScopedTo(biz), franchisee[0].Scope)
		assert.Equal(t, paper.PartyFranchisee, franchisee[0].NextStep.Party)

		assert.Len(t, findPotential(got, roles.Manager), 1)
		assert.Empty(t, findPotential(got, roles.Owner), "owner is already held")
	})

	t.Run("missing prerequisite paper is suggested", func(t *testing.T) {
		t.Parallel()

		biz := uuid.New()
		delegation := newPaper(paper.TypeAuthorityDelegation, biz, 0)
		got := roles.AnalyzePotential([]paper.Paper{delegation})

		managers := findPotential(got, roles.Manager)
		require.Len(t, managers, 1)
		assert.Equal(t, roles.ScopedTo(biz), managers[0].Scope)
		assert.Contains(t,
			[]paper.Type{paper.TypeEmploymentContract, paper.TypeBusinessRegistration},
			managers[0].NextStep.PaperType,
		)

		// the suggestion really earns the role
		extra := newPaper(managers[0].NextStep.PaperType, biz, 1)
		assert.True(t, roles.Has(roles.Compute([]paper.Paper{delegation, extra}), roles.Manager, roles.ScopedTo(biz)))
	})

	t.Run("franchisee agreement suggests registering the branch", func(t *testing.T) {
		t.Parallel()

		biz := uuid.New()
		got := roles.AnalyzePotential([]paper.Paper{franchise(paper.PartyFranchisee, biz, 0)})

		franchisee := findPotential(got, roles.Franchisee)
		require.Len(t, franchisee, 1)
		assert.Equal(t, roles.ScopedTo(biz), franchisee[0].Scope)
		assert.Equal(t, paper.TypeBusinessRegistration, franchisee[0].NextStep.PaperType)
		assert.Equal(t, "add business_registration for business "+biz.String(), franchisee[0].NextStep.Rationale)
	})

	t.Run("lookahead does not recurse", func(t *testing.T) {
		t.Parallel()

		// manager needs a contract and a delegation: two papers away
		assert.Empty(t, findPotential(roles.AnalyzePotential(nil), roles.Manager))

		// a franchisor agreement elsewhere does not bring franchisee of X one paper closer
		got := roles.AnalyzePotential([]paper.Paper{franchise(paper.PartyFranchisor, uuid.New(), 0)})
		assert.Empty(t, findPotential(got, roles.Franchisee))
	})

	t.Run("held roles are not reported", func(t *testing.T) {
		t.Parallel()

		biz := uuid.New()
		papers := []paper.Paper{
			newPaper(paper.TypeEmploymentContract, biz, 0),
			newPaper(paper.TypeAuthorityDelegation, biz, 1),
		}
		got := roles.AnalyzePotential(papers)
		assert.Empty(t, findPotential(got, roles.Manager))
		assert.Empty(t, findPotential(got, roles.Worker))
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		papers := []paper.Paper{
			newPaper(paper.TypeEmploymentContract, uuid.New(), 0),
			newPaper(paper.TypeBusinessRegistration, uuid.New(), 1),
		}
		assert.Equal(t, roles.AnalyzePotential(papers), roles.AnalyzePotential(papers))
	})
}
