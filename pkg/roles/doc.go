// Package roles derives role assignments from papers.
//
// A role is a named authorization tier held either globally or inside one
// business. Roles are never stored: Compute recomputes them from the papers an
// identity holds, so deactivating a paper removes the roles it justified on the
// next read.
//
// Key concepts:
//
//   - Role: closed enumeration ordered by authority (admin, franchisor,
//     franchisee, owner, manager, worker, seeker)
//   - Scope: Global or ScopedTo(businessID); the zero value is Global
//   - Assignment: a (role, scope, source paper ids) tuple
//   - Prerequisite: a table row declaring which paper, and which already held
//     roles in the same business, earn a role
//
// Rows that require other roles are evaluated after the rows of those roles.
// The table is validated when the package loads and the program panics if it
// disagrees with the Role or paper.Type enumerations or contains a cycle.
//
// Basic usage:
//
//	assignments := roles.Compute(papers)
//	primary := roles.Primary(roles.Distinct(assignments))
//
//	if roles.Has(assignments, roles.Manager, roles.ScopedTo(businessID)) {
//	    // manages businessID
//	}
//
//	potential := roles.AnalyzePotential(papers)
//	for _, p := range potential.Potential {
//	    fmt.Println(p.Role, p.NextStep.Rationale)
//	}
//
// Seeker is never produced by Compute. It is the role callers fall back to when
// an identity holds no assignment.
package roles
