// Package permission answers authorization questions for role assignments.
//
// A Resolver maps roles to grants through a static matrix with role
// inheritance and wildcard patterns, and checks them against the assignments
// of a Subject. Grants may be business scoped, in which case the assignment
// must be held in exactly the business the check is about, or self-only, in
// which case the target user must be the subject.
//
// Key concepts:
//
//   - Permission: "resource.action" built from the closed Resource and Action enumerations
//   - Grant: a pattern ("report.view", "report.*" or "*") with its conditions
//   - Matrix: role to grants with inheritance, shipped as matrix.yaml
//   - Subject: an identity id and its computed role assignments
//
// An admin assignment allows everything. Anything the matrix does not grant is
// denied, including unknown resources and actions.
//
// Basic usage:
//
//	resolver, err := permission.NewResolver(ctx, permission.DefaultMatrixSource())
//	if err != nil {
//	    return err
//	}
//
//	subject := permission.SubjectOf(identityID, assignments)
//	if resolver.HasPermission(subject, permission.ResourceOrganization, permission.ActionManage,
//	    permission.InBusiness(businessID)) {
//	    // allowed
//	}
//
//	// Or from context
//	ctx = permission.WithSubject(ctx, subject)
//	if err := resolver.AuthorizeFromContext(ctx, permission.ResourceReport, permission.ActionView,
//	    permission.InBusiness(businessID)); err != nil {
//	    // errors.Is(err, permission.ErrPermissionDenied)
//	}
//
// The matrix is validated by NewResolver: every role needs an entry, patterns
// must name known resources and actions, and inheritance must be acyclic and at
// most MaxInheritanceDepth deep.
package permission
