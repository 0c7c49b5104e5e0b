// Package identity builds authorization contexts for identities.
//
// A Builder reads an identity, its papers and its business registrations from
// the paper store in a single snapshot, computes role assignments with the
// roles package and derives the available and primary roles. An identity
// without assignments gets seeker as its only available role, so callers
// always receive an authorization-safe default.
//
//	builder := identity.NewBuilder(store, identity.WithLogger(log))
//
//	ic, err := builder.BuildContext(ctx, identityID)
//	if err != nil {
//	    return err
//	}
//	allowed := resolver.HasPermission(ic.Subject(), permission.ResourceReport,
//	    permission.ActionView, permission.InBusiness(businessID))
//
// SwitchContext narrows a context to one business and fails with
// ErrAccessDenied when the identity holds no role there. It is a stateless
// re-query: any notion of a current business belongs to the session layer.
//
// Built contexts can travel through context.Context with WithContext and
// FromContext; LoggerExtractor plugs the identity id into the logger package.
package identity
