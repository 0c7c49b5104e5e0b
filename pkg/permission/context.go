package permission

import "context"

// subjectCtxKey is the context key for the permission subject.
type subjectCtxKey struct{}

// WithSubject stores the subject in the context.
func WithSubject(ctx context.Context, subject Subject) context.Context {
	return context.WithValue(ctx, subjectCtxKey{}, subject)
}

// SubjectFromContext retrieves the subject from the context.
func SubjectFromContext(ctx context.Context) (Subject, bool) {
	subject, ok := ctx.Value(subjectCtxKey{}).(Subject)
	return subject, ok
}
