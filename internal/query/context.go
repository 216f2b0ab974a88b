package query

import "context"

type refetchKey struct{}

// Refetching reports whether ctx belongs to a request issued by Refetch.
// Data sources use it to skip sharing an in-flight round trip, which would
// otherwise hand the refetch a response that predates it.
func Refetching(ctx context.Context) bool {
	v, _ := ctx.Value(refetchKey{}).(bool)
	return v
}

func withRefetch(ctx context.Context) context.Context {
	return context.WithValue(ctx, refetchKey{}, true)
}
