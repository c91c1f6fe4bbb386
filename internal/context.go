package internal

import "context"

type ctxKeyCorrelationId struct{}

func CtxWithCorrelationId(ctx context.Context, correlationId string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationId{}, correlationId)
}

func CorrelationIdFromCtx(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	correlationId, _ := ctx.Value(ctxKeyCorrelationId{}).(string)
	return correlationId
}

// CtxEnsureCorrelationId returns a context guaranteed to carry a correlation
// id, generating one when the given context doesn't have one yet.
func CtxEnsureCorrelationId(ctx context.Context) (context.Context, string) {
	if correlationId := CorrelationIdFromCtx(ctx); correlationId != "" {
		return ctx, correlationId
	}
	correlationId := GenerateId()
	return CtxWithCorrelationId(ctx, correlationId), correlationId
}
