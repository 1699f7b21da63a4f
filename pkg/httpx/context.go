package httpx

import (
	"context"

	"github.com/aussiebroadwan/scaconnect/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeySubject ctxKey = "subject"
	CtxKeyClaims  ctxKey = "claims"
	CtxKeyBearer  ctxKey = "bearer"
)

// ClaimsFromContext returns the verified bearer claims, if any.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

// BearerFromContext returns the raw bearer that produced the claims.
func BearerFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyBearer).(string)
	return v
}

func subjectFromCtx(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeySubject).(string)
	return v
}

func contextWithAuth(ctx context.Context, raw string, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeySubject, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	ctx = context.WithValue(ctx, CtxKeyBearer, raw)
	return ctx
}
