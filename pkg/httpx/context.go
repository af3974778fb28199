package httpx

type ctxKey string

const (
	// CtxKeySubject carries the verified token subject.
	CtxKeySubject ctxKey = "subject"
	// CtxKeyClaims carries the full jwtx.Claims if a handler needs them.
	CtxKeyClaims ctxKey = "claims"
)
