package middleware

type ContextKey string

// AccountCtxKey holds the *domain.Account resolved from the bearer token.
const AccountCtxKey = ContextKey("account")
