package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/respond"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
)

type TokenResolver interface {
	ResolveByToken(ctx context.Context, token string) (*domain.Account, error)
}

// BearerAuth rejects requests without a valid "Authorization: Bearer" token
// and stores the resolved account in the request context.
func BearerAuth(resolver TokenResolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))

			account, err := resolver.ResolveByToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					respond.Error(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				log.Error("Token lookup failed", zap.String("path", r.URL.Path), zap.Error(err))
				respond.Error(w, http.StatusInternalServerError, "internal error")
				return
			}

			ctx := context.WithValue(r.Context(), AccountCtxKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// AccountFromContext returns the account set by BearerAuth.
func AccountFromContext(ctx context.Context) (*domain.Account, bool) {
	account, ok := ctx.Value(AccountCtxKey).(*domain.Account)
	return account, ok && account != nil
}
