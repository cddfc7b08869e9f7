package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/nazmulcodes/deshcart-backend/api/responses"
	pkgerrors "github.com/nazmulcodes/deshcart-backend/pkg/errors"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
)

const adminKeyHeader = "X-Admin-Key"

// AdminKey guards the back-office routes with a static shared key.
func AdminKey(apiKey string, logg *logger.Logger) func(http.Handler) http.Handler {
	expected := []byte(strings.TrimSpace(apiKey))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := []byte(strings.TrimSpace(r.Header.Get(adminKeyHeader)))
			if len(expected) == 0 ||
				len(presented) != len(expected) ||
				subtle.ConstantTimeCompare(presented, expected) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid admin key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
