package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"
)

// DebugAuthConfig - учётные данные для debug endpoints
type DebugAuthConfig struct {
	Username string
	Password string
	// Development разрешает доступ без учётных данных
	Development bool
}

// DebugAuth - middleware для защиты debug/pprof endpoints
//
// Использует HTTP Basic Authentication с constant-time сравнением.
//
// Поведение:
// - учётные данные заданы: требуется Basic Auth (401 при несовпадении)
// - не заданы, development: доступ открыт
// - не заданы, production: 403
//
// Использование:
//
//	debug := router.PathPrefix("/debug").Subrouter()
//	debug.Use(middleware.DebugAuth(cfg))
func DebugAuth(cfg DebugAuthConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Username == "" || cfg.Password == "" {
				if cfg.Development {
					next.ServeHTTP(w, r)
					return
				}
				http.Error(w, "Debug endpoints disabled. Set DEBUG_USERNAME and DEBUG_PASSWORD.", http.StatusForbidden)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="Debug endpoints"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(cfg.Username)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(cfg.Password)) == 1

			if !userMatch || !passMatch {
				w.Header().Set("WWW-Authenticate", `Basic realm="Debug endpoints"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
