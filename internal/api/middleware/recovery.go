package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"riskdash/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Recovery - middleware для восстановления после паники в handlers
//
// Назначение:
// Перехватывает panic в HTTP handlers и предотвращает падение всего сервера.
// Логирует ошибку со stack trace и возвращает клиенту 500 в формате ErrorResponse.
//
// Детали паники клиенту не отдаются, только в лог.
func Recovery(log *utils.Logger) mux.MiddlewareFunc {
	if log == nil {
		log = utils.L()
	}
	log = log.WithComponent("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					log.Error("panic in handler",
						utils.Method(r.Method),
						utils.Path(r.URL.Path),
						utils.String("panic", fmt.Sprint(rec)),
						utils.String("stack", string(debug.Stack())))

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "internal server error",
						"code":  "INTERNAL",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
