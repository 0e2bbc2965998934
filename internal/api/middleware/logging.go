package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"riskdash/internal/metrics"
	"riskdash/pkg/utils"
)

// routeUnmatched - label маршрута для запросов мимо роутера (404, 405)
const routeUnmatched = "unmatched"

// Logging - middleware для логирования HTTP запросов
//
// Назначение:
// Логирует каждый запрос через zap и записывает метрики HTTP.
//
// Функции:
// - метод, путь, IP клиента, статус, длительность, размер ответа
// - метрики по шаблону маршрута (/api/v1/nop), а не по сырому пути
// - 5xx логируются на уровне warn, остальное на debug
//
// Формат лога (console):
// http request  method=GET path=/api/v1/nop status=200 elapsed=1.2ms remote_addr=10.0.0.1:5555 bytes=512
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	written     int64
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logging создаёт middleware логирования; nil log - глобальный логгер
func Logging(log *utils.Logger) mux.MiddlewareFunc {
	if log == nil {
		log = utils.L()
	}
	log = log.WithComponent("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			elapsed := time.Since(start)
			metrics.RecordHTTPRequest(r.Method, routeTemplate(r), wrapped.statusCode, elapsed)

			fields := []utils.Field{
				utils.Method(r.Method),
				utils.Path(r.URL.Path),
				utils.StatusCode(wrapped.statusCode),
				utils.Elapsed(elapsed),
				utils.RemoteAddr(r.RemoteAddr),
				utils.Int64("bytes", wrapped.written),
			}
			if wrapped.statusCode >= http.StatusInternalServerError {
				log.Warn("http request", fields...)
				return
			}
			log.Debug("http request", fields...)
		})
	}
}

// routeTemplate возвращает шаблон маршрута mux
func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return routeUnmatched
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return routeUnmatched
	}
	return tpl
}
