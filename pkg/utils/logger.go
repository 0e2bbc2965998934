package utils

// logger.go - структурированное логирование на базе zap
//
// Назначение:
// Единый логгер для всего сервиса: опрос бэкенда, HTTP API, middleware.
//
// Функции:
// - InitLogger: создать логгер по конфигурации (уровень, формат, вывод)
// - InitGlobalLogger / SetGlobalLogger / L: глобальный логгер
// - WithComponent / WithCycle: дочерние логгеры компонента и цикла
// - Конструкторы полей предметной области: Endpoint, Connectivity, Cycle, ...

import (
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig - настройки логгера
type LogConfig struct {
	Level       string // debug, info, warn, error, fatal
	Format      string // json | text
	Output      string // путь к файлу; пусто = stderr
	Development bool
}

// Field - поле структурированного лога
type Field = zap.Field

// Logger - обёртка над zap.Logger
type Logger struct {
	*zap.Logger
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

// InitLogger создаёт логгер по конфигурации.
//
// Не паникует и не возвращает ошибку: если файл вывода открыть не удалось,
// логгер пишет в stderr.
func InitLogger(cfg LogConfig) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.MillisDurationEncoder

	var encoder zapcore.Encoder
	if strings.ToLower(cfg.Format) == "text" {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		if cfg.Development {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, openOutput(cfg.Output), zap.NewAtomicLevelAt(parseLevel(cfg.Level)))

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}

	return &Logger{Logger: zap.New(core, opts...)}
}

// openOutput открывает файл для логов, при ошибке возвращает stderr
func openOutput(path string) zapcore.WriteSyncer {
	if path == "" || path == "stderr" {
		return zapcore.Lock(os.Stderr)
	}
	if path == "stdout" {
		return zapcore.Lock(os.Stdout)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(f)
}

// parseLevel переводит строковый уровень в zapcore.Level (по умолчанию info)
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// InitGlobalLogger создаёт логгер и делает его глобальным
func InitGlobalLogger(cfg LogConfig) *Logger {
	l := InitLogger(cfg)
	SetGlobalLogger(l)
	return l
}

// SetGlobalLogger заменяет глобальный логгер
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// L возвращает глобальный логгер, при необходимости создавая логгер по умолчанию
func L() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = InitLogger(LogConfig{})
	}
	return globalLogger
}

// With возвращает дочерний логгер с дополнительными полями
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

// WithComponent добавляет имя компонента (refresher, http, backend)
func (l *Logger) WithComponent(name string) *Logger {
	return l.With(Component(name))
}

// WithCycle добавляет номер цикла обновления
func (l *Logger) WithCycle(cycle uint64) *Logger {
	return l.With(Cycle(cycle))
}

// Sync сбрасывает буферы глобального логгера
func Sync() error {
	return L().Sync()
}

// ============================================================
// Конструкторы полей
// ============================================================

func Endpoint(name string) zap.Field      { return zap.String("endpoint", name) }
func Connectivity(state string) zap.Field { return zap.String("connectivity", state) }
func Cycle(n uint64) zap.Field            { return zap.Uint64("cycle", n) }
func Succeeded(n int) zap.Field           { return zap.Int("succeeded", n) }
func Failed(n int) zap.Field              { return zap.Int("failed", n) }
func Elapsed(d time.Duration) zap.Field   { return zap.Duration("elapsed", d) }
func StatusCode(code int) zap.Field       { return zap.Int("status", code) }
func Method(method string) zap.Field      { return zap.String("method", method) }
func Path(path string) zap.Field          { return zap.String("path", path) }
func RemoteAddr(addr string) zap.Field    { return zap.String("remote_addr", addr) }
func Component(name string) zap.Field     { return zap.String("component", name) }

// Реэкспорт используемых конструкторов zap
var (
	String   = zap.String
	Int64    = zap.Int64
	Float64  = zap.Float64
	Bool     = zap.Bool
	Duration = zap.Duration
	Err      = zap.Error
)
