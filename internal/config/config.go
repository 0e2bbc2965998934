package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Refresh RefreshConfig
	Logging LoggingConfig
	Debug   DebugConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// BackendConfig - подключение к REST бэкенду риск-данных
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration // на каждый запрос
}

// RefreshConfig - параметры цикла обновления
type RefreshConfig struct {
	Interval           time.Duration
	AutoRefresh        bool
	ClientMonitorLimit int
	RiskDays           int
	RiskMinTrades      int

	// Лимит ручных обновлений: токенов в секунду и размер пачки
	ManualRate  float64
	ManualBurst int
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// DebugConfig - доступ к /debug/pprof
type DebugConfig struct {
	EnablePprof bool
	Username    string
	Password    string
	Env         string
}

// Development возвращает true для локального окружения
func (d DebugConfig) Development() bool {
	return d.Env == "" || d.Env == "development"
}

// defaults - значения по умолчанию для всех ключей
var defaults = map[string]interface{}{
	"SERVER_HOST":          "0.0.0.0",
	"SERVER_PORT":          8080,
	"SERVER_READ_TIMEOUT":  15 * time.Second,
	"SERVER_WRITE_TIMEOUT": 30 * time.Second,
	"SHUTDOWN_TIMEOUT":     30 * time.Second,
	"CORS_ALLOWED_ORIGINS": "",
	"BACKEND_BASE_URL":     "http://localhost:8000",
	"BACKEND_TIMEOUT":      15 * time.Second,
	"REFRESH_INTERVAL":     5 * time.Second,
	"AUTO_REFRESH":         true,
	"CLIENT_MONITOR_LIMIT": 40,
	"RISK_DAYS":            7,
	"RISK_MIN_TRADES":      10,
	"MANUAL_REFRESH_RATE":  1.0,
	"MANUAL_REFRESH_BURST": 3,
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "json",
	"LOG_OUTPUT":           "",
	"ENABLE_PPROF":         false,
	"DEBUG_USERNAME":       "",
	"DEBUG_PASSWORD":       "",
	"ENV":                  "",
}

// Load загружает конфигурацию из .env (если есть) и переменных окружения
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom загружает конфигурацию; envFiles подгружаются в окружение через godotenv.
// Отсутствующие файлы пропускаются, уже заданные переменные окружения не перезаписываются.
func LoadFrom(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			Host:            v.GetString("SERVER_HOST"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
			CORSOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/"),
			Timeout: v.GetDuration("BACKEND_TIMEOUT"),
		},
		Refresh: RefreshConfig{
			Interval:           v.GetDuration("REFRESH_INTERVAL"),
			AutoRefresh:        v.GetBool("AUTO_REFRESH"),
			ClientMonitorLimit: v.GetInt("CLIENT_MONITOR_LIMIT"),
			RiskDays:           v.GetInt("RISK_DAYS"),
			RiskMinTrades:      v.GetInt("RISK_MIN_TRADES"),
			ManualRate:         v.GetFloat64("MANUAL_REFRESH_RATE"),
			ManualBurst:        v.GetInt("MANUAL_REFRESH_BURST"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
		Debug: DebugConfig{
			EnablePprof: v.GetBool("ENABLE_PPROF"),
			Username:    v.GetString("DEBUG_USERNAME"),
			Password:    v.GetString("DEBUG_PASSWORD"),
			Env:         v.GetString("ENV"),
		},
	}

	if err := cfg.validateBackend(); err != nil {
		return nil, err
	}

	// Валидация числовых диапазонов
	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateBackend проверяет адрес бэкенда
func (c *Config) validateBackend() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}

	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("BACKEND_BASE_URL is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL must be an http(s) URL, got %q", c.Backend.BaseURL)
	}

	return nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	// Таймауты должны быть положительными
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive, got %v", c.Backend.Timeout)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}

	if c.Refresh.Interval < time.Second {
		return fmt.Errorf("REFRESH_INTERVAL must be at least 1s, got %v", c.Refresh.Interval)
	}

	if c.Refresh.ClientMonitorLimit < 1 || c.Refresh.ClientMonitorLimit > 1000 {
		return fmt.Errorf("CLIENT_MONITOR_LIMIT must be between 1 and 1000, got %d", c.Refresh.ClientMonitorLimit)
	}

	if c.Refresh.RiskDays < 1 || c.Refresh.RiskDays > 365 {
		return fmt.Errorf("RISK_DAYS must be between 1 and 365, got %d", c.Refresh.RiskDays)
	}

	if c.Refresh.RiskMinTrades < 0 {
		return fmt.Errorf("RISK_MIN_TRADES cannot be negative, got %d", c.Refresh.RiskMinTrades)
	}

	if c.Refresh.ManualRate <= 0 {
		return fmt.Errorf("MANUAL_REFRESH_RATE must be positive, got %v", c.Refresh.ManualRate)
	}

	if c.Refresh.ManualBurst < 1 {
		return fmt.Errorf("MANUAL_REFRESH_BURST must be at least 1, got %d", c.Refresh.ManualBurst)
	}

	return nil
}

// Addr возвращает адрес для http.Server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// splitList разбирает список через запятую, пропуская пустые элементы
func splitList(raw string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
