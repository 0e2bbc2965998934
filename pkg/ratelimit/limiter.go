package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Limiter - Token Bucket ограничитель частоты ручных обновлений дашборда
//
// Алгоритм:
// - Ведро наполняется токенами со скоростью rate токенов/сек
// - Ёмкость ведра = burst (короткая серия нажатий «обновить» проходит)
// - Каждый запрос потребляет 1 токен, без токена запрос отклоняется
//
// Использование:
//
//	limiter := New(1, 3) // 1 обновление/сек, серия до 3
//	if !limiter.Allow() {
//	    retry := limiter.RetryAfter() // для заголовка Retry-After
//	}
type Limiter struct {
	rate       float64 // токенов в секунду
	burst      float64
	tokens     float64
	lastRefill time.Time
	now        func() time.Time
	mu         sync.Mutex
}

// New создаёт ограничитель с полным ведром.
// rate <= 0 заменяется на 1, burst < 1 заменяется на 1.
func New(rate, burst float64) *Limiter {
	return newWithClock(rate, burst, time.Now)
}

func newWithClock(rate, burst float64, now func() time.Time) *Limiter {
	if rate <= 0 || math.IsNaN(rate) {
		rate = 1
	}
	if burst < 1 || math.IsNaN(burst) {
		burst = 1
	}
	return &Limiter{
		rate:       rate,
		burst:      burst,
		tokens:     burst,
		lastRefill: now(),
		now:        now,
	}
}

// refill пополняет токены по прошедшему времени.
// ВАЖНО: вызывается под lock'ом
func (l *Limiter) refill() {
	now := l.now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	if elapsed > 0 {
		l.tokens = math.Min(l.burst, l.tokens+elapsed*l.rate)
	}
	l.lastRefill = now
}

// Allow забирает токен, если он есть
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// RetryAfter возвращает время до появления следующего токена (0, если токен есть)
func (l *Limiter) RetryAfter() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	if l.tokens >= 1 {
		return 0
	}
	return time.Duration((1 - l.tokens) / l.rate * float64(time.Second))
}

// Rate возвращает скорость пополнения (токенов/сек)
func (l *Limiter) Rate() float64 {
	return l.rate
}

// Burst возвращает ёмкость ведра
func (l *Limiter) Burst() float64 {
	return l.burst
}
