package backend

import (
	"errors"
	"fmt"
)

// ErrorKind - вид ошибки запроса к эндпоинту
type ErrorKind string

const (
	KindTransport ErrorKind = "transport" // сеть, таймаут, не-2xx статус
	KindEnvelope  ErrorKind = "envelope"  // success=false
	KindDecode    ErrorKind = "decode"    // тело ответа не JSON
)

// ErrUnsuccessful - бэкенд ответил success=false
var ErrUnsuccessful = errors.New("backend reported success=false")

// FetchError - ошибка загрузки одного эндпоинта
type FetchError struct {
	Endpoint Endpoint
	Kind     ErrorKind
	Status   int // HTTP статус, 0 если ответа не было
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: %s (status %d): %v", e.Endpoint, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Endpoint, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf возвращает вид ошибки или пустую строку, если это не FetchError
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
