package i18n

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCode represents an HTTP status code
type ErrorCode int

const (
	ErrorBadRequest     ErrorCode = http.StatusBadRequest
	ErrorUnauthorized   ErrorCode = http.StatusUnauthorized
	ErrorForbidden      ErrorCode = http.StatusForbidden
	ErrorNotFound       ErrorCode = http.StatusNotFound
	ErrorConflict       ErrorCode = http.StatusConflict
	ErrorInternalServer ErrorCode = http.StatusInternalServerError
)

// ErrorWithCode is a translatable error carrying the HTTP status it maps to
type ErrorWithCode struct {
	MessageID string
	Code      ErrorCode
	Data      map[string]any
}

// NewErrorWithCode creates a new error with a code
func NewErrorWithCode(messageID string, code ErrorCode) *ErrorWithCode {
	return &ErrorWithCode{
		MessageID: messageID,
		Code:      code,
	}
}

// WithParam returns a copy of the error carrying an extra template parameter
func (e *ErrorWithCode) WithParam(key string, value any) *ErrorWithCode {
	data := make(map[string]any, len(e.Data)+1)
	for k, v := range e.Data {
		data[k] = v
	}
	data[key] = value
	return &ErrorWithCode{MessageID: e.MessageID, Code: e.Code, Data: data}
}

// WithHttpCode returns a copy of the error answering with another status
func (e *ErrorWithCode) WithHttpCode(code ErrorCode) *ErrorWithCode {
	return &ErrorWithCode{MessageID: e.MessageID, Code: code, Data: e.Data}
}

// GetCode returns the error code
func (e *ErrorWithCode) GetCode() ErrorCode {
	return e.Code
}

// Error implements the error interface using the default language
func (e *ErrorWithCode) Error() string {
	return GetTranslator().Translate(e.MessageID, defaultLang, e.Data)
}

// Is matches any error sharing the same message ID, so parameterised copies
// still compare equal to the predefined value
func (e *ErrorWithCode) Is(target error) bool {
	var other *ErrorWithCode
	if !errors.As(target, &other) {
		return false
	}
	return other.MessageID == e.MessageID
}

// TranslateByContext translates the error based on the context's language preference
func (e *ErrorWithCode) TranslateByContext(c *gin.Context) string {
	return GetTranslator().Translate(e.MessageID, langFromContext(c), e.Data)
}

// AsErrorWithCode extracts an *ErrorWithCode from err, or returns nil
func AsErrorWithCode(err error) *ErrorWithCode {
	var ec *ErrorWithCode
	if errors.As(err, &ec) {
		return ec
	}
	return nil
}
