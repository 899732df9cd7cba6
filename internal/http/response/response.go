// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков: успешных ответов, ошибок
// и сообщений валидации в едином формате, а также отображение доменных
// ошибок на HTTP-статусы.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/ledger"
	"github.com/magabrotheeeer/subscription-wallet/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
	// InternalMessage текст ответа на непредвиденную ошибку.
	InternalMessage = "internal error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must not exceed %s", err.Field(), err.Param()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must not be empty", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

type mapping struct {
	target error
	status int
}

// порядок важен: ErrSelfAction оборачивает ErrForbidden
var mappings = []mapping{
	{models.ErrNotFound, http.StatusNotFound},
	{models.ErrInvalidInput, http.StatusBadRequest},
	{models.ErrAlreadyProcessed, http.StatusBadRequest},
	{models.ErrAlreadyExpired, http.StatusBadRequest},
	{models.ErrProductInactive, http.StatusBadRequest},
	{models.ErrInvalidTransition, http.StatusBadRequest},
	{ledger.ErrInvalidAmount, http.StatusBadRequest},
	{ledger.ErrInvalidAdjustment, http.StatusBadRequest},
	{ledger.ErrInsufficientFunds, http.StatusPaymentRequired},
	{access.ErrSelfAction, http.StatusForbidden},
	{access.ErrForbidden, http.StatusForbidden},
	{access.ErrBanned, http.StatusForbidden},
	{access.ErrUnauthorized, http.StatusUnauthorized},
	{jwt.ErrInvalidToken, http.StatusUnauthorized},
}

func lookup(err error) (mapping, bool) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m, true
		}
	}
	return mapping{}, false
}

// Status возвращает HTTP-статус для ошибки. Неизвестные ошибки дают 500.
func Status(err error) int {
	if m, ok := lookup(err); ok {
		return m.status
	}
	return http.StatusInternalServerError
}

// Message возвращает текст ошибки для клиента. Префиксы операций отрезаются,
// а текст неизвестных ошибок не раскрывается.
func Message(err error) string {
	m, ok := lookup(err)
	if !ok {
		return InternalMessage
	}
	msg := err.Error()
	if idx := strings.Index(msg, m.target.Error()); idx >= 0 {
		return msg[idx:]
	}
	return m.target.Error()
}

// Fail пишет ответ с ошибкой: статус по Status, текст по Message.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, Status(err))
	render.JSON(w, r, Error(Message(err)))
}
