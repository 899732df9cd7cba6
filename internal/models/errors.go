package models

import "errors"

var (
	// ErrNotFound сущность не найдена.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput некорректные входные данные.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyProcessed заявка на пополнение уже обработана.
	ErrAlreadyProcessed = errors.New("topup already processed")
	// ErrAlreadyExpired подписка уже в конечном состоянии.
	ErrAlreadyExpired = errors.New("subscription already expired")
	// ErrProductInactive продукт снят с продажи.
	ErrProductInactive = errors.New("product is not available")
	// ErrInvalidTransition запрошенный переход состояния подписки недопустим.
	ErrInvalidTransition = errors.New("invalid status transition")
)
