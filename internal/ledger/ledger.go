// Package ledger содержит правила изменения баланса пользователя.
//
// Функции пакета чистые: принимают копию пользователя и возвращают новую.
// Сохранение результата и защита от гонок лежат на вызывающем коде,
// который обязан выполнять чтение, изменение и запись под блокировкой строки.
package ledger

import (
	"errors"
	"fmt"
	"math"

	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

var (
	// ErrInvalidAmount сумма операции не положительна или результат не помещается в int64.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds на балансе недостаточно средств.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAdjustment корректировка увела бы баланс в минус.
	ErrInvalidAdjustment = errors.New("balance cannot go below zero")
)

// Credit зачисляет amount на баланс.
func Credit(user models.User, amount int64) (models.User, error) {
	const op = "ledger.Credit"
	if amount <= 0 {
		return user, fmt.Errorf("%s: %w", op, ErrInvalidAmount)
	}
	if amount > math.MaxInt64-user.Balance {
		return user, fmt.Errorf("%s: %w: balance overflow", op, ErrInvalidAmount)
	}
	user.Balance += amount
	return user, nil
}

// Debit списывает amount с баланса. Для покупки сумма также добавляется в TotalSpent.
func Debit(user models.User, amount int64, purchase bool) (models.User, error) {
	const op = "ledger.Debit"
	if amount <= 0 {
		return user, fmt.Errorf("%s: %w", op, ErrInvalidAmount)
	}
	if user.Balance < amount {
		return user, fmt.Errorf("%s: %w: have %d, need %d", op, ErrInsufficientFunds, user.Balance, amount)
	}
	if purchase && amount > math.MaxInt64-user.TotalSpent {
		return user, fmt.Errorf("%s: %w: balance overflow", op, ErrInvalidAmount)
	}
	user.Balance -= amount
	if purchase {
		user.TotalSpent += amount
	}
	return user, nil
}

// Adjust ручная корректировка баланса администратором на величину со знаком.
// TotalSpent не меняется.
func Adjust(user models.User, signedAmount int64) (models.User, error) {
	const op = "ledger.Adjust"
	if signedAmount == 0 {
		return user, fmt.Errorf("%s: %w", op, ErrInvalidAmount)
	}
	if signedAmount > 0 && signedAmount > math.MaxInt64-user.Balance {
		return user, fmt.Errorf("%s: %w: balance overflow", op, ErrInvalidAmount)
	}
	if user.Balance+signedAmount < 0 {
		return user, fmt.Errorf("%s: %w", op, ErrInvalidAdjustment)
	}
	user.Balance += signedAmount
	return user, nil
}

// Kind вид операции над балансом.
type Kind int

// Виды операций.
const (
	KindCredit Kind = iota
	KindDebit
	KindPurchase
	KindAdjust
)

func (k Kind) String() string {
	switch k {
	case KindCredit:
		return "credit"
	case KindDebit:
		return "debit"
	case KindPurchase:
		return "purchase"
	case KindAdjust:
		return "adjust"
	default:
		return "unknown"
	}
}
