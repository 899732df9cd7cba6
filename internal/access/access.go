// Package access реализует единую проверку прав вызывающего пользователя.
//
// Проверки выполняются на границе (HTTP-слой и входы сервисов администрирования)
// до того, как начнёт работу бизнес-логика.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

var (
	// ErrUnauthorized вызывающий не аутентифицирован.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden у вызывающего нет нужной роли.
	ErrForbidden = errors.New("forbidden")
	// ErrSelfAction администратор пытается изменить роль, заблокировать или удалить самого себя.
	ErrSelfAction = fmt.Errorf("%w: action on own account is not allowed", ErrForbidden)
	// ErrBanned учётная запись заблокирована.
	ErrBanned = errors.New("account banned")
)

// Caller аутентифицированный участник запроса.
type Caller struct {
	ID       string
	Role     models.Role
	IsBanned bool
}

// FromUser строит Caller по учётной записи.
func FromUser(u models.User) Caller {
	return Caller{ID: u.ID, Role: u.Role, IsBanned: u.IsBanned}
}

// IsAdmin сообщает, что вызывающий администратор.
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// RequireRole возвращает ErrForbidden, если роль вызывающего не совпадает с role.
func RequireRole(c Caller, role models.Role) error {
	if c.Role != role {
		return ErrForbidden
	}
	return nil
}

// RequireNotSelf запрещает административные действия над собственной учётной записью.
func RequireNotSelf(c Caller, targetID string) error {
	if c.ID == targetID {
		return ErrSelfAction
	}
	return nil
}

// RequireActive возвращает ErrBanned для заблокированного пользователя.
func RequireActive(c Caller) error {
	if c.IsBanned {
		return ErrBanned
	}
	return nil
}

// ParseRole разбирает строковое представление роли.
func ParseRole(s string) (models.Role, error) {
	r := models.Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("access.ParseRole: %w: unknown role %q", models.ErrInvalidInput, s)
	}
	return r, nil
}

type ctxKey struct{}

// WithCaller кладёт вызывающего в контекст.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// CallerFrom достаёт вызывающего из контекста.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(ctxKey{}).(Caller)
	return c, ok
}
