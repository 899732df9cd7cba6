// Package export выгружает пользователей, подписки и пополнения в CSV.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// Типы выгрузки.
const (
	TypeUsers         = "users"
	TypeSubscriptions = "subscriptions"
	TypeTopups        = "topups"
)

// Repository источник данных выгрузки.
type Repository interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListSubscriptions(ctx context.Context, userID string) ([]*models.SubscriptionWithProduct, error)
	ListTopups(ctx context.Context, userID string) ([]*models.Topup, error)
}

// File готовый к отдаче CSV-файл.
type File struct {
	Name string
	Data []byte
}

// Service формирует выгрузки.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New создаёт Service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Export формирует CSV для kind. Неизвестный тип даёт ErrInvalidInput.
func (s *Service) Export(ctx context.Context, kind string) (*File, error) {
	const op = "export.Export"
	var (
		rows [][]string
		err  error
	)
	switch kind {
	case TypeUsers:
		rows, err = s.users(ctx)
	case TypeSubscriptions:
		rows, err = s.subscriptions(ctx)
	case TypeTopups:
		rows, err = s.topups(ctx)
	default:
		return nil, fmt.Errorf("%s: %w: invalid export type %q, use users, subscriptions or topups", op, models.ErrInvalidInput, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &File{
		Name: fmt.Sprintf("%s_%d.csv", kind, s.now().UnixMilli()),
		Data: buf.Bytes(),
	}, nil
}

func (s *Service) users(ctx context.Context) ([][]string, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"ID", "Username", "Display Name", "Email", "Role", "Balance (SAR)", "Total Spent (SAR)", "Banned", "Created At"}}
	for _, u := range users {
		rows = append(rows, []string{
			u.ID,
			u.Username,
			u.DisplayName,
			deref(u.Email),
			string(u.Role),
			Major(u.Balance),
			Major(u.TotalSpent),
			yesNo(u.IsBanned),
			timestamp(&u.CreatedAt),
		})
	}
	return rows, nil
}

func (s *Service) subscriptions(ctx context.Context) ([][]string, error) {
	subs, err := s.repo.ListSubscriptions(ctx, "")
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"ID", "User ID", "Product", "Device ID", "Status", "Start Date", "End Date", "Created At"}}
	for _, sub := range subs {
		rows = append(rows, []string{
			strconv.FormatInt(sub.Subscription.ID, 10),
			sub.UserID,
			sub.Product.Name,
			sub.DeviceID,
			string(sub.Status),
			timestamp(sub.StartDate),
			timestamp(sub.EndDate),
			timestamp(&sub.Subscription.CreatedAt),
		})
	}
	return rows, nil
}

func (s *Service) topups(ctx context.Context) ([][]string, error) {
	topups, err := s.repo.ListTopups(ctx, "")
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"ID", "User ID", "Amount (SAR)", "Status", "Proof URL", "Created At"}}
	for _, t := range topups {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.UserID,
			Major(t.Amount),
			string(t.Status),
			deref(t.ProofURL),
			timestamp(&t.CreatedAt),
		})
	}
	return rows, nil
}

// Major переводит сумму в минимальных единицах в строку основных единиц с двумя знаками.
func Major(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func timestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
