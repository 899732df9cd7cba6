// Package memory реализует хранилище сущностей кошелька в памяти процесса.
//
// Контракт совпадает с PostgreSQL-хранилищем: каждая операция выполняется
// целиком под одним мьютексом, поэтому проверки статуса и изменения баланса
// атомарны относительно других вызовов. Используется как драйвер для локального
// запуска (storage_driver: memory) и в тестах сервисов.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

// Store хранилище в памяти.
type Store struct {
	mu            sync.Mutex
	now           func() time.Time
	users         map[string]models.User
	products      map[int64]models.Product
	subscriptions map[int64]models.Subscription
	topups        map[int64]models.Topup
	announcements map[int64]models.Announcement
	logs          []models.ActivityLog
	seq           int64
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{
		now:           time.Now,
		users:         map[string]models.User{},
		products:      map[int64]models.Product{},
		subscriptions: map[int64]models.Subscription{},
		topups:        map[int64]models.Topup{},
		announcements: map[int64]models.Announcement{},
	}
}

// nextID выдаёт монотонный идентификатор и метку времени. Вызывается под мьютексом.
func (s *Store) nextID() (int64, time.Time) {
	s.seq++
	// сдвиг на seq наносекунд сохраняет порядок создания при одинаковых часах
	return s.seq, s.now().Add(time.Duration(s.seq))
}

// Ping всегда успешен.
func (s *Store) Ping(context.Context) error { return nil }

// PutUser сохраняет пользователя как есть. Нужен для начального заполнения.
func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.CreatedAt.IsZero() {
		_, u.CreatedAt = s.nextID()
		u.UpdatedAt = u.CreatedAt
	}
	s.users[u.ID] = u
}

// ===== USERS =====

// GetUser возвращает пользователя по ID.
func (s *Store) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("memory.GetUser: %w", models.ErrNotFound)
	}
	return &u, nil
}

// ListUsers возвращает всех пользователей, новых первыми.
func (s *Store) ListUsers(_ context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		u := u
		result = append(result, &u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// TopSpenders возвращает limit пользователей с наибольшей суммой покупок.
func (s *Store) TopSpenders(_ context.Context, limit int) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*models.User
	for _, u := range s.users {
		if u.TotalSpent > 0 {
			u := u
			result = append(result, &u)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalSpent != result[j].TotalSpent {
			return result[i].TotalSpent > result[j].TotalSpent
		}
		return result[i].ID < result[j].ID
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// UpsertUser создаёт пользователя с ролью role или обновляет профиль существующего.
func (s *Store) UpsertUser(_ context.Context, identity models.Identity, role models.Role) (*models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[identity.ID]
	if !ok {
		_, ts := s.nextID()
		u = models.User{ID: identity.ID, Role: role, CreatedAt: ts}
	}
	u.Username = identity.Username
	u.DisplayName = identity.DisplayName
	if identity.Email != nil || !ok {
		u.Email = identity.Email
	}
	u.AvatarURL = identity.AvatarURL
	u.UpdatedAt = s.now()
	s.users[u.ID] = u
	return &u, !ok, nil
}

// UpdateUser применяет fn к копии пользователя и сохраняет её, если fn не вернула ошибку.
func (s *Store) UpdateUser(_ context.Context, id string, fn func(u *models.User) error) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("memory.UpdateUser: %w", models.ErrNotFound)
	}
	if err := fn(&u); err != nil {
		return nil, err
	}
	u.UpdatedAt = s.now()
	s.users[id] = u
	return &u, nil
}

// DeleteUser удаляет пользователя вместе с его подписками, пополнениями и объявлениями.
func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("memory.DeleteUser: %w", models.ErrNotFound)
	}
	for k, sub := range s.subscriptions {
		if sub.UserID == id {
			delete(s.subscriptions, k)
		}
	}
	for k, t := range s.topups {
		if t.UserID == id {
			delete(s.topups, k)
		}
	}
	for k, a := range s.announcements {
		if a.CreatedBy == id {
			delete(s.announcements, k)
		}
	}
	delete(s.users, id)
	return nil
}

// ===== PRODUCTS =====

// ListProducts возвращает продукты, новые первыми.
func (s *Store) ListProducts(_ context.Context) ([]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*models.Product, 0, len(s.products))
	for _, p := range s.products {
		p := p
		result = append(result, &p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// GetProduct возвращает продукт по ID.
func (s *Store) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("memory.GetProduct: %w", models.ErrNotFound)
	}
	return &p, nil
}

// CreateProduct сохраняет продукт.
func (s *Store) CreateProduct(_ context.Context, p models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID, p.CreatedAt = s.nextID()
	s.products[p.ID] = p
	return &p, nil
}

// UpdateProduct применяет fn к продукту.
func (s *Store) UpdateProduct(_ context.Context, id int64, fn func(p *models.Product) error) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("memory.UpdateProduct: %w", models.ErrNotFound)
	}
	if err := fn(&p); err != nil {
		return nil, err
	}
	s.products[id] = p
	return &p, nil
}

// ===== SUBSCRIPTIONS =====

// ListSubscriptions возвращает подписки с продуктами; пустой userID — все подписки.
func (s *Store) ListSubscriptions(_ context.Context, userID string) ([]*models.SubscriptionWithProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*models.SubscriptionWithProduct
	for _, sub := range s.subscriptions {
		if userID != "" && sub.UserID != userID {
			continue
		}
		p, ok := s.products[sub.ProductID]
		if !ok {
			continue
		}
		result = append(result, &models.SubscriptionWithProduct{Subscription: sub, Product: p})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// GetSubscription возвращает подписку по ID.
func (s *Store) GetSubscription(_ context.Context, id int64) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscriptions[id]
	if !ok {
		return nil, fmt.Errorf("memory.GetSubscription: %w", models.ErrNotFound)
	}
	return &sub, nil
}

// Purchase атомарно списывает цену продукта через fn и создаёт подписку.
func (s *Store) Purchase(_ context.Context, userID string, productID int64, deviceID string,
	fn func(u *models.User, p models.Product) error) (*models.Subscription, *models.User, error) {
	const op = "memory.Purchase"
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	u, ok := s.users[userID]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err := fn(&u, p); err != nil {
		return nil, nil, err
	}
	u.UpdatedAt = s.now()

	sub := models.Subscription{
		UserID:    userID,
		ProductID: productID,
		DeviceID:  deviceID,
		Status:    models.SubscriptionPending,
	}
	sub.ID, sub.CreatedAt = s.nextID()
	s.users[userID] = u
	s.subscriptions[sub.ID] = sub
	return &sub, &u, nil
}

// UpdateSubscription применяет fn к подписке.
func (s *Store) UpdateSubscription(_ context.Context, id int64,
	fn func(sub *models.Subscription, p models.Product) error) (*models.Subscription, error) {
	const op = "memory.UpdateSubscription"
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	p, ok := s.products[sub.ProductID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err := fn(&sub, p); err != nil {
		return nil, err
	}
	s.subscriptions[id] = sub
	return &sub, nil
}

// DeleteSubscription удаляет подписку и возвращает удалённую запись.
func (s *Store) DeleteSubscription(_ context.Context, id int64) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscriptions[id]
	if !ok {
		return nil, fmt.Errorf("memory.DeleteSubscription: %w", models.ErrNotFound)
	}
	delete(s.subscriptions, id)
	return &sub, nil
}

// ===== TOPUPS =====

// ListTopups возвращает заявки; пустой userID — все заявки.
func (s *Store) ListTopups(_ context.Context, userID string) ([]*models.Topup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*models.Topup
	for _, t := range s.topups {
		if userID != "" && t.UserID != userID {
			continue
		}
		t := t
		result = append(result, &t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// GetTopup возвращает заявку по ID.
func (s *Store) GetTopup(_ context.Context, id int64) (*models.Topup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.topups[id]
	if !ok {
		return nil, fmt.Errorf("memory.GetTopup: %w", models.ErrNotFound)
	}
	return &t, nil
}

// CreateTopup сохраняет заявку в статусе pending.
func (s *Store) CreateTopup(_ context.Context, t models.Topup) (*models.Topup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[t.UserID]; !ok {
		return nil, fmt.Errorf("memory.CreateTopup: %w", models.ErrNotFound)
	}
	t.ID, t.CreatedAt = s.nextID()
	t.Status = models.TopupPending
	t.AdminComment = nil
	s.topups[t.ID] = t
	return &t, nil
}

// ResolveTopup переводит заявку из pending в status и, если fn не nil,
// изменяет баланс владельца в той же критической секции.
func (s *Store) ResolveTopup(_ context.Context, id int64, status models.TopupStatus, comment *string,
	fn func(u *models.User, t models.Topup) error) (*models.Topup, *models.User, error) {
	const op = "memory.ResolveTopup"
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.topups[id]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if t.Status != models.TopupPending {
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrAlreadyProcessed)
	}
	t.Status = status
	t.AdminComment = comment

	if fn == nil {
		s.topups[id] = t
		return &t, nil, nil
	}
	u, ok := s.users[t.UserID]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err := fn(&u, t); err != nil {
		return nil, nil, err
	}
	u.UpdatedAt = s.now()
	s.users[u.ID] = u
	s.topups[id] = t
	return &t, &u, nil
}

// ===== ANNOUNCEMENTS =====

// ListAnnouncements возвращает объявления, новые первыми.
func (s *Store) ListAnnouncements(_ context.Context) ([]*models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*models.Announcement, 0, len(s.announcements))
	for _, a := range s.announcements {
		a := a
		result = append(result, &a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// CreateAnnouncement сохраняет объявление.
func (s *Store) CreateAnnouncement(_ context.Context, a models.Announcement) (*models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[a.CreatedBy]; !ok {
		return nil, fmt.Errorf("memory.CreateAnnouncement: %w", models.ErrNotFound)
	}
	a.ID, a.CreatedAt = s.nextID()
	s.announcements[a.ID] = a
	return &a, nil
}

// DeleteAnnouncement удаляет объявление.
func (s *Store) DeleteAnnouncement(_ context.Context, id int64) (*models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.announcements[id]
	if !ok {
		return nil, fmt.Errorf("memory.DeleteAnnouncement: %w", models.ErrNotFound)
	}
	delete(s.announcements, id)
	return &a, nil
}

// ===== ACTIVITY LOGS =====

// CreateActivityLog добавляет запись в журнал.
func (s *Store) CreateActivityLog(_ context.Context, entry models.ActivityLog) (*models.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID, entry.CreatedAt = s.nextID()
	entry.Metadata = cloneMetadata(entry.Metadata)
	s.logs = append(s.logs, entry)
	stored := entry
	stored.Metadata = cloneMetadata(entry.Metadata)
	return &stored, nil
}

// ListActivityLogs возвращает последние limit записей, новые первыми.
func (s *Store) ListActivityLogs(_ context.Context, limit int) ([]*models.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*models.ActivityLog
	for i := len(s.logs) - 1; i >= 0 && len(result) < limit; i-- {
		l := s.logs[i]
		l.Metadata = cloneMetadata(l.Metadata)
		result = append(result, &l)
	}
	return result, nil
}

// cloneMetadata копирует метаданные вместе с вложенными картами и срезами,
// чтобы записи журнала нельзя было изменить через возвращённое значение.
func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMetadata(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
