package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"alert_bot/internal/models"
)

// Store — реестр правил и пользователей. Движок его только читает;
// запись — дело внешнего CRUD (здесь — сид из конфига).
type Store struct {
	mu    sync.RWMutex
	rules map[int64]*models.AlertRule
	users map[int64]*models.User
}

// NewStore instance
func NewStore() *Store {
	return &Store{
		rules: make(map[int64]*models.AlertRule),
		users: make(map[int64]*models.User),
	}
}

// CreateRule in registry
func (s *Store) CreateRule(
	ctx context.Context,
	rule *models.AlertRule,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("registry.CreateRule: %w", err)
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[rule.ID] = rule
	return nil
}

// GetRule by id
func (s *Store) GetRule(
	ctx context.Context,
	ruleID int64,
) (rule *models.AlertRule, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("registry.GetRule: %w", err)
		}
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	rule, ok := s.rules[ruleID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return rule, nil
}

// DeleteRule from registry
func (s *Store) DeleteRule(
	ctx context.Context,
	ruleID int64,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("registry.DeleteRule: %w", err)
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rules, ruleID)
	return nil
}

// ListEnabled — снапшот включённых правил.
func (s *Store) ListEnabled(ctx context.Context) ([]*models.AlertRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.AlertRule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListEnabledBySymbol — включённые правила по символу свечи.
func (s *Store) ListEnabledBySymbol(ctx context.Context, symbol string) ([]*models.AlertRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.AlertRule, 0, 4)
	for _, r := range s.rules {
		if r.Enabled && r.Symbol == symbol {
			out = append(out, r)
		}
	}
	return out, nil
}

// RequiredStreamKeys — какие (symbol, timeframe) должны стримиться
// под текущий набор включённых правил.
func (s *Store) RequiredStreamKeys(ctx context.Context) ([]models.StreamKey, error) {
	rules, err := s.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[models.StreamKey]struct{}, len(rules))
	keys := make([]models.StreamKey, 0, len(rules))
	for _, r := range rules {
		k := r.StreamKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys, nil
}

// CreateUser in registry
func (s *Store) CreateUser(
	ctx context.Context,
	user *models.User,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("registry.CreateUser: %w", err)
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

// GetUser by id
func (s *Store) GetUser(
	ctx context.Context,
	userID int64,
) (user *models.User, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("registry.GetUser: %w", err)
		}
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}
