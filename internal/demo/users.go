package demo

import (
	"sort"
	"strings"
	"time"

	"github.com/sapasaja/bukuku-api/internal/models"
)

//
// --- Users ---
//

// FindUserByEmail returns an active user for login.
func (s *Store) FindUserByEmail(email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) && u.Status == "active" {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

// RegisterUser creates a customer account. The password hash must
// already be computed by the caller.
func (s *Store) RegisterUser(name, email, passwordHash string, phone *string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return models.User{}, ErrEmailTaken
		}
	}

	s.nextUserID++
	user := models.User{
		ID:           s.nextUserID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         "customer",
		Status:       "active",
		Phone:        phone,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.users = append(s.users, user)
	return user, nil
}

func (s *Store) userByID(id int64) *models.User {
	for i := range s.users {
		if s.users[i].ID == id {
			return &s.users[i]
		}
	}
	return nil
}

// ListUsers is the admin view with search/role/status filters, newest
// first up to limit.
func (s *Store) ListUsers(search, role, status string, limit int) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = models.DefaultBookLimit
	}
	term := strings.ToLower(search)

	users := []models.User{}
	for _, u := range s.users {
		if term != "" &&
			!strings.Contains(strings.ToLower(u.Name), term) &&
			!strings.Contains(strings.ToLower(u.Email), term) {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		users = append(users, u)
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	if len(users) > limit {
		users = users[:limit]
	}
	return users
}

// UpdateUser patches mutable account fields from the admin portal.
func (s *Store) UpdateUser(id int64, name, role, status string, phone, address *string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.userByID(id)
	if u == nil {
		return models.User{}, ErrUserNotFound
	}
	if name != "" {
		u.Name = name
	}
	if role != "" {
		u.Role = role
	}
	if status != "" {
		u.Status = status
	}
	if phone != nil {
		u.Phone = phone
	}
	if address != nil {
		u.Address = address
	}
	u.UpdatedAt = time.Now()
	return *u, nil
}

// DeleteUser removes an account.
func (s *Store) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return ErrUserNotFound
}
