package store

import (
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"portfolio-backend/models"
)

var (
	// ErrDuplicateEmail is returned when a registration or profile update
	// collides with another record's email.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// preventing email enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("user not found")
	// ErrAccountDisabled is returned for records with isActive unset.
	ErrAccountDisabled = errors.New("account disabled")
)

// ProfilePatch carries a partial profile update. Nil fields are left
// unchanged; for Bio and Location an explicit empty string is a valid value.
type ProfilePatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
}

// EngagementStats summarizes activity across the stored records.
type EngagementStats struct {
	TotalUsers     int `json:"totalUsers"`
	ActiveUsers    int `json:"activeUsers"`
	EngagementRate int `json:"engagementRate"`
}

// UserStore is a process-lifetime user table standing in for a real
// database. Records live only as long as the process; ids are assigned
// monotonically and never reused. All operations are serialized behind a
// mutex so the duplicate-email check and the append are atomic.
type UserStore struct {
	mu     sync.Mutex
	users  []*models.User
	nextID int
	now    func() time.Time
}

func NewUserStore() *UserStore {
	return &UserStore{
		nextID: 1,
		now:    time.Now,
	}
}

// Register creates a new record with a bcrypt-hashed password, the next
// integer id and lastLogin set to now. Email uniqueness is an exact
// case-sensitive match.
func (s *UserStore) Register(name, email, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByEmail(email) != nil {
		return models.User{}, ErrDuplicateEmail
	}

	now := s.now()
	user := &models.User{
		ID:           s.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		LastLogin:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users = append(s.users, user)
	s.nextID++

	return user.Sanitized(), nil
}

// Login verifies the credentials and updates lastLogin. Unknown email and
// wrong password fail identically.
func (s *UserStore) Login(email, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.findByEmail(email)
	if user == nil {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user.LastLogin = s.now()
	return user.Sanitized(), nil
}

// FindActive returns the sanitized record for an authenticated id. Disabled
// accounts are rejected explicitly so the caller can distinguish them from
// unknown ids.
func (s *UserStore) FindActive(id int) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.findByID(id)
	if user == nil {
		return models.User{}, ErrNotFound
	}
	if !user.IsActive {
		return models.User{}, ErrAccountDisabled
	}
	return user.Sanitized(), nil
}

// UpdateProfile merges the patch into the record. Name and Email only
// change when set to a non-empty value; Bio and Location change whenever
// the field is present, empty string included.
func (s *UserStore) UpdateProfile(id int, patch ProfilePatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.findByID(id)
	if user == nil {
		return models.User{}, ErrNotFound
	}

	if patch.Email != nil && *patch.Email != "" && *patch.Email != user.Email {
		if other := s.findByEmail(*patch.Email); other != nil && other.ID != id {
			return models.User{}, ErrDuplicateEmail
		}
	}

	if patch.Name != nil && *patch.Name != "" {
		user.Name = *patch.Name
	}
	if patch.Email != nil && *patch.Email != "" {
		user.Email = *patch.Email
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Location != nil {
		user.Location = *patch.Location
	}
	user.UpdatedAt = s.now()

	return user.Sanitized(), nil
}

// ListPublic returns up to limit active records' public projections,
// newest first.
func (s *UserStore) ListPublic(limit int) []models.PublicUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	public := make([]models.PublicUser, 0, len(s.users))
	for _, user := range s.users {
		if user.IsActive {
			public = append(public, user.PublicView())
		}
	}
	sort.SliceStable(public, func(i, j int) bool {
		return public[i].CreatedAt.After(public[j].CreatedAt)
	})
	if limit > 0 && len(public) > limit {
		public = public[:limit]
	}
	return public
}

// GetPublic returns the public projection, including last login, for one id.
func (s *UserStore) GetPublic(id int) (models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.findByID(id)
	if user == nil {
		return models.PublicUser{}, ErrNotFound
	}
	return user.PublicDetail(), nil
}

// Stats reports the active-record count, how many of those logged in within
// the last 24 hours, and the rounded percentage ratio.
func (s *UserStore) Stats() EngagementStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-24 * time.Hour)
	stats := EngagementStats{}
	for _, user := range s.users {
		if !user.IsActive {
			continue
		}
		stats.TotalUsers++
		if !user.LastLogin.Before(cutoff) {
			stats.ActiveUsers++
		}
	}
	if stats.TotalUsers > 0 {
		stats.EngagementRate = int(math.Round(float64(stats.ActiveUsers) / float64(stats.TotalUsers) * 100))
	}
	return stats
}

// callers must hold mu
func (s *UserStore) findByEmail(email string) *models.User {
	for _, user := range s.users {
		if user.Email == email {
			return user
		}
	}
	return nil
}

// callers must hold mu
func (s *UserStore) findByID(id int) *models.User {
	for _, user := range s.users {
		if user.ID == id {
			return user
		}
	}
	return nil
}
