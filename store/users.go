package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hakeemmukif/distraction-shop-v2/models"
)

var (
	ErrUserExists   = errors.New("user with this email already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrBadPassword  = errors.New("invalid credentials")
)

type userRecord struct {
	user models.User
	hash []byte
}

// Users is the back-office account store. Passwords are bcrypt-hashed;
// lookups are case-insensitive on email.
type Users struct {
	mu      sync.RWMutex
	byID    map[string]*userRecord
	byEmail map[string]string
}

func NewUsers() *Users {
	return &Users{
		byID:    make(map[string]*userRecord),
		byEmail: make(map[string]string),
	}
}

func (s *Users) Create(email, name, password, role string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := s.byEmail[key]; exists {
		return models.User{}, ErrUserExists
	}

	user := models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	s.byID[user.ID] = &userRecord{user: user, hash: hash}
	s.byEmail[key] = user.ID
	return user, nil
}

// Authenticate checks credentials and returns the matching user.
func (s *Users) Authenticate(email, password string) (models.User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		s.mu.RUnlock()
		return models.User{}, ErrBadPassword
	}
	rec := s.byID[id]
	s.mu.RUnlock()

	if err := bcrypt.CompareHashAndPassword(rec.hash, []byte(password)); err != nil {
		return models.User{}, ErrBadPassword
	}
	return rec.user, nil
}

func (s *Users) Get(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		return models.User{}, false
	}
	return rec.user, true
}

func (s *Users) List() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.byID))
	for _, rec := range s.byID {
		users = append(users, rec.user)
	}
	return users
}

// Update changes name, role and/or password of an existing user. Empty
// fields are left untouched.
func (s *Users) Update(id string, req models.UpdateUserRequest) (models.User, error) {
	var hash []byte
	if req.Password != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	if req.Name != "" {
		rec.user.Name = req.Name
	}
	if req.Role != "" {
		rec.user.Role = req.Role
	}
	if hash != nil {
		rec.hash = hash
	}
	return rec.user, nil
}

func (s *Users) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byEmail, strings.ToLower(rec.user.Email))
	delete(s.byID, id)
	return true
}
