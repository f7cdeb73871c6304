package devapi

import (
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// User is an account held by the development backend.
type User struct {
	Email        string
	FullName     string
	Roles        []string
	passwordHash []byte
}

// Users is an in-memory account directory keyed by normalized email.
type Users struct {
	mu    sync.RWMutex
	cost  int
	users map[string]User
}

func NewUsers(cost int) *Users {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Users{cost: cost, users: make(map[string]User)}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create adds an account with role USER.
func (u *Users) Create(fullName, email, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return User{}, err
	}

	key := normalizeEmail(email)

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.users[key]; ok {
		return User{}, ErrEmailTaken
	}
	user := User{
		Email:        key,
		FullName:     strings.TrimSpace(fullName),
		Roles:        []string{"USER"},
		passwordHash: hash,
	}
	u.users[key] = user
	return user, nil
}

// Authenticate returns the account when password matches.
func (u *Users) Authenticate(email, password string) (User, error) {
	user, err := u.Get(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (u *Users) Get(email string) (User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.users[normalizeEmail(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

// UpdateFullName replaces the display name of the account.
func (u *Users) UpdateFullName(email, fullName string) (User, error) {
	key := normalizeEmail(email)

	u.mu.Lock()
	defer u.mu.Unlock()

	user, ok := u.users[key]
	if !ok {
		return User{}, ErrUserNotFound
	}
	user.FullName = strings.TrimSpace(fullName)
	u.users[key] = user
	return user, nil
}
