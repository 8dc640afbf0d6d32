package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	bcrypt "golang.org/x/crypto/bcrypt"
)

// CurrentUser reads the session out of client storage. A session is active
// when both the token and the user record are present; nothing here
// validates the token, the cart core only cares about presence.
func CurrentUser(s Storage) (User, bool) {
	token, ok, err := s.Get(KeyToken)
	if err != nil || !ok || token == "" {
		return User{}, false
	}
	raw, ok, err := s.Get(KeyUser)
	if err != nil || !ok || raw == "" {
		return User{}, false
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, false
	}
	return u, true
}

// Logout clears the whole client storage: token, user and cart all go.
func Logout(s Storage) error {
	return s.Clear()
}

type Claims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

type userRecord struct {
	id           string
	name         string
	email        string
	passwordHash string
}

// AuthProvider is the session/auth collaborator: it keeps a user registry,
// mints session tokens on login and writes the session into client storage.
type AuthProvider struct {
	mu     sync.Mutex
	users  map[string]userRecord
	secret []byte
	ttl    time.Duration
}

func NewAuthProvider(secret string) *AuthProvider {
	return &AuthProvider{
		users:  make(map[string]userRecord),
		secret: []byte(secret),
		ttl:    time.Hour,
	}
}

// Register creates a user with a bcrypt password hash.
func (a *AuthProvider) Register(name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email %q", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.users[email]; exists {
		return ErrUserExists
	}
	a.users[email] = userRecord{
		id:           uuid.NewString(),
		name:         name,
		email:        email,
		passwordHash: string(hash),
	}
	return nil
}

// Login checks the password, mints a token and stores the session under the
// token and user keys. Returns the token.
func (a *AuthProvider) Login(email, password string, storage Storage) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	a.mu.Lock()
	rec, exists := a.users[email]
	a.mu.Unlock()
	if !exists {
		return "", ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.passwordHash), []byte(password)) != nil {
		return "", ErrBadCredentials
	}

	token, err := a.generateJWT(email)
	if err != nil {
		return "", err
	}
	rawUser, err := json.Marshal(User{Name: rec.name, Email: rec.email})
	if err != nil {
		return "", err
	}
	if err := storage.Set(KeyToken, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	if err := storage.Set(KeyUser, string(rawUser)); err != nil {
		return "", fmt.Errorf("store user: %w", err)
	}
	return token, nil
}

func (a *AuthProvider) generateJWT(email string) (string, error) {
	claims := &Claims{
		Email: email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(a.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseJWT validates the signature and expiry and returns the email claim.
func (a *AuthProvider) ParseJWT(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Email, nil
}
