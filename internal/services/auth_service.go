package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"stitchmart/internal/domain"
	"stitchmart/internal/repos"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenUser is the identity payload carried inside the bearer credential.
// Signup tokens carry only the id; login tokens also carry email and name.
type TokenUser struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type claims struct {
	User TokenUser `json:"user"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
	TTL    time.Duration
}

func NewAuthService(users *repos.UserRepo, secret []byte) *AuthService {
	return &AuthService{Users: users, Secret: secret, TTL: 24 * time.Hour}
}

// SignUp registers a new user with an empty cart and returns a signed
// credential. Passwords are stored as bcrypt hashes only.
func (s *AuthService) SignUp(name, email, password string) (string, error) {
	if existing, err := s.Users.ByEmail(email); err == nil && existing != nil {
		return "", ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	u := domain.User{ID: uuid.NewString(), Email: email, Name: name, Hash: string(hash)}
	if err := s.Users.Create(u); err != nil {
		// the unique index is the authoritative duplicate check; the
		// lookup above only wins the common case
		if strings.Contains(err.Error(), "UNIQUE") {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return s.issue(TokenUser{ID: u.ID})
}

// LogIn verifies the password against the stored hash and issues a
// credential binding id, email and name.
func (s *AuthService) LogIn(email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return "", nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}
	tok, err := s.issue(TokenUser{ID: u.ID, Email: u.Email, Name: u.Name})
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

// Verify parses and validates a bearer credential and returns the bound
// identity. All parse, signature and expiry failures collapse to
// ErrBadToken.
func (s *AuthService) Verify(token string) (TokenUser, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return TokenUser{}, ErrBadToken
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || c.User.ID == "" {
		return TokenUser{}, ErrBadToken
	}
	return c.User, nil
}

// ResolveUser maps a verified identity to the persisted user, preferring
// the email claim and falling back to the id for signup-era tokens.
func (s *AuthService) ResolveUser(tu TokenUser) (*domain.User, error) {
	var (
		u   *domain.User
		err error
	)
	if tu.Email != "" {
		u, err = s.Users.ByEmail(tu.Email)
	} else {
		u, err = s.Users.ByID(tu.ID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) issue(tu TokenUser) (string, error) {
	now := time.Now()
	c := claims{
		User: tu,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.Secret)
}
