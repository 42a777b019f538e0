package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"glickoserver/auth/storage"
	"glickoserver/auth/users"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var (
	ErrForbidden     = errors.New("access denied")
	ErrNotAuthorized = errors.New("unauthorized")
	ErrTokenExpired  = errors.New("token expired")
	ErrBadToken      = errors.New("bad token")
)

const (
	rootName   = "root"
	saltLength = 16
)

// accessRule is a compiled config rule. Rules apply in config order,
// the first one whose path and method match decides.
type accessRule struct {
	path    *regexp.Regexp
	methods []string
	allow   []string
}

func (r accessRule) matchesMethod(method string) bool {
	for _, m := range r.methods {
		if m == "*" || m == method {
			return true
		}
	}
	return false
}

type Service struct {
	storage    storage.AuthStorage
	cfg        Config
	rules      []accessRule
	expiration time.Duration
}

// New builds the service, validates the access rules and makes sure
// the root account exists.
func New(ctx context.Context, cfg Config, storage storage.AuthStorage) (*Service, error) {
	expiration, err := time.ParseDuration(cfg.Expiration)
	if err != nil {
		return nil, fmt.Errorf("auth expiration: %w", err)
	}
	rules, err := compileRules(cfg.Rules)
	if err != nil {
		return nil, err
	}
	s := Service{
		storage:    storage,
		cfg:        cfg,
		rules:      rules,
		expiration: expiration,
	}
	if err := s.bootstrapRoot(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}

func compileRules(rules []Rule) ([]accessRule, error) {
	compiled := make([]accessRule, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Path)
		if err != nil {
			return nil, fmt.Errorf("auth rule %q: %w", rule.Name, err)
		}
		compiled = append(compiled, accessRule{
			path:    re,
			methods: rule.Method,
			allow:   rule.Allow,
		})
	}
	return compiled, nil
}

// bootstrapRoot creates the admin account on the first start.
func (s *Service) bootstrapRoot(ctx context.Context) error {
	_, err := s.storage.GetUserSecret(ctx, users.User{Name: rootName})
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	secret, err := s.newSecret(s.cfg.RootPassword)
	if err != nil {
		return err
	}
	return s.storage.CreateUser(ctx, users.User{
		ID:           uuid.New(),
		Name:         rootName,
		Roles:        []string{"admin"},
		RegisteredAt: time.Now(),
	}, secret)
}

func (s *Service) Login(ctx context.Context, name string, password string) (users.User, error) {
	stored, err := s.storage.GetUserSecret(ctx, users.User{Name: name})
	if err != nil {
		return users.User{}, err
	}
	return s.storage.SignIn(ctx, name, s.hash(password, stored.Salt))
}

func (s *Service) SignUp(ctx context.Context, name string, password string) error {
	if name == "" || password == "" {
		return errors.New("empty name or password")
	}
	secret, err := s.newSecret(password)
	if err != nil {
		return err
	}
	return s.storage.CreateUser(ctx, users.User{
		ID:           uuid.New(),
		Name:         name,
		Roles:        []string{"user"},
		RegisteredAt: time.Now(),
	}, secret)
}

func (s *Service) GenerateJWTCookie(userID uuid.UUID, host string) (*fiber.Cookie, error) {
	expiresAt := time.Now().Add(s.expiration)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: expiresAt.Unix(),
		IssuedAt:  time.Now().Unix(),
		Subject:   userID.String(),
	})
	signed, err := token.SignedString([]byte(s.cfg.Token))
	if err != nil {
		return nil, err
	}
	return &fiber.Cookie{
		Name:     "token",
		Value:    signed,
		Path:     "/",
		Domain:   host,
		Expires:  expiresAt,
		HTTPOnly: true,
	}, nil
}

// Auth resolves the user behind the cookie and checks the access rules
// for the requested method and url. Guests come through with an empty
// user when a rule allows everyone.
func (s *Service) Auth(ctx context.Context, cookie string, method string, url string) (users.User, error) {
	user, err := s.resolveUser(ctx, cookie)
	if err != nil {
		return users.User{}, ErrNotAuthorized
	}
	for _, rule := range s.rules {
		if !rule.path.MatchString(url) {
			continue
		}
		if !rule.matchesMethod(method) {
			continue
		}
		for _, role := range rule.allow {
			if role == "*" || user.HasRole(role) {
				return user, nil
			}
		}
		return users.User{}, ErrForbidden
	}
	return users.User{}, ErrForbidden
}

// resolveUser maps the cookie to a stored user. An empty cookie is a
// guest, not an error.
func (s *Service) resolveUser(ctx context.Context, cookie string) (users.User, error) {
	if cookie == "" {
		return users.User{}, nil
	}
	token, err := jwt.ParseWithClaims(cookie, &jwt.StandardClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Token), nil
	})
	if err != nil {
		return users.User{}, classifyTokenError(err)
	}
	claims, ok := token.Claims.(*jwt.StandardClaims)
	if !ok {
		return users.User{}, ErrBadToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return users.User{}, err
	}
	return s.storage.GetUser(ctx, id)
}

func classifyTokenError(err error) error {
	var ve *jwt.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	if ve.Errors&jwt.ValidationErrorMalformed != 0 {
		return ErrBadToken
	}
	if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
		return ErrTokenExpired
	}
	return err
}

func (s *Service) newSecret(password string) (users.Secret, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return users.Secret{}, err
	}
	return users.Secret{
		PasswordHash: s.hash(password, salt),
		Salt:         salt,
	}, nil
}

// hash is HMAC-SHA256 over password and salt, keyed with the pepper.
func (s *Service) hash(password string, salt []byte) []byte {
	mac := hmac.New(sha256.New, []byte(s.cfg.PasswordPepper))
	mac.Write([]byte(password))
	mac.Write(salt)
	return mac.Sum(nil)
}
