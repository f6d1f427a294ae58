package jwt

import (
	"errors"
	"time"

	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidAlgorithm = errors.New("invalid signing algorithm")
	ErrWrongAudience    = errors.New("token issued for another audience")
	ErrEmptySecretKey   = errors.New("secret key cannot be empty")
	ErrWeakSecretKey    = errors.New("secret key must be at least 32 characters")
	ErrInvalidDuration  = errors.New("duration must be positive")
)

// TenantClaims are carried by tokens issued to association users.
// DBName is empty for users of the default database.
type TenantClaims struct {
	UserID        string `json:"userId"`
	AssociationID string `json:"associationId,omitempty"`
	DBName        string `json:"dbName,omitempty"`
	jwt.RegisteredClaims
}

// PlatformClaims are carried by tokens issued to super admins.
type PlatformClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Config represents the JWT configuration
type Config struct {
	SecretKey        string        `yaml:"secret_key"`
	TenantDuration   time.Duration `yaml:"tenant_duration"`
	PlatformDuration time.Duration `yaml:"platform_duration"`
}

// Service issues and verifies both token spaces with one shared secret.
// The audience claim keeps them apart.
type Service struct {
	config Config
}

// NewService creates a new JWT service
func NewService(config Config) (*Service, error) {
	if config.SecretKey == "" {
		return nil, ErrEmptySecretKey
	}
	if len(config.SecretKey) < 32 {
		return nil, ErrWeakSecretKey
	}
	if config.TenantDuration <= 0 || config.PlatformDuration <= 0 {
		return nil, ErrInvalidDuration
	}
	return &Service{
		config: config,
	}, nil
}

func (s *Service) registered(audience string, d time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
}

func (s *Service) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// GenerateTenantToken generates a token for an association user
func (s *Service) GenerateTenantToken(userID, associationID, dbName string) (string, error) {
	return s.sign(&TenantClaims{
		UserID:           userID,
		AssociationID:    associationID,
		DBName:           dbName,
		RegisteredClaims: s.registered(cnst.AudienceTenant, s.config.TenantDuration),
	})
}

// GeneratePlatformToken generates a token for a super admin
func (s *Service) GeneratePlatformToken(id, email string) (string, error) {
	return s.sign(&PlatformClaims{
		ID:               id,
		Email:            email,
		Role:             string(cnst.RoleSuperAdmin),
		RegisteredClaims: s.registered(cnst.AudiencePlatform, s.config.PlatformDuration),
	})
}

// ValidateTenantToken validates a token and requires the tenant audience
func (s *Service) ValidateTenantToken(tokenString string) (*TenantClaims, error) {
	claims := &TenantClaims{}
	if err := s.parse(tokenString, claims, cnst.AudienceTenant); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidatePlatformToken validates a token and requires the platform audience
// and the SUPER_ADMIN role
func (s *Service) ValidatePlatformToken(tokenString string) (*PlatformClaims, error) {
	claims := &PlatformClaims{}
	if err := s.parse(tokenString, claims, cnst.AudiencePlatform); err != nil {
		return nil, err
	}
	if claims.Role != string(cnst.RoleSuperAdmin) || claims.ID == "" {
		return nil, ErrWrongAudience
	}
	return claims, nil
}

func (s *Service) parse(tokenString string, claims jwt.Claims, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAlgorithm
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithAudience(audience), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return ErrWrongAudience
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
