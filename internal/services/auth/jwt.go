package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const AdminScope = "admin"

var ErrAdminDisabled = errors.New("admin API is disabled: no JWT secret configured")

// JWTClaims represents the JWT token claims
type JWTClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// JWTConfig represents JWT configuration
type JWTConfig struct {
	SecretKey     string
	Issuer        string
	TokenDuration time.Duration
}

// JWTService issues and validates HS256 admin tokens
type JWTService struct {
	config    JWTConfig
	secretKey []byte
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config:    config,
		secretKey: []byte(config.SecretKey),
	}
}

// Enabled reports whether a signing secret is configured.
func (j *JWTService) Enabled() bool {
	return len(j.secretKey) > 0
}

// GenerateAdminToken signs a token for subject with the admin scope.
func (j *JWTService) GenerateAdminToken(subject string) (string, error) {
	if !j.Enabled() {
		return "", ErrAdminDisabled
	}

	now := time.Now()
	jti, err := j.generateJTI()
	if err != nil {
		return "", fmt.Errorf("failed to generate JTI: %w", err)
	}

	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subject,
			Issuer:    j.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Scope: AdminScope,
	}
	if j.config.TokenDuration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.config.TokenDuration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates and parses a JWT token
func (j *JWTService) ValidateToken(tokenString string) (*JWTClaims, error) {
	if !j.Enabled() {
		return nil, ErrAdminDisabled
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if j.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// ValidateAdminToken additionally requires the admin scope.
func (j *JWTService) ValidateAdminToken(tokenString string) (*JWTClaims, error) {
	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Scope != AdminScope {
		return nil, fmt.Errorf("invalid token scope %q", claims.Scope)
	}

	return claims, nil
}

// ExtractTokenFromBearer extracts token from "Bearer <token>" format
func (j *JWTService) ExtractTokenFromBearer(bearerToken string) string {
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}

// generateJTI generates a unique JWT ID
func (j *JWTService) generateJTI() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
