package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/nusacargo/backoffice-auth/internal/auth/service TokenGenerator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nusacargo/backoffice-auth/pkg/constant"
)

// Pending-login stages. The stage binds the token to what the first factor
// earned: a passcode prompt or a forced password reset.
const (
	StageOtp   = "pending_otp"
	StageReset = "pending_reset"
)

type TokenGenerator interface {
	GenerateSession(userID, email, role string, now time.Time) (string, time.Time, error)
	VerifySession(tokenString string) (*SessionClaims, error)
	GeneratePending(userID, stage string, now time.Time) (string, error)
	VerifyPending(tokenString, wantStage string) (*PendingClaims, error)
}

// TokenService signs two token kinds with separate secrets: session access
// tokens and the short-lived pending-login token that carries an attempt
// between the password factor and its second step.
type TokenService struct {
	AccessTokenSecret  string
	PendingTokenSecret string
	AccessTokenExpiry  time.Duration
}

type SessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type PendingClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Stage  string `json:"stage"`
}

func NewTokenService(accessSecret, pendingSecret string, accessMinutes int) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		PendingTokenSecret: pendingSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
	}
}

func (ts *TokenService) GenerateSession(userID, email, role string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ts.AccessTokenExpiry)
	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

func (ts *TokenService) VerifySession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := ts.verify(tokenString, claims, ts.AccessTokenSecret); err != nil {
		return nil, err
	}

	return claims, nil
}

// GeneratePending issues the handle for the second step of a login. Its
// lifetime equals the passcode window, so an abandoned attempt dies with its
// challenge.
func (ts *TokenService) GeneratePending(userID, stage string, now time.Time) (string, error) {
	claims := PendingClaims{
		UserID: userID,
		Stage:  stage,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(constant.OtpTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.PendingTokenSecret))
}

func (ts *TokenService) VerifyPending(tokenString, wantStage string) (*PendingClaims, error) {
	claims := &PendingClaims{}
	if err := ts.verify(tokenString, claims, ts.PendingTokenSecret); err != nil {
		return nil, err
	}
	if claims.Stage != wantStage {
		return nil, fmt.Errorf("unexpected pending login stage")
	}

	return claims, nil
}

func (ts *TokenService) verify(tokenString string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}

	return nil
}
