package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const SessionCookieName = "sessionid"

var ErrInvalidSession = errors.New("invalid session")

type SessionClaims struct {
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

func (c SessionClaims) DriverID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// SessionManager issues and verifies the signed session cookie value.
type SessionManager struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewSessionManager(key []byte, ttl time.Duration, issuer string) *SessionManager {
	return &SessionManager{key: key, ttl: ttl, issuer: issuer, now: time.Now}
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionManager) Issue(driverID int64, username string, isStaff bool) (string, error) {
	now := m.now()
	claims := SessionClaims{
		Username: username,
		IsStaff:  isStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(driverID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (m *SessionManager) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}
	if _, err := claims.DriverID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidSession)
	}
	return claims, nil
}
