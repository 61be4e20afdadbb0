package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// HostClaims identify the host of one session.
type HostClaims struct {
	SessionID string
	HostID    string
}

func InitJWT(secret string) {
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

// GenerateHostJWT signs a token that authorizes host-only actions on sessionID.
func GenerateHostJWT(sessionID, hostID string) (string, error) {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"session_id": sessionID,
		"host_id":    hostID,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
		"iat":        now,
		"nbf":        now,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseHostJWT(tokenString string) (*HostClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	// validate time-based claims
	now := time.Now().Unix()
	if exp, ok := claims["exp"].(float64); ok {
		if int64(exp) < now {
			return nil, errors.New("token expired")
		}
	}

	sessionID, _ := claims["session_id"].(string)
	hostID, _ := claims["host_id"].(string)
	if sessionID == "" || hostID == "" {
		return nil, errors.New("session_id not found")
	}

	return &HostClaims{SessionID: sessionID, HostID: hostID}, nil
}
