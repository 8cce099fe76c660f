package services

import (
	"os"
	"testing"

	"habittracker/utils"

	"github.com/golang-jwt/jwt/v5"
)

func init() {
	os.Setenv("GO_ENV", "test")
	utils.InitJWT()
}

func parseClaims(t *testing.T, tokenString string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(utils.JWTSecretKey), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("failed to read claims")
	}
	return claims
}

func TestGenerateToken(t *testing.T) {
	tokenString, err := GenerateToken("user-123")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims := parseClaims(t, tokenString)
	if claims["user_id"] != "user-123" {
		t.Fatalf("user_id claim = %v", claims["user_id"])
	}
	if claims["iss"] != utils.TokenIssuer {
		t.Fatalf("iss claim = %v", claims["iss"])
	}
	if _, isRefresh := claims["type"]; isRefresh {
		t.Fatal("access token must not carry the refresh type")
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	tokenString, err := GenerateRefreshToken("user-123")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	claims := parseClaims(t, tokenString)
	if claims["type"] != "refresh" {
		t.Fatalf("type claim = %v, want refresh", claims["type"])
	}
	if claims["user_id"] != "user-123" {
		t.Fatalf("user_id claim = %v", claims["user_id"])
	}
}
