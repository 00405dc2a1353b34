package util

import (
	"devtrack_backend/internal/model"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "jwt-test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims *Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Role: model.Admin}
	user.ID = 42
	token, err := GenerateJWT(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	claims, err := ParseJWT(token, testSecret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 42 || claims.Role != model.Admin || claims.Subject != "42" || claims.Issuer != tokenIssuer {
		t.Fatalf("claims=%+v", claims)
	}
}

func TestParseJWTRejects(t *testing.T) {
	valid := func() *Claims {
		return &Claims{UserID: 7, RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	foreign := valid()
	foreign.Issuer = "someone-else"
	noExpiry := valid()
	noExpiry.ExpiresAt = nil
	noUser := valid()
	noUser.UserID = 0

	cases := map[string]string{
		"wrong secret": sign(t, jwt.SigningMethodHS256, []byte("other"), valid()),
		"expired":      sign(t, jwt.SigningMethodHS256, []byte(testSecret), expired),
		"issuer":       sign(t, jwt.SigningMethodHS256, []byte(testSecret), foreign),
		"no expiry":    sign(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry),
		"no user":      sign(t, jwt.SigningMethodHS256, []byte(testSecret), noUser),
		"alg none":     sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid()),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		if _, err := ParseJWT(token, testSecret); err == nil {
			t.Fatalf("%s: token accepted", name)
		}
	}
}
