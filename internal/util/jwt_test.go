package util

import (
	"quizhub_backend/internal/model"
	"testing"
	"time"
)

func testUser() *model.User {
	u := &model.User{
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  model.Teacher,
	}
	u.ID = 7
	return u
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(testUser(), "secret-key", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, "secret-key")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 7 || claims.Role != model.Teacher || claims.Email != "ada@example.com" {
		t.Errorf("claims round-tripped wrong: %+v", claims)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(testUser(), "secret-key", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Fatal("ParseJWT accepted a token signed with a different secret")
	}
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT(testUser(), "secret-key", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "secret-key"); err == nil {
		t.Fatal("ParseJWT accepted an expired token")
	}
}
