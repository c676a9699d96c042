package auth

import (
	"testing"
	"time"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("hash must not equal the password")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := SignJWT(42, "admin", "secret", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseJWT(token, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := SignJWT(1, "viewer", "secret", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseJWT(token, "other"); err == nil {
		t.Fatalf("token signed with a different secret must not parse")
	}
}

func TestJWT_Expired(t *testing.T) {
	token, err := SignJWT(1, "viewer", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseJWT(token, "secret"); err == nil {
		t.Fatalf("expired token must not parse")
	}
}
