package crypto

import (
	"strings"
	"testing"
)

func TestArgon2_HashAndVerify(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "simple", password: "testPassword123"},
		{name: "empty password", password: ""},
		{name: "long password", password: strings.Repeat("a", 128)},
		{name: "special chars", password: "p@ssw0rd!#$%"},
		{name: "null byte", password: "pass\x00word"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			a := NewArgon2()

			hash, err := a.Hash(test.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if !strings.HasPrefix(hash, "$argon2id$") {
				t.Errorf("Hash() = %q, want $argon2id$ prefix", hash)
			}

			ok, err := a.Verify(test.password, hash)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if !ok {
				t.Error("Verify() should accept the original password")
			}

			ok, err = a.Verify(test.password+"x", hash)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if ok {
				t.Error("Verify() should reject a wrong password")
			}
		})
	}
}

func TestArgon2_VerifyRejectsMalformedHash(t *testing.T) {
	a := NewArgon2()
	for _, bad := range []string{"", "not-a-hash", "$argon2i$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"} {
		if _, err := a.Verify("password", bad); err == nil {
			t.Errorf("Verify(%q) should fail", bad)
		}
	}
}

func TestGenerateHashedToken(t *testing.T) {
	pair, err := GenerateHashedToken(0)
	if err != nil {
		t.Fatalf("GenerateHashedToken() error = %v", err)
	}
	if pair.Token == "" || pair.Hash == "" {
		t.Fatal("GenerateHashedToken() returned empty values")
	}
	if pair.Hash != HashToken(pair.Token) {
		t.Error("Hash should be the sha256 of the token")
	}

	ok, err := VerifyToken(pair.Token, pair.Hash)
	if err != nil || !ok {
		t.Errorf("VerifyToken() = %v, %v, want true, nil", ok, err)
	}

	ok, _ = VerifyToken(pair.Token+"x", pair.Hash)
	if ok {
		t.Error("VerifyToken() should reject a tampered token")
	}
}

func TestNanoID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NanoID()
		if err != nil {
			t.Fatalf("NanoID() error = %v", err)
		}
		if len(id) != nanoidSize {
			t.Fatalf("NanoID() length = %d, want %d", len(id), nanoidSize)
		}
		if seen[id] {
			t.Fatalf("NanoID() produced a duplicate: %s", id)
		}
		seen[id] = true
	}
}
