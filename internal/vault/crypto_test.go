package vault

import (
	"bytes"
	"errors"
	"testing"
)

// testParams keeps key derivation fast in tests.
var testParams = Params{N: 1 << 10, R: 8, P: 1}

func TestSealOpen(t *testing.T) {
	key, err := DeriveKeyWithParams("correct horse", []byte("0123456789abcdef"), testParams)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	plaintext := []byte("Hello, Celerix!")

	ciphertext, err := Seal(plaintext, key)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Fatal("ciphertext should not contain the plaintext")
	}

	decrypted, err := Open(ciphertext, key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("Expected %s, got %s", plaintext, decrypted)
	}
}

func TestSealUsesFreshNonce(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	a, _ := Seal([]byte("same"), key)
	b, _ := Seal([]byte("same"), key)
	if bytes.Equal(a, b) {
		t.Fatal("two seals of the same plaintext must differ")
	}
}

func TestOpenWithWrongKey(t *testing.T) {
	key1 := bytes.Repeat([]byte{1}, 32)
	key2 := bytes.Repeat([]byte{2}, 32)

	ciphertext, err := Seal([]byte("Secret message"), key1)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if _, err := Open(ciphertext, key2); !errors.Is(err, ErrWrongKey) {
		t.Fatalf("expected ErrWrongKey, got %v", err)
	}
}

func TestOpenTampered(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 32)
	ciphertext, _ := Seal([]byte("Secret message"), key)
	ciphertext[len(ciphertext)-1] ^= 0xff

	if _, err := Open(ciphertext, key); !errors.Is(err, ErrWrongKey) {
		t.Fatalf("expected ErrWrongKey, got %v", err)
	}
}

func TestInvalidKeySize(t *testing.T) {
	if _, err := Seal([]byte("test"), []byte("shortkey")); err == nil {
		t.Fatal("Seal should fail with invalid key size")
	}
	if _, err := Open(make([]byte, 64), []byte("shortkey")); err == nil {
		t.Fatal("Open should fail with invalid key size")
	}
}

func TestOpenTooShort(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 32)
	if _, err := Open([]byte("abcdef"), key); !errors.Is(err, ErrCiphertextTooShort) {
		t.Fatalf("expected ErrCiphertextTooShort, got %v", err)
	}
}

func TestDeriveKeyEmptyPassphrase(t *testing.T) {
	if _, err := DeriveKey("", []byte("salt")); !errors.Is(err, ErrEmptyPassphrase) {
		t.Fatalf("expected ErrEmptyPassphrase, got %v", err)
	}
}

func TestLoadOrCreateSaltIsStable(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadOrCreateSalt(dir)
	if err != nil {
		t.Fatalf("LoadOrCreateSalt failed: %v", err)
	}
	second, err := LoadOrCreateSalt(dir)
	if err != nil {
		t.Fatalf("LoadOrCreateSalt failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("salt must be reused once created")
	}
}

func TestSealerAcrossRestarts(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewSealerWithParams(dir, "passphrase", testParams)
	if err != nil {
		t.Fatalf("NewSealer failed: %v", err)
	}
	sealed, err := s1.Seal([]byte("token"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	s2, err := NewSealerWithParams(dir, "passphrase", testParams)
	if err != nil {
		t.Fatalf("NewSealer failed: %v", err)
	}
	plain, err := s2.Open(sealed)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if string(plain) != "token" {
		t.Errorf("expected token, got %q", plain)
	}
}

func TestNilSealerPassesThrough(t *testing.T) {
	var s *Sealer
	out, err := s.Seal([]byte("plain"))
	if err != nil || string(out) != "plain" {
		t.Fatalf("nil sealer should pass through, got %q %v", out, err)
	}
}
