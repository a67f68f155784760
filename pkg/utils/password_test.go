package utils

import (
	"strings"
	"testing"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals plaintext")
	}
	if !ComparePassword(hash, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if ComparePassword(hash, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}

func TestGenerateTempPassword(t *testing.T) {
	for _, length := range []int{10, 12} {
		pw, err := GenerateTempPassword(length)
		if err != nil {
			t.Fatalf("GenerateTempPassword(%d): %v", length, err)
		}
		if len(pw) != length {
			t.Errorf("length = %d, want %d", len(pw), length)
		}
		for _, ch := range pw {
			if !strings.ContainsRune(tempPasswordAlphabet, ch) {
				t.Errorf("character %q outside alphabet", ch)
			}
		}
	}
}

func TestGenerateTempPasswordVaries(t *testing.T) {
	a, err := GenerateTempPassword(10)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateTempPassword(10)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two generated passwords are identical")
	}
}
