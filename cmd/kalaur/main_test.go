package main

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordFromStdin(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader("s3cret\n"))
	rootCmd.SetArgs([]string{"hash-password", "--cost", "4"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")); err != nil {
		t.Fatalf("hash does not match password: %v", err)
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	rootCmd.SetIn(strings.NewReader("\n"))
	rootCmd.SetArgs([]string{"hash-password", "--cost", "4"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("empty password should fail")
	}
}
