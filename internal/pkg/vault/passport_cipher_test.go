package vault

import "testing"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := NewPassportCipher("test-secret")
	if err != nil {
		t.Fatalf("NewPassportCipher: %v", err)
	}

	numbers := []string{"A12345678", "XZ0000001", ""}
	for _, n := range numbers {
		sealed, err := c.Encrypt(n)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", n, err)
		}
		if sealed == n && n != "" {
			t.Errorf("ciphertext equals plaintext for %q", n)
		}

		opened, err := c.Decrypt(sealed)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if opened != n {
			t.Errorf("round trip = %q, want %q", opened, n)
		}
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	c, _ := NewPassportCipher("test-secret")
	a, _ := c.Encrypt("A12345678")
	b, _ := c.Encrypt("A12345678")
	if a == b {
		t.Error("two encryptions of the same value should differ (random nonce)")
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	c, _ := NewPassportCipher("test-secret")
	other, _ := NewPassportCipher("different-secret")

	sealed, _ := c.Encrypt("A12345678")
	if _, err := other.Decrypt(sealed); err == nil {
		t.Error("decrypting with the wrong key should fail")
	}
	if _, err := c.Decrypt("not-base64!!"); err == nil {
		t.Error("malformed input should fail")
	}
}

func TestNewPassportCipherRequiresSecret(t *testing.T) {
	if _, err := NewPassportCipher(""); err == nil {
		t.Error("empty secret should be rejected")
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A12345678", "*****5678"},
		{"1234", "****"},
		{"", "****"},
	}
	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
