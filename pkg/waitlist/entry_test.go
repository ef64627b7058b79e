package waitlist

import (
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@example.com  ", "bob@example.com"},
		{"carol@example.com", "carol@example.com"},
	}
	for _, tc := range cases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeXHandle(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"@Builder_1", "builder_1"},
		{"builder_1", "builder_1"},
		{"  @CryptoDev  ", "cryptodev"},
	}
	for _, tc := range cases {
		if got := NormalizeXHandle(tc.in); got != tc.want {
			t.Errorf("NormalizeXHandle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidWalletAddress(t *testing.T) {
	valid := []string{
		"0x" + strings.Repeat("a", 40),
		"0x" + strings.Repeat("A", 40),
		"0x1234567890abcdefABCDEF1234567890abcdefAB",
	}
	for _, addr := range valid {
		if !ValidWalletAddress(addr) {
			t.Errorf("ValidWalletAddress(%q) = false, want true", addr)
		}
	}

	invalid := []string{
		"",
		"0x",
		"0x" + strings.Repeat("a", 39),
		"0x" + strings.Repeat("a", 41),
		strings.Repeat("a", 42),
		"0x" + strings.Repeat("g", 40),
	}
	for _, addr := range invalid {
		if ValidWalletAddress(addr) {
			t.Errorf("ValidWalletAddress(%q) = true, want false", addr)
		}
	}
}

func TestValidXHandle(t *testing.T) {
	if !ValidXHandle("a_b_c_123") {
		t.Error("expected a_b_c_123 to be valid")
	}
	if ValidXHandle("") {
		t.Error("expected empty handle to be invalid")
	}
	if ValidXHandle(strings.Repeat("x", 16)) {
		t.Error("expected 16-char handle to be invalid")
	}
	if ValidXHandle("has-dash") {
		t.Error("expected handle with dash to be invalid")
	}
}

func TestValidStatusAndRole(t *testing.T) {
	for _, s := range Statuses {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	if ValidStatus("archived") {
		t.Error("expected unknown status to be invalid")
	}

	for _, r := range Roles {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%q) = false, want true", r)
		}
	}
	if ValidRole("astronaut") {
		t.Error("expected unknown role to be invalid")
	}
}

func TestEntrySafe_OmitsVerificationToken(t *testing.T) {
	e := &Entry{
		ID:                "id-1",
		Name:              "Alice",
		Email:             "alice@example.com",
		Roles:             []Role{RoleDeveloper},
		VerificationToken: "super-secret",
		Status:            StatusPending,
	}

	safe := e.Safe()
	if safe.ID != e.ID || safe.Email != e.Email || safe.Status != e.Status {
		t.Fatalf("Safe() dropped visible fields: %+v", safe)
	}
}

func TestNewVerificationToken(t *testing.T) {
	a, err := NewVerificationToken()
	if err != nil {
		t.Fatalf("NewVerificationToken() failed: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}

	b, err := NewVerificationToken()
	if err != nil {
		t.Fatalf("NewVerificationToken() failed: %v", err)
	}
	if a == b {
		t.Fatal("two generated tokens are identical")
	}
}
