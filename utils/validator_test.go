package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"citizen@example.com",
		"juan.dela-cruz+portal@city.gov.ph",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"not-an-email",
		"missing@tld",
		"@example.com",
		"spaces in@example.com",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
		message  string
	}{
		{"Aa1!aaaa", true, ""},
		{"Aa1!aaa", false, "Password must be at least 8 characters long."},
		{"aa1!aaaa", false, "Password must contain at least one uppercase letter."},
		{"AA1!AAAA", false, "Password must contain at least one lowercase letter."},
		{"Aab!aaaa", false, "Password must contain at least one number."},
		{"Aa1aaaaa", false, "Password must contain at least one special character."},
	}

	for _, tc := range cases {
		ok, message := ValidatePassword(tc.password)
		if ok != tc.ok || message != tc.message {
			t.Errorf("ValidatePassword(%q) = (%v, %q), want (%v, %q)",
				tc.password, ok, message, tc.ok, tc.message)
		}
	}
}

func TestValidateNameField(t *testing.T) {
	if msg := ValidateNameField("Juan Dela-Cruz", "First name"); msg != "" {
		t.Errorf("unexpected message: %q", msg)
	}
	if msg := ValidateNameField("O'Brien", "Last name"); msg != "" {
		t.Errorf("unexpected message: %q", msg)
	}
	if msg := ValidateNameField("", "Middle name"); msg != "" {
		t.Errorf("empty optional field should pass, got %q", msg)
	}
	if msg := ValidateNameField("Juan3", "First name"); msg == "" {
		t.Error("digits should be rejected")
	}
}

func TestValidateAge(t *testing.T) {
	if msg := ValidateAge(35); msg != "" {
		t.Errorf("unexpected message: %q", msg)
	}
	if msg := ValidateAge(-1); msg == "" {
		t.Error("negative age should be rejected")
	}
	if msg := ValidateAge(121); msg == "" {
		t.Error("age above 120 should be rejected")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello\x00world  "); got != "helloworld" {
		t.Errorf("SanitizeInput = %q", got)
	}
}

func TestGenerateComplaintCode(t *testing.T) {
	code := GenerateComplaintCode()
	if len(code) != len("GOV-2026-0000") {
		t.Errorf("unexpected code format: %q", code)
	}
	if code[:4] != "GOV-" {
		t.Errorf("code should start with GOV-: %q", code)
	}
}
