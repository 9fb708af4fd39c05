package service

import "testing"

func TestValidPhone(t *testing.T) {
	valid := []string{"03001234567", "+923001234567"}
	for _, p := range valid {
		if !validPhone(p) {
			t.Errorf("validPhone(%q) = false, want true", p)
		}
	}

	invalid := []string{"0300123456", "030012345678", "13001234567", "0300-1234567", ""}
	for _, p := range invalid {
		if validPhone(p) {
			t.Errorf("validPhone(%q) = true, want false", p)
		}
	}
}

func TestValidPassword(t *testing.T) {
	valid := []string{"passw0rd!", "Secur3#pass", "a1@aaaaa"}
	for _, p := range valid {
		if !validPassword(p) {
			t.Errorf("validPassword(%q) = false, want true", p)
		}
	}

	invalid := []string{
		"short1!",     // under 8 chars
		"password!",   // no digit
		"12345678!",   // no letter
		"password1",   // no symbol
		"pass word1!", // space outside allowed charset
	}
	for _, p := range invalid {
		if validPassword(p) {
			t.Errorf("validPassword(%q) = true, want false", p)
		}
	}
}

func TestIsGibberish(t *testing.T) {
	gibberish := []string{"aaaaaa", "xzxzxzxz", "!!!###", "qwrtpsdf"}
	for _, s := range gibberish {
		if !isGibberish(s) {
			t.Errorf("isGibberish(%q) = false, want true", s)
		}
	}

	fine := []string{"Ali Raza", "Sara Ahmed Khan"}
	for _, s := range fine {
		if isGibberish(s) {
			t.Errorf("isGibberish(%q) = true, want false", s)
		}
	}
}

func TestValidAddress(t *testing.T) {
	valid := []string{
		"House 12, Street 4, Model Town",
		"Flat 3B Gulberg Apartment",
		"Village Chak 45",
	}
	for _, a := range valid {
		if !validAddress(a) {
			t.Errorf("validAddress(%q) = false, want true", a)
		}
	}

	invalid := []string{"", "abc", "nowhere special at all"}
	for _, a := range invalid {
		if validAddress(a) {
			t.Errorf("validAddress(%q) = true, want false", a)
		}
	}
}
