// Package authform validates the sign in and sign up form and turns backend
// auth errors into messages fit for a user.
package authform

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const MinPasswordLength = 6

const (
	InvalidEmail     = "Please enter a valid email address"
	PasswordTooShort = "Password must be at least 6 characters"
	PasswordMismatch = "Passwords do not match"

	AlreadyRegistered  = "This email is already registered. Please log in instead."
	InvalidCredentials = "Invalid email or password."
)

type Form struct {
	Email           string
	Password        string
	ConfirmPassword string
	// SignUp enables the confirmation check.
	SignUp bool
}

// FieldErrors holds one message per invalid field.
type FieldErrors struct {
	Email           string
	Password        string
	ConfirmPassword string
}

func (f FieldErrors) Error() string {
	var msgs []string
	for _, m := range []string{f.Email, f.Password, f.ConfirmPassword} {
		if m != "" {
			msgs = append(msgs, m)
		}
	}
	return strings.Join(msgs, "; ")
}

func (f FieldErrors) empty() bool {
	return f == FieldErrors{}
}

// Validate returns FieldErrors, or nil when the form can be submitted. The
// confirmation is only compared when one was typed.
func (f Form) Validate() error {
	var errs FieldErrors

	if !validEmail(f.Email) {
		errs.Email = InvalidEmail
	}
	if utf8.RuneCountInString(f.Password) < MinPasswordLength {
		errs.Password = PasswordTooShort
	}
	if f.SignUp && f.ConfirmPassword != "" && f.ConfirmPassword != f.Password {
		errs.ConfirmPassword = PasswordMismatch
	}

	if errs.empty() {
		return nil
	}
	return errs
}

// validEmail accepts a bare address whose domain has a dot.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// FriendlyError maps a sign in or sign up failure to the message shown to
// the user.
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "already registered"):
		return AlreadyRegistered
	case strings.Contains(msg, "Invalid login credentials"):
		return InvalidCredentials
	default:
		return msg
	}
}
