// Package auth checks credentials and issues the bearer tokens that guard
// mutating routes.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"sheetwallet/internal/core"
	"sheetwallet/internal/rows"
)

// ErrInvalidCredentials is returned when no account matches.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Principal is the authenticated identity attached to a request.
type Principal struct {
	Username string
}

// Provider authenticates a username and password pair.
type Provider interface {
	Authenticate(ctx context.Context, username, password string) (Principal, error)
}

// SingleAdmin accepts exactly one configured account.
type SingleAdmin struct {
	Username string
	Password string
}

func (a SingleAdmin) Authenticate(_ context.Context, username, password string) (Principal, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.Password)) == 1
	if a.Username == "" || !userOK || !passOK {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{Username: a.Username}, nil
}

// SheetUsers authenticates against the user sheet, read fresh on every call.
type SheetUsers struct {
	table *rows.Table
}

func NewSheetUsers(table *rows.Table) *SheetUsers {
	return &SheetUsers{table: table}
}

func (s *SheetUsers) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	records, err := s.table.FetchAll(ctx)
	if err != nil {
		return Principal{}, fmt.Errorf("read users: %w", err)
	}
	for _, rec := range records {
		u := core.UserFromRecord(rec)
		if u.Username == username && passwordMatches(u.Password, password) {
			return Principal{Username: u.Username}, nil
		}
	}
	return Principal{}, ErrInvalidCredentials
}

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// passwordMatches compares bcrypt hashes with bcrypt and anything else as
// plain text.
func passwordMatches(stored, given string) bool {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(stored, p) {
			return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
		}
	}
	return stored == given
}
