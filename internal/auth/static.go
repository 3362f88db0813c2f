package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters for credential hashing.
const (
	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 16
)

// User is one configured account.
type User struct {
	Username string
	Password string
	Role     Role
}

type account struct {
	role Role
	hash []byte
}

// StaticResolver authenticates against a fixed set of accounts. Passwords are
// kept only as scrypt hashes.
type StaticResolver struct {
	salt     []byte
	accounts map[string]account
	// dummy is hashed for unknown usernames so both paths cost the same.
	dummy []byte
}

// NewStaticResolver hashes the given users. Accounts with an empty username
// or password are rejected.
func NewStaticResolver(users ...User) (*StaticResolver, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	r := &StaticResolver{salt: salt, accounts: make(map[string]account, len(users))}
	for _, u := range users {
		if u.Username == "" || u.Password == "" {
			return nil, fmt.Errorf("account %q: username and password are required", u.Username)
		}
		if !u.Role.Valid() {
			return nil, fmt.Errorf("account %q: %w: %q", u.Username, ErrUnknownRole, u.Role)
		}
		if _, dup := r.accounts[u.Username]; dup {
			return nil, fmt.Errorf("account %q defined twice", u.Username)
		}
		hash, err := r.hash(u.Password)
		if err != nil {
			return nil, err
		}
		r.accounts[u.Username] = account{role: u.Role, hash: hash}
	}

	dummy, err := r.hash("placeholder")
	if err != nil {
		return nil, err
	}
	r.dummy = dummy
	return r, nil
}

// Resolve implements PrincipalResolver.
func (r *StaticResolver) Resolve(ctx context.Context, username, password string) (Principal, error) {
	if err := ctx.Err(); err != nil {
		return Principal{}, err
	}
	acct, ok := r.accounts[username]
	expected := acct.hash
	if !ok {
		expected = r.dummy
	}

	got, err := r.hash(password)
	if err != nil {
		return Principal{}, err
	}
	if subtle.ConstantTimeCompare(got, expected) != 1 || !ok {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{Username: username, Role: acct.role}, nil
}

// Users returns the number of configured accounts.
func (r *StaticResolver) Users() int {
	return len(r.accounts)
}

func (r *StaticResolver) hash(password string) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), r.salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("key derivation failed: %w", err)
	}
	return key, nil
}
