package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"dormeal/internal/core/application/auth"
	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

type account struct {
	principal principal.Principal
	hash      []byte
}

// Accounts is an in-memory ports.CredentialVerifier with bcrypt hashes.
type Accounts struct {
	mu       sync.RWMutex
	byName   map[string]account
	cost     int
	fallback []byte
}

func NewAccounts(cost int) *Accounts {
	fallback, _ := bcrypt.GenerateFromPassword([]byte("dormeal-dummy-password"), cost)
	return &Accounts{byName: make(map[string]account), cost: cost, fallback: fallback}
}

func (a *Accounts) Create(_ context.Context, username, password string, role principal.Role) (principal.Principal, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return principal.Principal{}, errs.NewValueIsRequiredError("username")
	}
	if len(password) < 8 {
		return principal.Principal{}, errs.NewValueIsOutOfRangeError("password length", len(password), 8, 72)
	}
	p, err := principal.New(kernel.NewUUID(), role)
	if err != nil {
		return principal.Principal{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return principal.Principal{}, errs.NewValueIsInvalidErrorWithCause("password", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.byName[username]; exists {
		return principal.Principal{}, errs.NewValueIsInvalidErrorWithCause("username", fmt.Errorf("%q is taken", username))
	}
	a.byName[username] = account{principal: p, hash: hash}
	return p, nil
}

func (a *Accounts) Verify(_ context.Context, username, password string) (principal.Principal, error) {
	a.mu.RLock()
	acc, ok := a.byName[strings.ToLower(strings.TrimSpace(username))]
	a.mu.RUnlock()

	if !ok {
		_ = bcrypt.CompareHashAndPassword(a.fallback, []byte(password))
		return principal.Principal{}, auth.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return principal.Principal{}, auth.ErrInvalidCredentials
	}
	return acc.principal, nil
}
