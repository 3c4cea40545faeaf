package commands_test

import (
	"testing"
	"time"

	"dormeal/internal/adapters/out/memory"
	"dormeal/internal/core/application/auth"
	"dormeal/internal/core/application/usecases/commands"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const tokenSecret = "0123456789abcdef0123456789abcdef"

type authFixture struct {
	accounts *memory.Accounts
	tokens   *auth.Tokens
	sessions *memory.SessionStore
	login    commands.LoginCommandHandler
	logout   commands.LogoutCommandHandler
}

func newAuthFixture(t *testing.T, perMinute int) authFixture {
	t.Helper()
	accounts := memory.NewAccounts(bcrypt.MinCost)
	tokens, err := auth.NewTokens(tokenSecret)
	require.NoError(t, err)
	sessions := memory.NewSessionStore()

	login, err := commands.NewLoginCommandHandler(accounts, auth.NewLoginThrottle(perMinute), tokens, sessions, time.Hour)
	require.NoError(t, err)
	return authFixture{
		accounts: accounts,
		tokens:   tokens,
		sessions: sessions,
		login:    login,
		logout:   commands.NewLogoutCommandHandler(tokens, sessions),
	}
}

func TestNewLoginCommand(t *testing.T) {
	_, err := commands.NewLoginCommand(" ", "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	cmd, err := commands.NewLoginCommand("  alice ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", cmd.Username())
}

func TestNewLoginCommandHandler_Validates(t *testing.T) {
	tokens, err := auth.NewTokens(tokenSecret)
	require.NoError(t, err)

	_, err = commands.NewLoginCommandHandler(nil, auth.NewLoginThrottle(5), tokens, memory.NewSessionStore(), time.Hour)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewLoginCommandHandler(memory.NewAccounts(bcrypt.MinCost), auth.NewLoginThrottle(5), tokens, memory.NewSessionStore(), 0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestLoginLogout(t *testing.T) {
	f := newAuthFixture(t, 0)
	alice, err := f.accounts.Create(t.Context(), "alice", "correct horse", principal.Carrier)
	require.NoError(t, err)

	cmd, err := commands.NewLoginCommand("alice", "correct horse")
	require.NoError(t, err)
	result, err := f.login.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, alice, result.Principal)

	sessionID, err := f.tokens.SessionID(result.Token)
	require.NoError(t, err)
	session, err := f.sessions.Get(t.Context(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, alice, session.Principal)
	assert.Equal(t, result.ExpiresAt, session.ExpiresAt)

	require.NoError(t, f.logout.Handle(t.Context(), commands.NewLogoutCommand(result.Token)))
	_, err = f.sessions.Get(t.Context(), sessionID)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t, 0)
	_, err := f.accounts.Create(t.Context(), "alice", "correct horse", principal.Consumer)
	require.NoError(t, err)

	for _, creds := range [][2]string{{"alice", "wrong password"}, {"mallory", "correct horse"}} {
		cmd, err := commands.NewLoginCommand(creds[0], creds[1])
		require.NoError(t, err)
		_, err = f.login.Handle(t.Context(), cmd)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	}
}

func TestLogin_Throttled(t *testing.T) {
	f := newAuthFixture(t, 2)
	_, err := f.accounts.Create(t.Context(), "alice", "correct horse", principal.Consumer)
	require.NoError(t, err)

	wrong, _ := commands.NewLoginCommand("alice", "wrong password")
	for range 2 {
		_, err = f.login.Handle(t.Context(), wrong)
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	}

	right, _ := commands.NewLoginCommand("alice", "correct horse")
	_, err = f.login.Handle(t.Context(), right)
	assert.ErrorIs(t, err, auth.ErrTooManyAttempts)
}

func TestLogout_IgnoresBadTokens(t *testing.T) {
	f := newAuthFixture(t, 0)

	require.NoError(t, f.logout.Handle(t.Context(), commands.NewLogoutCommand("")))
	require.NoError(t, f.logout.Handle(t.Context(), commands.NewLogoutCommand("not-a-token")))
	assert.ErrorIs(t, f.logout.Handle(t.Context(), commands.LogoutCommand{}), commands.ErrLogoutCommandIsNotConstructed)
}
