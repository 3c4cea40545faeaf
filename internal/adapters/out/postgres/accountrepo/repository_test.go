package accountrepo_test

import (
	"path/filepath"
	"testing"

	"dormeal/internal/adapters/out/postgres/accountrepo"
	"dormeal/internal/core/application/auth"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRepo(t *testing.T) *accountrepo.GormAccountRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "accounts.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&accountrepo.AccountDTO{}))
	return accountrepo.NewGormAccountRepository(db).WithCost(bcrypt.MinCost)
}

func TestGormAccountRepository(t *testing.T) {
	ctx := t.Context()
	repo := newRepo(t)

	created, err := repo.Create(ctx, " Carrier.Casey ", "correct horse", principal.Carrier)
	require.NoError(t, err)

	t.Run("should verify the right password", func(t *testing.T) {
		p, err := repo.Verify(ctx, "carrier.casey", "correct horse")

		require.NoError(t, err)
		assert.Equal(t, created, p)
		assert.Equal(t, principal.Carrier, p.Role())
	})

	t.Run("should reject a wrong password and an unknown user alike", func(t *testing.T) {
		_, err := repo.Verify(ctx, "carrier.casey", "wrong horse")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		_, err = repo.Verify(ctx, "nobody", "correct horse")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("should reject duplicates and weak input", func(t *testing.T) {
		_, err := repo.Create(ctx, "carrier.casey", "another password", principal.Carrier)
		assert.Error(t, err)

		_, err = repo.Create(ctx, "", "long enough", principal.Consumer)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = repo.Create(ctx, "short", "short", principal.Consumer)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = repo.Create(ctx, "anon", "long enough", principal.Anonymous)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
