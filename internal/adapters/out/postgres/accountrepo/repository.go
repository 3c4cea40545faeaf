// Package accountrepo is the local identity provider: usernames with bcrypt
// password hashes and a session role.
package accountrepo

import (
	"context"
	"errors"
	"strings"

	"dormeal/internal/core/application/auth"
	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/pkg/errs"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountDTO is one accounts row.
type AccountDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"size:64;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:72;not null"`
	Role         string    `gorm:"size:16;not null"`
}

func (AccountDTO) TableName() string {
	return "accounts"
}

// dummyHash is compared against when the username is unknown so that both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dormeal-dummy-password"), bcrypt.DefaultCost)

// GormAccountRepository implements ports.CredentialVerifier.
type GormAccountRepository struct {
	db   *gorm.DB
	cost int
}

func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db, cost: bcrypt.DefaultCost}
}

// WithCost lowers the bcrypt cost, for tests.
func (r *GormAccountRepository) WithCost(cost int) *GormAccountRepository {
	r.cost = cost
	return r
}

// Create registers an account and returns its principal.
func (r *GormAccountRepository) Create(ctx context.Context, username, password string, role principal.Role) (principal.Principal, error) {
	username = normalize(username)
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

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return principal.Principal{}, errs.NewValueIsInvalidErrorWithCause("password", err)
	}

	dto := AccountDTO{ID: p.ID().Bytes(), Username: username, PasswordHash: string(hash), Role: role.String()}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return principal.Principal{}, err
	}
	return p, nil
}

// Verify checks a username/password pair. Every rejection is auth.ErrInvalidCredentials.
func (r *GormAccountRepository) Verify(ctx context.Context, username, password string) (principal.Principal, error) {
	var dto AccountDTO
	err := r.db.WithContext(ctx).First(&dto, "username = ?", normalize(username)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return principal.Principal{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		return principal.Principal{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(dto.PasswordHash), []byte(password)) != nil {
		return principal.Principal{}, auth.ErrInvalidCredentials
	}

	role, err := principal.ParseRole(dto.Role)
	if err != nil {
		return principal.Principal{}, auth.ErrInvalidCredentials
	}
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return principal.Principal{}, err
	}
	return principal.New(id, role)
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
