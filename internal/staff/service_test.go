package staff

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pbertoldo/workshop-backend/pkg/config"
	"github.com/pbertoldo/workshop-backend/pkg/enums"
	pkgerrors "github.com/pbertoldo/workshop-backend/pkg/errors"
)

func setupStaffTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	staff := `
CREATE TABLE IF NOT EXISTS staff (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(staff).Error)
	return db
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newStaffService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupStaffTestDB(t)), testPasswordConfig())
	require.NoError(t, err)
	return svc
}

func TestCreateAndVerifyCredentials(t *testing.T) {
	svc := newStaffService(t)
	ctx := context.Background()

	member, err := svc.Create(ctx, CreateStaffInput{
		Name:     "Carlos Mendes",
		Email:    "Carlos@Shop.example",
		Role:     enums.StaffRoleMechanic,
		Password: "mechanics-rule",
	})
	require.NoError(t, err)
	assert.Equal(t, "carlos@shop.example", member.Email)
	assert.NotEqual(t, "mechanics-rule", member.PasswordHash)

	verified, err := svc.VerifyCredentials(ctx, "carlos@shop.example", "mechanics-rule")
	require.NoError(t, err)
	assert.Equal(t, member.ID, verified.ID)

	_, err = svc.VerifyCredentials(ctx, "carlos@shop.example", "wrong-password")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))

	_, err = svc.VerifyCredentials(ctx, "nobody@shop.example", "mechanics-rule")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := newStaffService(t)
	ctx := context.Background()

	input := CreateStaffInput{
		Name:     "First",
		Email:    "dup@shop.example",
		Role:     enums.StaffRoleAttendant,
		Password: "password-one",
	}
	_, err := svc.Create(ctx, input)
	require.NoError(t, err)

	input.Name = "Second"
	_, err = svc.Create(ctx, input)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestDeactivatedStaffCannotLogIn(t *testing.T) {
	svc := newStaffService(t)
	ctx := context.Background()

	member, err := svc.Create(ctx, CreateStaffInput{
		Name:     "Paula",
		Email:    "paula@shop.example",
		Role:     enums.StaffRoleAdmin,
		Password: "admin-password",
	})
	require.NoError(t, err)

	inactive := false
	_, err = svc.Update(ctx, member.ID, UpdateStaffInput{Active: &inactive})
	require.NoError(t, err)

	_, err = svc.VerifyCredentials(ctx, "paula@shop.example", "admin-password")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}

func TestCreateValidation(t *testing.T) {
	svc := newStaffService(t)
	ctx := context.Background()

	cases := []CreateStaffInput{
		{Name: "", Email: "a@b.c", Role: enums.StaffRoleAdmin, Password: "long-enough"},
		{Name: "X", Email: "", Role: enums.StaffRoleAdmin, Password: "long-enough"},
		{Name: "X", Email: "a@b.c", Role: "janitor", Password: "long-enough"},
		{Name: "X", Email: "a@b.c", Role: enums.StaffRoleAdmin, Password: "short"},
	}
	for _, input := range cases {
		_, err := svc.Create(ctx, input)
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "input %+v", input)
	}
}
