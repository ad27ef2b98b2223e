package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"maintenance-backend/internal/db"
	"maintenance-backend/internal/model"
	"maintenance-backend/internal/store"
)

// newTestStore creates an isolated in-memory database per test.
func newTestStore(t *testing.T) (store.Store, *gorm.DB) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return store.NewGormStore(gormDB), gormDB
}

func seedTechnician(t *testing.T, gormDB *gorm.DB, email string) *model.User {
	u := model.User{Name: "Tech " + email, Email: email, Password: "irrelevant", Role: model.RoleTechnician}
	require.NoError(t, gormDB.Create(&u).Error)
	return &u
}

func seedAdmin(t *testing.T, gormDB *gorm.DB, email string) *model.User {
	u := model.User{Name: "Admin " + email, Email: email, Password: "irrelevant", Role: model.RoleAdmin}
	require.NoError(t, gormDB.Create(&u).Error)
	return &u
}
