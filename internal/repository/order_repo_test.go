package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Pavel2232/ShopBot/internal/model"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, model.AutoMigrate(db))
	return db
}

func TestOrderRepositories(t *testing.T) {
	repos := map[string]func(t *testing.T) OrderRepository{
		"postgres-dialect": func(t *testing.T) OrderRepository { return NewPGOrderRepository(setupOrdersTestDB(t)) },
		"memory":           func(*testing.T) OrderRepository { return NewMemoryOrderRepository() },
	}

	for name, build := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := build(t)

			first := &model.Order{ID: uuid.New(), UserID: 42, CartID: 11, Email: "a@b.com", TotalPrice: 250, CreatedAt: time.Now().Add(-time.Hour)}
			require.NoError(t, repo.Create(ctx, first))

			dup := &model.Order{ID: uuid.New(), UserID: 42, CartID: 11, Email: "other@b.com", TotalPrice: 1}
			require.NoError(t, repo.Create(ctx, dup), "a second order for the same cart is ignored")

			got, err := repo.GetByCartID(ctx, 11)
			require.NoError(t, err)
			assert.Equal(t, first.ID, got.ID)
			assert.Equal(t, "a@b.com", got.Email)

			second := &model.Order{ID: uuid.New(), UserID: 42, CartID: 12, Email: "a@b.com", TotalPrice: 90, CreatedAt: time.Now()}
			require.NoError(t, repo.Create(ctx, second))
			got, err = repo.GetByCartID(ctx, 12)
			require.NoError(t, err)
			assert.Equal(t, second.ID, got.ID)

			_, err = repo.GetByCartID(ctx, 99)
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		})
	}
}
