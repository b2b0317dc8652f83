package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"hublish/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupToggleDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Favourite{},
		&models.Follow{},
	))
	return db
}

func createUserAndArticle(t *testing.T, db *gorm.DB, username, slug string) (models.User, models.Article) {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Password: "pw"}
	require.NoError(t, db.Create(&user).Error)
	article := models.Article{Title: slug, Slug: slug, Content: "body", AuthorID: user.ID}
	require.NoError(t, db.Create(&article).Error)
	return user, article
}

func liveFavouriteCount(t *testing.T, db *gorm.DB, articleID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Favourite{}).Where("article_id = ?", articleID).Count(&n).Error)
	return n
}

func TestArticleRepository_FavouriteToggle(t *testing.T) {
	db := setupToggleDB(t)
	repo := NewArticleRepository(db, nil)
	ctx := context.Background()

	user, article := createUserAndArticle(t, db, "alice", "first-post")

	// 0 -> 1
	got, err := repo.Favourite(ctx, user.ID, article.Slug)
	require.NoError(t, err)
	assert.Equal(t, 1, got.FavouriteCount)

	// Favouriting again is a Conflict and leaves the counter untouched.
	_, err = repo.Favourite(ctx, user.ID, article.Slug)
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeConflict, models.ErrorCode(err))

	var reloaded models.Article
	require.NoError(t, db.First(&reloaded, article.ID).Error)
	assert.Equal(t, 1, reloaded.FavouriteCount)
	assert.Equal(t, int64(1), liveFavouriteCount(t, db, article.ID))

	// 1 -> 0
	got, err = repo.Unfavourite(ctx, user.ID, article.Slug)
	require.NoError(t, err)
	assert.Equal(t, 0, got.FavouriteCount)
	assert.Equal(t, int64(0), liveFavouriteCount(t, db, article.ID))

	// Unfavouriting with no relation is NotFound; the counter cannot go
	// negative.
	_, err = repo.Unfavourite(ctx, user.ID, article.Slug)
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeNotFound, models.ErrorCode(err))

	require.NoError(t, db.First(&reloaded, article.ID).Error)
	assert.Equal(t, 0, reloaded.FavouriteCount)
}

func TestArticleRepository_FavouriteMissingArticle(t *testing.T) {
	db := setupToggleDB(t)
	repo := NewArticleRepository(db, nil)

	user := models.User{Username: "bob", Email: "bob@example.com", Password: "pw"}
	require.NoError(t, db.Create(&user).Error)

	_, err := repo.Favourite(context.Background(), user.ID, "no-such-slug")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeNotFound, models.ErrorCode(err))
}

// TestArticleRepository_CounterStaysConsistent drives a random toggle
// sequence and checks after every step that the denormalized counter
// equals the number of live favourite rows.
func TestArticleRepository_CounterStaysConsistent(t *testing.T) {
	db := setupToggleDB(t)
	repo := NewArticleRepository(db, nil)
	ctx := context.Background()

	_, article := createUserAndArticle(t, db, "author", "popular-post")

	users := make([]models.User, 5)
	for i := range users {
		users[i] = models.User{
			Username: fmt.Sprintf("reader%d", i),
			Email:    fmt.Sprintf("reader%d@example.com", i),
			Password: "pw",
		}
		require.NoError(t, db.Create(&users[i]).Error)
	}

	rng := rand.New(rand.NewSource(42))
	for step := 0; step < 200; step++ {
		u := users[rng.Intn(len(users))]
		if rng.Intn(2) == 0 {
			_, err := repo.Favourite(ctx, u.ID, article.Slug)
			if err != nil {
				assert.Equal(t, models.ErrCodeConflict, models.ErrorCode(err))
			}
		} else {
			_, err := repo.Unfavourite(ctx, u.ID, article.Slug)
			if err != nil {
				assert.Equal(t, models.ErrCodeNotFound, models.ErrorCode(err))
			}
		}

		var reloaded models.Article
		require.NoError(t, db.First(&reloaded, article.ID).Error)
		require.Equal(t, liveFavouriteCount(t, db, article.ID), int64(reloaded.FavouriteCount),
			"counter diverged at step %d", step)
	}
}

func TestArticleRepository_GetBySlug(t *testing.T) {
	db := setupToggleDB(t)
	repo := NewArticleRepository(db, nil)
	ctx := context.Background()

	_, article := createUserAndArticle(t, db, "carol", "findable")

	got, err := repo.GetBySlug(ctx, article.Slug)
	require.NoError(t, err)
	assert.Equal(t, article.ID, got.ID)

	_, err = repo.GetBySlug(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeNotFound, models.ErrorCode(err))
}

func TestArticleRepository_CreateDuplicateSlug(t *testing.T) {
	db := setupToggleDB(t)
	repo := NewArticleRepository(db, nil)
	ctx := context.Background()

	user, article := createUserAndArticle(t, db, "dave", "unique-slug")

	dup := &models.Article{Title: "Other", Slug: article.Slug, Content: "x", AuthorID: user.ID}
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeConflict, models.ErrorCode(err))
}
