package listing

import (
	"context"
	"testing"
	"time"

	"hublish/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupEngineDB seeds a small world: three authors, four articles
// (newest first: go-generics, sqlite-tricks, hello-world, old-post),
// alice follows bob, and alice has favourited bob's two articles.
func setupEngineDB(t *testing.T) (*gorm.DB, map[string]models.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Favourite{},
		&models.Follow{},
	))

	users := map[string]models.User{}
	for _, name := range []string{"alice", "bob", "carol"} {
		u := models.User{Username: name, Email: name + "@example.com", Password: "pw", Name: name}
		require.NoError(t, db.Create(&u).Error)
		users[name] = u
	}

	now := time.Now()
	articles := []models.Article{
		{Title: "Old Post", Slug: "old-post", Content: "old", AuthorID: users["carol"].ID,
			Tags: []string{"history"}, CreatedAt: now.Add(-72 * time.Hour)},
		{Title: "Hello World", Slug: "hello-world", Content: "hi", AuthorID: users["bob"].ID,
			Tags: []string{"intro", "go"}, CreatedAt: now.Add(-48 * time.Hour)},
		{Title: "SQLite Tricks", Slug: "sqlite-tricks", Content: "db", AuthorID: users["bob"].ID,
			Tags: []string{"databases"}, CreatedAt: now.Add(-24 * time.Hour)},
		{Title: "Go Generics", Slug: "go-generics", Content: "types", AuthorID: users["carol"].ID,
			Tags: []string{"go", "programming"}, CreatedAt: now.Add(-1 * time.Hour)},
	}
	for i := range articles {
		require.NoError(t, db.Create(&articles[i]).Error)
	}

	require.NoError(t, db.Create(&models.Follow{
		FollowerID: users["alice"].ID, FollowingID: users["bob"].ID,
	}).Error)

	for _, slug := range []string{"hello-world", "sqlite-tricks"} {
		var a models.Article
		require.NoError(t, db.Where("slug = ?", slug).First(&a).Error)
		require.NoError(t, db.Create(&models.Favourite{
			UserID: users["alice"].ID, ArticleID: a.ID,
		}).Error)
	}

	return db, users
}

func slugs(results []models.EnrichedArticle) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Slug)
	}
	return out
}

func TestEngineRun_Feed(t *testing.T) {
	db, users := setupEngineDB(t)
	engine := NewEngine(db, nil)
	ctx := context.Background()

	result, err := engine.Run(ctx, Feed(users["alice"].ID), users["alice"].ID, DefaultPager())
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.TotalResults)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, []string{"sqlite-tricks", "hello-world"}, slugs(result.Results))
	for _, r := range result.Results {
		assert.Equal(t, "bob", r.Author.Username)
		assert.True(t, r.Favourited)
	}
}

func TestEngineRun_FeedFollowingNobody(t *testing.T) {
	db, users := setupEngineDB(t)
	engine := NewEngine(db, nil)

	p, err := NewPager(10, 3)
	require.NoError(t, err)

	result, err := engine.Run(context.Background(), Feed(users["carol"].ID), users["carol"].ID, p)
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.TotalResults)
	assert.Equal(t, 0, result.TotalPages)
	// The requested page is echoed back unclamped.
	assert.Equal(t, 3, result.Page)
	assert.Empty(t, result.Results)
	assert.NotNil(t, result.Results)
}

func TestEngineRun_ByAuthor(t *testing.T) {
	db, users := setupEngineDB(t)
	engine := NewEngine(db, nil)

	result, err := engine.Run(context.Background(), ByAuthor(users["bob"].ID), 0, DefaultPager())
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.TotalResults)
	assert.Equal(t, []string{"sqlite-tricks", "hello-world"}, slugs(result.Results))
	// No viewer: favourited is always false.
	for _, r := range result.Results {
		assert.False(t, r.Favourited)
	}
}

func TestEngineRun_ByFavourite(t *testing.T) {
	db, users := setupEngineDB(t)
	engine := NewEngine(db, nil)

	result, err := engine.Run(context.Background(), ByFavourite(users["alice"].ID), users["alice"].ID, DefaultPager())
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.TotalResults)
	assert.Equal(t, []string{"sqlite-tricks", "hello-world"}, slugs(result.Results))
	for _, r := range result.Results {
		assert.True(t, r.Favourited)
	}
}

func TestEngineRun_SearchTitle(t *testing.T) {
	db, _ := setupEngineDB(t)
	engine := NewEngine(db, nil)

	result, err := engine.Run(context.Background(), Search("GENERICS", ""), 0, DefaultPager())
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.TotalResults)
	assert.Equal(t, []string{"go-generics"}, slugs(result.Results))
}

func TestEngineRun_SearchTags(t *testing.T) {
	db, _ := setupEngineDB(t)
	engine := NewEngine(db, nil)

	result, err := engine.Run(context.Background(), Search("", "go"), 0, DefaultPager())
	require.NoError(t, err)

	// "go" appears in the tag sets of go-generics and hello-world.
	assert.Equal(t, int64(2), result.TotalResults)
	assert.Equal(t, []string{"go-generics", "hello-world"}, slugs(result.Results))
}

func TestEngineRun_SearchNoTermsListsEverything(t *testing.T) {
	db, _ := setupEngineDB(t)
	engine := NewEngine(db, nil)

	result, err := engine.Run(context.Background(), Search("", ""), 0, DefaultPager())
	require.NoError(t, err)

	assert.Equal(t, int64(4), result.TotalResults)
	assert.Equal(t, []string{"go-generics", "sqlite-tricks", "hello-world", "old-post"}, slugs(result.Results))
}

func TestEngineRun_Pagination(t *testing.T) {
	db, _ := setupEngineDB(t)
	engine := NewEngine(db, nil)

	p, err := NewPager(2, 2)
	require.NoError(t, err)

	result, err := engine.Run(context.Background(), Search("", ""), 0, p)
	require.NoError(t, err)

	assert.Equal(t, int64(4), result.TotalResults)
	assert.Equal(t, 2, result.TotalPages)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, []string{"hello-world", "old-post"}, slugs(result.Results))
}

func TestEnrich_MissingAuthorKeepsArticle(t *testing.T) {
	db, users := setupEngineDB(t)
	engine := NewEngine(db, nil)
	ctx := context.Background()

	// Hard-delete carol so her articles point at a missing author.
	require.NoError(t, db.Unscoped().Delete(&models.User{}, users["carol"].ID).Error)

	result, err := engine.Run(ctx, Search("", ""), 0, DefaultPager())
	require.NoError(t, err)

	assert.Equal(t, int64(4), result.TotalResults)
	for _, r := range result.Results {
		if r.AuthorID == users["carol"].ID {
			assert.Empty(t, r.Author.Username)
		} else {
			assert.NotEmpty(t, r.Author.Username)
		}
	}
}
