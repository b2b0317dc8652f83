package service

import (
	"context"
	"testing"

	"hublish/internal/listing"
	"hublish/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTestPager() listing.Pager {
	return listing.DefaultPager()
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
	}
}

// articleRepoStub is a stub for repository.ArticleRepository.
type articleRepoStub struct {
	createFn       func(context.Context, *models.Article) error
	getBySlugFn    func(context.Context, string) (*models.Article, error)
	updateFn       func(context.Context, *models.Article) error
	deleteFn       func(context.Context, *models.Article) error
	isFavouritedFn func(context.Context, uint, uint) (bool, error)
	favouriteFn    func(context.Context, uint, string) (*models.Article, error)
	unfavouriteFn  func(context.Context, uint, string) (*models.Article, error)
}

func (s *articleRepoStub) Create(ctx context.Context, article *models.Article) error {
	return s.createFn(ctx, article)
}
func (s *articleRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *articleRepoStub) Update(ctx context.Context, article *models.Article) error {
	return s.updateFn(ctx, article)
}
func (s *articleRepoStub) Delete(ctx context.Context, article *models.Article) error {
	return s.deleteFn(ctx, article)
}
func (s *articleRepoStub) IsFavourited(ctx context.Context, userID, articleID uint) (bool, error) {
	return s.isFavouritedFn(ctx, userID, articleID)
}
func (s *articleRepoStub) Favourite(ctx context.Context, userID uint, slug string) (*models.Article, error) {
	return s.favouriteFn(ctx, userID, slug)
}
func (s *articleRepoStub) Unfavourite(ctx context.Context, userID uint, slug string) (*models.Article, error) {
	return s.unfavouriteFn(ctx, userID, slug)
}

func noopArticleRepo() *articleRepoStub {
	return &articleRepoStub{
		createFn:       func(_ context.Context, _ *models.Article) error { return nil },
		getBySlugFn:    func(_ context.Context, _ string) (*models.Article, error) { return &models.Article{}, nil },
		updateFn:       func(_ context.Context, _ *models.Article) error { return nil },
		deleteFn:       func(_ context.Context, _ *models.Article) error { return nil },
		isFavouritedFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		favouriteFn:    func(_ context.Context, _ uint, _ string) (*models.Article, error) { return &models.Article{}, nil },
		unfavouriteFn:  func(_ context.Context, _ uint, _ string) (*models.Article, error) { return &models.Article{}, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	followFn      func(context.Context, uint, uint) error
	unfollowFn    func(context.Context, uint, uint) error
	isFollowingFn func(context.Context, uint, uint) (bool, error)
}

func (s *followRepoStub) Follow(ctx context.Context, followerID, followingID uint) error {
	return s.followFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Unfollow(ctx context.Context, followerID, followingID uint) error {
	return s.unfollowFn(ctx, followerID, followingID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followingID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		followFn:      func(_ context.Context, _, _ uint) error { return nil },
		unfollowFn:    func(_ context.Context, _, _ uint) error { return nil },
		isFollowingFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	listByArticleFn func(context.Context, uint) ([]*models.Comment, error)
	deleteFn        func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByArticle(ctx context.Context, articleID uint) ([]*models.Comment, error) {
	return s.listByArticleFn(ctx, articleID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:        func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByArticleFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeValidation, models.ErrorCode(err))
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeNotFound, models.ErrorCode(err))
}
