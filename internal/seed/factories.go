// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"hublish/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control seeding volume and behavior.
type Options struct {
	NumUsers    int
	NumArticles int
	ShouldClean bool
	// DryRun logs what would be created without writing to the DB.
	DryRun bool
	// SkipBcrypt stores plaintext passwords for faster bulk seeding.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over the past N days.
	MaxDays   int
	BatchSize int
}

var tagPool = []string{
	"go", "programming", "webdev", "databases", "testing",
	"career", "opinion", "tutorial", "devops", "design",
	"productivity", "opensource", "cloud", "security", "ai",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Name:     gofakeit.Name(),
		Bio:      gofakeit.Sentence(10),
		Image:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateArticle constructs and persists a sample `models.Article` for
// the given author, with a slug and a random tag set.
func (f *Factory) CreateArticle(author *models.User, overrides ...func(*models.Article)) (*models.Article, error) {
	title := strings.TrimSuffix(gofakeit.Sentence(6), ".")
	article := &models.Article{
		Title:    title,
		Slug:     slugFromTitle(title),
		Content:  gofakeit.Paragraph(2, 4, 8, "\n\n"),
		Tags:     f.randomTags(),
		AuthorID: author.ID,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	article.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour -
			time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(article)
	}

	if f.opts.DryRun {
		f.nextID++
		article.ID = f.nextID
		log.Printf("[dry-run] CreateArticle: author=%d slug=%q tags=%v", article.AuthorID, article.Slug, article.Tags)
		return article, nil
	}

	if err := f.db.Create(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided article authored by the provided user.
func (f *Factory) CreateComment(user *models.User, article *models.Article, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:   gofakeit.Sentence(8),
		UserID:    user.ID,
		ArticleID: article.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Favourite persists a favourite from `user` on `article`, bumping the
// article's counter in the same transaction so seeded data satisfies
// the counter invariant.
func (f *Factory) Favourite(user *models.User, article *models.Article) error {
	if f.opts.DryRun {
		return nil
	}
	return f.db.Transaction(func(tx *gorm.DB) error {
		fav := models.Favourite{UserID: user.ID, ArticleID: article.ID}
		if err := tx.Create(&fav).Error; err != nil {
			return err
		}
		return tx.Model(&models.Article{}).
			Where("id = ?", article.ID).
			UpdateColumn("favourite_count", gorm.Expr("favourite_count + ?", 1)).Error
	})
}

// Follow persists a follow from `follower` to `followee`, bumping both
// user counters in the same transaction.
func (f *Factory) Follow(follower, followee *models.User) error {
	if f.opts.DryRun {
		return nil
	}
	return f.db.Transaction(func(tx *gorm.DB) error {
		follow := models.Follow{FollowerID: follower.ID, FollowingID: followee.ID}
		if err := tx.Create(&follow).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).
			Where("id = ?", follower.ID).
			UpdateColumn("following_count", gorm.Expr("following_count + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", followee.ID).
			UpdateColumn("follower_count", gorm.Expr("follower_count + ?", 1)).Error
	})
}

func (f *Factory) randomTags() []string {
	count := 1 + f.rng.Intn(3)
	picked := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	for len(picked) < count {
		tag := tagPool[f.rng.Intn(len(tagPool))]
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		picked = append(picked, tag)
	}
	return picked
}

func slugFromTitle(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-") + "-" + uuid.New().String()[:8]
}
