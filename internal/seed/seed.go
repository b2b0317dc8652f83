package seed

import (
	"fmt"
	"log"

	"hublish/internal/models"

	"gorm.io/gorm"
)

// Counts reports what a seeding run produced (or would produce in
// dry-run mode).
type Counts struct {
	Users      int
	Follows    int
	Articles   int
	Favourites int
	Comments   int
}

// Seeder orchestrates demo-data creation: users, a follow mesh,
// articles with tags, favourites, and comments.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 50
	}
	if opts.NumArticles <= 0 {
		opts.NumArticles = 200
	}
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// Run populates the database with demo data and returns what was
// created. In dry-run mode nothing is written.
func (s *Seeder) Run() (*Counts, error) {
	counts := &Counts{}

	if s.opts.ShouldClean && !s.opts.DryRun {
		if err := s.ClearAll(); err != nil {
			log.Printf("warning: could not clear existing data: %v", err)
		}
	}

	users, err := s.seedUsers(counts)
	if err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", counts.Users)

	if err := s.seedFollowMesh(users, counts); err != nil {
		return nil, fmt.Errorf("failed to create follow mesh: %w", err)
	}
	log.Printf("created %d follows", counts.Follows)

	articles, err := s.seedArticles(users, counts)
	if err != nil {
		return nil, fmt.Errorf("failed to create articles: %w", err)
	}
	log.Printf("created %d articles", counts.Articles)

	if err := s.seedFavourites(users, articles, counts); err != nil {
		return nil, fmt.Errorf("failed to create favourites: %w", err)
	}
	log.Printf("created %d favourites", counts.Favourites)

	if err := s.seedComments(users, articles, counts); err != nil {
		return nil, fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("created %d comments", counts.Comments)

	return counts, nil
}

// ClearAll removes all seeded data. PostgreSQL only.
func (s *Seeder) ClearAll() error {
	log.Println("clearing existing data...")
	sql := `TRUNCATE TABLE comments, favourites, follows, articles, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

func (s *Seeder) seedUsers(counts *Counts) ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.NumUsers)

	// Always include a deterministic login for local development.
	demo, err := s.factory.CreateUser(func(u *models.User) {
		u.Username = "demo"
		u.Email = "demo@example.com"
	})
	if err == nil {
		users = append(users, demo)
		counts.Users++
	}

	for len(users) < s.opts.NumUsers {
		user, err := s.factory.CreateUser()
		if err != nil {
			// Username collisions are possible with generated names.
			continue
		}
		users = append(users, user)
		counts.Users++
	}
	return users, nil
}

// seedFollowMesh has each user follow a handful of others, so the feed
// mode has something to aggregate.
func (s *Seeder) seedFollowMesh(users []*models.User, counts *Counts) error {
	for i, follower := range users {
		followCount := 2 + s.factory.rng.Intn(6)
		for j := 0; j < followCount; j++ {
			followee := users[s.factory.rng.Intn(len(users))]
			if followee.ID == follower.ID {
				continue
			}
			if err := s.factory.Follow(follower, followee); err != nil {
				// Duplicate pair; the unique index rejects it.
				continue
			}
			counts.Follows++
		}
		if i > 0 && i%100 == 0 {
			log.Printf("follow mesh: %d users processed...", i)
		}
	}
	return nil
}

func (s *Seeder) seedArticles(users []*models.User, counts *Counts) ([]*models.Article, error) {
	articles := make([]*models.Article, 0, s.opts.NumArticles)
	for i := 0; i < s.opts.NumArticles; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		article, err := s.factory.CreateArticle(author)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
		counts.Articles++

		if i > 0 && i%100 == 0 {
			log.Printf("created %d articles...", i)
		}
	}
	return articles, nil
}

func (s *Seeder) seedFavourites(users []*models.User, articles []*models.Article, counts *Counts) error {
	for _, user := range users {
		favCount := s.factory.rng.Intn(8)
		for j := 0; j < favCount; j++ {
			article := articles[s.factory.rng.Intn(len(articles))]
			if err := s.factory.Favourite(user, article); err != nil {
				// Duplicate pair; the unique index rejects it.
				continue
			}
			counts.Favourites++
		}
	}
	return nil
}

func (s *Seeder) seedComments(users []*models.User, articles []*models.Article, counts *Counts) error {
	for _, article := range articles {
		commentCount := s.factory.rng.Intn(5)
		for j := 0; j < commentCount; j++ {
			user := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(user, article); err != nil {
				return err
			}
			counts.Comments++
		}
	}
	return nil
}
