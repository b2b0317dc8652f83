// Command seed runs the database seeder for Hublish.
package main

import (
	"flag"
	"log"

	"hublish/internal/bootstrap"
	"hublish/internal/config"
	"hublish/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numArticles := flag.Int("articles", 200, "Number of articles to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Print what would be created without writing")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords for faster seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("target: %d users, %d articles, clean=%v dry-run=%v\n",
		*numUsers, *numArticles, *shouldClean, *dryRun)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	rt, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer func() {
		if cerr := rt.Close(); cerr != nil {
			log.Printf("close runtime: %v", cerr)
		}
	}()

	s := seed.NewSeeder(rt.DB, seed.Options{
		NumUsers:    *numUsers,
		NumArticles: *numArticles,
		ShouldClean: *shouldClean,
		DryRun:      *dryRun,
		SkipBcrypt:  *skipBcrypt,
	})

	counts, err := s.Run()
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	if *dryRun {
		log.Printf("dry run complete: would create %d users, %d follows, %d articles, %d favourites, %d comments",
			counts.Users, counts.Follows, counts.Articles, counts.Favourites, counts.Comments)
		return
	}
	log.Printf("done: %d users, %d follows, %d articles, %d favourites, %d comments",
		counts.Users, counts.Follows, counts.Articles, counts.Favourites, counts.Comments)
	log.Println("all seeded users have the password: password123")
}
