// Package listing implements the article read-model aggregation engine:
// a single parameterized pipeline that turns a filter mode and a viewer
// identity into a paginated, denormalized article listing.
package listing

import (
	"strings"

	"gorm.io/gorm"
)

// Mode names the filter shape of a listing run. It parameterizes the
// one shared pipeline and labels its metrics.
type Mode string

const (
	ModeFeed        Mode = "feed"
	ModeByAuthor    Mode = "by_author"
	ModeByFavourite Mode = "by_favourite"
	ModeSearch      Mode = "search"
)

// Filter is a storage-layer predicate over the articles table. The same
// filter is applied to both the count and the slice query of a run.
// Constructors assume already-resolved identities; username resolution
// happens in the service layer before a filter is built.
type Filter struct {
	Mode  Mode
	apply func(*gorm.DB) *gorm.DB
}

// Apply attaches the predicate to a query rooted at the articles table.
func (f Filter) Apply(q *gorm.DB) *gorm.DB {
	if f.apply == nil {
		return q
	}
	return f.apply(q)
}

// ByAuthor matches articles written by the given author.
func ByAuthor(authorID uint) Filter {
	return Filter{
		Mode: ModeByAuthor,
		apply: func(q *gorm.DB) *gorm.DB {
			return q.Where("articles.author_id = ?", authorID)
		},
	}
}

// Feed matches articles written by anyone the viewer follows. A viewer
// following nobody yields an empty membership set and matches nothing.
func Feed(viewerID uint) Filter {
	return Filter{
		Mode: ModeFeed,
		apply: func(q *gorm.DB) *gorm.DB {
			return q.Where(
				"articles.author_id IN (SELECT following_id FROM follows WHERE follower_id = ?)",
				viewerID,
			)
		},
	}
}

// Search matches articles whose title or tags contain the respective
// term, case-insensitively. Either term may be empty; with both empty
// the filter matches every article.
func Search(title, tags string) Filter {
	return Filter{
		Mode: ModeSearch,
		apply: func(q *gorm.DB) *gorm.DB {
			// LOWER(...) LIKE instead of ILIKE so the same predicate
			// runs on postgres and the sqlite test driver.
			switch {
			case title != "" && tags != "":
				return q.Where(
					"LOWER(articles.title) LIKE ? OR LOWER(articles.tags) LIKE ?",
					likePattern(title), likePattern(tags),
				)
			case title != "":
				return q.Where("LOWER(articles.title) LIKE ?", likePattern(title))
			case tags != "":
				return q.Where("LOWER(articles.tags) LIKE ?", likePattern(tags))
			default:
				return q
			}
		},
	}
}

// ByFavourite matches articles the given user has favourited, via a
// join on the favourites relation. The pair-unique index guarantees at
// most one joined row per article, so counts stay exact.
func ByFavourite(userID uint) Filter {
	return Filter{
		Mode: ModeByFavourite,
		apply: func(q *gorm.DB) *gorm.DB {
			return q.
				Joins("JOIN favourites ON favourites.article_id = articles.id").
				Where("favourites.user_id = ?", userID)
		},
	}
}

func likePattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}
