package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

const (
	// MaxArticles caps a single generate run.
	MaxArticles = 1000
	// CommentsPerArticle is how many comments filldb attaches to each article.
	CommentsPerArticle = 4

	maxAnnounceLen = 300
	maxFullTextLen = 1000
	maxCommentLen  = 500
	createWindow   = 90 * 24 * time.Hour
)

// ErrTooManyArticles is returned when more than MaxArticles are requested.
var ErrTooManyArticles = fmt.Errorf("you can generate max %d articles", MaxArticles)

// MockArticle is one generated article as written to the mocks file.
type MockArticle struct {
	Title      string    `json:"title"`
	CreateDate time.Time `json:"createDate"`
	Announce   string    `json:"announce"`
	FullText   string    `json:"fullText"`
	Categories []string  `json:"categories"`
	Comments   []string  `json:"comments,omitempty"`
}

// Generator assembles mock articles from word lists.
type Generator struct {
	words *WordLists
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator returns a generator over words. A zero seed picks a random one.
func NewGenerator(words *WordLists, seed int64) *Generator {
	return &Generator{words: words, faker: gofakeit.New(seed), now: time.Now}
}

// Articles builds count mock articles, each with CommentsPerArticle comments
// when withComments is set.
func (g *Generator) Articles(count int, withComments bool) ([]MockArticle, error) {
	if count > MaxArticles {
		return nil, ErrTooManyArticles
	}
	if count < 1 {
		count = 1
	}

	articles := make([]MockArticle, 0, count)
	for range count {
		article := MockArticle{
			Title:      g.pick(g.words.Titles),
			CreateDate: g.createDate(),
			Announce:   clip(strings.Join(g.shuffled(g.words.Sentences)[:min(4, len(g.words.Sentences))], " "), maxAnnounceLen),
			FullText:   clip(strings.Join(g.shuffled(g.words.Sentences)[:g.faker.IntRange(1, len(g.words.Sentences))], " "), maxFullTextLen),
			Categories: g.subset(g.words.Categories),
		}
		if withComments {
			article.Comments = g.comments(CommentsPerArticle)
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// WriteMocks writes articles to path as JSON.
func WriteMocks(path string, articles []MockArticle) error {
	raw, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mocks: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write mocks: %w", err)
	}
	return nil
}

func (g *Generator) pick(items []string) string {
	return items[g.faker.IntRange(0, len(items)-1)]
}

func (g *Generator) shuffled(items []string) []string {
	out := append([]string(nil), items...)
	g.faker.ShuffleStrings(out)
	return out
}

// subset returns a random non-empty selection of items without repeats.
func (g *Generator) subset(items []string) []string {
	return g.shuffled(items)[:g.faker.IntRange(1, len(items))]
}

func (g *Generator) createDate() time.Time {
	now := g.now().UTC()
	return g.faker.DateRange(now.Add(-createWindow), now).Truncate(time.Second)
}

// comments joins up to three comment lines per comment so each one reads
// like a short reply.
func (g *Generator) comments(count int) []string {
	out := make([]string, 0, count)
	for range count {
		lines := g.shuffled(g.words.Comments)[:g.faker.IntRange(1, min(3, len(g.words.Comments)))]
		out = append(out, clip(strings.Join(lines, " "), maxCommentLen))
	}
	return out
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}
