package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"typoteka/internal/middleware"
	"typoteka/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// FillOptions controls a filldb run.
type FillOptions struct {
	// Readers is the number of commenting accounts created besides the owner.
	Readers int
	// Clean removes existing rows before filling.
	Clean bool
	// HashCost overrides the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
}

// FillResult reports what a filldb run created.
type FillResult struct {
	Users      int
	Categories int
	Articles   int
	Comments   int
}

// Filler writes mock articles into the database.
type Filler struct {
	db  *gorm.DB
	gen *Generator
}

// NewFiller returns a filler that draws account names from g.
func NewFiller(db *gorm.DB, g *Generator) *Filler {
	return &Filler{db: db, gen: g}
}

// Fill creates the owner, reader accounts, every category in categories and
// the given articles with their comments, all in one transaction. Comments
// are spread over the reader accounts.
func (f *Filler) Fill(ctx context.Context, categories []string, articles []MockArticle, opts FillOptions) (*FillResult, error) {
	cost := opts.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	result := &FillResult{}
	err = f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Clean {
			if err := clearTables(tx); err != nil {
				return err
			}
		}

		users, err := f.createUsers(tx, string(hash), opts.Readers)
		if err != nil {
			return err
		}
		result.Users = len(users)

		categoryIDs, err := createCategories(tx, categories, articles)
		if err != nil {
			return err
		}
		result.Categories = len(categoryIDs)

		owner := users[0].ID
		for i, mock := range articles {
			article := &models.Article{
				Title:      mock.Title,
				Announce:   mock.Announce,
				FullText:   mock.FullText,
				CreateDate: mock.CreateDate,
				UserID:     &owner,
			}
			for _, name := range mock.Categories {
				article.Categories = append(article.Categories, models.Category{ID: categoryIDs[name]})
			}
			for j, text := range mock.Comments {
				author := users[1+(i+j)%(len(users)-1)].ID
				article.Comments = append(article.Comments, models.Comment{
					Text:      text,
					UserID:    &author,
					CreatedAt: mock.CreateDate.Add(time.Duration(j+1) * time.Hour),
				})
			}
			if err := tx.Omit("Categories.*", "User").Create(article).Error; err != nil {
				return fmt.Errorf("create article %q: %w", mock.Title, err)
			}
			result.Articles++
			result.Comments += len(article.Comments)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.Info("database filled",
		slog.Int("users", result.Users),
		slog.Int("categories", result.Categories),
		slog.Int("articles", result.Articles),
		slog.Int("comments", result.Comments),
	)
	return result, nil
}

// createUsers creates the owner first so it gets the owner flag, then the
// reader accounts.
func (f *Filler) createUsers(tx *gorm.DB, hash string, readers int) ([]*models.User, error) {
	var existing int64
	if err := tx.Model(&models.User{}).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	users := []*models.User{{
		Name:         "Owner",
		Email:        "owner@typoteka.local",
		PasswordHash: hash,
		IsOwner:      existing == 0,
	}}
	for i := range max(readers, 1) {
		users = append(users, &models.User{
			Name:         f.gen.faker.FirstName() + " " + f.gen.faker.LastName(),
			Email:        fmt.Sprintf("reader%d.%s", i+1, f.gen.faker.Email()),
			PasswordHash: hash,
		})
	}
	if err := tx.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}
	return users, nil
}

// createCategories inserts the named categories plus any only the articles
// mention, and maps each name to its id.
func createCategories(tx *gorm.DB, names []string, articles []MockArticle) (map[string]uint, error) {
	ids := make(map[string]uint)
	var ordered []*models.Category
	add := func(name string) {
		if _, ok := ids[name]; ok {
			return
		}
		ids[name] = 0
		ordered = append(ordered, &models.Category{Name: name})
	}
	for _, name := range names {
		add(name)
	}
	for _, article := range articles {
		for _, name := range article.Categories {
			add(name)
		}
	}
	if len(ordered) == 0 {
		return ids, nil
	}

	if err := tx.Create(&ordered).Error; err != nil {
		return nil, fmt.Errorf("create categories: %w", err)
	}
	for _, category := range ordered {
		ids[category.Name] = category.ID
	}
	return ids, nil
}

// Clear deletes every row the seeder can create.
func (f *Filler) Clear(ctx context.Context) error {
	return f.db.WithContext(ctx).Transaction(clearTables)
}

func clearTables(tx *gorm.DB) error {
	for _, table := range []string{"article_categories", "comments", "articles", "categories", "users"} {
		if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
