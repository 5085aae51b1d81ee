// Package ranking computes the home page article and comment blocks.
package ranking

import (
	"slices"

	"typoteka/internal/models"
)

// MaxElementsPerBlock is the size of each home page block.
const MaxElementsPerBlock = 4

// BestCommented returns up to n articles that have at least one comment,
// most commented first. Articles with equal counts keep their input order,
// so callers pass them newest first.
func BestCommented(articles []*models.Article, n int) []*models.Article {
	commented := make([]*models.Article, 0, len(articles))
	for _, a := range articles {
		if len(a.Comments) > 0 {
			commented = append(commented, a)
		}
	}

	slices.SortStableFunc(commented, func(a, b *models.Article) int {
		return len(b.Comments) - len(a.Comments)
	})

	return head(commented, n)
}

// LastComments keeps the first n comments of an already newest-first list.
func LastComments(comments []*models.Comment, n int) []*models.Comment {
	return head(comments, n)
}

func head[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		items = items[:n]
	}
	if items == nil {
		return []T{}
	}
	return items
}
