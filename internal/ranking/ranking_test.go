package ranking

import (
	"testing"

	"typoteka/internal/models"

	"github.com/google/go-cmp/cmp"
)

func articleWithComments(id uint, comments int) *models.Article {
	return &models.Article{ID: id, Comments: make([]models.Comment, comments)}
}

func ids(articles []*models.Article) []uint {
	out := make([]uint, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.ID)
	}
	return out
}

func commentCounts(articles []*models.Article) []int {
	out := make([]int, 0, len(articles))
	for _, a := range articles {
		out = append(out, len(a.Comments))
	}
	return out
}

func TestBestCommented(t *testing.T) {
	tests := []struct {
		name       string
		counts     []int
		n          int
		wantIDs    []uint
		wantCounts []int
	}{
		{
			name:       "drops uncommented and keeps ties in input order",
			counts:     []int{5, 0, 3, 3, 1},
			n:          MaxElementsPerBlock,
			wantIDs:    []uint{1, 3, 4, 5},
			wantCounts: []int{5, 3, 3, 1},
		},
		{
			name:       "truncates to n",
			counts:     []int{1, 2, 3, 4, 5, 6},
			n:          MaxElementsPerBlock,
			wantIDs:    []uint{6, 5, 4, 3},
			wantCounts: []int{6, 5, 4, 3},
		},
		{
			name:       "nothing commented",
			counts:     []int{0, 0},
			n:          MaxElementsPerBlock,
			wantIDs:    []uint{},
			wantCounts: []int{},
		},
		{
			name:       "ties beyond the cut keep the earliest",
			counts:     []int{2, 2, 2, 2, 2},
			n:          MaxElementsPerBlock,
			wantIDs:    []uint{1, 2, 3, 4},
			wantCounts: []int{2, 2, 2, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles := make([]*models.Article, 0, len(tt.counts))
			for i, c := range tt.counts {
				articles = append(articles, articleWithComments(uint(i+1), c))
			}

			got := BestCommented(articles, tt.n)
			if diff := cmp.Diff(tt.wantIDs, ids(got)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantCounts, commentCounts(got)); diff != "" {
				t.Errorf("counts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBestCommented_DoesNotReorderInput(t *testing.T) {
	articles := []*models.Article{articleWithComments(1, 1), articleWithComments(2, 3)}
	BestCommented(articles, MaxElementsPerBlock)
	if diff := cmp.Diff([]uint{1, 2}, ids(articles)); diff != "" {
		t.Errorf("input reordered (-want +got):\n%s", diff)
	}
}

func TestLastComments(t *testing.T) {
	comments := make([]*models.Comment, 0, 6)
	for i := 6; i >= 1; i-- {
		comments = append(comments, &models.Comment{ID: uint(i)})
	}

	got := LastComments(comments, MaxElementsPerBlock)
	want := []*models.Comment{{ID: 6}, {ID: 5}, {ID: 4}, {ID: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LastComments mismatch (-want +got):\n%s", diff)
	}

	if got := LastComments(nil, MaxElementsPerBlock); got == nil || len(got) != 0 {
		t.Errorf("LastComments(nil) = %v, want empty slice", got)
	}
}
