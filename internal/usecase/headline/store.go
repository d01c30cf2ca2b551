package headline

import (
	"sort"
	"strings"
	"time"

	"headline-desk/internal/domain/entity"
)

// Snapshot is the immutable result of one dataset load.
// Articles are ordered by article date descending, undated articles last, ties in
// original input order. A Snapshot is never modified after Load returns it.
type Snapshot struct {
	articles []entity.Article
	byImage  map[string]int
	undated  int
	loadedAt time.Time
}

// Load builds a snapshot from raw rows.
// Rows whose image name is empty after trimming are dropped. The article date is
// extracted once per retained row.
func Load(rows []entity.RawRow) Snapshot {
	articles := make([]entity.Article, 0, len(rows))
	undated := 0
	for i, row := range rows {
		name := strings.TrimSpace(row.ImageName)
		if name == "" {
			continue
		}
		a := entity.Article{
			Index:       i,
			Headline:    row.Headline,
			FullText:    row.FullText,
			ImageName:   name,
			ArticleDate: entity.ExtractDate(name),
		}
		if a.ArticleDate == nil {
			undated++
		}
		articles = append(articles, a)
	}

	sortArticles(articles)

	byImage := make(map[string]int, len(articles))
	for i, a := range articles {
		// first occurrence in store order wins for duplicate names
		if _, ok := byImage[a.ImageName]; !ok {
			byImage[a.ImageName] = i
		}
	}

	return Snapshot{
		articles: articles,
		byImage:  byImage,
		undated:  undated,
		loadedAt: time.Now(),
	}
}

// Articles returns a copy of the ordered articles.
func (s Snapshot) Articles() []entity.Article {
	out := make([]entity.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// Len returns the number of articles in the snapshot.
func (s Snapshot) Len() int {
	return len(s.articles)
}

// Undated returns the number of articles without an extractable date.
func (s Snapshot) Undated() int {
	return s.undated
}

// LoadedAt returns the time the snapshot was built.
func (s Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Get returns the article with the given image name.
func (s Snapshot) Get(imageName string) (entity.Article, bool) {
	i, ok := s.byImage[imageName]
	if !ok {
		return entity.Article{}, false
	}
	return s.articles[i], true
}

// sortArticles orders articles in store order in place.
func sortArticles(articles []entity.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return storeLess(articles[i], articles[j])
	})
}

// storeLess reports whether a precedes b: later dates first, undated last,
// then original input position.
func storeLess(a, b entity.Article) bool {
	switch {
	case a.ArticleDate != nil && b.ArticleDate != nil:
		if !a.ArticleDate.Equal(*b.ArticleDate) {
			return a.ArticleDate.After(*b.ArticleDate)
		}
	case a.ArticleDate != nil:
		return true
	case b.ArticleDate != nil:
		return false
	}
	return a.Index < b.Index
}
