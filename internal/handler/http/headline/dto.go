// Package headline provides the HTTP handlers for headline search, image retrieval,
// image analysis and dataset reload.
package headline

import (
	"net/url"
	"time"

	"headline-desk/internal/common/pagination"
	"headline-desk/internal/domain/entity"
	hlUC "headline-desk/internal/usecase/headline"
)

// Messages shown to editors, in Gujarati.
const (
	msgEnterTag  = "કૃપા કરીને ટેગ દાખલ કરો."
	msgNoResults = "કોઈ પરિણામ મળ્યું નથી."
	msgFound     = "મળેલા પરિણામો: %d"
)

// ArticleDTO is the JSON shape of one headline record.
// ArticleDate is YYYY-MM-DD and omitted for undated records.
type ArticleDTO struct {
	Headline    string `json:"headline"`
	FullText    string `json:"full_text"`
	ImageName   string `json:"image_name"`
	ArticleDate string `json:"article_date,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// SearchResponse is the JSON body of GET /headlines/search.
// Count is the number of results after the date range and Total the number of tag
// matches before it. Articles holds one page when Pagination is set.
type SearchResponse struct {
	Count      int                  `json:"count"`
	Total      int                  `json:"total"`
	MinDate    string               `json:"min_date,omitempty"`
	MaxDate    string               `json:"max_date,omitempty"`
	From       string               `json:"from,omitempty"`
	To         string               `json:"to,omitempty"`
	Message    string               `json:"message"`
	Pagination *pagination.Metadata `json:"pagination,omitempty"`
	Articles   []ArticleDTO         `json:"articles"`
}

// AnalysisResponse is the JSON body of POST /headlines/images/{name}/analyze.
type AnalysisResponse struct {
	ImageName  string `json:"image_name"`
	Provider   string `json:"provider"`
	Analysis   string `json:"analysis"`
	DurationMS int64  `json:"duration_ms"`
}

// ReloadResponse is the JSON body of POST /admin/reload.
type ReloadResponse struct {
	Articles int       `json:"articles"`
	Undated  int       `json:"undated"`
	LoadedAt time.Time `json:"loaded_at"`
}

// ImageURLFunc maps an image name to the URL a client should load it from.
type ImageURLFunc func(imageName string) string

// LocalImageURL points clients at this server's image route.
func LocalImageURL(imageName string) string {
	return "/headlines/images/" + url.PathEscape(imageName)
}

func toDTO(a entity.Article, imageURL ImageURLFunc) ArticleDTO {
	dto := ArticleDTO{
		Headline:  a.Headline,
		FullText:  a.FullText,
		ImageName: a.ImageName,
	}
	if a.ArticleDate != nil {
		dto.ArticleDate = a.ArticleDate.Format(time.DateOnly)
	}
	if imageURL != nil {
		dto.ImageURL = imageURL(a.ImageName)
	}
	return dto
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func toAnalysisResponse(a *hlUC.Analysis) AnalysisResponse {
	return AnalysisResponse{
		ImageName:  a.ImageName,
		Provider:   a.Provider,
		Analysis:   a.Text,
		DurationMS: a.Duration.Milliseconds(),
	}
}
