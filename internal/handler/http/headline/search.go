package headline

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"headline-desk/internal/common/pagination"
	"headline-desk/internal/domain/entity"
	"headline-desk/internal/handler/http/respond"
	hlUC "headline-desk/internal/usecase/headline"
)

// SearchHandler serves tag searches over the loaded snapshot.
type SearchHandler struct {
	Svc      *hlUC.Service
	ImageURL ImageURLFunc
	// Paging bounds the optional page and limit parameters. Zero uses pagination.DefaultConfig.
	Paging pagination.Config
}

// ServeHTTP handles GET /headlines/search?tag=&from=&to=&page=&limit=.
// from and to accept YYYY-MM-DD or DD-MM-YYYY and each defaults to the matching
// records' own date bound. Without page or limit every result is returned.
func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := hlUC.Query{Tag: q.Get("tag")}

	paging := h.Paging
	if paging.MaxLimit == 0 {
		paging = pagination.DefaultConfig()
	}
	pageParams, paged, err := pagination.ParseQueryParams(r, paging)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if query.From, err = parseDateParam("from", q.Get("from")); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if query.To, err = parseDateParam("to", q.Get("to")); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.Svc.Search(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	imageURL := h.ImageURL
	if imageURL == nil {
		imageURL = LocalImageURL
	}
	out := SearchResponse{
		Count:   len(res.Articles),
		Total:   res.Total,
		MinDate: formatDate(res.MinDate),
		MaxDate: formatDate(res.MaxDate),
		From:    formatDate(res.From),
		To:      formatDate(res.To),
		Message: fmt.Sprintf(msgFound, len(res.Articles)),
	}
	if len(res.Articles) == 0 {
		out.Message = msgNoResults
	}

	articles := res.Articles
	if paged {
		var meta pagination.Metadata
		articles, meta = pagination.Slice(articles, pageParams)
		out.Pagination = &meta
	}
	out.Articles = make([]ArticleDTO, 0, len(articles))
	for _, a := range articles {
		out.Articles = append(out.Articles, toDTO(a, imageURL))
	}
	respond.JSON(w, http.StatusOK, out)
}

// parseDateParam returns nil for an absent parameter.
func parseDateParam(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, entity.DateLayout} {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid %s date %q: must be YYYY-MM-DD or DD-MM-YYYY", name, value)
}
