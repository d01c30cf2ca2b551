package headline

import (
	"net/http"

	"headline-desk/internal/common/pagination"
	hlUC "headline-desk/internal/usecase/headline"
)

// Options configures the headline routes.
type Options struct {
	// ImageURL builds the image_url of search results. Nil uses LocalImageURL.
	ImageURL ImageURLFunc
	// AnalyzeLimit wraps the analyze route, typically a per-IP rate limiter.
	AnalyzeLimit func(http.Handler) http.Handler
	// AdminToken guards /admin/reload when non-empty.
	AdminToken string
	// Paging bounds search pagination. Zero uses pagination.DefaultConfig.
	Paging pagination.Config
}

// Register registers the headline routes with the given mux.
func Register(mux *http.ServeMux, svc *hlUC.Service, opts Options) {
	var analyze http.Handler = AnalyzeHandler{svc}
	if opts.AnalyzeLimit != nil {
		analyze = opts.AnalyzeLimit(analyze)
	}

	mux.Handle("GET /headlines/search", SearchHandler{Svc: svc, ImageURL: opts.ImageURL, Paging: opts.Paging})
	mux.Handle("GET /headlines/images/{name}", ImageHandler{svc})
	mux.Handle("POST /headlines/images/{name}/analyze", analyze)
	mux.Handle("POST /admin/reload", ReloadHandler{Svc: svc, Token: opts.AdminToken})
}
