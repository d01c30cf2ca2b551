package headline

import (
	"log/slog"
	"net/http"
	"strconv"

	"headline-desk/internal/observability/logging"
	hlUC "headline-desk/internal/usecase/headline"
)

// ImageHandler streams the scanned image of a record.
type ImageHandler struct{ Svc *hlUC.Service }

// ServeHTTP handles GET /headlines/images/{name}.
func (h ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	img, err := h.Svc.Image(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.Data); err != nil {
		logging.FromContext(r.Context()).Debug("image write aborted",
			slog.String("image_name", img.Name),
			slog.Any("error", err))
	}
}
