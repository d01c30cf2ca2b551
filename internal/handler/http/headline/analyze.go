package headline

import (
	"log/slog"
	"net/http"

	"headline-desk/internal/handler/http/respond"
	"headline-desk/internal/observability/logging"
	hlUC "headline-desk/internal/usecase/headline"
)

// AnalyzeHandler asks the vision model whether a scanned headline looks authentic.
type AnalyzeHandler struct{ Svc *hlUC.Service }

// ServeHTTP handles POST /headlines/images/{name}/analyze.
func (h AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	a, err := h.Svc.Analyze(r.Context(), name)
	if err != nil {
		logging.FromContext(r.Context()).Warn("image analysis failed",
			slog.String("image_name", name),
			slog.String("error", respond.SanitizeError(err)))
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toAnalysisResponse(a))
}
