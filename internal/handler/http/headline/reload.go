package headline

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"headline-desk/internal/handler/http/respond"
	"headline-desk/internal/observability/logging"
	hlUC "headline-desk/internal/usecase/headline"
)

// ReloadHandler re-reads the dataset and swaps in a new snapshot.
// When Token is set the request must carry "Authorization: Bearer <Token>".
type ReloadHandler struct {
	Svc   *hlUC.Service
	Token string
}

// ServeHTTP handles POST /admin/reload.
func (h ReloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Token != "" && !validBearer(r.Header.Get("Authorization"), h.Token) {
		w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
		respond.SafeError(w, http.StatusUnauthorized,
			respond.NewAppError(http.StatusUnauthorized, "valid admin token required", nil))
		return
	}

	snap, err := h.Svc.Reload(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusBadGateway,
			respond.NewAppError(http.StatusBadGateway, "dataset reload failed", err))
		return
	}

	logging.FromContext(r.Context()).Info("dataset reloaded on request",
		slog.Int("articles", snap.Len()))
	respond.JSON(w, http.StatusOK, ReloadResponse{
		Articles: snap.Len(),
		Undated:  snap.Undated(),
		LoadedAt: snap.LoadedAt().UTC(),
	})
}

func validBearer(header, token string) bool {
	got, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) == 1
}
