package api

import (
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/JaimeStill/stagehand/internal/export"
	"github.com/JaimeStill/stagehand/internal/sessions"
	"github.com/JaimeStill/stagehand/pkg/handlers"
	"github.com/JaimeStill/stagehand/pkg/openapi"
	"github.com/JaimeStill/stagehand/pkg/routes"
	"github.com/JaimeStill/stagehand/pkg/storage"
)

// archiveHandler serves archived exports to the session that produced them.
type archiveHandler struct {
	sys    sessions.System
	logger *slog.Logger
}

func newArchiveHandler(sys sessions.System, logger *slog.Logger) *archiveHandler {
	return &archiveHandler{
		sys:    sys,
		logger: logger.With("handler", "exports"),
	}
}

func (h *archiveHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/exports",
		Tags:   []string{"Exports"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{key...}", Handler: h.sys.Binder().Bind(h.download), OpenAPI: archivedOp},
		},
	}
}

var archivedOp = &openapi.Operation{
	Summary:     "Download archived export",
	Description: "Streams a workflow export this session copied to the archive. Returns 404 for names exported by other sessions or when archiving is not configured.",
	Parameters:  []*openapi.Parameter{openapi.PathParam("key", "Archive name from X-Archive-Name, YYYY/MM/DD/{export id}/filename")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseFile("Archived export", export.ArchiveContentType),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

func (h *archiveHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	id, _ := sessions.IDFromContext(r.Context())

	result, err := h.sys.Archived(r.Context(), id, key)
	if err != nil {
		handlers.RespondError(
			w, r, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}
	defer result.Body.Close()

	contentType := result.ContentType
	if contentType == "" {
		contentType = export.ArchiveContentType
	}
	w.Header().Set("Content-Type", contentType)

	if result.ContentLength > 0 {
		w.Header().Set(
			"Content-Length",
			strconv.FormatInt(result.ContentLength, 10),
		)
	}
	w.Header().Set("Content-Disposition", handlers.Attachment(path.Base(key)))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, result.Body); err != nil {
		h.logger.Warn("archive stream interrupted", "key", key, "error", err)
	}
}
