package sessions

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JaimeStill/stagehand/pkg/handlers"
	"github.com/JaimeStill/stagehand/pkg/routes"
)

const quitMessage = "Thank you for using Stagehand. You can safely close this browser tab."

// Handler provides the JSON workflow API.
type Handler struct {
	sys      System
	binder   *Binder
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler creates a Handler.
func NewHandler(sys System, binder *Binder, logger *slog.Logger) *Handler {
	return &Handler{
		sys:      sys,
		binder:   binder,
		logger:   logger.With("handler", "sessions"),
		validate: NewValidator(),
	}
}

// Routes returns the route groups for the stage catalog and session actions.
func (h *Handler) Routes() []routes.Group {
	bind := h.binder.Bind

	return []routes.Group{
		{
			Prefix: "/stages",
			Tags:   []string{"Stages"},
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: h.Stages, OpenAPI: stagesOp},
			},
		},
		{
			Prefix: "/session",
			Tags:   []string{"Session"},
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: bind(h.Render), OpenAPI: renderOp},
				{Method: "POST", Pattern: "/intake", Handler: bind(h.Intake), OpenAPI: intakeOp},
				{Method: "GET", Pattern: "/export", Handler: bind(h.Export), OpenAPI: exportOp},
				{Method: "POST", Pattern: "/restart", Handler: bind(h.Restart), OpenAPI: restartOp},
				{Method: "POST", Pattern: "/quit", Handler: bind(h.Quit), OpenAPI: quitOp},
			},
			Children: []routes.Group{
				{
					Prefix: "/stages/{id}",
					Routes: []routes.Route{
						{Method: "POST", Pattern: "/approve", Handler: bind(h.Approve), OpenAPI: approveOp},
						{Method: "POST", Pattern: "/feedback", Handler: bind(h.Feedback), OpenAPI: feedbackOp},
						{Method: "GET", Pattern: "/download", Handler: bind(h.Download), OpenAPI: downloadOp},
					},
				},
			},
		},
	}
}

// Stages lists the stage catalog.
func (h *Handler) Stages(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Stages())
}

// Render returns the current view, generating content first when needed.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r, sessionID(r))
}

// Intake starts the workflow with a credential and project description.
func (h *Handler) Intake(w http.ResponseWriter, r *http.Request) {
	req, err := decode[IntakeRequest](r, h.validate)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	id := sessionID(r)
	if err := h.sys.StartIntake(r.Context(), id, req.Credential, req.Description); err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.respondView(w, r, id)
}

// Approve approves the current stage and renders the next one.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if err := h.sys.Approve(r.Context(), id, r.PathValue("id")); err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.respondView(w, r, id)
}

// Feedback records a change request and renders the regenerated stage.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	req, err := decode[FeedbackRequest](r, h.validate)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	id := sessionID(r)
	if err := h.sys.SubmitFeedback(r.Context(), id, r.PathValue("id"), req.Feedback); err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.respondView(w, r, id)
}

// Download returns one stage's content as a text file.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	dl, err := h.sys.StageDownload(r.Context(), sessionID(r), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondFile(w, dl.Filename, dl.ContentType, dl.Data)
}

// Export returns the full workflow as a JSON file.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	dl, err := h.sys.Export(r.Context(), sessionID(r))
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	if dl.ArchiveName != "" {
		w.Header().Set("X-Archive-Name", dl.ArchiveName)
	}
	handlers.RespondFile(w, dl.Filename, dl.ContentType, dl.Data)
}

// Restart clears the workflow, keeping the credential.
func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if err := h.sys.Restart(r.Context(), id); err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.respondView(w, r, id)
}

// Quit ends the session.
func (h *Handler) Quit(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Quit(r.Context(), sessionID(r)); err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.binder.Clear(w)
	handlers.RespondJSON(w, http.StatusOK, Closed{Message: quitMessage})
}

func (h *Handler) respondView(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	view, err := h.sys.Render(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, view)
}

func sessionID(r *http.Request) uuid.UUID {
	id, _ := IDFromContext(r.Context())
	return id
}
