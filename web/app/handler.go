package app

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/stagehand/internal/sessions"
	"github.com/JaimeStill/stagehand/internal/workflow"
	"github.com/JaimeStill/stagehand/pkg/handlers"
	"github.com/JaimeStill/stagehand/pkg/web"
)

// page is the data behind the workflow view.
type page struct {
	workflow.View
	Message         string
	CurrentApproved bool
}

type handler struct {
	sys    sessions.System
	binder *sessions.Binder
	ts     *web.TemplateSet
	logger *slog.Logger
}

func newHandler(sys sessions.System, ts *web.TemplateSet, logger *slog.Logger) *handler {
	return &handler{
		sys:    sys,
		binder: sys.Binder(),
		ts:     ts,
		logger: logger.With("handler", "app"),
	}
}

func (h *handler) register(mux *http.ServeMux) {
	bind := h.binder.Bind

	mux.HandleFunc("GET /{$}", bind(h.index))
	mux.HandleFunc("POST /intake", bind(h.intake))
	mux.HandleFunc("POST /stages/{id}/approve", bind(h.approve))
	mux.HandleFunc("POST /stages/{id}/feedback", bind(h.feedback))
	mux.HandleFunc("GET /stages/{id}/download", bind(h.download))
	mux.HandleFunc("GET /export", bind(h.export))
	mux.HandleFunc("POST /restart", bind(h.restart))
	mux.HandleFunc("POST /quit", bind(h.quit))
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "")
}

func (h *handler) intake(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	err := h.sys.StartIntake(r.Context(), sessionID(r), r.PostFormValue("credential"), r.PostFormValue("description"))
	h.complete(w, r, err)
}

func (h *handler) approve(w http.ResponseWriter, r *http.Request) {
	err := h.sys.Approve(r.Context(), sessionID(r), r.PathValue("id"))
	h.complete(w, r, err)
}

func (h *handler) feedback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	err := h.sys.SubmitFeedback(r.Context(), sessionID(r), r.PathValue("id"), r.PostFormValue("feedback"))
	h.complete(w, r, err)
}

func (h *handler) download(w http.ResponseWriter, r *http.Request) {
	dl, err := h.sys.StageDownload(r.Context(), sessionID(r), r.PathValue("id"))
	if err != nil {
		h.render(w, r, sessions.MapHTTPStatus(err), message(err))
		return
	}
	handlers.RespondFile(w, dl.Filename, dl.ContentType, dl.Data)
}

func (h *handler) export(w http.ResponseWriter, r *http.Request) {
	dl, err := h.sys.Export(r.Context(), sessionID(r))
	if err != nil {
		h.render(w, r, sessions.MapHTTPStatus(err), message(err))
		return
	}
	if dl.ArchiveName != "" {
		w.Header().Set("X-Archive-Name", dl.ArchiveName)
	}
	handlers.RespondFile(w, dl.Filename, dl.ContentType, dl.Data)
}

func (h *handler) restart(w http.ResponseWriter, r *http.Request) {
	h.complete(w, r, h.sys.Restart(r.Context(), sessionID(r)))
}

func (h *handler) quit(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Quit(r.Context(), sessionID(r)); err != nil {
		h.render(w, r, sessions.MapHTTPStatus(err), message(err))
		return
	}

	h.binder.Clear(w)
	if err := h.ts.Render(w, http.StatusOK, layout, goodbyeView, nil); err != nil {
		h.logger.Error("render failed", "view", goodbyeView.Template, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// complete redirects back to the workflow page after a successful action, or
// renders the page with the action's error.
func (h *handler) complete(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.render(w, r, sessions.MapHTTPStatus(err), message(err))
		return
	}
	http.Redirect(w, r, h.ts.BasePath()+"/", http.StatusSeeOther)
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, msg string) {
	view, err := h.sys.Render(r.Context(), sessionID(r))
	if err != nil {
		h.logger.Error("session render failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	data := page{
		View:            view,
		Message:         msg,
		CurrentApproved: currentApproved(view),
	}
	if err := h.ts.Render(w, status, layout, workflowView, data); err != nil {
		h.logger.Error("render failed", "view", workflowView.Template, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func currentApproved(view workflow.View) bool {
	for _, s := range view.Stages {
		if s.Current {
			return s.Approved
		}
	}
	return false
}

// message turns an action error into text for the page.
func message(err error) string {
	msg := err.Error()
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func sessionID(r *http.Request) uuid.UUID {
	id, _ := sessions.IDFromContext(r.Context())
	return id
}
