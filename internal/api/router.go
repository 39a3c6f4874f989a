package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/petterhol/quizform/internal/middleware"
	"github.com/petterhol/quizform/internal/services"
)

// Router wires the HTTP surface to the services. All responses use the
// {success, data?, message?} envelope.
type Router struct {
	forms     *services.FormService
	answers   *services.AnswerService
	dashboard *services.DashboardService
	policy    middleware.Policy
	log       zerolog.Logger
}

func NewRouter(forms *services.FormService, answers *services.AnswerService, dashboard *services.DashboardService, policy middleware.Policy, log zerolog.Logger) *Router {
	return &Router{forms: forms, answers: answers, dashboard: dashboard, policy: policy, log: log}
}

// Register mounts the API routes. Mutating and read-sensitive routes sit
// behind the trusted-origin gate; the active form and answer submission stay
// open to students.
func (rt *Router) Register(r chi.Router) {
	trusted := middleware.RequireTrustedAPI(rt.policy)

	r.Route("/api", func(r chi.Router) {
		r.Get("/forms/active", rt.handleActiveForm)
		r.Post("/answers", rt.handleSubmitAnswers)

		r.Group(func(r chi.Router) {
			r.Use(trusted)
			r.Post("/forms", rt.handleCreateForm)
			r.Post("/forms/upload", rt.handleUploadForm)
			r.Get("/forms", rt.handleListForms)
			r.Get("/forms/{id}", rt.handleGetForm)
			r.Post("/forms/{id}/activate", rt.handleActivateForm)
			r.Get("/answers", rt.handleListAnswers)
			r.Get("/dashboard", rt.handleDashboard)
		})
	})
}

type createFormRequest struct {
	services.FormPayload
	MakeActive bool `json:"makeActive"`
}

// POST /api/forms
func (rt *Router) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	var req createFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id, err := rt.forms.Create(&req.FormPayload, req.MakeActive)
	if err != nil {
		rt.respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"id": id})
}

// POST /api/forms/upload creates a form without active-flag handling.
func (rt *Router) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	var payload services.FormPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id, err := rt.forms.Create(&payload, false)
	if err != nil {
		rt.respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"id": id})
}

// GET /api/forms
func (rt *Router) handleListForms(w http.ResponseWriter, r *http.Request) {
	summaries, err := rt.forms.List()
	if err != nil {
		rt.respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, summaries)
}

// GET /api/forms/active
func (rt *Router) handleActiveForm(w http.ResponseWriter, r *http.Request) {
	form, err := rt.forms.ActiveForm()
	if err != nil {
		rt.respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, form)
}

// GET /api/forms/{id}
func (rt *Router) handleGetForm(w http.ResponseWriter, r *http.Request) {
	form, err := rt.forms.Get(chi.URLParam(r, "id"))
	if err != nil {
		rt.respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, form)
}

// POST /api/forms/{id}/activate
func (rt *Router) handleActivateForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := rt.forms.SetActive(id); err != nil {
		rt.respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"id": id})
}

// POST /api/answers
func (rt *Router) handleSubmitAnswers(w http.ResponseWriter, r *http.Request) {
	var req services.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sub, err := rt.answers.Submit(req)
	if err != nil {
		rt.respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"id": sub.ID})
}

// GET /api/answers?formId=...
func (rt *Router) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	var (
		subs []*services.Submission
		err  error
	)
	if formID := r.URL.Query().Get("formId"); formID != "" {
		subs, err = rt.answers.ListByForm(formID)
	} else {
		subs, err = rt.answers.ListAll()
	}
	if err != nil {
		rt.respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, subs)
}

// GET /api/dashboard
func (rt *Router) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := rt.dashboard.Dashboard()
	if err != nil {
		rt.respondServiceError(w, err)
		return
	}
	respondData(w, http.StatusOK, d)
}
