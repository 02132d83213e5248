package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/crestlinehq/crestline/internal/middleware"
	"github.com/crestlinehq/crestline/internal/models"
	"github.com/crestlinehq/crestline/internal/services"
)

// Page is one entry of the public page registry the builder targets.
type Page struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// availablePages mirrors the site's public pages. The builder surface offers
// these as targets, but target_page is not validated against this list at
// write time.
var availablePages = []Page{
	{Value: "home", Label: "Home Page"},
	{Value: "services", Label: "Services"},
	{Value: "ai-consulting", Label: "AI Consulting"},
	{Value: "talent-solutions", Label: "Talent Solutions"},
	{Value: "nowrise-institute", Label: "NowRise Institute"},
	{Value: "careers", Label: "Careers"},
	{Value: "about", Label: "About"},
	{Value: "contact", Label: "Contact"},
}

type Router struct {
	store  Store
	forms  *services.FormService
	render *services.RenderService
	subs   *services.SubmissionService
	auth   *services.AuthService
}

func NewRouter(store Store) *Router {
	formAdapter := newFormStoreAdapter(store)
	return &Router{
		store:  store,
		forms:  services.NewFormService(formAdapter),
		render: services.NewRenderService(formAdapter),
		subs:   services.NewSubmissionService(newSubmissionStoreAdapter(store)),
		auth:   services.NewAuthService(newAuthStoreAdapter(store), middleware.SignToken),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", rt.handleRegister) // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)       // POST
	mux.HandleFunc("/api/pages", rt.handlePages)            // GET
	mux.HandleFunc("/api/pages/", rt.handlePageScoped)      // GET /api/pages/{page}/forms
	mux.HandleFunc("/api/forms", rt.handleForms)            // GET, POST (admin)
	mux.HandleFunc("/api/forms/", rt.handleFormScoped)      // PUT/DELETE /api/forms/{id}, submissions, export
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeServiceError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusInternalServerError
		switch se.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorConflict:
			status = http.StatusConflict
		case services.ErrorStore:
			status = http.StatusBadGateway
		}
		http.Error(w, se.Message, status)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// requireAdmin gates the builder surface. Missing principal reads as 401,
// a signed-in non-admin as 403.
func (rt *Router) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := middleware.PrincipalFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	if !middleware.IsAdmin(r.Context()) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// POST /api/auth/register
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Register(req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"token": res.Token, "user_id": res.UserID})
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"token": res.Token, "user_id": res.UserID, "admin": res.Admin})
}

// GET /api/pages
func (rt *Router) handlePages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{"pages": availablePages})
}

// GET /api/pages/{page}/forms: the public renderer's read path, no identity.
func (rt *Router) handlePageScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/pages/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "forms" || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	view, err := rt.render.PageForms(parts[0])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, view)
}

// GET/POST /api/forms: admin listing and create.
func (rt *Router) handleForms(w http.ResponseWriter, r *http.Request) {
	if !rt.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		forms, err := rt.forms.ListForms()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, map[string]any{"forms": toWireForms(forms)})
	case http.MethodPost:
		var req struct {
			FormName string `json:"form_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created, err := rt.forms.CreateForm(req.FormName)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		wire, err := convertModelForm(created)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, wire)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (rt *Router) handleFormScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/forms/")
	parts := strings.Split(rest, "/")
	if parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]
	switch {
	case len(parts) == 1:
		rt.handleForm(w, r, id)
	case len(parts) == 2 && parts[1] == "submissions":
		rt.handleSubmissions(w, r, id)
	case len(parts) == 2 && parts[1] == "export":
		rt.handleExport(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// GET/PUT/DELETE /api/forms/{id}: admin point read, save, hard delete.
func (rt *Router) handleForm(w http.ResponseWriter, r *http.Request, id string) {
	if !rt.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		form, err := rt.forms.GetForm(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		wire, err := convertModelForm(form)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, wire)
	case http.MethodPut:
		var wire Form
		if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		wire.ID = id
		if err := rt.forms.SaveForm(convertAPIForm(&wire)); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	case http.MethodDelete:
		if err := rt.forms.DeleteForm(id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST (public submit) / GET (admin view) /api/forms/{id}/submissions
func (rt *Router) handleSubmissions(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			SubmissionData map[string]string `json:"submission_data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		form, err := rt.forms.GetForm(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		// only fields present in the schema produce keys
		data := map[string]string{}
		for _, f := range form.Fields {
			if v, ok := req.SubmissionData[f.Label]; ok {
				data[f.Label] = v
			}
		}
		sub, err := rt.subs.Record(id, data)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true, "submission_id": sub.ID})
	case http.MethodGet:
		if !rt.requireAdmin(w, r) {
			return
		}
		subs, err := rt.subs.List(id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, map[string]any{"form_id": id, "submissions": toWireSubmissions(subs)})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/forms/{id}/export: admin CSV download of a form's submissions.
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request, id string) {
	if !rt.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	form, err := rt.forms.GetForm(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	subs, err := rt.subs.List(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	b, err := services.ExportSubmissionsCSV(form, subs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=submissions.csv")
	_, _ = w.Write(b)
}

func toWireForms(forms []*models.CustomForm) []*Form {
	out := make([]*Form, 0, len(forms))
	for _, f := range forms {
		wire, err := convertModelForm(f)
		if err != nil {
			continue
		}
		out = append(out, wire)
	}
	return out
}

func toWireSubmissions(subs []*models.FormSubmission) []map[string]any {
	out := make([]map[string]any, 0, len(subs))
	for _, sub := range subs {
		out = append(out, map[string]any{
			"id":              sub.ID,
			"form_id":         sub.FormID,
			"submission_data": sub.SubmissionData,
			"created_at":      sub.CreatedAt,
		})
	}
	return out
}
