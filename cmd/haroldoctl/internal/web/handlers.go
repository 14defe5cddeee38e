package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/terraconstructs/haroldo/pkg/sdk"
)

// QuestionnairesEndpoint is the remote listing shown on /questionnaires.
const QuestionnairesEndpoint = "/questionnaires/all"

type handlers struct {
	session *sdk.Session
	gateway *sdk.Gateway
	auth    *sdk.AuthClient
	nav     sdk.Navigator
	logger  *slog.Logger
}

func (h *handlers) loginPage(w http.ResponseWriter, r *http.Request) {
	data := formData{Title: "Log in"}
	if r.URL.Query().Get("registered") == "1" {
		data.Notice = "Account created. You can log in now."
	}
	h.render(w, http.StatusOK, loginTmpl, data)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, loginTmpl, formData{Title: "Log in", Error: "Invalid form submission."})
		return
	}
	email := r.PostForm.Get("email")

	_, err := h.auth.Login(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, sdk.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
		}
		h.logger.Info("login failed", "error", err)
		h.render(w, status, loginTmpl, formData{Title: "Log in", Email: email, Error: sdk.UserMessage(err)})
		return
	}
	http.Redirect(w, r, h.location(sdk.HomePath), http.StatusSeeOther)
}

func (h *handlers) signupPage(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, signupTmpl, formData{Title: "Sign up"})
}

func (h *handlers) signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, signupTmpl, formData{Title: "Sign up", Error: "Invalid form submission."})
		return
	}
	input := sdk.RegisterInput{
		Email:      r.PostForm.Get("email"),
		Password:   r.PostForm.Get("password"),
		DocumentID: r.PostForm.Get("documentId"),
		LegalName:  r.PostForm.Get("legalName"),
		ClientType: sdk.ClientType(r.PostForm.Get("clientType")),
	}

	if err := h.auth.Register(r.Context(), input); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, sdk.ErrAlreadyRegistered) {
			status = http.StatusConflict
		}
		h.logger.Info("registration failed", "error", err)
		h.render(w, status, signupTmpl, formData{Title: "Sign up", Email: input.Email, Error: sdk.UserMessage(err)})
		return
	}
	http.Redirect(w, r, sdk.LoginPath+"?registered=1", http.StatusSeeOther)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		h.logger.Error("logout failed to clear stored credentials", "error", err)
	}
	http.Redirect(w, r, sdk.LoginPath, http.StatusSeeOther)
}

func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	id := h.session.Current()
	items := sdk.NavigationFor(id.Role)
	h.render(w, http.StatusOK, pageTmpl, pageData{
		Title:  titleFor(r.URL.Path, items),
		Path:   r.URL.Path,
		Role:   id.Role.String(),
		NavBar: items,
	})
}

// questionnaires lists remote questionnaires. A 401 has already cleared the
// session inside the gateway; the user is sent wherever the navigator now points.
func (h *handlers) questionnaires(w http.ResponseWriter, r *http.Request) {
	var list []map[string]any
	err := h.gateway.Get(r.Context(), QuestionnairesEndpoint, &list)
	if err != nil {
		if errors.Is(err, sdk.ErrUnauthorized) {
			http.Redirect(w, r, h.location(sdk.LoginPath), http.StatusSeeOther)
			return
		}
		h.logger.Warn("failed to load questionnaires", "error", err)
	}

	id := h.session.Current()
	items := sdk.NavigationFor(id.Role)
	data := pageData{
		Title:  "Questionnaires",
		Path:   r.URL.Path,
		Role:   id.Role.String(),
		NavBar: items,
		Count:  len(list),
	}
	if err != nil {
		data.Error = sdk.UserMessage(err)
	}
	h.render(w, http.StatusOK, pageTmpl, data)
}

type sessionView struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role"`
	RoleID        int    `json:"roleId"`
}

func (h *handlers) sessionJSON(w http.ResponseWriter, _ *http.Request) {
	id := h.session.Current()
	writeJSON(w, sessionView{Authenticated: id.Authenticated(), Role: id.Role.String(), RoleID: int(id.Role)})
}

func (h *handlers) navJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, sdk.NavigationFor(h.session.Current().Role))
}

// location returns where the navigator points, or fallback when there is no navigator.
func (h *handlers) location(fallback string) string {
	if h.nav == nil {
		return fallback
	}
	return h.nav.Location()
}

func (h *handlers) render(w http.ResponseWriter, status int, tmpl templateName, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, string(tmpl), data); err != nil {
		h.logger.Error("failed to render template", "template", tmpl, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func titleFor(path string, items []sdk.NavItem) string {
	for _, item := range items {
		if item.Path == path {
			return item.Label
		}
	}
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "Home"
	}
	return trimmed
}
