package api

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vcidst/demo-bank/internal/storage"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

const (
	cookieUserID   = "user_id"
	cookieUsername = "username"
)

// sessionUser reads the session cookies set at login. The demo keeps the
// user id and username directly in HttpOnly cookies; there is no signed
// session token.
func sessionUser(r *http.Request) (int64, string, bool) {
	idCookie, err := r.Cookie(cookieUserID)
	if err != nil {
		return 0, "", false
	}
	nameCookie, err := r.Cookie(cookieUsername)
	if err != nil {
		return 0, "", false
	}
	id, err := strconv.ParseInt(idCookie.Value, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, nameCookie.Value, true
}

func setSessionCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
	})
}

func clearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func handleLoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, "login.html", nil)
	}
}

func handleLogin(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid form data: %v", err)
			return
		}
		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if username == "" || password == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "username and password are required")
			return
		}

		user, err := deps.Store.Authenticate(username, password)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusBadRequest, "authentication_error", "invalid credentials")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "authentication failed: %v", err)
			return
		}

		setSessionCookie(w, cookieUserID, strconv.FormatInt(user.ID, 10))
		setSessionCookie(w, cookieUsername, user.Username)
		http.Redirect(w, r, "/chat", http.StatusFound)
	}
}

func handleChatPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, username, ok := sessionUser(r)
		if !ok {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		renderPage(w, "chat.html", map[string]string{"Username": username})
	}
}

func handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clearSessionCookie(w, cookieUserID)
		clearSessionCookie(w, cookieUsername)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("rendering page failed", "template", name, "error", err)
	}
}
