package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"blog/internal/auth"
	"blog/internal/blog"
	"blog/internal/common"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	store    *blog.Store
	creds    *auth.Credentials
	sessions *auth.Manager
	tpls     *template.Template
}

func New(store *blog.Store, creds *auth.Credentials, sessions *auth.Manager) *Handler {
	tpls := template.Must(template.ParseFS(templateFS, "templates/*.html"))
	return &Handler{store: store, creds: creds, sessions: sessions, tpls: tpls}
}

// Routes builds the full route tree, protected routes behind
// RequireAuth.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(h.LoadUser)

	r.Get("/", h.Index)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/register", h.RegisterForm)
		r.Post("/register", h.Register)
		r.Get("/login", h.LoginForm)
		r.Post("/login", h.Login)
		r.Get("/logout", h.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Get("/create", h.CreateForm)
		r.Post("/create", h.CreatePost)
		r.Get("/{id}/update", h.UpdateForm)
		r.Post("/{id}/update", h.UpdatePost)
		r.Post("/{id}/delete", h.DeletePost)
	})

	return r
}

// --- flash messages, one-shot cookie

const flashCookie = "flash"

func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

// --- rendering

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["User"] = CurrentUser(r.Context())
	data["Flash"] = popFlash(w, r)
	if err := h.tpls.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render template", "template", name, "err", err)
	}
}

func (h *Handler) serveError(w http.ResponseWriter, r *http.Request, err error) {
	status := common.HTTPStatusFromError(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		http.Error(w, "internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

// --- pages

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.List(r.Context())
	if err != nil {
		h.serveError(w, r, err)
		return
	}
	h.render(w, r, "index", map[string]any{
		"Title": "Posts",
		"Posts": posts,
	})
}

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register", map[string]any{"Title": "Register"})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	err := h.creds.Register(r.Context(), username, password)
	switch {
	case err == nil:
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
	case common.HTTPStatusFromError(err) == http.StatusBadRequest:
		setFlash(w, err.Error())
		http.Redirect(w, r, "/auth/register", http.StatusSeeOther)
	default:
		h.serveError(w, r, err)
	}
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", map[string]any{"Title": "Log In"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	uid, err := h.creds.Verify(r.Context(), username, password)
	if err != nil {
		if common.HTTPStatusFromError(err) == http.StatusUnauthorized {
			setFlash(w, err.Error())
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		h.serveError(w, r, err)
		return
	}

	if err := h.sessions.Create(r.Context(), w, uid); err != nil {
		h.serveError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "create", map[string]any{"Title": "New Post"})
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	title := strings.TrimSpace(r.FormValue("title"))
	body := r.FormValue("body")

	_, err := h.store.Create(r.Context(), user.ID, title, body)
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case common.HTTPStatusFromError(err) == http.StatusBadRequest:
		setFlash(w, err.Error())
		http.Redirect(w, r, "/create", http.StatusSeeOther)
	default:
		h.serveError(w, r, err)
	}
}

func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.serveError(w, r, err)
		return
	}
	user := CurrentUser(r.Context())
	post, err := h.store.GetForAuthor(r.Context(), id, user.ID)
	if err != nil {
		h.serveError(w, r, err)
		return
	}
	h.render(w, r, "update", map[string]any{
		"Title": "Edit " + post.Title,
		"Post":  post,
	})
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.serveError(w, r, err)
		return
	}
	user := CurrentUser(r.Context())
	title := strings.TrimSpace(r.FormValue("title"))
	body := r.FormValue("body")

	err = h.store.Update(r.Context(), id, user.ID, title, body)
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case common.HTTPStatusFromError(err) == http.StatusBadRequest:
		setFlash(w, err.Error())
		http.Redirect(w, r, "/"+strconv.FormatInt(id, 10)+"/update", http.StatusSeeOther)
	default:
		h.serveError(w, r, err)
	}
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.serveError(w, r, err)
		return
	}
	user := CurrentUser(r.Context())
	if err := h.store.Delete(r.Context(), id, user.ID); err != nil {
		h.serveError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func postID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrNotFound
	}
	return id, nil
}
