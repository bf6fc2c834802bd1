package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"precinct/internal/identity"
)

type HTTPServer struct {
	service    *Service
	corsOrigin string
	limiter    *ipLimiter
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{
		service:    service,
		corsOrigin: corsOrigin,
		limiter:    newIPLimiter(),
	}
}

func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.withAccessLog)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/ready", s.handleReady)

	r.Post("/api/session/login", s.rateLimited(s.handleLogin))
	r.Post("/api/session/register", s.rateLimited(s.handleRegister))
	r.Post("/api/session/logout", s.handleLogout)
	r.Get("/api/session", s.handleSession)

	r.Get("/api/home", s.handleHome)
	r.Get("/api/categories/{categoryID}", s.handleCategory)
	r.Get("/api/threads/{threadID}", s.handleThread)
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/users/{userID}", s.handleProfile)
	r.Get("/api/groups/{group}", s.handleGroup)

	r.Post("/api/threads", s.authenticated(s.handleCreateThread))
	r.Post("/api/threads/{threadID}/replies", s.authenticated(s.handleReply))
	r.Put("/api/posts/{postID}", s.authenticated(s.handleEditPost))
	r.Delete("/api/posts/{postID}", s.authenticated(s.handleDeletePost))
	r.Put("/api/users/{userID}", s.authenticated(s.handleUpdateProfile))
	r.Post("/api/users/{userID}/plaques", s.authenticated(s.handleAssignPlaque))
	r.Post("/api/users/{userID}/plaques/remove", s.authenticated(s.handleRemovePlaque))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	return r
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.service.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"ok":     false,
			"status": "not_ready",
			"checks": map[string]any{"sessions": map[string]any{"status": "error", "error": err.Error()}},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"status": "ready",
		"checks": map[string]any{"sessions": map[string]any{"status": "ok"}},
	})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	session, err := s.service.Login(r.Context(), body.Name)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	session, err := s.service.Register(r.Context(), body.Username)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.service.Logout(r.Context(), bearerToken(r))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) handleSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	session, err := s.service.SessionFromToken(r.Context(), token)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"userId":        session.UserID,
		"username":      session.Username,
		"rank":          session.Rank,
	})
}

func (s *HTTPServer) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Home())
}

func (s *HTTPServer) handleCategory(w http.ResponseWriter, r *http.Request) {
	page, err := s.service.CategoryPage(chi.URLParam(r, "categoryID"))
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *HTTPServer) handleThread(w http.ResponseWriter, r *http.Request) {
	page, err := s.service.ThreadPage(chi.URLParam(r, "threadID"))
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *HTTPServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	limit := 20
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	writeJSON(w, http.StatusOK, s.service.SearchAll(q, limit))
}

func (s *HTTPServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.service.Profile(chi.URLParam(r, "userID"))
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *HTTPServer) handleGroup(w http.ResponseWriter, r *http.Request) {
	roster, err := s.service.GroupRoster(identity.Group(chi.URLParam(r, "group")))
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

func (s *HTTPServer) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CategoryID string `json:"categoryId"`
		Title      string `json:"title"`
		Content    string `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	thread, err := s.service.CreateThread(body.CategoryID, body.Title, body.Content)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusCreated, thread)
}

func (s *HTTPServer) handleReply(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	post, err := s.service.Reply(chi.URLParam(r, "threadID"), body.Content)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *HTTPServer) handleEditPost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	post, err := s.service.EditPost(chi.URLParam(r, "postID"), body.Content)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *HTTPServer) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeletePost(chi.URLParam(r, "postID")); err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body ProfilePatchInput
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	profile, err := s.service.UpdateProfile(chi.URLParam(r, "userID"), body)
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *HTTPServer) handleAssignPlaque(w http.ResponseWriter, r *http.Request) {
	s.handlePlaque(w, r, s.service.AssignPlaque)
}

func (s *HTTPServer) handleRemovePlaque(w http.ResponseWriter, r *http.Request) {
	s.handlePlaque(w, r, s.service.RemovePlaque)
}

func (s *HTTPServer) handlePlaque(w http.ResponseWriter, r *http.Request, apply func(string, identity.Plaque) (ProfileView, error)) {
	var body struct {
		Plaque string `json:"plaque"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if strings.TrimSpace(body.Plaque) == "" {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "plaque is required")
		return
	}
	profile, err := apply(chi.URLParam(r, "userID"), identity.Plaque(body.Plaque))
	if err != nil {
		status, code, message := mapError(err)
		writeError(w, status, code, message)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// authenticated requires a valid bearer token before the handler runs.
func (s *HTTPServer) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Sign in required")
			return
		}
		if _, err := s.service.SessionFromToken(r.Context(), token); err != nil {
			status, code, message := mapError(err)
			writeError(w, status, code, message)
			return
		}
		next(w, r)
	}
}

func (s *HTTPServer) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(r.RemoteAddr) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many attempts, slow down")
			return
		}
		next(w, r)
	}
}

func (s *HTTPServer) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w.Header(), s.corsOrigin)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			middleware.GetReqID(r.Context()),
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"code":  code,
		"error": message,
	})
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
