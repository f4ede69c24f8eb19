// Package httpapi is the thin JSON routing layer over the diary services.
// It parses requests, extracts bearer tokens, and maps the service error
// taxonomy onto HTTP status codes; all business rules live in the services.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fbedev/diary-ai2/internal/common"
	"github.com/fbedev/diary-ai2/internal/logging"
	"github.com/fbedev/diary-ai2/internal/server/services"
)

type Server struct {
	auth   *services.AuthService
	diary  *services.DiaryService
	search *services.SearchService
	admin  *services.AdminService
	logger logging.Logger
}

func NewHandler(auth *services.AuthService, diary *services.DiaryService, search *services.SearchService, admin *services.AdminService, logger logging.Logger) http.Handler {
	s := &Server{
		auth:   auth,
		diary:  diary,
		search: search,
		admin:  admin,
		logger: logger.With("module", "http_server"),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/auth/signup", s.handleSignup)
	mux.HandleFunc("/auth/login", s.handleLogin)
	mux.HandleFunc("/auth/logout", s.handleLogout)
	mux.HandleFunc("/auth/me", s.withAuth(s.handleProfile))

	mux.HandleFunc("/diary/add", s.withAuth(s.handleAddMessage))
	mux.HandleFunc("/diary/timeline", s.withAuth(s.handleTimeline))
	mux.HandleFunc("/diary/list", s.withAuth(s.handleListSummaries))
	mux.HandleFunc("/diary/generate/", s.withAuth(s.handleGenerateSummary))

	mux.HandleFunc("/search/", s.withAuth(s.handleSearch))

	mux.HandleFunc("/admin/dashboard", s.withAuth(s.handleAdminDashboard))
	mux.HandleFunc("/admin/users", s.withAuth(s.handleAdminUsers))
	mux.HandleFunc("/admin/sessions", s.withAuth(s.handleAdminSessions))

	return chainMiddlewares(mux, withCORS, s.withRequestLogging)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type loginResponse struct {
	Status    string `json:"status"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type profileResponse struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type addMessageRequest struct {
	Text string `json:"text"`
	Role string `json:"role,omitempty"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// ─────────────────────────────────────────────
// Auth endpoints
// ─────────────────────────────────────────────

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.auth.Register(r.Context(), req.Username, req.Password); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "User registered successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Status:    "success",
		Token:     token,
		ExpiresIn: int(s.auth.SessionTTL().Seconds()),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.auth.Logout(r.Context(), req.Token); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Logged out successfully"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	user, err := s.auth.Profile(r.Context(), username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{Username: user.Username, CreatedAt: user.CreatedAt})
}

// ─────────────────────────────────────────────
// Diary endpoints
// ─────────────────────────────────────────────

func (s *Server) handleAddMessage(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req addMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := s.diary.AddMessage(r.Context(), username, req.Role, req.Text)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	entries, err := s.diary.Timeline(r.Context(), username)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	list, err := s.diary.ListSummaries(r.Context(), username)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	day := strings.TrimPrefix(r.URL.Path, "/diary/generate/")
	if day == "" {
		http.NotFound(w, r)
		return
	}

	summary, err := s.diary.GenerateSummary(r.Context(), username, day)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// ─────────────────────────────────────────────
// Search and admin endpoints
// ─────────────────────────────────────────────

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.search.Search(r.Context(), username, req.Query)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	stats, err := s.admin.Dashboard(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"current_user":    username,
		"total_users":     stats.TotalUsers,
		"active_sessions": stats.ActiveSessions,
		"stored_messages": stats.StoredMessages,
	})
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request, _ string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	names, err := s.admin.Usernames(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": names})
}

func (s *Server) handleAdminSessions(w http.ResponseWriter, r *http.Request, _ string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	sessions, err := s.admin.ActiveSessions(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	type sessionView struct {
		Token     string    `json:"token"`
		Username  string    `json:"username"`
		CreatedAt time.Time `json:"created_at"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	views := make([]sessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, sessionView{
			Token:     session.Token,
			Username:  session.Username,
			CreatedAt: session.CreatedAt,
			ExpiresAt: session.ExpiresAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"sessions": views})
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		writeJSONError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, common.ErrUnauthenticated):
		writeJSONError(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, common.ErrNoMessages):
		writeJSONError(w, http.StatusNotFound, "No chat history for the requested date")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
}
