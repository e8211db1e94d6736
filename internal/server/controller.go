package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/shopping-search/internal/config"
	"github.com/nguyentranbao-ct/shopping-search/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/shopping-search/internal/server/middleware"
	"github.com/nguyentranbao-ct/shopping-search/internal/usecase"
	log "github.com/nguyentranbao-ct/shopping-search/pkg/logger/logctx"
)

type Controller interface {
	Health(c echo.Context) error
	CreateSession(c echo.Context, req CreateSessionRequest) (*pkgmdw.Response, error)
	GetSession(c echo.Context, req SessionRequest) (usecase.Snapshot, error)
	CloseSession(c echo.Context, req SessionRequest) error
	Search(c echo.Context, req SearchRequest) (usecase.Snapshot, error)
	ClearSearch(c echo.Context, req SessionRequest) (usecase.Snapshot, error)
	SignIn(c echo.Context, req SignInRequest) (usecase.Snapshot, error)
	SignOut(c echo.Context, req SessionRequest) (usecase.Snapshot, error)
	WatchSession(c echo.Context) error
}

type CreateSessionRequest struct {
	UserID string `auth:"sub"`
	Email  string `auth:"email"`
}

type SessionRequest struct {
	SessionID string `param:"id" validate:"required"`
}

type SearchRequest struct {
	SessionID string `param:"id" validate:"required"`
	Query     string `json:"query" validate:"max=512"`
}

type SignInRequest struct {
	SessionID string `param:"id" validate:"required"`
	UserID    string `auth:"sub"`
	Email     string `auth:"email"`
}

var (
	errSearchInFlight = pkgmdw.NewResponseError(http.StatusConflict, "search_in_flight", "a search is already running for this session")
	errForbidden      = pkgmdw.NewResponseError(http.StatusForbidden, "session_forbidden", "the session belongs to another user")
)

type controller struct {
	sessions usecase.SessionManager
	upgrader websocket.Upgrader
	wsConf   config.ServerConfig

	// searching guards against a second search on a session whose first one
	// has not committed yet.
	searching sync.Map
}

func NewHandler(conf *config.Config, sessions usecase.SessionManager) Controller {
	return &controller{
		sessions: sessions,
		upgrader: newUpgrader(conf.Server.CORSPattern),
		wsConf:   conf.Server,
	}
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "shopping-search",
	})
}

func (h *controller) CreateSession(c echo.Context, req CreateSessionRequest) (*pkgmdw.Response, error) {
	var user *models.Identity
	if req.UserID != "" {
		user = &models.Identity{UserID: req.UserID, Email: req.Email}
	}

	orch := h.sessions.Create(c.Request().Context(), user)
	return &pkgmdw.Response{
		Status:  http.StatusCreated,
		Success: true,
		Data:    orch.Snapshot(),
	}, nil
}

// session resolves a session the caller may act on. Anonymous sessions are
// open to anyone holding the id; a signed-in one only to its own user.
func (h *controller) session(c echo.Context, sessionID string) (*usecase.Orchestrator, error) {
	orch, err := h.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if owner := orch.CurrentUser(); owner != nil && owner.UserID != pkgmdw.GetUserID(c) {
		return nil, errForbidden
	}
	return orch, nil
}

func (h *controller) GetSession(c echo.Context, req SessionRequest) (usecase.Snapshot, error) {
	orch, err := h.session(c, req.SessionID)
	if err != nil {
		return usecase.Snapshot{}, err
	}
	return orch.Snapshot(), nil
}

func (h *controller) CloseSession(c echo.Context, req SessionRequest) error {
	if _, err := h.session(c, req.SessionID); err != nil {
		return err
	}
	return h.sessions.Close(req.SessionID)
}

// Search blocks until the search has committed. The search itself is not
// tied to the request, so a client that disconnects early still leaves the
// session with its results.
func (h *controller) Search(c echo.Context, req SearchRequest) (usecase.Snapshot, error) {
	orch, err := h.session(c, req.SessionID)
	if err != nil {
		return usecase.Snapshot{}, err
	}

	if _, busy := h.searching.LoadOrStore(req.SessionID, struct{}{}); busy || orch.Snapshot().InFlight {
		if !busy {
			h.searching.Delete(req.SessionID)
		}
		return usecase.Snapshot{}, errSearchInFlight
	}
	defer h.searching.Delete(req.SessionID)

	orch.PerformSearch(context.WithoutCancel(c.Request().Context()), req.Query)
	return orch.Snapshot(), nil
}

func (h *controller) ClearSearch(c echo.Context, req SessionRequest) (usecase.Snapshot, error) {
	orch, err := h.session(c, req.SessionID)
	if err != nil {
		return usecase.Snapshot{}, err
	}
	if _, busy := h.searching.Load(req.SessionID); busy {
		return usecase.Snapshot{}, errSearchInFlight
	}
	orch.ClearSearch()
	return orch.Snapshot(), nil
}

func (h *controller) SignIn(c echo.Context, req SignInRequest) (usecase.Snapshot, error) {
	if req.UserID == "" {
		return usecase.Snapshot{}, pkgmdw.NewResponseError(http.StatusUnauthorized, "missing_token", "a bearer token is required to sign in")
	}

	if _, err := h.session(c, req.SessionID); err != nil {
		return usecase.Snapshot{}, err
	}
	ctx := c.Request().Context()
	if err := h.sessions.SignIn(ctx, req.SessionID, models.Identity{UserID: req.UserID, Email: req.Email}); err != nil {
		return usecase.Snapshot{}, err
	}
	log.Infow(ctx, "session signed in", "session_id", req.SessionID, "user_id", req.UserID)
	return h.GetSession(c, SessionRequest{SessionID: req.SessionID})
}

func (h *controller) SignOut(c echo.Context, req SessionRequest) (usecase.Snapshot, error) {
	if _, err := h.session(c, req.SessionID); err != nil {
		return usecase.Snapshot{}, err
	}
	if err := h.sessions.SignOut(c.Request().Context(), req.SessionID); err != nil {
		return usecase.Snapshot{}, err
	}
	return h.GetSession(c, req)
}
