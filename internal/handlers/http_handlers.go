// Package handlers exposes the raffle service over HTTP using gin.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/helved/rafflebox/internal/auth"
	"github.com/helved/rafflebox/internal/middleware"
	"github.com/helved/rafflebox/internal/models"
	"github.com/helved/rafflebox/internal/payment"
	"github.com/helved/rafflebox/internal/service"
	"github.com/helved/rafflebox/internal/storage"
	"github.com/helved/rafflebox/internal/view"
)

// maxCoverSize bounds uploaded cover images to 5 MiB.
const maxCoverSize = 5 << 20

// HTTPHandler holds the dependencies for the HTTP handlers.
type HTTPHandler struct {
	raffles    *service.RaffleService
	authSvc    *service.AuthService
	watcher    *storage.Watcher
	jwtManager *auth.JWTManager
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(raffles *service.RaffleService, authSvc *service.AuthService, watcher *storage.Watcher, jwtManager *auth.JWTManager) *HTTPHandler {
	return &HTTPHandler{
		raffles:    raffles,
		authSvc:    authSvc,
		watcher:    watcher,
		jwtManager: jwtManager,
	}
}

// RegisterRoutes registers all application routes on the router.
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.GET("/raffles", h.ListRaffles)
	api.GET("/raffles/:id", h.GetRaffle)
	// Not nested under /raffles: a "stream" literal would conflict with
	// the :id wildcard in gin's route tree.
	api.GET("/stream", h.StreamRaffles)

	authed := api.Group("/")
	authed.Use(middleware.RequireAuth(h.jwtManager))
	authed.GET("/me", h.CurrentUser)
	authed.PUT("/me/profile", h.UpdateProfile)
	authed.POST("/raffles", h.CreateRaffle)
	authed.DELETE("/raffles/:id", h.DeleteRaffle)
	authed.POST("/raffles/:id/purchase", h.PurchaseTicket)
	authed.POST("/raffles/:id/draw", h.DrawWinner)
}

type credentialsRequest struct {
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password" binding:"required"`
}

type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a new account and returns a session token.
func (h *HTTPHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authSvc.Register(c.Request.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sessionResponse{User: user, Token: token})
}

// Login authenticates an account and returns a session token.
func (h *HTTPHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{User: user, Token: token})
}

// CurrentUser returns the authenticated user's account.
func (h *HTTPHandler) CurrentUser(c *gin.Context) {
	user, err := h.authSvc.CurrentUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type profileRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
	Bio         string `json:"bio"`
}

// UpdateProfile updates the authenticated user's display name and bio.
func (h *HTTPHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authSvc.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), req.DisplayName, req.Bio)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListRaffles returns the active list, newest first.
func (h *HTTPHandler) ListRaffles(c *gin.Context) {
	snapshot, err := h.raffles.ListRaffles(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"raffles": view.ActiveList(snapshot)})
}

// GetRaffle returns the detail view for one raffle.
func (h *HTTPHandler) GetRaffle(c *gin.Context) {
	raffle, err := h.raffles.GetRaffle(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"raffle":       raffle,
		"entrantCount": len(raffle.Entries),
	})
}

// CreateRaffle creates a raffle from a multipart form: name, description,
// ticketPrice, and an optional cover image.
func (h *HTTPHandler) CreateRaffle(c *gin.Context) {
	var req struct {
		Name        string  `form:"name" binding:"required"`
		Description string  `form:"description"`
		TicketPrice float64 `form:"ticketPrice" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cover []byte
	var coverName string
	if file, header, err := c.Request.FormFile("cover"); err == nil {
		defer file.Close()
		cover, err = io.ReadAll(io.LimitReader(file, maxCoverSize))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read cover image"})
			return
		}
		coverName = header.Filename
	}

	creator, err := h.authSvc.CurrentUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	raffle, err := h.raffles.CreateRaffle(c.Request.Context(), creator, req.Name, req.Description, req.TicketPrice, cover, coverName)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"raffle": raffle})
}

// DeleteRaffle removes a raffle; creator only.
func (h *HTTPHandler) DeleteRaffle(c *gin.Context) {
	err := h.raffles.DeleteRaffle(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PurchaseTicket charges the buyer and admits them into the raffle.
func (h *HTTPHandler) PurchaseTicket(c *gin.Context) {
	buyer, err := h.authSvc.CurrentUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	receipt, err := h.raffles.PurchaseTicket(c.Request.Context(), c.Param("id"), buyer)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payerToken": receipt.PayerToken,
		"amount":     payment.RoundForDisplay(receipt.Amount),
	})
}

// DrawWinner draws a winner and closes the raffle; creator only.
func (h *HTTPHandler) DrawWinner(c *gin.Context) {
	winner, err := h.raffles.DrawWinner(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"winner": winner})
}

// StreamRaffles streams active-list snapshots as server-sent events. The
// first event carries the current state; subsequent events follow every
// committed change.
func (h *HTTPHandler) StreamRaffles(c *gin.Context) {
	ch, err := h.watcher.Subscribe(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		snapshot, ok := <-ch
		if !ok {
			return false
		}
		c.SSEvent("snapshot", gin.H{"raffles": view.ActiveList(snapshot)})
		return true
	})
}

// writeError maps domain errors to HTTP responses. ErrPaymentCaptured
// gets a dedicated payload so clients can tell "money taken, entry
// missing" apart from an ordinary failure.
func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPaymentCaptured):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": service.ErrPaymentCaptured.Error(),
			"code":  "payment_captured_entry_not_recorded",
		})
	case errors.Is(err, service.ErrRaffleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRaffleClosed),
		errors.Is(err, service.ErrAlreadyDrawn),
		errors.Is(err, service.ErrNoEntries),
		errors.Is(err, auth.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, payment.ErrDeclined),
		errors.Is(err, payment.ErrUserCancelled):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, payment.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
