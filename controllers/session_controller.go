package controllers

import (
	"io"
	"net/http"
	"time"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

const defaultKeepAlive = 15 * time.Second

type SessionController struct {
	sessions  *services.SessionService
	keepAlive time.Duration
}

// NewSessionController builds the session handlers. keepAlive is the ping
// interval of event streams; zero means 15s.
func NewSessionController(sessions *services.SessionService, keepAlive time.Duration) *SessionController {
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	return &SessionController{sessions: sessions, keepAlive: keepAlive}
}

// @Summary Create session
// @Description Open a shopping session and return its bearer token
// @Tags Session
// @Produce json
// @Success 201 {object} models.Response{data=models.SessionResponse}
// @Router /sessions [post]
func (ctrl *SessionController) CreateSession(c *gin.Context) {
	sess, token, expiresAt, err := ctrl.sessions.Create()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Session created",
		Data: models.SessionResponse{
			SessionID: sess.ID,
			Token:     token,
			ExpiresAt: expiresAt.Unix(),
		},
	})
}

// @Summary Get session state
// @Description Current selection, cart summary and name
// @Tags Session
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=models.SessionView}
// @Failure 401 {object} models.ErrorResponse
// @Router /session [get]
func (ctrl *SessionController) GetSession(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Session retrieved",
		Data:    ctrl.sessions.View(sess),
	})
}

// @Summary End session
// @Description Tear down the session and its state
// @Tags Session
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /session [delete]
func (ctrl *SessionController) EndSession(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := ctrl.sessions.End(sess.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Session ended"})
}

// @Summary Renew session token
// @Description Issue a fresh token for the current session, valid for a full TTL
// @Tags Session
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=models.SessionResponse}
// @Failure 401 {object} models.ErrorResponse
// @Router /session/token [post]
func (ctrl *SessionController) RenewToken(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	token, expiresAt, err := ctrl.sessions.RenewToken(sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Session token renewed",
		Data: models.SessionResponse{
			SessionID: sess.ID,
			Token:     token,
			ExpiresAt: expiresAt.Unix(),
		},
	})
}

// @Summary Set name
// @Description Store the shopper's name in the session
// @Tags Session
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.SetNameRequest true "Name"
// @Success 200 {object} models.Response
// @Router /session/name [put]
func (ctrl *SessionController) SetName(c *gin.Context) {
	var req models.SetNameRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid request", Error: err.Error()})
		return
	}

	sess := middleware.CurrentSession(c)
	sess.Store.SetName(req.Name)
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Name updated", Data: gin.H{"name": req.Name}})
}

// @Summary Select item
// @Description Replace the selection with a local catalog item; a null id clears it
// @Tags Session
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.SelectItemRequest true "Selection"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /session/selection [put]
func (ctrl *SessionController) SelectItem(c *gin.Context) {
	var req models.SelectItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid request", Error: err.Error()})
		return
	}

	sess := middleware.CurrentSession(c)
	item, err := ctrl.sessions.SelectItem(c.Request.Context(), sess, req.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Selection updated", Data: gin.H{"selection": item}})
}

// @Summary Clear selection
// @Tags Session
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /session/selection [delete]
func (ctrl *SessionController) ClearSelection(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	sess.Store.SelectItem(nil)
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Selection cleared", Data: gin.H{"selection": nil}})
}

// @Summary Stream session state
// @Description Server-sent events carrying the session view after every change, plus periodic pings
// @Tags Session
// @Security BearerAuth
// @Produce text/event-stream
// @Param consumer query string false "Consumer name"
// @Router /session/events [get]
func (ctrl *SessionController) StreamEvents(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	consumer := c.Query("consumer")
	if consumer == "" {
		consumer = "events:" + c.GetHeader("X-Request-Id")
	}
	sub := sess.Store.Subscribe(consumer)
	defer sub.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("snapshot", ctrl.sessions.View(sess))
	c.Writer.Flush()

	ticker := time.NewTicker(ctrl.keepAlive)
	defer ticker.Stop()

	// every event touches the session so an open stream is never swept
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case _, ok := <-sub.Updates():
			if !ok {
				return false
			}
			ctrl.sessions.Touch(sess)
			c.SSEvent("snapshot", ctrl.sessions.View(sess))
			return true
		case <-ticker.C:
			ctrl.sessions.Touch(sess)
			c.SSEvent("ping", gin.H{"last_seen": sess.LastSeen().Unix()})
			return true
		case <-ctx.Done():
			return false
		}
	})
}
