package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mizutori/nosread/internal/relay"
	"github.com/mizutori/nosread/pkg/domain"
)

// SubscribeRequest represents a subscription request from the UI
type SubscribeRequest struct {
	Kind     int    `json:"kind"`
	Limit    int    `json:"limit" binding:"required"`
	TagName  string `json:"tag_name"`
	TagValue string `json:"tag_value"`
}

// SubscribeResponse represents a subscription response
type SubscribeResponse struct {
	Status string `json:"status"`
}

// StatusResponse represents the session status
type StatusResponse struct {
	State      string        `json:"state"`
	LastStatus domain.Status `json:"last_status"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"checks": gin.H{
			"session": string(s.reader.State()),
		},
	})
}

// handleSubscribe issues a new subscription, superseding the
// current one
func (s *Server) handleSubscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Error("invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	filter := domain.Filter{
		Kinds: []int{req.Kind},
		Limit: req.Limit,
	}
	if req.TagName != "" {
		filter.TagFilters = map[string]string{req.TagName: req.TagValue}
	}

	if err := s.reader.Subscribe(filter); err != nil {
		var notConnected *relay.NotConnectedError
		if errors.As(err, &notConnected) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error: ErrorDetail{
					Code:    "NOT_CONNECTED",
					Message: err.Error(),
				},
			})
			return
		}

		s.logger.Error("failed to subscribe", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{
				Code:    "SUBSCRIPTION_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, SubscribeResponse{Status: "subscribed"})
}

// handleListArticles returns the current article list
func (s *Server) handleListArticles(c *gin.Context) {
	articles, err := s.reader.Articles(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to list articles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "LIST_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"total":    len(articles),
	})
}

// handleGetStatus returns the session state and last status line
func (s *Server) handleGetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		State:      string(s.reader.State()),
		LastStatus: s.reader.LastStatus(),
	})
}

// handleDisconnect closes the relay session
func (s *Server) handleDisconnect(c *gin.Context) {
	s.reader.Disconnect()
	c.Status(http.StatusNoContent)
}
