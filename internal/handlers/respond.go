package handlers

import (
	"log"

	"contesto/internal/apperr"
	"contesto/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps a service error to its HTTP status and JSON body
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	switch apperr.KindOf(err) {
	case apperr.KindInternal, apperr.KindUpstream:
		log.Printf("[%s %s] %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": apperr.PublicMessage(err)})
}

// uuidParam parses a path parameter as a UUID, responding 400 when malformed
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apperr.Validation("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// callerEmail returns the verified email set by the auth middleware
func callerEmail(c *gin.Context) (string, bool) {
	email, ok := auth.GetEmail(c)
	if !ok {
		respondError(c, apperr.Unauthorized("unauthorized access"))
		return "", false
	}
	return email, true
}

// bindJSON decodes the request body, responding 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, apperr.Validation("invalid request body: "+err.Error()))
		return false
	}
	return true
}
