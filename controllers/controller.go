package controllers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carewell-server/middleware"
	"carewell-server/util"
)

// callerID reads the authenticated user's id set by the auth middleware.
func callerID(c *gin.Context) (primitive.ObjectID, error) {
	hex := c.GetString(middleware.ContextUserID)
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, util.UnauthorizedError("invalid session")
	}
	return id, nil
}

// paramID parses an ObjectID path parameter.
func paramID(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, util.ValidationError("invalid %s", name)
	}
	return id, nil
}
