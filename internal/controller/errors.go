package controller

import (
	"errors"
	"net/http"

	"homeschool_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// errorResponses maps service errors to the status and message a client sees.
var errorResponses = []struct {
	err     error
	status  int
	message string
}{
	{util.ErrNotFound, http.StatusNotFound, "Resource not found"},
	{util.ErrAlreadySubmitted, http.StatusConflict, "Assignment already submitted"},
	{util.ErrAssignmentInUse, http.StatusConflict, "Assignment already has completed submissions"},
	{util.ErrInsufficientPoints, http.StatusBadRequest, "Not enough points"},
	{util.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect credentials"},
	{util.ErrPermissionDenied, http.StatusForbidden, "Forbidden"},
	{util.ErrEmailRegistered, http.StatusBadRequest, "Email already registered"},
	{util.ErrUsernameTaken, http.StatusBadRequest, "Username already exists"},
	{util.ErrInvalidRecipient, http.StatusBadRequest, "Recipient is not one of your contacts"},
	{util.ErrEmptyMessage, http.StatusBadRequest, "Message content is empty"},
	{util.ErrInvalidWordList, http.StatusBadRequest, "A spelling list needs exactly 10 words"},
	{util.ErrRewardInactive, http.StatusBadRequest, "Reward is not available"},
	{util.ErrInvalidPoints, http.StatusBadRequest, "Points must not be zero"},
}

// respondError writes the reply for err. Anything unknown is logged and
// reported as a 500.
func respondError(ctx *gin.Context, err error) {
	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			util.Error(ctx, r.status, r.message)
			return
		}
	}
	util.LogInternalError(ctx, err)
}

// currentUser returns the authenticated caller. Routes using it sit behind
// AuthMiddleware, so a missing identity is a wiring mistake.
func currentUser(ctx *gin.Context) (*util.Claims, bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	return user, true
}
