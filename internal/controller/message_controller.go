package controller

import (
	"homeschool_hub_backend/internal/service"
	"homeschool_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MessageController struct {
	MessageService *service.MessageService
	Hub            *service.MessageHub
}

func NewMessageController(messageService *service.MessageService, hub *service.MessageHub) *MessageController {
	return &MessageController{MessageService: messageService, Hub: hub}
}

func (c *MessageController) Send(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, err := c.MessageService.Send(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, msg)
}

func (c *MessageController) Conversations(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	convs, err := c.MessageService.Conversations(ctx.Request.Context(), user.UserID, user.Role, user.TeacherID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, convs)
}

func (c *MessageController) Conversation(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	list, err := c.MessageService.Conversation(ctx.Request.Context(), user.UserID, ctx.Param("contactId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// HandleWS upgrades to the live message socket. Browsers cannot set headers
// on the upgrade, so the token normally arrives as ?token=.
func (c *MessageController) HandleWS(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	c.Hub.ServeWs(ctx.Writer, ctx.Request, user.UserID)
}
