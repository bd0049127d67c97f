package controller

import (
	"edumarket_backend/internal/service"
	"edumarket_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PlaybackController struct {
	PlaybackService *service.PlaybackService
}

func NewPlaybackController(playbackService *service.PlaybackService) *PlaybackController {
	return &PlaybackController{PlaybackService: playbackService}
}

// swagger:model LoadLessonRequest
type LoadLessonRequest struct {
	CourseID uint `json:"courseId" binding:"required"`
	LessonID uint `json:"lessonId" binding:"required"`
}

// Load godoc
// @Summary Start a playback session for a video lesson
// @Description Each load gets a fresh session; the completion event can fire at most once per session.
// @Tags playback
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body LoadLessonRequest true "Lesson to load"
// @Success 201 {object} util.Response{data=service.PlaybackStatus} "Created"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/playback/load [post]
func (c *PlaybackController) Load(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req LoadLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	status := c.PlaybackService.Load(claims.UserID, req.CourseID, req.LessonID)
	util.Created(ctx, status)
}

// Play godoc
// @Summary Resume playback
// @Tags playback
// @Produce json
// @Security ApiKeyAuth
// @Param sessionId path string true "Playback session ID"
// @Success 200 {object} util.Response{data=service.PlaybackStatus} "Success"
// @Failure 404 {object} util.Response "Session not found"
// @Router /api/playback/{sessionId}/play [post]
func (c *PlaybackController) Play(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.PlaybackService.Play(ctx.Param("sessionId"), claims.UserID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, status)
}

// Pause godoc
// @Summary Pause playback
// @Tags playback
// @Produce json
// @Security ApiKeyAuth
// @Param sessionId path string true "Playback session ID"
// @Success 200 {object} util.Response{data=service.PlaybackStatus} "Success"
// @Failure 404 {object} util.Response "Session not found"
// @Router /api/playback/{sessionId}/pause [post]
func (c *PlaybackController) Pause(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.PlaybackService.Pause(ctx.Param("sessionId"), claims.UserID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, status)
}

// swagger:model PositionUpdateRequest
type PositionUpdateRequest struct {
	// Position is the playback position as a percentage of the media
	// duration. Backward seeks are accepted as-is.
	Position float64 `json:"position" binding:"min=0,max=100"`
}

// UpdatePosition godoc
// @Summary Report a playback position
// @Description Crossing 95% emits the session's single completion event; later crossings in the same session are no-ops.
// @Tags playback
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sessionId path string true "Playback session ID"
// @Param request body PositionUpdateRequest true "Position percentage"
// @Success 200 {object} util.Response{data=service.PlaybackStatus} "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 404 {object} util.Response "Session not found"
// @Router /api/playback/{sessionId}/position [post]
func (c *PlaybackController) UpdatePosition(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req PositionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	status, err := c.PlaybackService.UpdatePosition(ctx.Request.Context(), ctx.Param("sessionId"), claims.UserID, req.Position)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, status)
}

// Status godoc
// @Summary Get the state of a playback session
// @Tags playback
// @Produce json
// @Security ApiKeyAuth
// @Param sessionId path string true "Playback session ID"
// @Success 200 {object} util.Response{data=service.PlaybackStatus} "Success"
// @Failure 404 {object} util.Response "Session not found"
// @Router /api/playback/{sessionId} [get]
func (c *PlaybackController) Status(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.PlaybackService.Status(ctx.Param("sessionId"), claims.UserID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, status)
}
