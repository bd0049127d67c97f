package controller

import (
	"edumarket_backend/internal/model"
	"edumarket_backend/internal/service"
	"edumarket_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LearningController serves the learning surface of an enrolled course:
// completion events, the flattened curriculum, and prev/next navigation.
type LearningController struct {
	ProgressService *service.ProgressService
	Navigator       *service.NavigatorService
	Catalog         *service.CatalogService
}

func NewLearningController(
	progressService *service.ProgressService,
	navigator *service.NavigatorService,
	catalog *service.CatalogService,
) *LearningController {
	return &LearningController{
		ProgressService: progressService,
		Navigator:       navigator,
		Catalog:         catalog,
	}
}

// swagger:model CompleteLessonRequest
type CompleteLessonRequest struct {
	// IdempotencyKey deduplicates retried completion events. Optional;
	// the completion set itself is idempotent regardless.
	IdempotencyKey string `json:"idempotencyKey"`
}

// CompleteLesson godoc
// @Summary Mark a lesson complete
// @Description Idempotent: completing an already-complete lesson leaves progress unchanged. A lesson outside the course's curriculum is rejected and never recorded.
// @Tags learning
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "Course ID"
// @Param lessonId path int true "Lesson ID"
// @Param request body CompleteLessonRequest false "Completion event metadata"
// @Success 200 {object} util.Response{data=model.Enrollment} "Success"
// @Failure 400 {object} util.Response "Lesson not in course"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not enrolled or course not found"
// @Router /api/my/courses/{courseId}/lessons/{lessonId}/complete [post]
func (c *LearningController) CompleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("courseId"))
	lessonID := util.MustParseUint(ctx.Param("lessonId"))

	var req CompleteLessonRequest
	ctx.ShouldBindJSON(&req)

	enrollment, err := c.ProgressService.MarkLessonComplete(ctx.Request.Context(), claims.UserID, courseID, lessonID, req.IdempotencyKey)
	if err != nil {
		switch err {
		case util.ErrLessonNotInCourse, util.ErrProgressNotTracked:
			util.BadRequest(ctx, err.Error())
		case util.ErrCourseNotFound, util.ErrEnrollmentNotFound:
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollment)
}

// GetCurriculum godoc
// @Summary Get a course's flattened lesson sequence
// @Tags learning
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} util.Response{data=[]model.CurriculumEntry} "Success"
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/my/courses/{courseId}/curriculum [get]
func (c *LearningController) GetCurriculum(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))

	course, ok := c.Catalog.FindByID(courseID)
	if !ok {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, c.Navigator.Flatten(course))
}

// NavigationResponse carries both adjacent targets; either may be null
// at a curriculum boundary or for a stale lesson id.
// swagger:model NavigationResponse
type NavigationResponse struct {
	Previous *model.NavigationTarget `json:"previous"`
	Next     *model.NavigationTarget `json:"next"`
}

// GetNavigation godoc
// @Summary Get prev/next navigation targets for a lesson
// @Description Boundary and unknown-lesson cases yield null targets rather than errors so a stale client keeps a navigable UI.
// @Tags learning
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "Course ID"
// @Param lessonId path int true "Current lesson ID"
// @Success 200 {object} util.Response{data=NavigationResponse} "Success"
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/my/courses/{courseId}/lessons/{lessonId}/navigation [get]
func (c *LearningController) GetNavigation(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))
	lessonID := util.MustParseUint(ctx.Param("lessonId"))

	course, ok := c.Catalog.FindByID(courseID)
	if !ok {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, NavigationResponse{
		Previous: c.Navigator.Previous(course, lessonID),
		Next:     c.Navigator.Next(course, lessonID),
	})
}
