package controller

import (
	"edumarket_backend/internal/model"
	"edumarket_backend/internal/service"
	"edumarket_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

// CourseAdminController is the instructor/admin surface for catalog and
// curriculum management.
type CourseAdminController struct {
	CourseService  *service.CourseService
	ContentService *service.ContentService
}

func NewCourseAdminController(
	courseService *service.CourseService,
	contentService *service.ContentService,
) *CourseAdminController {
	return &CourseAdminController{
		CourseService:  courseService,
		ContentService: contentService,
	}
}

// swagger:model CreateCourseRequest
type CreateCourseRequest struct {
	Slug             string   `json:"slug" binding:"required"`
	Title            string   `json:"title" binding:"required"`
	ShortDescription string   `json:"shortDescription"`
	Description      string   `json:"description"`
	Type             string   `json:"type" binding:"required,oneof=recorded live"`
	CategoryID       uint     `json:"categoryId" binding:"required"`
	InstructorID     uint     `json:"instructorId" binding:"required"`
	Level            string   `json:"level" binding:"required,oneof=Beginner Intermediate Advanced"`
	Price            float64  `json:"price" binding:"min=0"`
	OriginalPrice    *float64 `json:"originalPrice"`
}

// CreateCourse godoc
// @Summary Create a course (Instructor/Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body CreateCourseRequest true "Course payload"
// @Success 201 {object} util.Response{data=model.Course} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/admin/courses [post]
func (c *CourseAdminController) CreateCourse(ctx *gin.Context) {
	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		Slug:             req.Slug,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Type:             model.CourseType(req.Type),
		CategoryID:       req.CategoryID,
		InstructorID:     req.InstructorID,
		Level:            model.CourseLevel(req.Level),
		Price:            req.Price,
		OriginalPrice:    req.OriginalPrice,
	}

	if err := c.CourseService.Create(course); err != nil {
		switch err {
		case util.ErrCategoryNotFound, util.ErrInstructorNotFound:
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, course)
}

// swagger:model UpdateCourseRequest
type UpdateCourseRequest struct {
	Title            string   `json:"title"`
	ShortDescription string   `json:"shortDescription"`
	Description      string   `json:"description"`
	Level            string   `json:"level" binding:"omitempty,oneof=Beginner Intermediate Advanced"`
	Price            *float64 `json:"price" binding:"omitempty,min=0"`
	OriginalPrice    *float64 `json:"originalPrice"`
}

// UpdateCourse godoc
// @Summary Update course details (Instructor/Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param request body UpdateCourseRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.Course} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/admin/courses/{id} [put]
func (c *CourseAdminController) UpdateCourse(ctx *gin.Context) {
	var req UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if err == util.ErrCourseNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	if req.ShortDescription != "" {
		course.ShortDescription = req.ShortDescription
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.Level != "" {
		course.Level = model.CourseLevel(req.Level)
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		course.OriginalPrice = req.OriginalPrice
	}

	if err := c.CourseService.Update(course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// PublishCourse godoc
// @Summary Publish a course to the catalog (Instructor/Admin)
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=model.Course} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/admin/courses/{id}/publish [post]
func (c *CourseAdminController) PublishCourse(ctx *gin.Context) {
	course, err := c.CourseService.Publish(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if err == util.ErrCourseNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// swagger:model AddModuleRequest
type AddModuleRequest struct {
	Title     string `json:"title" binding:"required"`
	SortOrder int    `json:"sortOrder" binding:"min=0"`
}

// AddModule godoc
// @Summary Add a module to a recorded course (Instructor/Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param request body AddModuleRequest true "Module payload"
// @Success 201 {object} util.Response{data=model.CourseModule} "Created"
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/admin/courses/{id}/modules [post]
func (c *CourseAdminController) AddModule(ctx *gin.Context) {
	var req AddModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mod, err := c.CourseService.AddModule(util.MustParseUint(ctx.Param("id")), req.Title, req.SortOrder)
	if err != nil {
		if err == util.ErrCourseNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, mod)
}

// swagger:model AddLessonRequest
type AddLessonRequest struct {
	Title     string `json:"title" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=video quiz assignment reading"`
	Duration  int    `json:"duration" binding:"min=0"`
	SortOrder int    `json:"sortOrder" binding:"min=0"`
	IsPreview bool   `json:"isPreview"`
}

// AddLesson godoc
// @Summary Add a lesson to a module (Instructor/Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "Module ID"
// @Param request body AddLessonRequest true "Lesson payload"
// @Success 201 {object} util.Response{data=model.Lesson} "Created"
// @Failure 404 {object} util.Response "Module not found"
// @Router /api/admin/modules/{moduleId}/lessons [post]
func (c *CourseAdminController) AddLesson(ctx *gin.Context) {
	var req AddLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson := &model.Lesson{
		Title:     req.Title,
		Type:      model.LessonType(req.Type),
		Duration:  req.Duration,
		SortOrder: req.SortOrder,
		IsPreview: req.IsPreview,
	}

	created, err := c.CourseService.AddLesson(util.MustParseUint(ctx.Param("moduleId")), lesson)
	if err != nil {
		if err == util.ErrModuleNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, created)
}

// swagger:model ReorderLessonsRequest
type ReorderLessonsRequest struct {
	// LessonIDs is the complete new ordering for the module's lessons.
	LessonIDs []uint `json:"lessonIds" binding:"required,min=1"`
}

// ReorderLessons godoc
// @Summary Rewrite a module's lesson ordering (Instructor/Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "Module ID"
// @Param request body ReorderLessonsRequest true "New ordering"
// @Success 200 {object} util.Response "Success"
// @Failure 400 {object} util.Response "Ordering does not cover the module's lessons"
// @Failure 404 {object} util.Response "Module not found"
// @Router /api/admin/modules/{moduleId}/lessons/reorder [put]
func (c *CourseAdminController) ReorderLessons(ctx *gin.Context) {
	var req ReorderLessonsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.CourseService.ReorderLessons(util.MustParseUint(ctx.Param("moduleId")), req.LessonIDs)
	if err != nil {
		switch err {
		case util.ErrModuleNotFound:
			util.NotFound(ctx)
		case util.ErrLessonNotFound:
			util.BadRequest(ctx, "ordering must cover exactly the module's lessons")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// swagger:model ScheduleSessionRequest
type ScheduleSessionRequest struct {
	Title      string `json:"title"`
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
	StartTime  string `json:"startTime" binding:"required"`
	EndTime    string `json:"endTime" binding:"required"`
	SortOrder  int    `json:"sortOrder" binding:"min=0"`
	MeetingURL string `json:"meetingUrl"`
}

// ScheduleSession godoc
// @Summary Schedule a live session (Instructor/Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param request body ScheduleSessionRequest true "Session payload"
// @Success 201 {object} util.Response{data=model.LiveSession} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 404 {object} util.Response "Live course not found"
// @Router /api/admin/courses/{id}/sessions [post]
func (c *CourseAdminController) ScheduleSession(ctx *gin.Context) {
	var req ScheduleSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	date, err := time.Parse(util.DateFormat, req.Date)
	if err != nil {
		util.BadRequest(ctx, "date must be YYYY-MM-DD")
		return
	}

	session := &model.LiveSession{
		Title:      req.Title,
		Date:       date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		SortOrder:  req.SortOrder,
		MeetingURL: req.MeetingURL,
	}

	created, err := c.CourseService.ScheduleSession(util.MustParseUint(ctx.Param("id")), session)
	if err != nil {
		if err == util.ErrCourseNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, created)
}

// swagger:model TransitionSessionRequest
type TransitionSessionRequest struct {
	Status string `json:"status" binding:"required,oneof=live completed"`
}

// TransitionSession godoc
// @Summary Advance a live session's status (Instructor/Admin)
// @Description Only the monotonic path upcoming -> live -> completed is accepted.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param sessionId path int true "Session ID"
// @Param request body TransitionSessionRequest true "Target status"
// @Success 200 {object} util.Response{data=model.LiveSession} "Success"
// @Failure 400 {object} util.Response "Invalid transition"
// @Failure 404 {object} util.Response "Session not found"
// @Router /api/admin/sessions/{sessionId}/status [put]
func (c *CourseAdminController) TransitionSession(ctx *gin.Context) {
	var req TransitionSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.CourseService.TransitionSession(
		util.MustParseUint(ctx.Param("sessionId")),
		model.SessionStatus(req.Status),
	)
	if err != nil {
		switch err {
		case util.ErrSessionNotFound:
			util.NotFound(ctx)
		case util.ErrInvalidSessionTransition:
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, session)
}

// UploadLessonVideo godoc
// @Summary Upload a lesson's video (Instructor/Admin)
// @Description Stores the video and sets the lesson duration from the probed media metadata.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param file formData file true "Video file"
// @Success 200 {object} util.Response{data=model.Lesson} "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 404 {object} util.Response "Lesson not found"
// @Router /api/admin/lessons/{id}/video [post]
func (c *CourseAdminController) UploadLessonVideo(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}

	lesson, err := c.ContentService.AttachLessonVideo(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), fileHeader)
	if err != nil {
		if err == util.ErrLessonNotFound {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, lesson)
}

// UploadCourseCover godoc
// @Summary Upload a course cover image (Instructor/Admin)
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param file formData file true "Image file"
// @Success 200 {object} util.Response{data=model.Course} "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/admin/courses/{id}/cover [post]
func (c *CourseAdminController) UploadCourseCover(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}

	course, err := c.ContentService.AttachCourseCover(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), fileHeader)
	if err != nil {
		if err == util.ErrCourseNotFound {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, course)
}
