package controller

import (
	"edumarket_backend/internal/service"
	"edumarket_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
	ProgressService   *service.ProgressService
}

func NewEnrollmentController(
	enrollmentService *service.EnrollmentService,
	progressService *service.ProgressService,
) *EnrollmentController {
	return &EnrollmentController{
		EnrollmentService: enrollmentService,
		ProgressService:   progressService,
	}
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Creates an enrollment with an empty completion set. Enrolling again is a no-op that returns the existing record.
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=model.Enrollment} "Already enrolled"
// @Success 201 {object} util.Response{data=model.Enrollment} "Created"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	enrollment, created, err := c.EnrollmentService.Enroll(ctx.Request.Context(), claims.UserID, courseID)
	if err != nil {
		if err == util.ErrCourseNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	if created {
		util.Created(ctx, enrollment)
		return
	}
	util.Success(ctx, enrollment)
}

// MyCourses godoc
// @Summary List the current user's enrollments
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.EnrollmentSummary} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/my/courses [get]
func (c *EnrollmentController) MyCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summaries, err := c.EnrollmentService.ListForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

// GetProgress godoc
// @Summary Get progress for an enrolled course
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} util.Response{data=model.CourseProgress} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not enrolled or course not found"
// @Router /api/my/courses/{courseId}/progress [get]
func (c *EnrollmentController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("courseId"))

	progress, err := c.ProgressService.GetProgress(claims.UserID, courseID)
	if err != nil {
		if err == util.ErrCourseNotFound || err == util.ErrEnrollmentNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// MyCertificates godoc
// @Summary List the current user's certificates
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Certificate} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/my/certificates [get]
func (c *EnrollmentController) MyCertificates(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	certs, err := c.EnrollmentService.ListCertificates(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}

// GetCertificate godoc
// @Summary Get the certificate earned for a course
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} util.Response{data=model.Certificate} "Success"
// @Failure 404 {object} util.Response "Not earned"
// @Router /api/my/certificates/{courseId} [get]
func (c *EnrollmentController) GetCertificate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("courseId"))

	cert, err := c.EnrollmentService.GetCertificate(claims.UserID, courseID)
	if err != nil {
		if err == util.ErrCertificateNotFound {
			util.Error(ctx, http.StatusNotFound, "Certificate not earned yet")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}
