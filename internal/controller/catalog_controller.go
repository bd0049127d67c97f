package controller

import (
	"edumarket_backend/internal/model"
	"edumarket_backend/internal/repository"
	"edumarket_backend/internal/service"
	"edumarket_backend/internal/util"
	"edumarket_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CatalogController struct {
	Catalog        *service.CatalogService
	CategoryRepo   *repository.CategoryRepository
	InstructorRepo *repository.InstructorRepository
}

func NewCatalogController(
	catalog *service.CatalogService,
	categoryRepo *repository.CategoryRepository,
	instructorRepo *repository.InstructorRepository,
) *CatalogController {
	return &CatalogController{
		Catalog:        catalog,
		CategoryRepo:   categoryRepo,
		InstructorRepo: instructorRepo,
	}
}

// ListCourses godoc
// @Summary Browse the course catalog
// @Description Filter and sort the published course catalog. All filters combine with AND; omitted filters match everything.
// @Tags catalog
// @Produce json
// @Param courseType query string false "Course type (all, recorded, live)"
// @Param category query string false "Category name (case-insensitive)"
// @Param levels query []string false "Levels to include" collectionFormat(multi)
// @Param priceMin query number false "Minimum price (inclusive)"
// @Param priceMax query number false "Maximum price (inclusive)"
// @Param rating query number false "Minimum rating"
// @Param q query string false "Free-text search over title and short description"
// @Param sort query string false "Sort key (popular, rating, newest, price-low, price-high)"
// @Success 200 {object} util.Response{data=[]model.Course} "Success"
// @Router /api/courses [get]
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	filter := model.CatalogFilter{
		CourseType: ctx.Query("courseType"),
		Category:   ctx.Query("category"),
		Levels:     ctx.QueryArray("levels"),
		PriceMin:   util.ParseFloatDefault(ctx.Query("priceMin"), 0),
		PriceMax:   util.ParseFloatDefault(ctx.Query("priceMax"), util.MaxPrice),
		Rating:     util.ParseFloatDefault(ctx.Query("rating"), 0),
		Search:     ctx.Query("q"),
	}
	sortKey := ctx.DefaultQuery("sort", model.SortPopular)

	monitoring.CatalogQueryCounter.WithLabelValues(sortKey).Inc()

	courses := c.Catalog.Query(filter, sortKey)
	util.Success(ctx, courses)
}

// GetCourseDetail godoc
// @Summary Get a course by type and slug
// @Tags catalog
// @Produce json
// @Param type path string true "Course type (recorded, live)"
// @Param slug path string true "Course slug"
// @Success 200 {object} util.Response{data=model.Course} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/courses/{type}/{slug} [get]
func (c *CatalogController) GetCourseDetail(ctx *gin.Context) {
	courseType := model.CourseType(ctx.Param("type"))
	slug := ctx.Param("slug")

	course, ok := c.Catalog.FindBySlug(courseType, slug)
	if !ok {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, course)
}

// ListCategories godoc
// @Summary List course categories
// @Tags catalog
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Category} "Success"
// @Router /api/categories [get]
func (c *CatalogController) ListCategories(ctx *gin.Context) {
	categories, err := c.CategoryRepo.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// GetInstructor godoc
// @Summary Get an instructor profile
// @Tags catalog
// @Produce json
// @Param id path int true "Instructor ID"
// @Success 200 {object} util.Response{data=model.Instructor} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/instructors/{id} [get]
func (c *CatalogController) GetInstructor(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	instructor, err := c.InstructorRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, instructor)
}

// RefreshCatalog godoc
// @Summary Force a catalog snapshot reload (Admin only)
// @Tags catalog
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "Success"
// @Router /api/admin/catalog/refresh [post]
func (c *CatalogController) RefreshCatalog(ctx *gin.Context) {
	if err := c.Catalog.Refresh(); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"courses":  len(c.Catalog.Courses()),
		"loadedAt": c.Catalog.LoadedAt(),
	})
}
