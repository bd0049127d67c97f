package model

// Types shared between the service layer and controllers.

// Catalog sort keys.
const (
	SortPopular   = "popular"
	SortRating    = "rating"
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// CatalogFilter holds one catalog query's parameters. It is passed by
// value; a zero field means the corresponding predicate is inactive,
// except the price range, which is always applied literally. Callers
// express an unbounded range with PriceMax = util.MaxPrice, as the
// catalog controller does for an absent query param.
type CatalogFilter struct {
	CourseType string   `form:"courseType"`
	Category   string   `form:"category"`
	Levels     []string `form:"levels"`
	PriceMin   float64  `form:"priceMin"`
	PriceMax   float64  `form:"priceMax"`
	Rating     float64  `form:"rating"`
	Search     string   `form:"q"`
}

// CurriculumEntry is one element of a course's flattened lesson sequence.
type CurriculumEntry struct {
	Lesson   Lesson `json:"lesson"`
	ModuleID uint   `json:"moduleId"`
	Position int    `json:"position"`
}

// NavigationTarget points at an adjacent lesson in the flattened sequence.
// ModuleID is included so the presentation layer can expand the owning
// module when the target sits in a collapsed one.
type NavigationTarget struct {
	Lesson   Lesson `json:"lesson"`
	ModuleID uint   `json:"moduleId"`
}

// CourseProgress is the progress view returned to the presentation layer.
type CourseProgress struct {
	CourseID         uint   `json:"courseId"`
	Progress         int    `json:"progress"`
	CompletedLessons []uint `json:"completedLessons"`
	TotalLessons     int    `json:"totalLessons"`
	CertificateID    *uint  `json:"certificateId,omitempty"`
}

// EnrollmentSummary joins an enrollment with its course for listings.
type EnrollmentSummary struct {
	Enrollment Enrollment `json:"enrollment"`
	Course     Course     `json:"course"`
}
