package model

// swagger:model Category
type Category struct {
	BaseModel
	Name string `gorm:"size:100;unique;not null" json:"name"`
	Slug string `gorm:"size:100;unique;not null" json:"slug"`
}

func (Category) TableName() string {
	return "categories"
}
