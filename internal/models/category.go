package models

// DefaultCategoryID is the "Obstacle" category assigned on submission.
const DefaultCategoryID = 1

type Category struct {
	ID   int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func CategorySeeds() []Category {
	return []Category{{ID: DefaultCategoryID, Name: "Obstacle"}}
}
