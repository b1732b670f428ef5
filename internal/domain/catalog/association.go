package catalog

// ProductCategory links a product to one of its categories. The pair is
// unique and the whole set is derived data: every sync pass truncates the
// table and reinserts the associations it could rediscover, so rows are
// never updated in place.
type ProductCategory struct {
	ProductID  int64  `gorm:"primaryKey;autoIncrement:false"`
	CategoryID string `gorm:"type:varchar(32);primaryKey"`
}

// TableName returns the table name for GORM
func (ProductCategory) TableName() string {
	return "product_categories"
}
