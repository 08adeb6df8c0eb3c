package specification

import "gorm.io/gorm"

// Specification is a composable query predicate. Repositories chain the
// specs they receive onto the base query before executing it.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
