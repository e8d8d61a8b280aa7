package model

import "hotel/shared/model"

const (
	TableName  = "services"
	EntityName = "service"

	FieldID     = "id"
	FieldName   = "name"
	FieldPrice  = "price"
	FieldActive = "active"
)

// Service is a bookable hotel amenity. Prices are in the smallest currency unit.
type Service struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Price  int64  `db:"price"`
	Active bool   `db:"active"`
	model.Metadata
}
