package model

import "hotel/shared/model"

const (
	TableName  = "menu_items"
	EntityName = "menu_item"

	FieldID        = "id"
	FieldName      = "name"
	FieldPrice     = "price"
	FieldAvailable = "available"
)

type MenuItem struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Price     int64  `db:"price"`
	Available bool   `db:"available"`
	model.Metadata
}
