package entity

// Order is a production order: a material and a target piece count,
// identified externally by its human order number.
type Order struct {
	ID             int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber    int64 `json:"order_number" gorm:"uniqueIndex;not null"`
	MaterialNumber int64 `json:"material_number" gorm:"not null"`
	StartDate      *Date `json:"start_date" gorm:"type:date"`
	EndDate        *Date `json:"end_date" gorm:"type:date"`
	NumPieces      int64 `json:"num_pieces" gorm:"not null"`

	Operations []Operation `json:"operations,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "ordersdb"
}
