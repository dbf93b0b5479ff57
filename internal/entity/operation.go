package entity

// Operation is a unit of work under an order, optionally assigned to a
// machine. A nil MachineID is a valid "no machine assigned" state.
type Operation struct {
	ID            int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID       int64  `json:"order_id" gorm:"not null;index:idx_order_opcode,unique"`
	OperationCode string `json:"operation_code" gorm:"not null;index:idx_order_opcode,unique"`
	MachineID     *int64 `json:"machine_id" gorm:"column:machine_id"`

	Order   *Order   `json:"-" gorm:"foreignKey:OrderID"`
	Machine *Machine `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
	Tasks   []Task   `json:"tasks,omitempty" gorm:"foreignKey:OperationID"`
}

func (Operation) TableName() string {
	return "operationsdb"
}

// PieceSummary aggregates good/bad piece counts over an operation's tasks.
type PieceSummary struct {
	OperationID int64 `json:"operation_id"`
	GoodPieces  int64 `json:"good_pieces"`
	BadPieces   int64 `json:"bad_pieces"`
}
