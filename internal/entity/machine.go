package entity

// Machine is a work center. Read-mostly: rows come from the shop-floor
// import and are only toggled active/inactive afterwards.
type Machine struct {
	ID              int64       `json:"id" gorm:"primaryKey;autoIncrement"`
	MachineLocation string      `json:"machine_location" gorm:"uniqueIndex;not null"`
	Description     string      `json:"description" gorm:"not null"`
	MachineID       string      `json:"machine_id" gorm:"not null"`
	MachineType     MachineType `json:"machine_type" gorm:"size:16;not null"`
	Active          bool        `json:"active" gorm:"not null;default:true"`

	Operations []Operation `json:"-" gorm:"foreignKey:MachineID"`
}

func (Machine) TableName() string {
	return "machinesdb"
}
