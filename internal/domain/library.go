package domain

// Library филиал библиотеки, таблица libraries
type Library struct {
	ID      int64  `json:"id" gorm:"primaryKey"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (Library) TableName() string {
	return "libraries"
}
