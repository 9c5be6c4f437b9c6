package domain

// CopyStatus состояние физического экземпляра
type CopyStatus int

const (
	CopyOnShelf  CopyStatus = 0
	CopyOnLoan   CopyStatus = 1
	CopyReserved CopyStatus = 2
)

// Valid проверяет, что статус из допустимого набора
func (s CopyStatus) Valid() bool {
	return s >= CopyOnShelf && s <= CopyReserved
}

// BookCopy физический экземпляр книги в конкретной библиотеке, таблица book_copies
type BookCopy struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	BookID     int64      `json:"book_id"`
	LibraryID  int64      `json:"library_id"`
	CallNumber *string    `json:"call_number"`
	Status     CopyStatus `json:"status"`
}

func (BookCopy) TableName() string {
	return "book_copies"
}

// CopyView экземпляр вместе с названием книги и библиотеки (только чтение)
type CopyView struct {
	BookCopy
	BookName    string `json:"book_name"`
	LibraryName string `json:"library_name"`
}
