package domain

import "time"

// Loan запись о выдаче книги пользователю, таблица loans.
// Строки не удаляются, меняется только return_date.
type Loan struct {
	ID         int64      `json:"id" db:"id"`
	UserID     int64      `json:"user_id" db:"user_id"`
	BookTitle  string     `json:"book_title" db:"book_title"`
	BookISBN   *string    `json:"book_isbn" db:"book_isbn"`
	LoanDate   time.Time  `json:"loan_date" db:"loan_date"`
	ReturnDate *time.Time `json:"return_date" db:"return_date"`
}

// Returned сообщает, закрыт ли займ
func (l Loan) Returned() bool {
	return l.ReturnDate != nil
}

// LoanHistoryLimit сколько последних названий уходит в запрос рекомендаций
const LoanHistoryLimit = 20
