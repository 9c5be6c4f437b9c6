package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Book карточка книги в каталоге, таблица books
type Book struct {
	ID              int64   `json:"id" gorm:"primaryKey"`
	Name            string  `json:"name"`
	ISBN            string  `json:"isbn" gorm:"column:isbn"`
	Author          string  `json:"author"`
	PublicationDate *Date   `json:"publication_date"`
	Publisher       *string `json:"publisher"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	Language        *string `json:"language"`
	CoverImageURL   *string `json:"cover_image_url"`
}

func (Book) TableName() string {
	return "books"
}

// DateLayout формат дат в API
const DateLayout = "2006-01-02"

// Date календарная дата без времени, в JSON пишется как YYYY-MM-DD
type Date struct {
	time.Time
}

// ParseDate разбирает строку вида 2006-01-02
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w %q, expected YYYY-MM-DD: %v", ErrInvalidDate, s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan реализует sql.Scanner для колонки DATE
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		parsed, err := ParseDate(v[:min(len(v), len(DateLayout))])
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// Value реализует driver.Valuer
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}
