// Package testutil содержит in-memory реализации портов для тестов usecase, handler и app.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// Store хранит пользователей, займы и каталог в памяти.
// Реализует ports.UserStorage, LoanStorage, BookStorage, LibraryStorage и CopyStorage
type Store struct {
	mu sync.Mutex

	users     map[int64]domain.User
	loans     map[int64]domain.Loan
	books     map[int64]domain.Book
	libraries map[int64]domain.Library
	copies    map[int64]domain.BookCopy
	nextID    int64

	// Now источник времени для loan_date, по умолчанию растёт на секунду с каждым займом
	Now func() time.Time
	// Err если задан, возвращается всеми методами
	Err error
}

func NewStore() *Store {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int64
	s := &Store{
		users:     map[int64]domain.User{},
		loans:     map[int64]domain.Loan{},
		books:     map[int64]domain.Book{},
		libraries: map[int64]domain.Library{},
		copies:    map[int64]domain.BookCopy{},
	}
	s.Now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func notFound(what string, id any) error {
	return fmt.Errorf("%s %v: %w", what, id, domain.ErrNotFound)
}

// --- users

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("insert user: %w", domain.ErrConflict)
		}
	}
	user.ID = s.id()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, notFound("user", username)
}

func (s *Store) ExistsByUsername(_ context.Context, username string) (bool, error) {
	return s.anyUser(func(u domain.User) bool { return u.Username == username })
}

func (s *Store) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return s.anyUser(func(u domain.User) bool { return u.Email == email })
}

func (s *Store) anyUser(match func(domain.User) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, u := range s.users {
		if match(u) {
			return true, nil
		}
	}
	return false, nil
}

// Users количество зарегистрированных пользователей
func (s *Store) Users() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Loans количество записей о выдаче
func (s *Store) Loans() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loans)
}

// --- loans

func (s *Store) CreateLoan(_ context.Context, loan *domain.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[loan.UserID]; !ok {
		return fmt.Errorf("insert loan: referenced record: %w", domain.ErrNotFound)
	}
	loan.ID = s.id()
	loan.LoanDate = s.Now()
	s.loans[loan.ID] = *loan
	return nil
}

func (s *Store) ListLoansByUser(_ context.Context, userID int64) ([]domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.userLoans(userID), nil
}

// userLoans займы пользователя, loan_date DESC, id DESC
func (s *Store) userLoans(userID int64) []domain.Loan {
	out := []domain.Loan{}
	for _, l := range s.loans {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoanDate.Equal(out[j].LoanDate) {
			return out[i].LoanDate.After(out[j].LoanDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) RecentLoanTitles(_ context.Context, userID int64, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	titles := []string{}
	for _, l := range s.userLoans(userID) {
		if len(titles) == limit {
			break
		}
		titles = append(titles, l.BookTitle)
	}
	return titles, nil
}

func (s *Store) GetLoan(_ context.Context, loanID, userID int64) (*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	l, ok := s.loans[loanID]
	if !ok || l.UserID != userID {
		return nil, notFound("loan", loanID)
	}
	return &l, nil
}

func (s *Store) MarkLoanReturned(_ context.Context, loanID, userID int64, at time.Time) (*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	l, ok := s.loans[loanID]
	if !ok || l.UserID != userID {
		return nil, notFound("loan", loanID)
	}
	if l.ReturnDate != nil {
		return nil, fmt.Errorf("return loan %d: %w", loanID, domain.ErrAlreadyReturned)
	}
	l.ReturnDate = &at
	s.loans[loanID] = l
	return &l, nil
}

// --- books

func (s *Store) ListBooks(context.Context) ([]domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []domain.Book{}
	for _, b := range s.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetBook(_ context.Context, id int64) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	b, ok := s.books[id]
	if !ok {
		return nil, notFound("book", id)
	}
	return &b, nil
}

func (s *Store) CreateBook(_ context.Context, book *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, b := range s.books {
		if b.ISBN == book.ISBN {
			return fmt.Errorf("insert book: %w", domain.ErrConflict)
		}
	}
	book.ID = s.id()
	s.books[book.ID] = *book
	return nil
}

func (s *Store) UpdateBook(_ context.Context, book *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.books[book.ID]; !ok {
		return notFound("book", book.ID)
	}
	for _, b := range s.books {
		if b.ID != book.ID && b.ISBN == book.ISBN {
			return fmt.Errorf("update book: %w", domain.ErrConflict)
		}
	}
	s.books[book.ID] = *book
	return nil
}

func (s *Store) DeleteBook(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.books[id]; !ok {
		return notFound("book", id)
	}
	delete(s.books, id)
	for cid, c := range s.copies {
		if c.BookID == id {
			delete(s.copies, cid)
		}
	}
	return nil
}

// --- libraries

func (s *Store) ListLibraries(context.Context) ([]domain.Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []domain.Library{}
	for _, l := range s.libraries {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetLibrary(_ context.Context, id int64) (*domain.Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	l, ok := s.libraries[id]
	if !ok {
		return nil, notFound("library", id)
	}
	return &l, nil
}

func (s *Store) CreateLibrary(_ context.Context, library *domain.Library) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, l := range s.libraries {
		if l.Name == library.Name {
			return fmt.Errorf("insert library: %w", domain.ErrConflict)
		}
	}
	library.ID = s.id()
	s.libraries[library.ID] = *library
	return nil
}

func (s *Store) UpdateLibrary(_ context.Context, library *domain.Library) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.libraries[library.ID]; !ok {
		return notFound("library", library.ID)
	}
	s.libraries[library.ID] = *library
	return nil
}

func (s *Store) DeleteLibrary(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.libraries[id]; !ok {
		return notFound("library", id)
	}
	delete(s.libraries, id)
	for cid, c := range s.copies {
		if c.LibraryID == id {
			delete(s.copies, cid)
		}
	}
	return nil
}

// --- copies

func (s *Store) view(c domain.BookCopy) domain.CopyView {
	return domain.CopyView{
		BookCopy:    c,
		BookName:    s.books[c.BookID].Name,
		LibraryName: s.libraries[c.LibraryID].Name,
	}
}

func (s *Store) filterCopies(keep func(domain.BookCopy) bool) ([]domain.CopyView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []domain.CopyView{}
	for _, c := range s.copies {
		if keep(c) {
			out = append(out, s.view(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListCopies(context.Context) ([]domain.CopyView, error) {
	return s.filterCopies(func(domain.BookCopy) bool { return true })
}

func (s *Store) ListCopiesByBook(_ context.Context, bookID int64) ([]domain.CopyView, error) {
	return s.filterCopies(func(c domain.BookCopy) bool { return c.BookID == bookID })
}

func (s *Store) ListCopiesByLibrary(_ context.Context, libraryID int64) ([]domain.CopyView, error) {
	return s.filterCopies(func(c domain.BookCopy) bool { return c.LibraryID == libraryID })
}

func (s *Store) GetCopy(_ context.Context, id int64) (*domain.CopyView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.copies[id]
	if !ok {
		return nil, notFound("copy", id)
	}
	v := s.view(c)
	return &v, nil
}

func (s *Store) CreateCopy(_ context.Context, c *domain.BookCopy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.books[c.BookID]; !ok {
		return notFound("book", c.BookID)
	}
	if _, ok := s.libraries[c.LibraryID]; !ok {
		return notFound("library", c.LibraryID)
	}
	c.ID = s.id()
	s.copies[c.ID] = *c
	return nil
}

func (s *Store) UpdateCopy(_ context.Context, c *domain.BookCopy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.copies[c.ID]; !ok {
		return notFound("copy", c.ID)
	}
	s.copies[c.ID] = *c
	return nil
}

func (s *Store) DeleteCopy(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.copies[id]; !ok {
		return notFound("copy", id)
	}
	delete(s.copies, id)
	return nil
}
