package library

import "github.com/samber/lo"

// AuthorOf returns the author referenced by b.AuthorID. The second result is
// false when the reference dangles.
func (s *Store) AuthorOf(b Book) (Author, bool) {
	return s.Author(b.AuthorID)
}

// BooksOf returns every book whose AuthorID equals a.ID, in insertion order.
// The result is never nil.
func (s *Store) BooksOf(a Author) []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := lo.Filter(s.books, func(b Book, _ int) bool { return b.AuthorID == a.ID })
	if books == nil {
		return []Book{}
	}
	return books
}
