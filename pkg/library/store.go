package library

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Store holds the author and book collections in insertion order.
type Store struct {
	mu      sync.RWMutex
	authors []Author
	books   []Book
}

// NewStore creates a store populated with a copy of the given seed.
func NewStore(seed Seed) *Store {
	s := &Store{}
	s.load(seed)
	return s
}

// NewSeededStore creates a store populated with DefaultSeed.
func NewSeededStore() *Store {
	return NewStore(DefaultSeed())
}

// Reset replaces the contents of both collections with a copy of the seed.
func (s *Store) Reset(seed Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(seed)
}

func (s *Store) load(seed Seed) {
	s.authors = slices.Clone(seed.Authors)
	s.books = slices.Clone(seed.Books)
	if s.authors == nil {
		s.authors = []Author{}
	}
	if s.books == nil {
		s.books = []Book{}
	}
}

// Counts returns the number of authors and books currently stored.
func (s *Store) Counts() (authors, books int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.authors), len(s.books)
}

// Authors returns all authors in insertion order.
func (s *Store) Authors() []Author {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.authors)
}

// Books returns all books in insertion order.
func (s *Store) Books() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.books)
}

// Author returns the first author with the given id.
func (s *Store) Author(id int) (Author, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.authors, func(a Author) bool { return a.ID == id })
}

// Book returns the first book with the given id.
func (s *Store) Book(id int) (Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.books, func(b Book) bool { return b.ID == id })
}

// AddAuthor appends an author. Duplicate ids are accepted.
func (s *Store) AddAuthor(a Author) Author {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authors = append(s.authors, a)
	return a
}

// AddBook appends a book. Duplicate ids and unknown author ids are accepted.
func (s *Store) AddBook(b Book) Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = append(s.books, b)
	return b
}

// DeleteAuthor removes the first author with the given id and returns it.
// Books referencing the author are kept.
func (s *Store) DeleteAuthor(id int) (Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, i, ok := lo.FindIndexOf(s.authors, func(a Author) bool { return a.ID == id })
	if !ok {
		return Author{}, &NotFoundError{Kind: KindAuthor, ID: id}
	}
	s.authors = slices.Delete(s.authors, i, i+1)
	return a, nil
}

// DeleteBook removes the first book with the given id and returns it.
func (s *Store) DeleteBook(id int) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, i, ok := lo.FindIndexOf(s.books, func(b Book) bool { return b.ID == id })
	if !ok {
		return Book{}, &NotFoundError{Kind: KindBook, ID: id}
	}
	s.books = slices.Delete(s.books, i, i+1)
	return b, nil
}

// UpdateAuthor renames the first author with the given id in place.
func (s *Store) UpdateAuthor(id int, name string) (Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i, ok := lo.FindIndexOf(s.authors, func(a Author) bool { return a.ID == id })
	if !ok {
		return Author{}, &NotFoundError{Kind: KindAuthor, ID: id}
	}
	s.authors[i].Name = name
	return s.authors[i], nil
}

// UpdateBook overwrites the title and author reference of the first book
// with the given id in place.
func (s *Store) UpdateBook(id int, name string, authorID int) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i, ok := lo.FindIndexOf(s.books, func(b Book) bool { return b.ID == id })
	if !ok {
		return Book{}, &NotFoundError{Kind: KindBook, ID: id}
	}
	s.books[i].Name = name
	s.books[i].AuthorID = authorID
	return s.books[i], nil
}
