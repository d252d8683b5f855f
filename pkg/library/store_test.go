package library

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeededStore(t *testing.T) {
	t.Parallel()

	s := NewSeededStore()
	authors, books := s.Counts()
	assert.Equal(t, 3, authors)
	assert.Equal(t, 8, books)

	a, ok := s.Author(2)
	require.True(t, ok)
	assert.Equal(t, "J. R. R. Tolkien", a.Name)
}

func TestStore_Lookup(t *testing.T) {
	t.Parallel()

	s := NewSeededStore()

	tests := []struct {
		name   string
		id     int
		wantOK bool
		want   string
	}{
		{"first", 1, true, "Harry Potter and the Chamber of Secrets"},
		{"last", 8, true, "Beyond the Shadows"},
		{"missing", 99, false, ""},
		{"zero", 0, false, ""},
		{"negative", -1, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := s.Book(tt.id)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, b.Name)
		})
	}
}

func TestStore_AddBook_RoundTrip(t *testing.T) {
	t.Parallel()

	s := NewSeededStore()
	added := s.AddBook(Book{ID: 9, Name: "X", AuthorID: 1})
	assert.Equal(t, Book{ID: 9, Name: "X", AuthorID: 1}, added)

	got, ok := s.Book(9)
	require.True(t, ok)
	assert.Equal(t, Book{ID: 9, Name: "X", AuthorID: 1}, got)

	books := s.Books()
	assert.Len(t, books, 9)
	assert.Equal(t, 9, books[len(books)-1].ID, "appended at the end")
}

func TestStore_DuplicateIDs_FirstMatchWins(t *testing.T) {
	t.Parallel()

	s := NewSeededStore()
	s.AddAuthor(Author{ID: 1, Name: "Impostor"})

	a, ok := s.Author(1)
	require.True(t, ok)
	assert.Equal(t, "J. K. Rowling", a.Name)

	updated, err := s.UpdateAuthor(1, "Robert Galbraith")
	require.NoError(t, err)
	assert.Equal(t, "Robert Galbraith", updated.Name)

	authors := s.Authors()
	assert.Equal(t, "Robert Galbraith", authors[0].Name)
	assert.Equal(t, "Impostor", authors[3].Name)

	removed, err := s.DeleteAuthor(1)
	require.NoError(t, err)
	assert.Equal(t, "Robert Galbraith", removed.Name)

	a, ok = s.Author(1)
	require.True(t, ok, "second record with the same id remains")
	assert.Equal(t, "Impostor", a.Name)
}

func TestStore_Reads_AreIdempotent(t *testing.T) {
	t.Parallel()

	s := NewSeededStore()
	assert.Equal(t, s.Books(), s.Books())
	assert.Equal(t, s.Authors(), s.Authors())
}

func TestStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	s := NewSeededStore()
	books := s.Books()
	books[0].Name = "mutated"

	b, ok := s.Book(1)
	require.True(t, ok)
	assert.Equal(t, "Harry Potter and the Chamber of Secrets", b.Name)
}

func TestStore_DeleteBook(t *testing.T) {
	t.Parallel()

	s := NewSeededStore()
	before := len(s.Books())

	removed, err := s.DeleteBook(1)
	require.NoError(t, err)
	assert.Equal(t, 1, removed.ID)

	_, ok := s.Book(1)
	assert.False(t, ok)
	assert.Len(t, s.Books(), before-1)
}

func TestStore_DeleteAuthor_DoesNotCascade(t *testing.T) {
	t.Parallel()

	s := NewSeededStore()
	_, err := s.DeleteAuthor(3)
	require.NoError(t, err)

	b, ok := s.Book(7)
	require.True(t, ok)
	assert.Equal(t, 3, b.AuthorID)

	_, ok = s.AuthorOf(b)
	assert.False(t, ok)
}

func TestStore_UpdateBook(t *testing.T) {
	t.Parallel()

	s := NewSeededStore()
	updated, err := s.UpdateBook(7, "The Black Prism", 2)
	require.NoError(t, err)
	assert.Equal(t, Book{ID: 7, Name: "The Black Prism", AuthorID: 2}, updated)

	books := s.Books()
	assert.Equal(t, updated, books[6], "updated in place, order preserved")
}

func TestStore_MissingIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		op   func(s *Store) error
		kind Kind
	}{
		{"delete book", func(s *Store) error { _, err := s.DeleteBook(42); return err }, KindBook},
		{"update book", func(s *Store) error { _, err := s.UpdateBook(42, "n", 1); return err }, KindBook},
		{"delete author", func(s *Store) error { _, err := s.DeleteAuthor(42); return err }, KindAuthor},
		{"update author", func(s *Store) error { _, err := s.UpdateAuthor(42, "n"); return err }, KindAuthor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSeededStore()
			err := tt.op(s)

			var nf *NotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, tt.kind, nf.Kind)
			assert.Equal(t, 42, nf.ID)
			assert.Equal(t, "NOT_FOUND", nf.Code())
			assert.Contains(t, nf.Error(), "record not found")

			a, b := s.Counts()
			assert.Equal(t, 3, a, "store unchanged")
			assert.Equal(t, 8, b, "store unchanged")
		})
	}
}

func TestStore_Reset(t *testing.T) {
	t.Parallel()

	s := NewSeededStore()
	_, _ = s.DeleteBook(1)
	s.AddAuthor(Author{ID: 10, Name: "N. K. Jemisin"})

	s.Reset(DefaultSeed())
	a, b := s.Counts()
	assert.Equal(t, 3, a)
	assert.Equal(t, 8, b)

	s.Reset(Seed{})
	assert.NotNil(t, s.Books())
	assert.Empty(t, s.Books())
}

func TestStore_SeedIsCopied(t *testing.T) {
	t.Parallel()

	seed := DefaultSeed()
	s := NewStore(seed)
	_, err := s.UpdateAuthor(1, "changed")
	require.NoError(t, err)

	assert.Equal(t, "J. K. Rowling", seed.Authors[0].Name)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewStore(Seed{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func(id int) {
			defer wg.Done()
			s.AddAuthor(Author{ID: id, Name: "a"})
		}(i)
		go func(id int) {
			defer wg.Done()
			s.AddBook(Book{ID: id, Name: "b", AuthorID: id})
		}(i)
		go func(id int) {
			defer wg.Done()
			if a, ok := s.Author(id); ok {
				_ = s.BooksOf(a)
			}
		}(i)
	}
	wg.Wait()

	a, b := s.Counts()
	assert.Equal(t, 50, a)
	assert.Equal(t, 50, b)
}

func TestParseSeed(t *testing.T) {
	t.Parallel()

	seed, err := ParseSeed([]byte(`
authors:
  - id: 1
    name: Ursula K. Le Guin
books:
  - id: 1
    name: A Wizard of Earthsea
    authorId: 1
  - id: 2
    name: The Left Hand of Darkness
    authorId: 1
`))
	require.NoError(t, err)
	assert.Equal(t, []Author{{ID: 1, Name: "Ursula K. Le Guin"}}, seed.Authors)
	assert.Len(t, seed.Books, 2)
	assert.Equal(t, 1, seed.Books[1].AuthorID)

	empty, err := ParseSeed(nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Authors)

	_, err = ParseSeed([]byte("authors:\n  - id: 1\n    title: wrong\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = ParseSeed([]byte("authors: [\n"))
	assert.Error(t, err)
}

func TestLoadSeedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("authors:\n  - id: 5\n    name: Robin Hobb\n"), 0o600))

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Author{{ID: 5, Name: "Robin Hobb"}}, seed.Authors)
	assert.Empty(t, seed.Books)

	_, err = LoadSeedFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
