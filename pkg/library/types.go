package library

// Kind names a record collection.
type Kind string

// Record kinds.
const (
	KindAuthor Kind = "author"
	KindBook   Kind = "book"
)

// Author is a writer owning zero or more books.
type Author struct {
	// ID is the caller-supplied identifier.
	ID int `json:"id" yaml:"id" graphql:"id"`
	// Name is the display name.
	Name string `json:"name" yaml:"name" graphql:"name"`
}

// Book is a title written by an author.
type Book struct {
	// ID is the caller-supplied identifier.
	ID int `json:"id" yaml:"id" graphql:"id"`
	// Name is the book title.
	Name string `json:"name" yaml:"name" graphql:"name"`
	// AuthorID references Author.ID. It is not checked against existing authors.
	AuthorID int `json:"authorId" yaml:"authorId" graphql:"authorId"`
}
