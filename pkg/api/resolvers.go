package api

import (
	"context"
	"fmt"

	"github.com/getmockd/libraryql/pkg/graphql"
	"github.com/getmockd/libraryql/pkg/library"
)

// Resolvers resolves the library schema against a Store.
type Resolvers struct {
	store *library.Store
}

// NewResolvers creates resolvers reading and writing store.
func NewResolvers(store *library.Store) *Resolvers {
	return &Resolvers{store: store}
}

// Map returns the resolver functions keyed by schema field.
func (r *Resolvers) Map() graphql.Resolvers {
	return graphql.Resolvers{
		"Query.book":    r.book,
		"Query.books":   r.books,
		"Query.author":  r.author,
		"Query.authors": r.authors,

		"Mutation.addBook":      r.addBook,
		"Mutation.deleteBook":   r.deleteBook,
		"Mutation.updateBook":   r.updateBook,
		"Mutation.addAuthor":    r.addAuthor,
		"Mutation.deleteAuthor": r.deleteAuthor,
		"Mutation.updateAuthor": r.updateAuthor,

		"Book.author":  r.bookAuthor,
		"Author.books": r.authorBooks,
	}
}

// Models binds the schema's object types to the library records.
func Models() map[string]any {
	return map[string]any{
		"Book":   library.Book{},
		"Author": library.Author{},
	}
}

func (r *Resolvers) book(_ context.Context, p graphql.ResolveParams) (interface{}, error) {
	id, ok := p.Int("id")
	if !ok {
		return nil, nil
	}
	if b, found := r.store.Book(id); found {
		return b, nil
	}
	return nil, nil
}

func (r *Resolvers) books(context.Context, graphql.ResolveParams) (interface{}, error) {
	return r.store.Books(), nil
}

func (r *Resolvers) author(_ context.Context, p graphql.ResolveParams) (interface{}, error) {
	id, ok := p.Int("id")
	if !ok {
		return nil, nil
	}
	if a, found := r.store.Author(id); found {
		return a, nil
	}
	return nil, nil
}

func (r *Resolvers) authors(context.Context, graphql.ResolveParams) (interface{}, error) {
	return r.store.Authors(), nil
}

func (r *Resolvers) addBook(_ context.Context, p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Int("id")
	name, _ := p.String("name")
	authorID, _ := p.Int("authorId")
	return r.store.AddBook(library.Book{ID: id, Name: name, AuthorID: authorID}), nil
}

func (r *Resolvers) deleteBook(_ context.Context, p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Int("id")
	b, err := r.store.DeleteBook(id)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Resolvers) updateBook(_ context.Context, p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Int("id")
	name, _ := p.String("name")
	authorID, _ := p.Int("authorId")
	b, err := r.store.UpdateBook(id, name, authorID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Resolvers) addAuthor(_ context.Context, p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Int("id")
	name, _ := p.String("name")
	return r.store.AddAuthor(library.Author{ID: id, Name: name}), nil
}

func (r *Resolvers) deleteAuthor(_ context.Context, p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Int("id")
	a, err := r.store.DeleteAuthor(id)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Resolvers) updateAuthor(_ context.Context, p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Int("id")
	name, _ := p.String("name")
	a, err := r.store.UpdateAuthor(id, name)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Resolvers) bookAuthor(_ context.Context, p graphql.ResolveParams) (interface{}, error) {
	b, ok := p.Source.(library.Book)
	if !ok {
		return nil, fmt.Errorf("Book.author: unexpected parent %T", p.Source)
	}
	if a, found := r.store.AuthorOf(b); found {
		return a, nil
	}
	return nil, nil
}

func (r *Resolvers) authorBooks(_ context.Context, p graphql.ResolveParams) (interface{}, error) {
	a, ok := p.Source.(library.Author)
	if !ok {
		return nil, fmt.Errorf("Author.books: unexpected parent %T", p.Source)
	}
	return r.store.BooksOf(a), nil
}
