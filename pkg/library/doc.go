// Package library provides the in-memory record store for authors and books.
//
// The store keeps two ordered collections in process memory. Records are
// located by linear scan on their identifier; identifiers are supplied by the
// caller and are not required to be unique, so the first match wins for
// lookups, updates and deletes.
//
// Relationships:
//
// A Book references its owning Author through AuthorID. The reference is not
// enforced: a Book may name an Author that does not exist, and deleting an
// Author leaves its Books in place. AuthorOf and BooksOf resolve the relation
// in either direction against the current contents of the store.
//
// Thread Safety:
//
// All access goes through Store methods, which share a single sync.RWMutex
// guarding both collections. Returned records are copies.
//
// Usage:
//
//	store := library.NewSeededStore()
//
//	book, ok := store.Book(4)
//	author, ok := store.AuthorOf(book)
//	books := store.BooksOf(author)
//
//	store.AddBook(library.Book{ID: 9, Name: "Mistborn", AuthorID: 4})
//	if _, err := store.DeleteAuthor(42); err != nil {
//	    var nf *library.NotFoundError
//	    errors.As(err, &nf) // nf.Kind == library.KindAuthor
//	}
package library
