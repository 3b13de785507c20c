package phonebook

// Directory is what the menu front ends need from a phonebook.
// Store implements it directly; audit.Store wraps a Store with
// logging and timing.
type Directory interface {
	// Pages returns the total number of pages.
	Pages() int

	// Page returns the entries on a 1-based page.
	Page(n int) []string

	// Add creates a record with a fresh id.
	Add(f Fields) Record

	// Find returns the position of the entry with the given id, or an
	// error matching ErrNotFound.
	Find(id int) (int, error)

	// Entry returns the serialized entry at a position.
	Entry(index int) (string, error)

	// Edit replaces the entry at a position and persists the store.
	Edit(index int, f Fields) (Record, error)

	// Search returns the entries containing a query, ignoring case.
	Search(query string) []string

	// Save persists the store.
	Save() error
}
