package gist

import "context"

// ListScope selects which gists a List call enumerates. The zero value means
// the gists owned by the authenticated user.
type ListScope struct {
	// User restricts the listing to the public gists of this login.
	User string
	// Starred lists the gists starred by the authenticated user.
	Starred bool
}

// Gateway is the only component that talks to the remote store. It is
// consumed by the file system adapter and the listing provider;
// authentication, retries and pagination are its responsibility, not the
// callers'.
//
// Every mutating call returns the authoritative new state of the gist as
// echoed by the remote store.
type Gateway interface {
	// Gist fetches one gist with the full content of its files.
	Gist(ctx context.Context, id string) (*Gist, error)

	// List enumerates gists. The content of the files is not included,
	// only their metadata.
	List(ctx context.Context, scope ListScope) ([]*Gist, error)

	// Create creates a new gist. The remote store assigns the id.
	Create(ctx context.Context, description string, public bool, files map[string]string) (*Gist, error)

	// UpsertFiles creates or replaces the given files, keyed by filename.
	UpsertFiles(ctx context.Context, id string, files map[string]string) (*Gist, error)

	// RenameFile renames one file. The current content accompanies the
	// name change, as the remote update API replaces the whole file
	// object.
	RenameFile(ctx context.Context, id, oldName, newName, content string) (*Gist, error)

	// DeleteFiles removes the named files in a single remote call.
	DeleteFiles(ctx context.Context, id string, names []string) (*Gist, error)

	// Delete removes the whole gist.
	Delete(ctx context.Context, id string) error
}
