// Package tree builds the grouped listing of the known gists: My Gists,
// Starred Gists, one group per followed user, and the gists opened
// explicitly by id. Nodes form a closed tagged variant with an explicit
// kind, so consumers switch on the discriminant instead of inspecting
// runtime types.
package tree

import (
	"sort"
	"strings"

	"github.com/gistfs/gistfs/model/gist"
	"github.com/gistfs/gistfs/model/vfs"
)

// Kind is the discriminant of a Node.
type Kind int

const (
	// KindGroup is a grouping header (My Gists, Starred Gists, ...).
	KindGroup Kind = iota
	// KindOwner is a followed user.
	KindOwner
	// KindGist is one gist.
	KindGist
	// KindFile is one file of a gist.
	KindFile
)

// Group labels, as shown to the user.
const (
	LabelMyGists      = "My Gists"
	LabelStarredGists = "Starred Gists"
	LabelFollowed     = "Followed Users"
	LabelOpened       = "Opened Gists"
)

// Node is one element of the listing tree.
type Node struct {
	Kind     Kind
	Label    string
	Group    gist.Group
	Owner    string
	Gist     *gist.Gist
	File     *gist.File
	ReadOnly bool
	Children []*Node
}

// Address returns the virtual address of a gist or file node, or the zero
// address for groups and owners.
func (n *Node) Address() vfs.Address {
	switch n.Kind {
	case KindGist:
		return vfs.Address{GistID: n.Gist.ID}
	case KindFile:
		// the file node is always built under its gist node
		return vfs.Address{GistID: n.Gist.ID, Name: n.File.Filename}
	default:
		return vfs.Root()
	}
}

// SortType selects the gist attribute the listing is ordered by.
type SortType string

const (
	SortByName    SortType = "name"
	SortByCreated SortType = "created"
	SortByUpdated SortType = "updated"
)

// SortDirection is the direction of the listing order.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ParseSort validates persisted sort preferences, falling back to the
// defaults for unknown values.
func ParseSort(sortType, direction string) (SortType, SortDirection) {
	st := SortType(sortType)
	switch st {
	case SortByName, SortByCreated, SortByUpdated:
	default:
		st = SortByName
	}
	sd := SortDirection(direction)
	switch sd {
	case SortAscending, SortDescending:
	default:
		sd = SortAscending
	}
	return st, sd
}

func sortGists(nodes []*Node, by SortType, direction SortDirection) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Gist, nodes[j].Gist
		var less bool
		switch by {
		case SortByCreated:
			less = a.CreatedAt.Before(b.CreatedAt)
		case SortByUpdated:
			less = a.UpdatedAt.Before(b.UpdatedAt)
		default:
			less = strings.ToLower(a.Description) < strings.ToLower(b.Description)
		}
		if direction == SortDescending {
			return !less
		}
		return less
	})
}

// files are ordered by type first, then by name, like the original listing
func sortFiles(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].File, nodes[j].File
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Filename < b.Filename
	})
}
