// Package gist defines the document model of the remote store: a gist is a
// versioned collection of named text files, owned by a user, with no real
// directory structure. It also holds the in-memory store of the gists known
// locally, and the Gateway contract implemented by the network client.
package gist

import (
	"sort"
	"time"
)

// EncodingBase64 marks a file whose content is base64-encoded on the wire.
// An empty encoding means raw text.
const EncodingBase64 = "base64"

// Owner is the identity of the user owning a gist.
type Owner struct {
	ID        int64  `json:"id,omitempty"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// File is one named unit of text content inside a gist.
type File struct {
	Filename  string `json:"filename"`
	Type      string `json:"type,omitempty"`
	Language  string `json:"language,omitempty"`
	RawURL    string `json:"raw_url,omitempty"`
	Size      int64  `json:"size"`
	Truncated bool   `json:"truncated,omitempty"`
	Content   string `json:"content,omitempty"`

	// Encoding of Content. It is filled by the gateway, not by the remote
	// store itself.
	Encoding string `json:"-"`
}

// MetadataOnly reports whether the file content must be re-fetched before
// it can be served: either the remote store truncated it, or the file came
// from a listing that does not include content at all.
func (f *File) MetadataOnly() bool {
	return f.Truncated || (f.Content == "" && f.Size > 0)
}

// Gist is the remote unit of storage.
type Gist struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Public      bool             `json:"public"`
	Files       map[string]*File `json:"files"`
	Owner       *Owner           `json:"owner,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Starred is not an intrinsic gist property: it reflects the
	// membership of the gist in the authenticated user's starred set.
	Starred bool `json:"-"`
}

// File returns the named file, or nil if the gist has no file with this
// name. Names are case-sensitive.
func (g *Gist) File(name string) *File {
	return g.Files[name]
}

// Filenames returns the gist file names in lexical order.
func (g *Gist) Filenames() []string {
	names := make([]string, 0, len(g.Files))
	for name := range g.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MetadataOnly reports whether any file of the gist is missing its content.
func (g *Gist) MetadataOnly() bool {
	for _, f := range g.Files {
		if f.MetadataOnly() {
			return true
		}
	}
	return false
}
