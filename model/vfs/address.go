package vfs

import (
	"net/url"
	"strings"
)

// Scheme is the URI scheme of the virtual file system.
const Scheme = "gist"

// Address identifies a gist, or one file within a gist, in the virtual file
// system. The zero value is the root address, under which all known gists
// are listed.
type Address struct {
	GistID string
	Name   string
}

// Root returns the root address.
func Root() Address { return Address{} }

// NewAddress builds the address of a file inside a gist. The gist id must
// not be empty, and a leading slash on the filename is stripped, as the
// remote store has flat filenames only.
func NewAddress(gistID, name string) (Address, error) {
	if gistID == "" {
		return Address{}, ErrInvalidAddress
	}
	name = strings.TrimPrefix(name, "/")
	return Address{GistID: gistID, Name: name}, nil
}

// Parse decodes an address of the form gist://<id>/<name>. The authority
// alone (gist://<id>) addresses the gist itself, and gist:// is the root.
func Parse(raw string) (Address, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Address{}, ErrInvalidAddress
	}
	if u.Scheme != Scheme || u.Opaque != "" {
		return Address{}, ErrInvalidAddress
	}
	if u.Host == "" {
		if u.Path != "" && u.Path != "/" {
			return Address{}, ErrInvalidAddress
		}
		return Root(), nil
	}
	name := strings.TrimPrefix(u.Path, "/")
	if strings.Contains(name, "/") {
		// gists have flat filenames, there is nothing below a file
		return Address{}, ErrInvalidAddress
	}
	return Address{GistID: u.Host, Name: name}, nil
}

// IsRoot reports whether the address is the root of the file system.
func (a Address) IsRoot() bool { return a.GistID == "" }

// IsGist reports whether the address designates a whole gist rather than a
// file within it.
func (a Address) IsGist() bool { return a.GistID != "" && a.Name == "" }

// String encodes the address back to its URI form.
func (a Address) String() string {
	if a.IsRoot() {
		return Scheme + "://"
	}
	u := url.URL{Scheme: Scheme, Host: a.GistID, Path: "/" + a.Name}
	if a.Name == "" {
		u.Path = ""
	}
	return u.String()
}
