// Package vfs presents the remote gists as a file system: it translates
// stat/read/write/rename/delete requests on gist:// addresses into gateway
// calls, reconciles the flat "gist with named files" model with path-shaped
// addresses, and keeps the local store coherent with the server-confirmed
// state.
//
// The store is only updated from authoritative gateway responses, after the
// remote call fully succeeded; there is no optimistic pre-update, so a
// failed call leaves the cache exactly as it was. Concurrent fetches of the
// same gist are deduplicated, but concurrent writes to the same address are
// not serialized: the last gateway call wins. Callers needing a stricter
// ordering must serialize writes per address themselves.
package vfs

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gistfs/gistfs/model/confirm"
	"github.com/gistfs/gistfs/model/gist"
	"github.com/gistfs/gistfs/pkg/logger"
	"github.com/gistfs/gistfs/pkg/realtime"
)

// EmptyContentPlaceholder is stored in place of truly empty content: the
// remote update API treats an empty string as "no change", so an empty file
// is persisted as a single zero-width space and mapped back to zero bytes
// on read.
const EmptyContentPlaceholder = "\u200b"

// reservedName matches the names the remote store generates itself for
// unnamed files. Creating or renaming to such a name is rejected before any
// network call.
var reservedName = regexp.MustCompile(`^gistfile\d+(\.txt)?$`)

// FileInfo describes one address of the virtual file system.
type FileInfo struct {
	Name      string
	Size      int64
	Dir       bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WriteOptions mirror the file system contract of the editor: Create allows
// writing to an address with no existing file, Overwrite allows replacing
// an existing one.
type WriteOptions struct {
	Create    bool
	Overwrite bool
}

// FileSystem is the virtual file system adapter.
type FileSystem struct {
	store *gist.Store
	gw    gist.Gateway
	hub   realtime.Hub
	log   logger.Logger
	fetch singleflight.Group
}

// New builds a FileSystem around the given store and gateway. The hub
// receives a change event after each successful mutation; it may be nil.
func New(store *gist.Store, gw gist.Gateway, hub realtime.Hub, log logger.Logger) *FileSystem {
	if log == nil {
		log = logger.WithNamespace("vfs")
	}
	return &FileSystem{store: store, gw: gw, hub: hub, log: log}
}

// Store exposes the underlying record store, for listing layers.
func (fs *FileSystem) Store() *gist.Store { return fs.store }

// Stat returns the descriptor of an address. The root is a synthetic
// directory; a gist address is described as a directory grouping its files;
// a file address resolves to exactly one (gist, file) pair or fails with
// gist.ErrNotFound.
func (fs *FileSystem) Stat(ctx context.Context, addr Address) (*FileInfo, error) {
	if addr.IsRoot() {
		now := time.Now()
		return &FileInfo{Name: "/", Dir: true, CreatedAt: now, UpdatedAt: now}, nil
	}
	rec, err := fs.record(ctx, addr.GistID)
	if err != nil {
		return nil, err
	}
	g := rec.Gist
	if addr.IsGist() {
		return &FileInfo{
			Name:      g.ID,
			Dir:       true,
			CreatedAt: g.CreatedAt,
			UpdatedAt: g.UpdatedAt,
		}, nil
	}
	f := g.File(addr.Name)
	if f == nil {
		return nil, fmt.Errorf("%s: %w", addr, gist.ErrNotFound)
	}
	return fileInfo(g, f), nil
}

// Exists is the stat-equivalent probe used by overwrite confirmation
// sessions running against the virtual file system.
func (fs *FileSystem) Exists(ctx context.Context, target string) (bool, error) {
	addr, err := Parse(target)
	if err != nil {
		return false, err
	}
	_, err = fs.Stat(ctx, addr)
	if errors.Is(err, gist.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReadFile returns the raw bytes of a file. A metadata-only file triggers a
// full re-fetch of its gist before the read is served; the base64 wire
// encoding and the empty-content placeholder never leak to the caller.
func (fs *FileSystem) ReadFile(ctx context.Context, addr Address) ([]byte, error) {
	if addr.IsRoot() || addr.IsGist() {
		return nil, ErrInvalidAddress
	}
	rec, err := fs.record(ctx, addr.GistID)
	if err != nil {
		return nil, err
	}
	f := rec.Gist.File(addr.Name)
	if f == nil {
		return nil, fmt.Errorf("%s: %w", addr, gist.ErrNotFound)
	}
	if f.MetadataOnly() {
		rec, err = fs.materialize(ctx, addr.GistID)
		if err != nil {
			return nil, err
		}
		if f = rec.Gist.File(addr.Name); f == nil {
			return nil, fmt.Errorf("%s: %w", addr, gist.ErrNotFound)
		}
	}
	return decodeContent(f)
}

// WriteFile creates or replaces the file at the given address, persists it
// remotely, updates the store from the authoritative response, and emits a
// change event.
func (fs *FileSystem) WriteFile(ctx context.Context, addr Address, data []byte, opts WriteOptions) error {
	if addr.IsRoot() || addr.IsGist() {
		return ErrInvalidAddress
	}
	rec, err := fs.record(ctx, addr.GistID)
	if err != nil {
		return err
	}
	if rec.ReadOnly {
		return fmt.Errorf("%s: %w", addr, ErrReadOnly)
	}

	existing := rec.Gist.File(addr.Name)
	if existing == nil {
		if !opts.Create {
			return fmt.Errorf("%s: %w", addr, gist.ErrNotFound)
		}
		if reservedName.MatchString(addr.Name) {
			return fmt.Errorf("%s: %w", addr, ErrReservedName)
		}
	} else if !opts.Overwrite {
		return fmt.Errorf("%s: %w", addr, ErrExists)
	}

	content := string(data)
	if len(data) == 0 {
		content = EmptyContentPlaceholder
	}
	updated, err := fs.gw.UpsertFiles(ctx, addr.GistID, map[string]string{addr.Name: content})
	if err != nil {
		return err
	}
	fs.store.UpdateEntries(addr.GistID, updated)

	verb := realtime.EventUpdate
	if existing == nil {
		verb = realtime.EventCreate
	}
	fs.publish(verb, addr)
	return nil
}

// Rename moves a file to a new name within the same gist. When the target
// name is already taken, the overwrite confirmation session is consulted
// before anything is sent to the remote store; a declined confirmation
// leaves everything unchanged and returns confirm.ErrCancelled.
func (fs *FileSystem) Rename(ctx context.Context, oldAddr, newAddr Address, session *confirm.Session) error {
	if oldAddr.IsRoot() || oldAddr.IsGist() || newAddr.IsRoot() || newAddr.IsGist() {
		return ErrInvalidAddress
	}
	if oldAddr.GistID != newAddr.GistID {
		// the remote model has no cross-gist move
		return ErrInvalidAddress
	}
	if reservedName.MatchString(newAddr.Name) {
		return fmt.Errorf("%s: %w", newAddr, ErrReservedName)
	}

	rec, err := fs.record(ctx, oldAddr.GistID)
	if err != nil {
		return err
	}
	if rec.ReadOnly {
		return fmt.Errorf("%s: %w", oldAddr, ErrReadOnly)
	}
	f := rec.Gist.File(oldAddr.Name)
	if f == nil {
		return fmt.Errorf("%s: %w", oldAddr, gist.ErrNotFound)
	}

	if rec.Gist.File(newAddr.Name) != nil {
		if session == nil {
			return fmt.Errorf("%s: %w", newAddr, ErrExists)
		}
		ok, err := session.Confirm(ctx, newAddr.String())
		if err != nil {
			return err
		}
		if !ok {
			return confirm.ErrCancelled
		}
	}

	// the rename call must carry the current content, so force a full
	// fetch when only metadata is cached
	if f.MetadataOnly() {
		rec, err = fs.materialize(ctx, oldAddr.GistID)
		if err != nil {
			return err
		}
		if f = rec.Gist.File(oldAddr.Name); f == nil {
			return fmt.Errorf("%s: %w", oldAddr, gist.ErrNotFound)
		}
	}
	raw, err := decodeContent(f)
	if err != nil {
		return err
	}
	content := string(raw)
	if content == "" {
		content = EmptyContentPlaceholder
	}

	updated, err := fs.gw.RenameFile(ctx, oldAddr.GistID, oldAddr.Name, newAddr.Name, content)
	if err != nil {
		return err
	}
	fs.store.UpdateEntries(oldAddr.GistID, updated)
	fs.publish(realtime.EventDelete, oldAddr)
	fs.publish(realtime.EventCreate, newAddr)
	return nil
}

// Delete removes a whole gist (gist address) or a single file (file
// address).
func (fs *FileSystem) Delete(ctx context.Context, addr Address) error {
	if addr.IsRoot() {
		return ErrNotSupported
	}
	if addr.IsGist() {
		rec, err := fs.record(ctx, addr.GistID)
		if err != nil {
			return err
		}
		if rec.ReadOnly {
			return fmt.Errorf("%s: %w", addr, ErrReadOnly)
		}
		if err := fs.gw.Delete(ctx, addr.GistID); err != nil {
			return err
		}
		fs.store.Remove(addr.GistID)
		fs.publish(realtime.EventDelete, addr)
		return nil
	}
	return fs.DeleteFiles(ctx, addr.GistID, []string{addr.Name})
}

// DeleteFiles removes the named files from one gist. All names travel in a
// single gateway call: batching the deletions keeps the mutation atomic on
// the remote side and costs one request instead of N.
func (fs *FileSystem) DeleteFiles(ctx context.Context, gistID string, names []string) error {
	if gistID == "" || len(names) == 0 {
		return ErrInvalidAddress
	}
	rec, err := fs.record(ctx, gistID)
	if err != nil {
		return err
	}
	if rec.ReadOnly {
		return fmt.Errorf("gist %s: %w", gistID, ErrReadOnly)
	}
	for _, name := range names {
		if rec.Gist.File(name) == nil {
			return fmt.Errorf("gist %s: %s: %w", gistID, name, gist.ErrNotFound)
		}
	}
	updated, err := fs.gw.DeleteFiles(ctx, gistID, names)
	if err != nil {
		return err
	}
	fs.store.UpdateEntries(gistID, updated)
	for _, name := range names {
		fs.publish(realtime.EventDelete, Address{GistID: gistID, Name: name})
	}
	return nil
}

// Mkdir exists only to satisfy the file system contract: the remote store
// has no real directories, so this is a validated no-op.
func (fs *FileSystem) Mkdir(ctx context.Context, addr Address) error {
	if addr.IsRoot() {
		return nil
	}
	fs.log.Debugf("mkdir %s ignored, the store has no directories", addr)
	return nil
}

// ReadDir enumerates the children of an address: the root lists the known
// gists, a gist address lists its files, and there is nothing deeper.
func (fs *FileSystem) ReadDir(ctx context.Context, addr Address) ([]*FileInfo, error) {
	if addr.IsRoot() {
		records := fs.store.Records()
		infos := make([]*FileInfo, 0, len(records))
		for _, rec := range records {
			infos = append(infos, &FileInfo{
				Name:      rec.Gist.ID,
				Dir:       true,
				CreatedAt: rec.Gist.CreatedAt,
				UpdatedAt: rec.Gist.UpdatedAt,
			})
		}
		return infos, nil
	}
	if !addr.IsGist() {
		return nil, ErrNotSupported
	}
	rec, err := fs.record(ctx, addr.GistID)
	if err != nil {
		return nil, err
	}
	g := rec.Gist
	infos := make([]*FileInfo, 0, len(g.Files))
	for _, name := range g.Filenames() {
		infos = append(infos, fileInfo(g, g.File(name)))
	}
	return infos, nil
}

// record looks up a gist cache-first, falling back to a gateway fetch on a
// miss. Concurrent fetches of the same id are collapsed into one call.
func (fs *FileSystem) record(ctx context.Context, id string) (*gist.Record, error) {
	if rec, ok := fs.store.Find(id); ok {
		return rec, nil
	}
	return fs.fetchInto(ctx, id)
}

// materialize re-fetches a gist so that every file has its full content,
// replacing the cached snapshot.
func (fs *FileSystem) materialize(ctx context.Context, id string) (*gist.Record, error) {
	return fs.fetchInto(ctx, id)
}

func (fs *FileSystem) fetchInto(ctx context.Context, id string) (*gist.Record, error) {
	v, err, _ := fs.fetch.Do(id, func() (interface{}, error) {
		g, err := fs.gw.Gist(ctx, id)
		if err != nil {
			return nil, err
		}
		if !fs.store.UpdateEntries(id, g) {
			fs.store.Upsert(&gist.Record{Gist: g, Group: gist.GroupOpened})
		}
		rec, _ := fs.store.Find(id)
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*gist.Record), nil
}

func (fs *FileSystem) publish(verb string, addr Address) {
	if fs.hub == nil {
		return
	}
	fs.hub.Publish(&realtime.Event{
		Verb:    verb,
		GistID:  addr.GistID,
		Name:    addr.Name,
		Address: addr.String(),
	})
}

func fileInfo(g *gist.Gist, f *gist.File) *FileInfo {
	size := f.Size
	if placeholderContent(f) {
		size = 0
	}
	return &FileInfo{
		Name:      f.Filename,
		Size:      size,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

var emptyPlaceholderBase64 = base64.StdEncoding.EncodeToString([]byte(EmptyContentPlaceholder))

// placeholderContent reports whether the file holds the empty-content
// sentinel, in whichever wire form it is cached: raw from an update
// response, or base64 from a fetch.
func placeholderContent(f *gist.File) bool {
	if f.Encoding == gist.EncodingBase64 {
		return compactWire(f.Content) == emptyPlaceholderBase64
	}
	return f.Content == EmptyContentPlaceholder
}

// compactWire strips the newlines base64 wire content may be wrapped with.
func compactWire(content string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, content)
}

// decodeContent maps the stored wire form of a file to the raw bytes the
// editor-facing contract promises.
func decodeContent(f *gist.File) ([]byte, error) {
	content := f.Content
	if f.Encoding == gist.EncodingBase64 {
		raw, err := base64.StdEncoding.DecodeString(compactWire(content))
		if err != nil {
			return nil, fmt.Errorf("vfs: %s: corrupt base64 content: %w", f.Filename, err)
		}
		content = string(raw)
	}
	if content == EmptyContentPlaceholder {
		return []byte{}, nil
	}
	return []byte(content), nil
}
