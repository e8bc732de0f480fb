package tree

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gistfs/gistfs/model/gist"
)

type listGateway struct {
	mine    []*gist.Gist
	starred []*gist.Gist
	byUser  map[string][]*gist.Gist
	byID    map[string]*gist.Gist

	starredErr error
}

func (gw *listGateway) Gist(ctx context.Context, id string) (*gist.Gist, error) {
	g, ok := gw.byID[id]
	if !ok {
		return nil, fmt.Errorf("gist %s: %w", id, gist.ErrNotFound)
	}
	return g, nil
}

func (gw *listGateway) List(ctx context.Context, scope gist.ListScope) ([]*gist.Gist, error) {
	switch {
	case scope.Starred:
		return gw.starred, gw.starredErr
	case scope.User != "":
		return gw.byUser[scope.User], nil
	default:
		return gw.mine, nil
	}
}

func (gw *listGateway) Create(ctx context.Context, description string, public bool, files map[string]string) (*gist.Gist, error) {
	return nil, errors.New("not implemented")
}

func (gw *listGateway) UpsertFiles(ctx context.Context, id string, files map[string]string) (*gist.Gist, error) {
	return nil, errors.New("not implemented")
}

func (gw *listGateway) RenameFile(ctx context.Context, id, oldName, newName, content string) (*gist.Gist, error) {
	return nil, errors.New("not implemented")
}

func (gw *listGateway) DeleteFiles(ctx context.Context, id string, names []string) (*gist.Gist, error) {
	return nil, errors.New("not implemented")
}

func (gw *listGateway) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

var _ gist.Gateway = (*listGateway)(nil)

func listed(id, description string, at time.Time) *gist.Gist {
	return &gist.Gist{ID: id, Description: description, CreatedAt: at, UpdatedAt: at,
		Files: map[string]*gist.File{}}
}

func groupByLabel(t *testing.T, root *Node, label string) *Node {
	for _, child := range root.Children {
		if child.Label == label {
			return child
		}
	}
	t.Fatalf("no group %q", label)
	return nil
}

func TestRefreshBuildsGroups(t *testing.T) {
	now := time.Now()
	gw := &listGateway{
		mine:    []*gist.Gist{listed("m1", "banana", now), listed("m2", "Apple", now)},
		starred: []*gist.Gist{listed("s1", "starred one", now)},
		byUser: map[string][]*gist.Gist{
			"octocat": {listed("u1", "shared", now)},
		},
		byID: map[string]*gist.Gist{
			"o1": listed("o1", "opened", now),
		},
	}
	store := gist.NewStore()
	p := NewProvider(store, gw, nil)

	root, err := p.Refresh(context.Background(), []string{"octocat"}, []string{"o1"})
	require.NoError(t, err)
	require.Len(t, root.Children, 4)

	mine := groupByLabel(t, root, LabelMyGists)
	require.Len(t, mine.Children, 2)
	// name sorting is case-insensitive
	assert.Equal(t, "Apple", mine.Children[0].Label)
	assert.Equal(t, "banana", mine.Children[1].Label)
	assert.False(t, mine.Children[0].ReadOnly)

	starred := groupByLabel(t, root, LabelStarredGists)
	require.Len(t, starred.Children, 1)
	assert.True(t, starred.Children[0].ReadOnly)

	followed := groupByLabel(t, root, LabelFollowed)
	require.Len(t, followed.Children, 1)
	owner := followed.Children[0]
	assert.Equal(t, KindOwner, owner.Kind)
	assert.Equal(t, "octocat", owner.Owner)
	require.Len(t, owner.Children, 1)
	assert.True(t, owner.Children[0].ReadOnly)

	opened := groupByLabel(t, root, LabelOpened)
	require.Len(t, opened.Children, 1)
	assert.Equal(t, "opened", opened.Children[0].Label)

	// every listed gist is seeded into the store
	assert.Equal(t, 5, store.Len())
	rec, ok := store.Find("u1")
	require.True(t, ok)
	assert.True(t, rec.ReadOnly)
	assert.Equal(t, gist.GroupFollowed, rec.Group)
	rec, ok = store.Find("m1")
	require.True(t, ok)
	assert.False(t, rec.ReadOnly)
}

func TestRefreshOpenedGistsOwnership(t *testing.T) {
	now := time.Now()
	mine := listed("m1", "mine", now)
	mine.Owner = &gist.Owner{Login: "me"}
	ownOpened := listed("o1", "my own, opened by id", now)
	ownOpened.Owner = &gist.Owner{Login: "Me"}
	foreign := listed("o2", "someone else's", now)
	foreign.Owner = &gist.Owner{Login: "other"}

	gw := &listGateway{
		mine: []*gist.Gist{mine},
		byID: map[string]*gist.Gist{"o1": ownOpened, "o2": foreign},
	}
	store := gist.NewStore()
	p := NewProvider(store, gw, nil)

	root, err := p.Refresh(context.Background(), nil, []string{"o1", "o2"})
	require.NoError(t, err)

	opened := groupByLabel(t, root, LabelOpened)
	require.Len(t, opened.Children, 2)
	for _, node := range opened.Children {
		rec, ok := store.Find(node.Gist.ID)
		require.True(t, ok)
		assert.Equal(t, node.ReadOnly, rec.ReadOnly)
	}

	rec, _ := store.Find("o1")
	assert.False(t, rec.ReadOnly, "an owned gist opened by id stays writable")
	rec, _ = store.Find("o2")
	assert.True(t, rec.ReadOnly)
}

func TestRefreshSkipsFailingGroups(t *testing.T) {
	gw := &listGateway{
		mine:       []*gist.Gist{listed("m1", "mine", time.Now())},
		starredErr: errors.New("boom"),
	}
	p := NewProvider(gist.NewStore(), gw, nil)

	root, err := p.Refresh(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, LabelMyGists, root.Children[0].Label)
}

func TestRefreshSortsByCreationDate(t *testing.T) {
	base := time.Now()
	gw := &listGateway{
		mine: []*gist.Gist{
			listed("old", "zzz", base.Add(-time.Hour)),
			listed("new", "aaa", base),
		},
	}
	p := NewProvider(gist.NewStore(), gw, nil)
	p.SortBy = SortByCreated
	p.Direction = SortDescending

	root, err := p.Refresh(context.Background(), nil, nil)
	require.NoError(t, err)
	mine := groupByLabel(t, root, LabelMyGists)
	assert.Equal(t, "new", mine.Children[0].Gist.ID)
	assert.Equal(t, "old", mine.Children[1].Gist.ID)
}

func TestGistNodeFilesSortedByTypeThenName(t *testing.T) {
	g := &gist.Gist{ID: "g1", Description: "mixed", Files: map[string]*gist.File{
		"b.md":  {Filename: "b.md", Type: "text/markdown"},
		"a.txt": {Filename: "a.txt", Type: "text/plain"},
		"a.md":  {Filename: "a.md", Type: "text/markdown"},
	}}
	gw := &listGateway{mine: []*gist.Gist{g}}
	p := NewProvider(gist.NewStore(), gw, nil)

	root, err := p.Refresh(context.Background(), nil, nil)
	require.NoError(t, err)
	mine := groupByLabel(t, root, LabelMyGists)
	files := mine.Children[0].Children
	require.Len(t, files, 3)
	assert.Equal(t, "a.md", files[0].Label)
	assert.Equal(t, "b.md", files[1].Label)
	assert.Equal(t, "a.txt", files[2].Label)
}

func TestParseSortFallsBack(t *testing.T) {
	st, sd := ParseSort("bogus", "sideways")
	assert.Equal(t, SortByName, st)
	assert.Equal(t, SortAscending, sd)

	st, sd = ParseSort("updated", "desc")
	assert.Equal(t, SortByUpdated, st)
	assert.Equal(t, SortDescending, sd)
}
