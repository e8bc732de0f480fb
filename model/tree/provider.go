package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/gistfs/gistfs/model/gist"
	"github.com/gistfs/gistfs/pkg/logger"
)

// Provider refreshes the listing tree from the remote store and seeds the
// local store with the records it discovers. Gists that are not owned by
// the authenticated user are marked read-only.
type Provider struct {
	store *gist.Store
	gw    gist.Gateway
	log   logger.Logger

	SortBy    SortType
	Direction SortDirection
}

// NewProvider builds a Provider over the given store and gateway.
func NewProvider(store *gist.Store, gw gist.Gateway, log logger.Logger) *Provider {
	if log == nil {
		log = logger.WithNamespace("tree")
	}
	return &Provider{
		store:     store,
		gw:        gw,
		log:       log,
		SortBy:    SortByName,
		Direction: SortAscending,
	}
}

// Refresh rebuilds the whole tree: the owned and starred gists, the gists
// of each followed user, and the gists opened by id. A group whose listing
// fails is reported in the log and skipped, without aborting the other
// groups.
func (p *Provider) Refresh(ctx context.Context, followed, opened []string) (*Node, error) {
	root := &Node{Kind: KindGroup, Label: "/"}

	mine, err := p.listGroup(ctx, gist.ListScope{}, gist.GroupMine, false)
	if err != nil {
		return nil, fmt.Errorf("could not list owned gists: %w", err)
	}
	// the owned listing tells us who the authenticated user is
	self := ""
	for _, node := range mine {
		if node.Gist.Owner != nil {
			self = node.Gist.Owner.Login
			break
		}
	}
	root.Children = append(root.Children, &Node{
		Kind:     KindGroup,
		Label:    LabelMyGists,
		Group:    gist.GroupMine,
		Children: mine,
	})

	starred, err := p.listGroup(ctx, gist.ListScope{Starred: true}, gist.GroupStarred, true)
	if err != nil {
		p.log.Errorf("could not list starred gists: %s", err)
	} else {
		root.Children = append(root.Children, &Node{
			Kind:     KindGroup,
			Label:    LabelStarredGists,
			Group:    gist.GroupStarred,
			Children: starred,
		})
	}

	if len(followed) > 0 {
		followedGroup := &Node{Kind: KindGroup, Label: LabelFollowed, Group: gist.GroupFollowed}
		for _, login := range followed {
			children, err := p.listGroup(ctx, gist.ListScope{User: login}, gist.GroupFollowed, true)
			if err != nil {
				p.log.Errorf("could not list gists of %s: %s", login, err)
				continue
			}
			followedGroup.Children = append(followedGroup.Children, &Node{
				Kind:     KindOwner,
				Label:    login,
				Owner:    login,
				Group:    gist.GroupFollowed,
				ReadOnly: true,
				Children: children,
			})
		}
		root.Children = append(root.Children, followedGroup)
	}

	if len(opened) > 0 {
		openedGroup := &Node{Kind: KindGroup, Label: LabelOpened, Group: gist.GroupOpened}
		for _, id := range opened {
			g, err := p.gw.Gist(ctx, id)
			if err != nil {
				p.log.Errorf("could not open gist %s: %s", id, err)
				continue
			}
			// an opened gist stays writable when the user owns it
			readOnly := self == "" || g.Owner == nil || !strings.EqualFold(g.Owner.Login, self)
			rec := &gist.Record{Gist: g, ReadOnly: readOnly, Group: gist.GroupOpened}
			p.store.Upsert(rec)
			openedGroup.Children = append(openedGroup.Children, p.gistNode(rec))
		}
		sortGists(openedGroup.Children, p.SortBy, p.Direction)
		root.Children = append(root.Children, openedGroup)
	}

	return root, nil
}

func (p *Provider) listGroup(ctx context.Context, scope gist.ListScope, group gist.Group, readOnly bool) ([]*Node, error) {
	gists, err := p.gw.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	nodes := make([]*Node, 0, len(gists))
	for _, g := range gists {
		rec := &gist.Record{Gist: g, ReadOnly: readOnly, Group: group}
		p.store.Upsert(rec)
		nodes = append(nodes, p.gistNode(rec))
	}
	sortGists(nodes, p.SortBy, p.Direction)
	return nodes, nil
}

func (p *Provider) gistNode(rec *gist.Record) *Node {
	g := rec.Gist
	label := g.Description
	if label == "" {
		label = g.ID
	}
	node := &Node{
		Kind:     KindGist,
		Label:    label,
		Group:    rec.Group,
		Gist:     g,
		ReadOnly: rec.ReadOnly,
	}
	for _, name := range g.Filenames() {
		node.Children = append(node.Children, &Node{
			Kind:     KindFile,
			Label:    name,
			Group:    rec.Group,
			Gist:     g,
			File:     g.File(name),
			ReadOnly: rec.ReadOnly,
		})
	}
	sortFiles(node.Children)
	return node
}
