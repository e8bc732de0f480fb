// Package github implements the gist gateway over the GitHub REST API.
//
// The client owns everything network-related: token authentication, ETag
// caching of GET requests (a 304 revalidation does not count against the API
// rate limit), and pagination of listings. Callers never see those concerns.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/cozy/httpcache"
	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"

	"github.com/gistfs/gistfs/model/gist"
	build "github.com/gistfs/gistfs/pkg/config"
	"github.com/gistfs/gistfs/pkg/logger"
	"github.com/gistfs/gistfs/pkg/safehttp"
)

// DefaultBaseURL is the root of the GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

const (
	acceptJSON = "application/vnd.github+json"
	// acceptBase64 asks GitHub to return file content base64-encoded, so
	// that binary-ish text survives the JSON transport untouched.
	acceptBase64 = "application/vnd.github.base64+json"
)

// listPageSize is the page size used when enumerating gists.
const listPageSize = 100

// Options are the parameters to build a Client.
type Options struct {
	Token   string
	BaseURL string
	Logger  logger.Logger

	// Client overrides the http client, used by tests.
	Client *http.Client
}

// Client calls the GitHub gists API. It implements gist.Gateway.
type Client struct {
	base *url.URL
	http *http.Client
	log  logger.Logger
}

var _ gist.Gateway = (*Client)(nil)

// New builds a client for the given token.
func New(opts Options) (*Client, error) {
	rawURL := opts.BaseURL
	if rawURL == "" {
		rawURL = DefaultBaseURL
	}
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("github: invalid base URL %q: %w", rawURL, err)
	}
	log := opts.Logger
	if log == nil {
		log = logger.WithNamespace("github")
	}
	client := opts.Client
	if client == nil {
		cache := httpcache.NewMemoryCacheTransport(32)
		cache.Transport = safehttp.KeepAliveTransport
		client = &http.Client{
			Timeout: time.Minute,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
				Base:   cache,
			},
		}
	}
	return &Client{base: base, http: client, log: log}, nil
}

// Gist fetches one gist with the full base64-encoded content of its files.
func (c *Client) Gist(ctx context.Context, id string) (*gist.Gist, error) {
	var g gist.Gist
	err := c.do(ctx, http.MethodGet, "/gists/"+id, acceptBase64, nil, &g)
	if err != nil {
		return nil, c.remoteErr("fetch", id, err)
	}
	for _, f := range g.Files {
		if f.Content != "" {
			f.Encoding = gist.EncodingBase64
		}
	}
	return &g, nil
}

// List enumerates gists for the given scope, following pagination until the
// last page.
func (c *Client) List(ctx context.Context, scope gist.ListScope) ([]*gist.Gist, error) {
	path := "/gists"
	switch {
	case scope.Starred:
		path = "/gists/starred"
	case scope.User != "":
		path = "/users/" + url.PathEscape(scope.User) + "/gists"
	}

	var all []*gist.Gist
	for page := 1; ; page++ {
		opts := listOptions{Page: page, PerPage: listPageSize}
		values, err := query.Values(opts)
		if err != nil {
			return nil, err
		}
		var batch []*gist.Gist
		err = c.do(ctx, http.MethodGet, path+"?"+values.Encode(), acceptJSON, nil, &batch)
		if err != nil {
			return nil, c.remoteErr("list", "", err)
		}
		for _, g := range batch {
			g.Starred = scope.Starred
		}
		all = append(all, batch...)
		if len(batch) < listPageSize {
			return all, nil
		}
	}
}

// Create creates a new gist, letting the remote store assign the id.
func (c *Client) Create(ctx context.Context, description string, public bool, files map[string]string) (*gist.Gist, error) {
	payload := updatePayload{
		Description: description,
		Public:      &public,
		Files:       make(map[string]*fileUpdate, len(files)),
	}
	for name, content := range files {
		payload.Files[name] = &fileUpdate{Content: content}
	}
	var g gist.Gist
	if err := c.do(ctx, http.MethodPost, "/gists", acceptJSON, &payload, &g); err != nil {
		return nil, c.remoteErr("create", "", err)
	}
	return &g, nil
}

// UpsertFiles creates or replaces files in one call to the update endpoint.
func (c *Client) UpsertFiles(ctx context.Context, id string, files map[string]string) (*gist.Gist, error) {
	payload := updatePayload{Files: make(map[string]*fileUpdate, len(files))}
	for name, content := range files {
		payload.Files[name] = &fileUpdate{Content: content}
	}
	return c.update(ctx, "upsert", id, &payload)
}

// RenameFile renames one file, resubmitting its content alongside the name
// change as the update endpoint replaces the whole file object.
func (c *Client) RenameFile(ctx context.Context, id, oldName, newName, content string) (*gist.Gist, error) {
	payload := updatePayload{Files: map[string]*fileUpdate{
		oldName: {Filename: newName, Content: content},
	}}
	return c.update(ctx, "rename", id, &payload)
}

// DeleteFiles removes the named files. The update endpoint deletes a file
// when its value is null, so all deletions travel in a single request.
func (c *Client) DeleteFiles(ctx context.Context, id string, names []string) (*gist.Gist, error) {
	payload := updatePayload{Files: make(map[string]*fileUpdate, len(names))}
	for _, name := range names {
		payload.Files[name] = nil
	}
	return c.update(ctx, "delete files", id, &payload)
}

// Delete removes the whole gist.
func (c *Client) Delete(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/gists/"+id, acceptJSON, nil, nil)
	if err != nil {
		return c.remoteErr("delete", id, err)
	}
	return nil
}

func (c *Client) update(ctx context.Context, op, id string, payload *updatePayload) (*gist.Gist, error) {
	var g gist.Gist
	if err := c.do(ctx, http.MethodPatch, "/gists/"+id, acceptJSON, payload, &g); err != nil {
		return nil, c.remoteErr(op, id, err)
	}
	return &g, nil
}

type listOptions struct {
	Page    int `url:"page,omitempty"`
	PerPage int `url:"per_page,omitempty"`
}

type fileUpdate struct {
	Filename string `json:"filename,omitempty"`
	Content  string `json:"content,omitempty"`
}

type updatePayload struct {
	Description string                 `json:"description,omitempty"`
	Public      *bool                  `json:"public,omitempty"`
	Files       map[string]*fileUpdate `json:"files"`
}

// statusError carries a non-2xx response until remoteErr classifies it.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func (c *Client) do(ctx context.Context, method, path, accept string, body, out interface{}) error {
	u, err := c.base.Parse(path)
	if err != nil {
		return err
	}
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "gistfs "+build.Version+" ("+runtime.Version()+")")
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	c.log.Debugf("%s %s: %d (%s)", method, u.Path, res.StatusCode, time.Since(start))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return &statusError{code: res.StatusCode, body: string(bytes.TrimSpace(msg))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) remoteErr(op, id string, err error) error {
	if se, ok := err.(*statusError); ok {
		if se.code == http.StatusNotFound {
			if id == "" {
				return gist.ErrNotFound
			}
			return fmt.Errorf("gist %s: %w", id, gist.ErrNotFound)
		}
		return &gist.RemoteError{Op: op, GistID: id, StatusCode: se.code, Err: se}
	}
	return &gist.RemoteError{Op: op, GistID: id, Err: err}
}
