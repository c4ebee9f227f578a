package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"mapcycle-sync/core/reconcile"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// detailsBatchSize caps the IDs sent in one GetPublishedFileDetails call.
const detailsBatchSize = 100

// Client fetches workshop collections from the Steam Web API.
type Client struct {
	http        *http.Client
	baseURL     string
	apiKey      string
	retries     int
	concurrency int
	backoff     time.Duration
	logger      *zap.Logger
}

// NewClient creates a Steam Web API client.
// It fails with ErrAPIKeyRequired when no API key is configured.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrAPIKeyRequired
	}

	// Ensure defaults if not set
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.steampowered.com"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		http:        &http.Client{Timeout: time.Duration(timeout) * time.Second},
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		retries:     retries,
		concurrency: concurrency,
		backoff:     500 * time.Millisecond,
		logger:      logger,
	}, nil
}

// FetchSnapshots fetches every collection and returns the snapshots in the order
// of ids, regardless of which request finishes first. The first failure cancels
// the remaining requests and is returned; no partial result is produced.
func (c *Client) FetchSnapshots(ctx context.Context, ids []uint64) ([]reconcile.Snapshot, error) {
	snapshots := make([]reconcile.Snapshot, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			items, err := c.FetchCollection(gctx, id)
			if err != nil {
				return err
			}
			snapshots[i] = reconcile.Snapshot{CollectionID: id, Items: items}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snapshots, nil
}

// FetchCollection returns the items of a collection in collection order.
// Maps carry their title and tags; other children only their ID and type.
func (c *Client) FetchCollection(ctx context.Context, id uint64) ([]reconcile.CollectionItem, error) {
	form := url.Values{}
	form.Set("collectioncount", "1")
	form.Set("publishedfileids[0]", strconv.FormatUint(id, 10))

	var resp collectionDetailsResponse
	if err := c.post(ctx, "GetCollectionDetails", form, &resp); err != nil {
		return nil, &FetchError{Op: "GetCollectionDetails", CollectionID: id, Status: statusOf(err), Err: err}
	}

	var collection *collectionDetails
	for i := range resp.Response.CollectionDetails {
		if uint64(resp.Response.CollectionDetails[i].PublishedFileID) == id {
			collection = &resp.Response.CollectionDetails[i]
			break
		}
	}
	if collection == nil {
		return nil, &FetchError{Op: "GetCollectionDetails", CollectionID: id, Err: errors.New("collection missing from response")}
	}
	if collection.Result != resultOK {
		return nil, &FetchError{Op: "GetCollectionDetails", CollectionID: id, Err: &resultError{id: id, result: collection.Result}}
	}

	children := make([]collectionChild, len(collection.Children))
	copy(children, collection.Children)
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].SortOrder < children[j].SortOrder
	})

	var mapIDs []uint64
	for _, child := range children {
		if child.FileType == fileTypeMap {
			mapIDs = append(mapIDs, uint64(child.PublishedFileID))
		}
	}

	details, err := c.fetchDetails(ctx, mapIDs)
	if err != nil {
		return nil, &FetchError{Op: "GetPublishedFileDetails", CollectionID: id, Status: statusOf(err), Err: err}
	}

	items := make([]reconcile.CollectionItem, 0, len(children))
	for _, child := range children {
		childID := uint64(child.PublishedFileID)
		if child.FileType != fileTypeMap {
			items = append(items, reconcile.CollectionItem{ID: childID, Type: reconcile.ItemOther})
			continue
		}

		d, ok := details[childID]
		if !ok || d.Result != resultOK {
			// Left out of the snapshot, so a mapcycle entry for it is removed
			c.logger.Warn("Skipping unavailable workshop item, it will be dropped from the mapcycle",
				zap.Uint64("collection", id),
				zap.Uint64("item", childID),
				zap.Int("result", d.Result),
			)
			continue
		}

		tags := make([]string, 0, len(d.Tags))
		for _, t := range d.Tags {
			tags = append(tags, t.Tag)
		}
		items = append(items, reconcile.CollectionItem{
			ID:    childID,
			Title: d.Title,
			Type:  reconcile.ItemMap,
			Tags:  tags,
		})
	}

	c.logger.Debug("Fetched workshop collection",
		zap.Uint64("collection", id),
		zap.Int("children", len(children)),
		zap.Int("maps", len(mapIDs)),
	)

	return items, nil
}

// fetchDetails resolves published file details in batches.
func (c *Client) fetchDetails(ctx context.Context, ids []uint64) (map[uint64]publishedFileDetails, error) {
	details := make(map[uint64]publishedFileDetails, len(ids))

	for start := 0; start < len(ids); start += detailsBatchSize {
		end := min(start+detailsBatchSize, len(ids))
		batch := ids[start:end]

		form := url.Values{}
		form.Set("itemcount", strconv.Itoa(len(batch)))
		for i, id := range batch {
			form.Set(fmt.Sprintf("publishedfileids[%d]", i), strconv.FormatUint(id, 10))
		}

		var resp publishedFileDetailsResponse
		if err := c.post(ctx, "GetPublishedFileDetails", form, &resp); err != nil {
			return nil, err
		}
		for _, d := range resp.Response.PublishedFileDetails {
			details[uint64(d.PublishedFileID)] = d
		}
	}

	return details, nil
}

// post calls an ISteamRemoteStorage method, retrying retryable failures.
func (c *Client) post(ctx context.Context, method string, form url.Values, out any) error {
	form.Set("key", c.apiKey)
	form.Set("format", "json")
	endpoint := c.baseURL + "/ISteamRemoteStorage/" + method + "/v1/"

	var err error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("Retrying Steam request",
				zap.String("method", method),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}

		err = c.do(ctx, endpoint, form, out)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !retryable(err) {
			return err
		}
	}
	return err
}

func (c *Client) do(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &statusError{code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusOf(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.code
	}
	return 0
}

// ParseCollectionID accepts a numeric collection ID or a Steam Community URL
// carrying it in the "id" query parameter.
func ParseCollectionID(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseUint(s, 10, 64); err == nil && id != 0 {
		return id, nil
	}

	u, err := url.Parse(s)
	if err == nil && u.Host != "" {
		if id, err := strconv.ParseUint(u.Query().Get("id"), 10, 64); err == nil && id != 0 {
			return id, nil
		}
	}
	return 0, fmt.Errorf("invalid collection id %q", s)
}

// ParseCollectionIDs parses every value with ParseCollectionID, dropping blanks
// and repeated IDs while keeping the first-seen order.
func ParseCollectionIDs(values []string) ([]uint64, error) {
	seen := make(map[uint64]struct{}, len(values))
	ids := make([]uint64, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		id, err := ParseCollectionID(v)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
