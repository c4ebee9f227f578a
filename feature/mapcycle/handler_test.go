package mapcycle

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"mapcycle-sync/core/reconcile"
	"mapcycle-sync/core/steam"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, fetcher Fetcher, opts SyncOptions) *fiber.App {
	app := fiber.New()
	svc := NewService(fetcher, nil, nil, nil, zap.NewNop())
	handler := NewHandler(svc, opts, 0)
	handler.RegisterRoutes(app)
	return app
}

func decode(t *testing.T, r io.Reader, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(v))
}

func TestHandlePlan(t *testing.T) {
	path := writeMapcycle(t, "cp_a\n")
	app := setupTestApp(t, newFetcher(), syncOptions(path))

	resp, err := app.Test(httptest.NewRequest("GET", "/mapcycle/plan", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body SyncReport
	decode(t, resp.Body, &body)
	assert.True(t, body.DryRun)
	assert.False(t, body.Written)
	require.Len(t, body.Result.Added, 1)
	assert.Equal(t, "workshop/foo.ugc2", body.Result.Added[0].Token())
	assert.Equal(t, "cp_a\n", readFile(t, path))
}

func TestHandleSync(t *testing.T) {
	path := writeMapcycle(t, "cp_a\n")
	app := setupTestApp(t, newFetcher(), syncOptions(path))

	resp, err := app.Test(httptest.NewRequest("POST", "/mapcycle/sync?dry_run=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "cp_a\n", readFile(t, path))

	resp, err = app.Test(httptest.NewRequest("POST", "/mapcycle/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body SyncReport
	decode(t, resp.Body, &body)
	assert.True(t, body.Written)
	assert.Equal(t, "cp_a\n\n// Imported workshop maps\nworkshop/foo.ugc2\n", readFile(t, path))
}

func TestHandleDuplicates(t *testing.T) {
	path := writeMapcycle(t, "pl_badwater\nworkshop/badwater.ugc5\n")
	app := setupTestApp(t, nil, syncOptions(path))

	resp, err := app.Test(httptest.NewRequest("GET", "/mapcycle/duplicates", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Duplicates []reconcile.DuplicateGroup `json:"duplicates"`
	}
	decode(t, resp.Body, &body)
	require.Len(t, body.Duplicates, 1)
	assert.Equal(t, "badwater", body.Duplicates[0].Key)
}

func TestHandleSync_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		fetcher Fetcher
		mutate  func(*SyncOptions)
		want    int
	}{
		{
			name:    "InvalidFilter",
			content: "cp_a\n",
			fetcher: newFetcher(),
			mutate: func(o *SyncOptions) {
				o.Filter = reconcile.NewFilterSpec([]string{"A"}, []string{"A"})
			},
			want: fiber.StatusBadRequest,
		},
		{
			name:    "NoCollections",
			content: "cp_a\n",
			fetcher: newFetcher(),
			mutate:  func(o *SyncOptions) { o.Collections = nil },
			want:    fiber.StatusBadRequest,
		},
		{
			name:    "ParseError",
			content: "workshop/\n",
			fetcher: newFetcher(),
			want:    fiber.StatusUnprocessableEntity,
		},
		{
			name:    "FetchError",
			content: "cp_a\n",
			fetcher: &fakeFetcher{err: &steam.FetchError{Op: "GetCollectionDetails", CollectionID: 100, Status: 503, Err: errors.New("unavailable")}},
			want:    fiber.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeMapcycle(t, tt.content)
			opts := syncOptions(path)
			if tt.mutate != nil {
				tt.mutate(&opts)
			}
			app := setupTestApp(t, tt.fetcher, opts)

			resp, err := app.Test(httptest.NewRequest("POST", "/mapcycle/sync", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			var body map[string]any
			decode(t, resp.Body, &body)
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, tt.content, readFile(t, path))
		})
	}
}
