package inspect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/skyway/dispatch"
)

func okHandler(context.Context, *http.Request) dispatch.Outcome {
	return dispatch.Success(dispatch.Text(dispatch.StatusOK, "ok"))
}

func buildApp(t *testing.T) *dispatch.App {
	t.Helper()

	app := dispatch.New()
	app.HandleFunc("/items/<id>", okHandler).Methods(http.MethodGet).Name("item")
	app.HandleFunc("/items/all", okHandler).Methods(http.MethodGet).Name("all")
	app.HandleFunc("/files/<path..>", okHandler).Methods(http.MethodGet)

	require.NoError(t, app.CatchFunc(dispatch.StatusNotFound, dispatch.NoErrorKey,
		func(_ context.Context, status dispatch.Status, _ *dispatch.TypedError, _ *http.Request) *dispatch.Response {
			return dispatch.Text(status, "missing")
		}))
	require.NoError(t, app.CatchFunc(dispatch.AnyStatus, "store.timeout",
		func(_ context.Context, status dispatch.Status, _ *dispatch.TypedError, _ *http.Request) *dispatch.Response {
			return dispatch.Text(status, "timeout")
		}))
	require.NoError(t, app.Seal())
	return app
}

func TestDescribe(t *testing.T) {
	doc := Describe(buildApp(t))

	require.Len(t, doc.Routes, 3)

	// Candidate order: the static route first, then the dynamic ones by
	// rank, FIFO within equal ranks.
	assert.Equal(t, "all", doc.Routes[0].Name)
	assert.Equal(t, "/items/all", doc.Routes[0].Pattern)
	assert.Equal(t, -4, doc.Routes[0].Rank)

	assert.Equal(t, "item", doc.Routes[1].Name)
	assert.Equal(t, -1, doc.Routes[1].Rank)

	assert.Equal(t, "/files/<path..>", doc.Routes[2].Pattern)

	require.Len(t, doc.Catchers, 2)
	assert.Equal(t, CatcherInfo{Status: "404 Not Found"}, doc.Catchers[0])
	assert.Equal(t, CatcherInfo{Status: "any", ErrorKey: "store.timeout"}, doc.Catchers[1])
}

func TestDescribeUnsealed(t *testing.T) {
	app := dispatch.New()
	app.HandleFunc("/", okHandler)

	doc := Describe(app)
	assert.Empty(t, doc.Routes)
}

func TestDocumentYAML(t *testing.T) {
	out, err := Describe(buildApp(t)).YAML()
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "pattern: /items/<id>")
	assert.Contains(t, text, "name: item")
	assert.Contains(t, text, "status: 404 Not Found")
	assert.Contains(t, text, "error_key: store.timeout")
}

func TestHandler(t *testing.T) {
	handler := Handler(buildApp(t))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/routes", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "routes:")
}
