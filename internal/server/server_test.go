package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/errors"
	pkgio "github.com/KubrakovDmitry/the-graph-visualizer/pkg/io"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph/transform"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/pipeline"
)

const warfarin = `{
  "name": "warfarin",
  "nodes": [
    {"id": "warfarin", "label": "group", "level": 0},
    {"id": "tablet", "label": "prepare", "level": 1},
    {"id": "dissolve", "label": "prepare", "level": 2},
    {"id": "absorb", "label": "prepare", "level": 3},
    {"id": "bleeding", "label": "side_e", "level": 4}
  ],
  "links": [
    {"source": "warfarin", "target": "tablet"},
    {"source": "tablet", "target": "dissolve"},
    {"source": "dissolve", "target": "absorb"},
    {"source": "absorb", "target": "bleeding"},
    {"source": "absorb", "target": "nowhere"}
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, logger)
	return New(runner, nil, logger, Options{Pipeline: pipeline.DefaultOptions()})
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func create(t *testing.T, s *Server) GraphInfo {
	t.Helper()
	w := do(t, s, http.MethodPost, "/api/graphs/", warfarin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[GraphInfo](t, w)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["graphs"])
}

func TestCreateAndGet(t *testing.T) {
	s := newTestServer(t)

	t.Run("create collapses chains and reports dropped links", func(t *testing.T) {
		info := create(t, s)
		assert.NotEmpty(t, info.ID)
		assert.Equal(t, "warfarin", info.Title)
		assert.Equal(t, 3, info.Nodes)
		assert.Equal(t, 2, info.Edges)
		assert.Equal(t, 5, info.Prepared.NodesBefore)
		require.Len(t, info.Prepared.Chains, 1)
		assert.Equal(t, transform.Chain{"tablet", "dissolve", "absorb"}, info.Prepared.Chains[0])

		var dropped int
		for _, d := range info.Diagnostics {
			if d.Kind == pkgio.KindDroppedEdge {
				dropped++
			}
		}
		assert.Equal(t, 1, dropped)
	})

	t.Run("collapse can be disabled per request", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/graphs/?collapse=false", warfarin)
		require.Equal(t, http.StatusCreated, w.Code)
		info := decode[GraphInfo](t, w)
		assert.Equal(t, 5, info.Nodes)
		assert.Empty(t, info.Prepared.Chains)
	})

	t.Run("get and list", func(t *testing.T) {
		info := create(t, s)
		w := do(t, s, http.MethodGet, "/api/graphs/"+info.ID, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, info.ID, decode[GraphInfo](t, w).ID)

		w = do(t, s, http.MethodGet, "/api/graphs/", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]GraphInfo](t, w), s.Len())
	})

	t.Run("malformed document", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/graphs/", `{"nodes": [`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errors.ErrCodeInvalidGraph, decode[ErrorResponse](t, w).Code)
	})

	t.Run("bad flag", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/graphs/?collapse=maybe", warfarin)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown graph", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/graphs/nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, errors.ErrCodeNotFound, decode[ErrorResponse](t, w).Code)
	})
}

func TestReplaceAndDelete(t *testing.T) {
	s := newTestServer(t)
	info := create(t, s)

	w := do(t, s, http.MethodPut, "/api/graphs/"+info.ID+"?collapse=false", warfarin)
	require.Equal(t, http.StatusOK, w.Code)
	replaced := decode[GraphInfo](t, w)
	assert.Equal(t, info.ID, replaced.ID)
	assert.Equal(t, 5, replaced.Nodes)

	w = do(t, s, http.MethodPost, "/api/graphs/"+info.ID+"/collapse", "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[transform.Result](t, w)
	assert.Equal(t, 3, res.NodesAfter)
	assert.Equal(t, 2, res.Collapsed())

	w = do(t, s, http.MethodDelete, "/api/graphs/"+info.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, s, http.MethodDelete, "/api/graphs/"+info.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, s.Len())
}

func TestLayout(t *testing.T) {
	s := newTestServer(t)
	id := create(t, s).ID

	t.Run("layered", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/graphs/"+id+"/layout", "")
		require.Equal(t, http.StatusOK, w.Code)
		doc := decode[pkgio.LayoutDocument](t, w)
		require.Len(t, doc.Nodes, 3)

		ys := map[string]float64{}
		for _, n := range doc.Nodes {
			ys[n.ID] = n.Y
			assert.False(t, n.Highlighted)
		}
		assert.Equal(t, map[string]float64{"warfarin": 0, "absorb": -600, "bleeding": -800}, ys)
	})

	t.Run("custom gap with highlight", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/graphs/"+id+"/layout?vgap=10&node=bleeding", "")
		require.Equal(t, http.StatusOK, w.Code)
		doc := decode[pkgio.LayoutDocument](t, w)
		assert.Equal(t, "bleeding", doc.Target)
		for _, n := range doc.Nodes {
			assert.True(t, n.Highlighted, n.ID)
		}
		for _, e := range doc.Edges {
			assert.True(t, e.Highlighted, e.From+"->"+e.To)
		}
	})

	t.Run("tree", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/graphs/"+id+"/layout?mode=tree", "")
		require.Equal(t, http.StatusOK, w.Code)
	})

	tests := []struct {
		name  string
		query string
		want  int
		code  errors.Code
	}{
		{"unknown mode", "?mode=radial", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad gap", "?hgap=-1", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"nan gap", "?hgap=NaN", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"infinite gap", "?vgap=Inf", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown node", "?node=aspirin", http.StatusNotFound, errors.ErrCodeNodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodGet, "/api/graphs/"+id+"/layout"+tt.query, "")
			require.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, w).Code)
		})
	}
}

func TestPaths(t *testing.T) {
	s := newTestServer(t)
	id := create(t, s).ID

	w := do(t, s, http.MethodGet, "/api/graphs/"+id+"/paths?node=absorb", "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[PathsResponse](t, w)
	assert.Equal(t, "absorb", res.Target)
	assert.Equal(t, [][]string{{"warfarin", "absorb"}}, res.Ancestors)
	assert.Equal(t, [][]string{{"absorb", "bleeding"}}, res.Descendants)
	assert.ElementsMatch(t, []string{"warfarin", "absorb", "bleeding"}, res.Highlight.Nodes)

	w = do(t, s, http.MethodGet, "/api/graphs/"+id+"/paths?node=warfarin&max_depth=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [][]string{{"warfarin", "absorb"}}, decode[PathsResponse](t, w).Descendants)

	w = do(t, s, http.MethodGet, "/api/graphs/"+id+"/paths?node=absorb&max_depth=x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/api/graphs/"+id+"/paths", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/api/graphs/"+id+"/paths?node=aspirin", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errors.ErrCodeNodeNotFound, decode[ErrorResponse](t, w).Code)
}

func TestShortest(t *testing.T) {
	s := newTestServer(t)
	id := create(t, s).ID

	w := do(t, s, http.MethodGet, "/api/graphs/"+id+"/shortest?node=bleeding", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Target string   `json:"target"`
		Path   []string `json:"path"`
	}](t, w)
	assert.Equal(t, []string{"warfarin", "absorb", "bleeding"}, body.Path)
}

func TestRender(t *testing.T) {
	s := newTestServer(t)
	id := create(t, s).ID

	w := do(t, s, http.MethodGet, "/api/graphs/"+id+"/render?format=dot&node=bleeding", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/vnd.graphviz")
	assert.Contains(t, w.Body.String(), `"absorb" -> "bleeding" [color=black, penwidth=2];`)

	w = do(t, s, http.MethodGet, "/api/graphs/"+id+"/render?format=json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	w = do(t, s, http.MethodGet, "/api/graphs/"+id+"/render?format=gif", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.ErrCodeInvalidFormat, decode[ErrorResponse](t, w).Code)
}

func TestSelect(t *testing.T) {
	s := newTestServer(t)
	id := create(t, s).ID
	url := "/api/graphs/" + id + "/select"

	w := do(t, s, http.MethodPost, url, `{"node": "absorb"}`)
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[SelectResponse](t, w)
	require.NotEmpty(t, first.Session)
	assert.Equal(t, "absorb", first.Selected)
	assert.Len(t, first.Highlight.Nodes, 3)

	steps := []struct {
		name string
		body string
		want string
	}{
		{"click another node", `{"x": 0, "y": -800}`, "bleeding"},
		{"click empty space", `{"x": 500, "y": 500}`, "bleeding"},
		{"click the selected node", `{"x": 3, "y": -797}`, ""},
		{"select by id", `{"node": "warfarin"}`, "warfarin"},
		{"reset", `{"reset": true}`, ""},
	}
	for _, st := range steps {
		body := strings.Replace(st.body, "{", `{"session": "`+first.Session+`", `, 1)
		w := do(t, s, http.MethodPost, url, body)
		require.Equal(t, http.StatusOK, w.Code, st.name)
		resp := decode[SelectResponse](t, w)
		assert.Equal(t, first.Session, resp.Session, st.name)
		assert.Equal(t, st.want, resp.Selected, st.name)
		if st.want == "" {
			assert.Empty(t, resp.Highlight.Nodes, st.name)
		}
	}

	w = do(t, s, http.MethodPost, url, `{"session": "missing", "node": "absorb"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errors.ErrCodeSessionNotFound, decode[ErrorResponse](t, w).Code)

	other := create(t, s).ID
	w = do(t, s, http.MethodPost, "/api/graphs/"+other+"/select", `{"session": "`+first.Session+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, url, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoadAndReloadFile(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "warfarin.json")
	require.NoError(t, os.WriteFile(path, []byte(warfarin), 0o644))

	id, err := s.LoadFile(ctx, path)
	require.NoError(t, err)
	again, err := s.LoadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []string{path}, s.Paths())

	grown := bytes.Replace([]byte(warfarin), []byte(`"level": 4}`), []byte(`"level": 4},
    {"id": "aspirin", "label": "group", "level": 0}`), 1)
	require.NoError(t, os.WriteFile(path, grown, 0o644))
	require.NoError(t, s.ReloadFile(ctx, path))

	w := do(t, s, http.MethodGet, "/api/graphs/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[GraphInfo](t, w).Nodes)

	err = s.ReloadFile(ctx, filepath.Join(t.TempDir(), "other.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	_, err = s.LoadFile(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeInvalidPath, http.StatusBadRequest},
		{errors.ErrCodeNodeNotFound, http.StatusNotFound},
		{errors.ErrCodeSessionNotFound, http.StatusNotFound},
		{errors.ErrCodeUnsupported, http.StatusNotImplemented},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.code), string(tt.code))
	}
}
