package inspect

import (
	"net/http"
	"sort"
	"strings"

	"github.com/vitalvas/skyway/dispatch"
	"gopkg.in/yaml.v3"
)

// RouteInfo describes one sealed route.
type RouteInfo struct {
	Name    string   `yaml:"name,omitempty"`
	Methods []string `yaml:"methods,omitempty"`
	Pattern string   `yaml:"pattern"`
	Rank    int      `yaml:"rank"`
}

// CatcherInfo describes one registered catcher. The built-in defaults
// are not listed; they exist for every well-known error status.
type CatcherInfo struct {
	// Status is the caught status code, or "any" for cross-status
	// catchers.
	Status string `yaml:"status"`

	// ErrorKey is the error-type filter, empty when the catcher matches
	// any error.
	ErrorKey string `yaml:"error_key,omitempty"`
}

// Document is the YAML-serializable description of a sealed app: its
// route table in candidate order and its registered catchers.
type Document struct {
	Routes   []RouteInfo   `yaml:"routes"`
	Catchers []CatcherInfo `yaml:"catchers,omitempty"`
}

// Describe builds a Document from a sealed app. Routes appear in
// candidate order (rank ascending, then registration order); catchers
// are sorted by status then error key. An unsealed app yields an empty
// document.
func Describe(app *dispatch.App) Document {
	var doc Document

	for _, route := range app.Table().Routes() {
		doc.Routes = append(doc.Routes, RouteInfo{
			Name:    route.GetName(),
			Methods: route.GetMethods(),
			Pattern: route.GetPattern(),
			Rank:    route.GetRank(),
		})
	}

	for _, info := range app.Catchers().Registered() {
		status := "any"
		if info.Status != dispatch.AnyStatus {
			status = info.Status.String()
		}
		doc.Catchers = append(doc.Catchers, CatcherInfo{
			Status:   status,
			ErrorKey: string(info.Key),
		})
	}

	sort.Slice(doc.Catchers, func(i, j int) bool {
		if doc.Catchers[i].Status != doc.Catchers[j].Status {
			return doc.Catchers[i].Status < doc.Catchers[j].Status
		}
		return doc.Catchers[i].ErrorKey < doc.Catchers[j].ErrorKey
	})

	return doc
}

// YAML serializes the document.
func (d Document) YAML() ([]byte, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// Handler returns an http.Handler serving the app description as YAML,
// suitable for mounting on a diagnostics endpoint. The document is
// rendered once, when the handler is created; register it after Seal.
func Handler(app *dispatch.App) http.Handler {
	body, err := Describe(app).YAML()

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	})
}
