package buffer

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Row is a single line of document text stored as extended grapheme
// clusters. Column arithmetic on a Row is always in cluster units; the
// render-width helpers exist only for mapping clusters to screen cells.
type Row struct {
	clusters []string
	dirty    bool

	// cached render width, invalidated on mutation
	width    int
	widthTab int
	widthOK  bool
}

func NewRow(text string) *Row {
	return &Row{clusters: splitClusters(text), dirty: true}
}

func splitClusters(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Len returns the number of grapheme clusters in the row.
func (r *Row) Len() int {
	return len(r.clusters)
}

func (r *Row) String() string {
	var sb strings.Builder
	for _, c := range r.clusters {
		sb.WriteString(c)
	}
	return sb.String()
}

// Clusters returns a copy of the row's grapheme clusters.
func (r *Row) Clusters() []string {
	out := make([]string, len(r.clusters))
	copy(out, r.clusters)
	return out
}

// Cluster returns the grapheme cluster at col. Callers must keep
// col < Len(); the Store accessors enforce row bounds.
func (r *Row) Cluster(col int) string {
	return r.clusters[col]
}

// Text returns the row content between cluster columns [start, end).
func (r *Row) Text(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(r.clusters) {
		end = len(r.clusters)
	}
	if start >= end {
		return ""
	}
	var sb strings.Builder
	for _, c := range r.clusters[start:end] {
		sb.WriteString(c)
	}
	return sb.String()
}

func (r *Row) splice(col int, clusters []string) {
	tail := make([]string, len(r.clusters[col:]))
	copy(tail, r.clusters[col:])
	r.clusters = append(r.clusters[:col], append(clusters, tail...)...)
	r.invalidate()
}

func (r *Row) cut(start, end int) []string {
	removed := make([]string, end-start)
	copy(removed, r.clusters[start:end])
	r.clusters = append(r.clusters[:start], r.clusters[end:]...)
	r.invalidate()
	return removed
}

func (r *Row) invalidate() {
	r.dirty = true
	r.widthOK = false
}

// Dirty reports whether the row changed since the last ClearDirty.
// The highlighter uses this to re-tokenize only touched rows.
func (r *Row) Dirty() bool {
	return r.dirty
}

func (r *Row) ClearDirty() {
	r.dirty = false
}

// RenderWidth returns the total screen width of the row with tabs
// expanded to tabWidth stops. The result is cached until mutation.
func (r *Row) RenderWidth(tabWidth int) int {
	if r.widthOK && r.widthTab == tabWidth {
		return r.width
	}
	r.width = r.WidthTo(len(r.clusters), tabWidth)
	r.widthTab = tabWidth
	r.widthOK = true
	return r.width
}

// WidthTo returns the screen column of cluster column col. Tab stops
// depend on the accumulated width, so this walks from the line start.
func (r *Row) WidthTo(col int, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	if col > len(r.clusters) {
		col = len(r.clusters)
	}
	w := 0
	for i := 0; i < col; i++ {
		w += clusterWidth(r.clusters[i], w, tabWidth)
	}
	return w
}

// ColAt maps a screen column back to the nearest cluster column, used
// for mouse hit testing.
func (r *Row) ColAt(screenCol int, tabWidth int) int {
	w := 0
	for i, c := range r.clusters {
		cw := clusterWidth(c, w, tabWidth)
		if w+cw > screenCol {
			return i
		}
		w += cw
	}
	return len(r.clusters)
}

func clusterWidth(cluster string, screenCol, tabWidth int) int {
	if cluster == "\t" {
		return tabWidth - screenCol%tabWidth
	}
	w := runewidth.StringWidth(cluster)
	if w == 0 {
		if fw := uniseg.StringWidth(cluster); fw > 0 {
			w = fw
		}
	}
	return w
}
