package document

import (
	"strings"

	"github.com/kobzarvs/oxed/internal/buffer"
)

// SearchIter walks matches lazily, one row per Next step at most, so a
// large buffer's search can interleave with rendering. Iterators are
// restartable only by calling Search again; abandoning one needs no
// cleanup since each step commits nothing.
type SearchIter struct {
	doc     *Document
	query   []string // query as grapheme clusters
	pos     buffer.Position
	wrapped bool
	origin  buffer.Position
}

// Search returns an iterator over matches of query, starting after the
// cursor and wrapping once past the end.
func (d *Document) Search(query string) *SearchIter {
	return &SearchIter{
		doc:    d,
		query:  buffer.NewRow(query).Clusters(),
		pos:    d.cursor,
		origin: d.cursor,
	}
}

// Next returns the next match position, or ok=false when the search
// space is exhausted.
func (it *SearchIter) Next() (buffer.Position, bool) {
	if len(it.query) == 0 {
		return buffer.Position{}, false
	}
	for {
		row, err := it.doc.store.Row(it.pos.Row)
		if err != nil {
			return buffer.Position{}, false
		}
		if col, found := matchInRow(row, it.query, it.pos.Col); found {
			match := buffer.Position{Row: it.pos.Row, Col: col}
			if it.wrapped && !match.Before(it.origin) {
				return buffer.Position{}, false
			}
			it.pos = buffer.Position{Row: it.pos.Row, Col: col + 1}
			return match, true
		}
		it.pos.Row++
		it.pos.Col = 0
		if it.pos.Row >= it.doc.store.Len() {
			if it.wrapped {
				return buffer.Position{}, false
			}
			it.wrapped = true
			it.pos = buffer.Position{}
		}
		if it.wrapped && it.pos.Row > it.origin.Row {
			return buffer.Position{}, false
		}
	}
}

func matchInRow(row *buffer.Row, query []string, from int) (int, bool) {
	n := row.Len()
	for col := from; col+len(query) <= n; col++ {
		hit := true
		for i, q := range query {
			if row.Cluster(col+i) != q {
				hit = false
				break
			}
		}
		if hit {
			return col, true
		}
	}
	return 0, false
}

// FindAll collects every match position in document order, starting
// from the top regardless of the cursor.
func (d *Document) FindAll(query string) []buffer.Position {
	saved := d.cursor
	d.cursor = buffer.Position{}
	it := d.Search(query)
	d.cursor = saved
	var out []buffer.Position
	for {
		pos, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, pos)
	}
}

// TakeDirty reports and clears the dirtied row span for the
// highlighter pull. ok is false when no row changed since last call.
func (d *Document) TakeDirty() (start, end int, ok bool) {
	return d.store.DirtyRange()
}

// Text returns the whole buffer joined with "\n" regardless of the
// on-disk terminator, which is what the highlighter parses.
func (d *Document) Text() string {
	return strings.Join(d.store.Lines(), "\n")
}

// LineCount is the number of rows.
func (d *Document) LineCount() int {
	return d.store.Len()
}
