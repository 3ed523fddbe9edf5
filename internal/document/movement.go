package document

import (
	"unicode"

	"github.com/kobzarvs/oxed/internal/buffer"
)

// Movement clamps at buffer edges instead of erroring: it originates
// from key repeats and running into an edge is routine.

func (d *Document) MoveLeft() {
	if d.cursor.Col > 0 {
		d.cursor.Col--
	} else if d.cursor.Row > 0 {
		d.cursor.Row--
		row, _ := d.store.Row(d.cursor.Row)
		d.cursor.Col = row.Len()
	}
	d.stickyCol = d.cursor.Col
}

func (d *Document) MoveRight() {
	row, _ := d.store.Row(d.cursor.Row)
	if d.cursor.Col < row.Len() {
		d.cursor.Col++
	} else if d.cursor.Row < d.store.Len()-1 {
		d.cursor.Row++
		d.cursor.Col = 0
	}
	d.stickyCol = d.cursor.Col
}

func (d *Document) MoveUp() {
	if d.cursor.Row == 0 {
		return
	}
	d.cursor.Row--
	d.snapToSticky()
}

func (d *Document) MoveDown() {
	if d.cursor.Row >= d.store.Len()-1 {
		return
	}
	d.cursor.Row++
	d.snapToSticky()
}

func (d *Document) snapToSticky() {
	row, _ := d.store.Row(d.cursor.Row)
	d.cursor.Col = d.stickyCol
	if d.cursor.Col > row.Len() {
		d.cursor.Col = row.Len()
	}
}

func (d *Document) MoveLineStart() {
	d.cursor.Col = 0
	d.stickyCol = 0
}

func (d *Document) MoveLineEnd() {
	row, _ := d.store.Row(d.cursor.Row)
	d.cursor.Col = row.Len()
	d.stickyCol = d.cursor.Col
}

func (d *Document) MoveFileStart() {
	d.SetCursor(buffer.Position{})
}

func (d *Document) MoveFileEnd() {
	last := d.store.Len() - 1
	row, _ := d.store.Row(last)
	d.SetCursor(buffer.Position{Row: last, Col: row.Len()})
}

func (d *Document) MovePageUp(height int) {
	if height < 1 {
		height = 1
	}
	d.cursor.Row -= height
	if d.cursor.Row < 0 {
		d.cursor.Row = 0
	}
	d.snapToSticky()
}

func (d *Document) MovePageDown(height int) {
	if height < 1 {
		height = 1
	}
	d.cursor.Row += height
	if d.cursor.Row >= d.store.Len() {
		d.cursor.Row = d.store.Len() - 1
	}
	d.snapToSticky()
}

// MoveWordLeft steps to the start of the previous word, crossing row
// boundaries like a single long line.
func (d *Document) MoveWordLeft() {
	d.MoveLeft()
	for d.atSpace() && !d.atFileStart() {
		d.MoveLeft()
	}
	for !d.atFileStart() && d.cursor.Col > 0 && !spaceBefore(d) {
		d.cursor.Col--
	}
	d.stickyCol = d.cursor.Col
}

// MoveWordRight steps past the current word and any following spaces.
func (d *Document) MoveWordRight() {
	for !d.atSpace() && !d.atRowEnd() {
		d.cursor.Col++
	}
	for (d.atSpace() || d.atRowEnd()) && !d.atFileEnd() {
		d.MoveRight()
		if d.cursor.Col == 0 {
			break
		}
	}
	d.stickyCol = d.cursor.Col
}

func (d *Document) atFileStart() bool {
	return d.cursor.Row == 0 && d.cursor.Col == 0
}

func (d *Document) atFileEnd() bool {
	row, _ := d.store.Row(d.cursor.Row)
	return d.cursor.Row == d.store.Len()-1 && d.cursor.Col == row.Len()
}

func (d *Document) atRowEnd() bool {
	row, _ := d.store.Row(d.cursor.Row)
	return d.cursor.Col >= row.Len()
}

func (d *Document) atSpace() bool {
	row, _ := d.store.Row(d.cursor.Row)
	if d.cursor.Col >= row.Len() {
		return false
	}
	return isSpace(row.Cluster(d.cursor.Col))
}

func spaceBefore(d *Document) bool {
	row, _ := d.store.Row(d.cursor.Row)
	if d.cursor.Col == 0 || d.cursor.Col-1 >= row.Len() {
		return true
	}
	return isSpace(row.Cluster(d.cursor.Col - 1))
}

func isSpace(cluster string) bool {
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return cluster != ""
}
