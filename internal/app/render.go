package app

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/oxed/internal/config"
	"github.com/kobzarvs/oxed/internal/highlight"
)

type styleSet struct {
	main          tcell.Style
	lineNum       tcell.Style
	lineNumActive tcell.Style
	status        tcell.Style
	command       tcell.Style
	selection     tcell.Style
	syntax        map[string]tcell.Style
}

func newStyleSet(t config.Theme) styleSet {
	fg := parseColor(t.Foreground, tcell.ColorDefault)
	bg := parseColor(t.Background, tcell.ColorDefault)
	main := tcell.StyleDefault.Foreground(fg).Background(bg)

	syntaxColor := func(name string) tcell.Style {
		return main.Foreground(parseColor(name, fg))
	}

	return styleSet{
		main: main,
		lineNum: main.
			Foreground(parseColor(t.LineNumberForeground, fg)),
		lineNumActive: main.
			Foreground(parseColor(t.LineNumberActiveForeground, fg)),
		status: tcell.StyleDefault.
			Foreground(parseColor(t.StatuslineForeground, fg)).
			Background(parseColor(t.StatuslineBackground, bg)),
		command: tcell.StyleDefault.
			Foreground(parseColor(t.CommandlineForeground, fg)).
			Background(parseColor(t.CommandlineBackground, bg)),
		selection: tcell.StyleDefault.
			Foreground(parseColor(t.SelectionForeground, fg)).
			Background(parseColor(t.SelectionBackground, bg)),
		syntax: map[string]tcell.Style{
			"keyword":     syntaxColor(t.SyntaxKeyword),
			"string":      syntaxColor(t.SyntaxString),
			"comment":     syntaxColor(t.SyntaxComment),
			"type":        syntaxColor(t.SyntaxType),
			"function":    syntaxColor(t.SyntaxFunction),
			"number":      syntaxColor(t.SyntaxNumber),
			"constant":    syntaxColor(t.SyntaxConstant),
			"operator":    syntaxColor(t.SyntaxOperator),
			"punctuation": syntaxColor(t.SyntaxPunctuation),
			"field":       syntaxColor(t.SyntaxField),
			"builtin":     syntaxColor(t.SyntaxBuiltin),
			"variable":    syntaxColor(t.SyntaxVariable),
		},
	}
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}

func (e *Editor) gutterWidth() int {
	if !e.lineNumbers {
		return 0
	}
	maxLine := e.doc.LineCount()
	if maxLine < 1 {
		maxLine = 1
	}
	digits := len(strconv.Itoa(maxLine))
	if digits < 2 {
		digits = 2
	}
	return 1 + digits + 1
}

// colAtScreen maps a screen column inside the text area back to a
// cluster column.
func (e *Editor) colAtScreen(row, screenCol int) int {
	if screenCol < 0 {
		return 0
	}
	r, err := e.doc.Store().Row(row)
	if err != nil {
		return 0
	}
	return r.ColAt(screenCol, e.tabWidth)
}

func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	statusY := h - 2
	cmdY := h - 1
	viewHeight := h - 2
	if h < 2 {
		statusY = h - 1
		viewHeight = 0
	}
	e.viewHeight = viewHeight
	e.width = w
	e.interp.SetViewHeight(viewHeight)
	e.UpdateScroll()

	spans := e.RefreshHighlights()

	s.SetStyle(e.styles.main)
	s.Clear()

	gutterWidth := e.gutterWidth()
	for y := 0; y < viewHeight; y++ {
		row := e.scroll + y
		if row >= e.doc.LineCount() {
			clearLine(s, y, w, e.styles.main)
			continue
		}
		e.drawRow(s, y, w, gutterWidth, row, spans[row])
	}

	if statusY >= 0 {
		e.renderStatusline(s, w, statusY)
	}
	var cx, cy int
	if cmdY > statusY {
		cx = e.renderCommandline(s, w, cmdY)
		cy = cmdY
	}

	if !e.promptActive {
		cur := e.doc.Cursor()
		cy = cur.Row - e.scroll
		if cy < 0 || cy >= viewHeight {
			s.HideCursor()
			s.Show()
			return
		}
		cx = gutterWidth
		if r, err := e.doc.Store().Row(cur.Row); err == nil {
			cx += r.WidthTo(cur.Col, e.tabWidth)
		}
		if cx >= w {
			cx = w - 1
		}
	}
	s.ShowCursor(cx, cy)
	s.Show()
}

func (e *Editor) drawRow(s tcell.Screen, y, w, gutterWidth, row int, spans []highlight.Span) {
	if gutterWidth > 0 {
		digits := gutterWidth - 2
		numStr := fmt.Sprintf("%*d", digits, row+1)
		style := e.styles.lineNum
		if row == e.doc.Cursor().Row {
			style = e.styles.lineNumActive
		}
		s.SetContent(0, y, ' ', nil, e.styles.main)
		for i, r := range numStr {
			x := 1 + i
			if x >= gutterWidth-1 || x >= w {
				break
			}
			s.SetContent(x, y, r, nil, style)
		}
		if gutterWidth-1 < w {
			s.SetContent(gutterWidth-1, y, ' ', nil, e.styles.main)
		}
	}
	if gutterWidth >= w {
		return
	}

	selStart, selEnd := e.selectionColsForRow(row)

	r, err := e.doc.Store().Row(row)
	if err != nil {
		return
	}
	clusters := r.Clusters()
	x := gutterWidth
	for col, cluster := range clusters {
		if x >= w {
			break
		}
		style := e.styleForCell(col, selStart, selEnd, spans)
		if cluster == "\t" {
			stop := e.tabWidth - (x-gutterWidth)%e.tabWidth
			for i := 0; i < stop && x < w; i++ {
				s.SetContent(x, y, ' ', nil, style)
				x++
			}
			continue
		}
		runes := []rune(cluster)
		s.SetContent(x, y, runes[0], runes[1:], style)
		cw := runewidth.StringWidth(cluster)
		if cw < 1 {
			cw = 1
		}
		x += cw
	}
	for ; x < w; x++ {
		s.SetContent(x, y, ' ', nil, e.styles.main)
	}
}

// selectionColsForRow returns the selected cluster range on row, or
// (-1, -1) when nothing on this row is selected.
func (e *Editor) selectionColsForRow(row int) (int, int) {
	start, end, ok := e.doc.Selection()
	if !ok || row < start.Row || row > end.Row {
		return -1, -1
	}
	from := 0
	if row == start.Row {
		from = start.Col
	}
	to := int(^uint(0) >> 1)
	if row == end.Row {
		to = end.Col
	}
	return from, to
}

func (e *Editor) styleForCell(col, selStart, selEnd int, spans []highlight.Span) tcell.Style {
	if selStart >= 0 && col >= selStart && col < selEnd {
		return e.styles.selection
	}
	for _, span := range spans {
		if col >= span.StartCol && col < span.EndCol {
			if st, ok := e.styles.syntax[span.Kind]; ok {
				return st
			}
		}
	}
	return e.styles.main
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	name := e.doc.Path()
	if name == "" {
		name = "[No Name]"
	} else {
		name = filepath.Base(name)
	}
	dirty := ""
	if e.doc.Dirty() {
		dirty = "*"
	}
	ro := ""
	if e.doc.ReadOnly() {
		ro = " | RO"
	}

	left := fmt.Sprintf(" %s%s%s ", name, dirty, ro)
	cur := e.doc.Cursor()
	right := fmt.Sprintf(" Ln %d, Col %d | %s ", cur.Row+1, cur.Col+1, e.doc.Ending().Name())

	line := composeStatusLine(left, right, w)
	for x, r := range line {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, e.styles.status)
	}
}

// renderCommandline draws the prompt or the status message, returning
// the prompt cursor column.
func (e *Editor) renderCommandline(s tcell.Screen, w, y int) int {
	clearLine(s, y, w, e.styles.command)
	var text []rune
	cursor := 0
	if e.promptActive {
		text = append([]rune{':'}, e.prompt...)
		cursor = 1 + e.promptCursor
	} else if e.statusMessage != "" {
		text = []rune(e.statusMessage)
	}
	for i, r := range text {
		if i >= w {
			break
		}
		s.SetContent(i, y, r, nil, e.styles.command)
	}
	if cursor >= w {
		cursor = w - 1
	}
	return cursor
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes) > width {
		leftRunes = leftRunes[:width]
	}
	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}
	copy(line, leftRunes)
	if len(rightRunes) <= width-len(leftRunes) {
		copy(line[width-len(rightRunes):], rightRunes)
	}
	return line
}
