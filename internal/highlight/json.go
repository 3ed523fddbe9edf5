package highlight

import (
	"regexp"
	"strings"

	"github.com/rivo/uniseg"
)

// json has no compiled grammar here, a line scanner is enough for the
// config files the editor usually sees.
var (
	jsonString = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
	jsonNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`)
	jsonWord   = regexp.MustCompile(`\b(true|false|null)\b`)
)

func jsonLineSpans(line string) []Span {
	var spans []Span

	for _, loc := range jsonString.FindAllStringIndex(line, -1) {
		kind := "string"
		// a string followed by a colon is an object key
		rest := strings.TrimLeft(line[loc[1]:], " \t")
		if strings.HasPrefix(rest, ":") {
			kind = "field"
		}
		spans = append(spans, Span{
			StartCol: clusterCol(line, loc[0]),
			EndCol:   clusterCol(line, loc[1]),
			Kind:     kind,
		})
	}

	for _, loc := range jsonNumber.FindAllStringIndex(line, -1) {
		if insideString(line, loc[0]) {
			continue
		}
		spans = append(spans, Span{
			StartCol: clusterCol(line, loc[0]),
			EndCol:   clusterCol(line, loc[1]),
			Kind:     "number",
		})
	}

	for _, loc := range jsonWord.FindAllStringIndex(line, -1) {
		if insideString(line, loc[0]) {
			continue
		}
		spans = append(spans, Span{
			StartCol: clusterCol(line, loc[0]),
			EndCol:   clusterCol(line, loc[1]),
			Kind:     "constant",
		})
	}

	return spans
}

// clusterCol converts a byte offset in line into a grapheme cluster
// index, the unit the buffer counts columns in.
func clusterCol(line string, byteOff int) int {
	if byteOff > len(line) {
		byteOff = len(line)
	}
	n := 0
	g := uniseg.NewGraphemes(line[:byteOff])
	for g.Next() {
		n++
	}
	return n
}

func insideString(line string, byteOff int) bool {
	before := line[:byteOff]
	quotes := strings.Count(before, `"`) - strings.Count(before, `\"`)
	return quotes%2 == 1
}
