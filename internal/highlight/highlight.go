// Package highlight computes per-row syntax spans with tree-sitter.
// It stays outside the document core: it pulls changed rows from the
// document and owns every grammar detail.
package highlight

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/kobzarvs/oxed/internal/config"
	"github.com/kobzarvs/oxed/internal/logger"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	tree_sitter_markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"
)

// Span colors one stretch of a row. Columns are counted in grapheme
// clusters, matching buffer positions.
type Span struct {
	StartCol int
	EndCol   int
	Kind     string
}

// Source is the slice of the document the highlighter needs: the text
// to parse and the rows that changed since it last looked.
type Source interface {
	Text() string
	TakeDirty() (start, end int, ok bool)
}

type docState struct {
	lang   string
	tree   *sitter.Tree
	source []byte
}

// Engine holds parsed trees per open file. All methods are safe for
// concurrent use.
type Engine struct {
	langs   config.Languages
	parsers map[string]*sitter.Parser
	queries map[string]*sitter.Query
	docs    map[string]*docState
	mu      sync.RWMutex
}

func New(langs config.Languages) *Engine {
	e := &Engine{
		langs:   langs,
		parsers: make(map[string]*sitter.Parser),
		queries: make(map[string]*sitter.Query),
		docs:    make(map[string]*docState),
	}

	grammars := []struct {
		name  string
		lang  *sitter.Language
		query string
	}{
		{"go", golang.GetLanguage(), goHighlightQuery},
		{"toml", toml.GetLanguage(), tomlHighlightQuery},
		{"yaml", yaml.GetLanguage(), yamlHighlightQuery},
		{"bash", bash.GetLanguage(), bashHighlightQuery},
		{"markdown", tree_sitter_markdown.GetLanguage(), markdownHighlightQuery},
	}
	for _, g := range grammars {
		p := sitter.NewParser()
		p.SetLanguage(g.lang)
		e.parsers[g.name] = p

		query, err := sitter.NewQuery([]byte(g.query), g.lang)
		if err != nil {
			logger.Warn("highlight query failed to compile", "language", g.name, "err", err)
			continue
		}
		e.queries[g.name] = query
	}
	return e
}

// Language resolves the grammar for a path, empty when unsupported.
func (e *Engine) Language(path string) string {
	lang := e.langs.Match(path)
	if lang == nil {
		return ""
	}
	return lang.Name
}

// Refresh reparses the file if the source reports changed rows, or if
// it has never been parsed. Reports whether spans may have changed.
func (e *Engine) Refresh(path string, src Source) bool {
	lang := e.Language(path)
	if lang == "" {
		return false
	}

	e.mu.RLock()
	_, seen := e.docs[path]
	e.mu.RUnlock()

	_, _, dirty := src.TakeDirty()
	if seen && !dirty {
		return false
	}

	text := []byte(src.Text())
	st := &docState{lang: lang, source: text}

	// json is line-regex highlighted, no tree to build
	if lang != "json" {
		e.mu.Lock()
		parser := e.parsers[lang]
		e.mu.Unlock()
		if parser == nil {
			return false
		}
		tree, err := parser.ParseCtx(context.Background(), nil, text)
		if err != nil {
			logger.Warn("parse failed", "path", path, "language", lang, "err", err)
			return false
		}
		st.tree = tree
	}

	e.mu.Lock()
	e.docs[path] = st
	e.mu.Unlock()
	return true
}

// Forget drops the parse state for a closed file.
func (e *Engine) Forget(path string) {
	e.mu.Lock()
	delete(e.docs, path)
	e.mu.Unlock()
}

// Highlights returns spans for rows startLine..endLine inclusive,
// keyed by row. Nil when the file is unknown or unsupported.
func (e *Engine) Highlights(path string, startLine, endLine int) map[int][]Span {
	if startLine < 0 || endLine < startLine {
		return nil
	}

	e.mu.RLock()
	st := e.docs[path]
	var query *sitter.Query
	if st != nil {
		query = e.queries[st.lang]
	}
	e.mu.RUnlock()
	if st == nil {
		return nil
	}

	if st.lang == "json" {
		return jsonHighlights(st.source, startLine, endLine)
	}
	if query == nil || st.tree == nil {
		return nil
	}
	return queryHighlights(query, st.tree, st.source, startLine, endLine)
}

func queryHighlights(query *sitter.Query, tree *sitter.Tree, source []byte, startLine, endLine int) map[int][]Span {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(query, tree.RootNode())

	// node points carry byte columns, the renderer wants cluster columns
	lines := strings.Split(string(source), "\n")
	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		if source != nil {
			match = cursor.FilterPredicates(match, source)
			if match == nil {
				continue
			}
		}
		for _, capture := range match.Captures {
			kind := query.CaptureNameForId(capture.Index)
			node := capture.Node
			start := node.StartPoint()
			end := node.EndPoint()
			if int(end.Row) < startLine || int(start.Row) > endLine {
				continue
			}
			for row := int(start.Row); row <= int(end.Row); row++ {
				if row < startLine || row > endLine {
					continue
				}
				startCol := 0
				endCol := int(math.MaxInt32)
				if row == int(start.Row) && row < len(lines) {
					startCol = clusterCol(lines[row], int(start.Column))
				}
				if row == int(end.Row) && row < len(lines) {
					endCol = clusterCol(lines[row], int(end.Column))
				}
				out[row] = append(out[row], Span{
					StartCol: startCol,
					EndCol:   endCol,
					Kind:     kind,
				})
			}
		}
	}
	return out
}

func jsonHighlights(source []byte, startLine, endLine int) map[int][]Span {
	lines := strings.Split(string(source), "\n")
	out := make(map[int][]Span)
	for row := startLine; row <= endLine && row < len(lines); row++ {
		if spans := jsonLineSpans(lines[row]); len(spans) > 0 {
			out[row] = spans
		}
	}
	return out
}
