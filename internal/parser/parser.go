// Package parser implements the external parse contract of the core:
// it turns source text into an ast.Program and rejects unmatched `[`
// and stray `]` with a typed structural error. The core never reaches
// these errors; they are resolved before lowering.
package parser

import (
	"strings"

	"tapec/internal/ast"
	"tapec/internal/compileerr"
)

// Parser is a single-pass recursive-descent reader over runes. It
// carries no lookahead beyond the current rune.
type Parser struct {
	src    []rune
	lines  []string
	pos    int
	line   int
	column int
	file   string
}

// Parse parses code and returns the top-level AST program, or a
// *compileerr.Error describing the first structural problem found.
func Parse(code string) (*ast.Program, error) {
	return ParseFile("", code)
}

// ParseFile is Parse with a file name attached to error locations.
func ParseFile(file, code string) (*ast.Program, error) {
	p := &Parser{
		src:    []rune(code),
		lines:  strings.Split(code, "\n"),
		line:   1,
		column: 1,
		file:   file,
	}
	nodes, closed, err := p.parseUntil(false)
	if err != nil {
		return nil, err
	}
	if closed {
		// A top-level parseUntil can only report closed=true if a
		// stray ']' was seen, and that already returns an error above.
		panic("unreachable: top-level parse reported closed loop")
	}
	return &ast.Program{Nodes: nodes}, nil
}

func (p *Parser) sourceLine(line int) string {
	if line-1 >= 0 && line-1 < len(p.lines) {
		return p.lines[line-1]
	}
	return ""
}

// parseUntil reads nodes until end of input or, when insideLoop is
// true, a matching `]`. closed reports whether that `]` was consumed.
// It is called once for the top level and once per `[` encountered.
func (p *Parser) parseUntil(insideLoop bool) (nodes []ast.Node, closed bool, err error) {
	for p.pos < len(p.src) {
		startLine, startCol := p.line, p.column
		c := p.advance()

		switch c {
		case '>':
			nodes = append(nodes, ast.NewPtrAdvance())
		case '<':
			nodes = append(nodes, ast.NewPtrRetreat())
		case '+':
			nodes = append(nodes, ast.NewIncr())
		case '-':
			nodes = append(nodes, ast.NewDecr())
		case '.':
			nodes = append(nodes, ast.NewPutch())
		case ',':
			nodes = append(nodes, ast.NewGetch())
		case '[':
			body, bodyClosed, err := p.parseUntil(true)
			if err != nil {
				return nil, false, err
			}
			if !bodyClosed {
				e := compileerr.NewUnterminatedLoop(startLine, startCol).
					WithSource(p.sourceLine(startLine))
				e.Location.File = p.file
				return nil, false, e
			}
			nodes = append(nodes, ast.NewLoop(body))
		case ']':
			if !insideLoop {
				e := compileerr.NewUnexpectedLoopTermination(startLine, startCol).
					WithSource(p.sourceLine(startLine))
				e.Location.File = p.file
				return nil, false, e
			}
			return nodes, true, nil
		default:
			// comment character, ignored
		}
	}
	return nodes, false, nil
}

func (p *Parser) advance() rune {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.column = 1
	} else {
		p.column++
	}
	return c
}
