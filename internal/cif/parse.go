package cif

import (
	"strings"

	"github.com/qcrbox/cifprobe/internal/errors"
)

type tokenKind int

const (
	tokTag tokenKind = iota
	tokValue
	tokLoop
	tokData
)

type token struct {
	kind   tokenKind
	text   string
	quoted bool
}

// Parse builds a Document from raw CIF text. Only the first data block is
// read; trailing blocks are ignored, matching the behavior of reading the
// first block of a multi-block file. Returns ErrDocumentSyntax for input
// the subset grammar cannot represent.
func Parse(raw string) (*Document, error) {
	tokens, err := lex(raw)
	if err != nil {
		return nil, err
	}

	doc := &Document{scalars: make(map[string]Value)}
	sawBlock := false

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		switch tok.kind {
		case tokData:
			if sawBlock {
				// First block only; ignore the rest of the file.
				return doc, nil
			}
			sawBlock = true
			doc.block = tok.text
			i++

		case tokLoop:
			consumed, perr := parseLoop(doc, tokens[i+1:])
			if perr != nil {
				return nil, perr
			}
			i += 1 + consumed

		case tokTag:
			if i+1 >= len(tokens) || tokens[i+1].kind != tokValue {
				return nil, errors.Wrapf(errors.ErrDocumentSyntax, "entry %q has no value", tok.text)
			}
			if _, dup := doc.scalars[tok.text]; dup {
				return nil, errors.Wrapf(errors.ErrDocumentSyntax, "duplicate entry %q", tok.text)
			}
			doc.scalars[tok.text] = valueOf(tokens[i+1])
			i += 2

		case tokValue:
			return nil, errors.Wrapf(errors.ErrDocumentSyntax, "unexpected value %q outside entry or loop", tok.text)
		}
	}

	return doc, nil
}

// parseLoop consumes a loop body (column tags then row data) from tokens and
// appends the resulting table to doc. Returns the number of tokens consumed.
func parseLoop(doc *Document, tokens []token) (int, error) {
	i := 0
	var columns []string
	for i < len(tokens) && tokens[i].kind == tokTag {
		columns = append(columns, tokens[i].text)
		i++
	}
	if len(columns) == 0 {
		return 0, errors.Wrap(errors.ErrDocumentSyntax, "loop_ without column declarations")
	}

	var cells []Value
	for i < len(tokens) && tokens[i].kind == tokValue {
		cells = append(cells, valueOf(tokens[i]))
		i++
	}
	if len(cells)%len(columns) != 0 {
		return 0, errors.Wrapf(errors.ErrDocumentSyntax,
			"loop %q has %d values for %d columns", columns[0], len(cells), len(columns))
	}

	table := &Table{name: columns[0], columns: columns}
	for r := 0; r < len(cells); r += len(columns) {
		row := make(Row, len(columns))
		for c, col := range columns {
			row[col] = cells[r+c]
		}
		table.rows = append(table.rows, row)
	}
	doc.loops = append(doc.loops, table)
	return i, nil
}

func valueOf(tok token) Value {
	if tok.quoted {
		return StringValue(tok.text)
	}
	return ParseToken(tok.text)
}

// lex splits raw CIF text into tokens. Semicolon text fields are recognized
// only at the start of a line; '#' begins a comment outside quoted tokens.
func lex(raw string) ([]token, error) {
	var tokens []token
	lines := strings.Split(raw, "\n")

	for ln := 0; ln < len(lines); ln++ {
		line := strings.TrimRight(lines[ln], "\r")

		if strings.HasPrefix(line, ";") {
			// Multi-line text field: everything until a line starting with ';'.
			var body []string
			first := line[1:]
			if first != "" {
				body = append(body, first)
			}
			closed := false
			for ln++; ln < len(lines); ln++ {
				inner := strings.TrimRight(lines[ln], "\r")
				if strings.HasPrefix(inner, ";") {
					closed = true
					break
				}
				body = append(body, inner)
			}
			if !closed {
				return nil, errors.Wrap(errors.ErrDocumentSyntax, "unterminated text field")
			}
			tokens = append(tokens, token{kind: tokValue, text: strings.Join(body, "\n"), quoted: true})
			continue
		}

		lineTokens, err := lexLine(line)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, lineTokens...)
	}
	return tokens, nil
}

func lexLine(line string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(line) {
		switch {
		case line[i] == ' ' || line[i] == '\t':
			i++
		case line[i] == '#':
			return tokens, nil
		case line[i] == '\'' || line[i] == '"':
			quote := line[i]
			end := strings.IndexByte(line[i+1:], quote)
			if end < 0 {
				return nil, errors.Wrapf(errors.ErrDocumentSyntax, "unterminated quote in line %q", line)
			}
			tokens = append(tokens, token{kind: tokValue, text: line[i+1 : i+1+end], quoted: true})
			i += end + 2
		default:
			start := i
			for i < len(line) && line[i] != ' ' && line[i] != '\t' {
				i++
			}
			tokens = append(tokens, classify(line[start:i]))
		}
	}
	return tokens, nil
}

func classify(word string) token {
	lower := strings.ToLower(word)
	switch {
	case strings.HasPrefix(lower, "data_"):
		return token{kind: tokData, text: word[len("data_"):]}
	case lower == "loop_":
		return token{kind: tokLoop}
	case strings.HasPrefix(word, "_"):
		return token{kind: tokTag, text: word}
	default:
		return token{kind: tokValue, text: word}
	}
}
