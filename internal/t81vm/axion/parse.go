package axion

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokLParen tokenKind = iota
	tokRParen
	tokAtom
	tokString
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

// lexer tokenizes the policy grammar: parentheses, signed integers, bareword
// symbols, and double-quoted strings (for action/reason text fields).
type lexer struct {
	src []rune
	pos int
}

func newLexer(src string) *lexer { return &lexer{src: []rune(src)} }

func (l *lexer) next() token {
	for l.pos < len(l.src) && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF}
	}
	c := l.src[l.pos]
	switch c {
	case '(':
		l.pos++
		return token{kind: tokLParen, text: "("}
	case ')':
		l.pos++
		return token{kind: tokRParen, text: ")"}
	case '"':
		l.pos++
		start := l.pos
		for l.pos < len(l.src) && l.src[l.pos] != '"' {
			l.pos++
		}
		text := string(l.src[start:l.pos])
		if l.pos < len(l.src) {
			l.pos++
		}
		return token{kind: tokString, text: text}
	default:
		start := l.pos
		for l.pos < len(l.src) && !unicode.IsSpace(l.src[l.pos]) && l.src[l.pos] != '(' && l.src[l.pos] != ')' {
			l.pos++
		}
		return token{kind: tokAtom, text: string(l.src[start:l.pos])}
	}
}

// parser is a small recursive-descent reader over the token stream,
// forgiving of unknown clauses (balanced-paren skip) but strict about
// unknown fields inside a recognized clause.
type parser struct {
	lex  *lexer
	peek *token
}

func newParser(src string) *parser { return &parser{lex: newLexer(src)} }

func (p *parser) peekTok() token {
	if p.peek == nil {
		t := p.lex.next()
		p.peek = &t
	}
	return *p.peek
}

func (p *parser) advance() token {
	t := p.peekTok()
	p.peek = nil
	return t
}

// parserState snapshots a parser's full read position, including the
// underlying lexer's rune offset — not just the single-token peek cache.
// parser embeds lex as a pointer, so `save := *p; ...; *p = save` only
// undoes the peek cache; any token the lookahead forced the lexer to read
// fresh stays permanently consumed. Backtracking must go through
// snapshot/restore instead.
type parserState struct {
	lexPos int
	peek   *token
}

func (p *parser) snapshot() parserState {
	return parserState{lexPos: p.lex.pos, peek: p.peek}
}

func (p *parser) restore(s parserState) {
	p.lex.pos = s.lexPos
	p.peek = s.peek
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.advance()
	if t.kind != kind {
		return t, fmt.Errorf("axion: unexpected token %q", t.text)
	}
	return t, nil
}

// skipBalanced consumes tokens until the parenthesis depth returns to zero,
// assuming the opening '(' of the clause being skipped was already
// consumed.
func (p *parser) skipBalanced() error {
	depth := 1
	for depth > 0 {
		t := p.advance()
		switch t.kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		case tokEOF:
			return fmt.Errorf("axion: unbalanced parentheses")
		}
	}
	return nil
}

// ParsePolicy parses a `(policy (tier N) CLAUSE*)` S-expression into a
// Policy. Unknown top-level clauses are skipped (balanced-paren scan);
// unknown fields within a recognized clause are a hard parse error.
func ParsePolicy(text string) (Policy, error) {
	p := newParser(text)
	if _, err := p.expect(tokLParen); err != nil {
		return Policy{}, err
	}
	head, err := p.expect(tokAtom)
	if err != nil {
		return Policy{}, err
	}
	if head.text != "policy" {
		return Policy{}, fmt.Errorf("axion: expected top-level (policy ...) form, got %q", head.text)
	}

	var pol Policy
	sawTier := false
	for {
		t := p.peekTok()
		if t.kind == tokRParen {
			p.advance()
			break
		}
		if t.kind == tokEOF {
			return Policy{}, fmt.Errorf("axion: unexpected end of policy text")
		}
		if _, err := p.expect(tokLParen); err != nil {
			return Policy{}, err
		}
		clauseHead, err := p.expect(tokAtom)
		if err != nil {
			return Policy{}, err
		}
		switch clauseHead.text {
		case "tier":
			n, err := p.expectInt()
			if err != nil {
				return Policy{}, err
			}
			pol.Tier = n
			sawTier = true
			if _, err := p.expect(tokRParen); err != nil {
				return Policy{}, err
			}
		case "max-stack":
			n, err := p.expectInt()
			if err != nil {
				return Policy{}, err
			}
			pol.MaxStack = n
			pol.HasMaxStack = true
			if _, err := p.expect(tokRParen); err != nil {
				return Policy{}, err
			}
		case "loop":
			hint, err := p.parseLoopClause()
			if err != nil {
				return Policy{}, err
			}
			pol.Loops = append(pol.Loops, hint)
		case "require-match-guard":
			mg, err := p.parseMatchGuardClause()
			if err != nil {
				return Policy{}, err
			}
			pol.MatchGuards = append(pol.MatchGuards, mg)
		case "require-segment-event":
			se, err := p.parseSegmentEventClause()
			if err != nil {
				return Policy{}, err
			}
			pol.SegmentEvents = append(pol.SegmentEvents, se)
		case "require-axion-event":
			ae, err := p.parseAxionEventClause()
			if err != nil {
				return Policy{}, err
			}
			pol.AxionEvents = append(pol.AxionEvents, ae)
		default:
			if err := p.skipBalanced(); err != nil {
				return Policy{}, err
			}
		}
	}
	if !sawTier {
		return Policy{}, fmt.Errorf("axion: policy missing required (tier N) clause")
	}
	return pol, nil
}

func (p *parser) expectInt() (int64, error) {
	t := p.advance()
	if t.kind != tokAtom {
		return 0, fmt.Errorf("axion: expected integer, got %q", t.text)
	}
	n, err := strconv.ParseInt(t.text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("axion: invalid integer %q", t.text)
	}
	return n, nil
}

func (p *parser) expectAtomOrString() (string, error) {
	t := p.advance()
	if t.kind != tokAtom && t.kind != tokString {
		return "", fmt.Errorf("axion: expected symbol or string, got %q", t.text)
	}
	return t.text, nil
}

// parseField consumes `(name VALUE)` for an expected field name,
// returning VALUE's raw token text; errors on any other field name.
func (p *parser) parseField(name string) (token, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return token{}, err
	}
	head, err := p.expect(tokAtom)
	if err != nil {
		return token{}, err
	}
	if head.text != name {
		return token{}, fmt.Errorf("axion: expected field %q, got %q", name, head.text)
	}
	val := p.advance()
	if _, err := p.expect(tokRParen); err != nil {
		return token{}, err
	}
	return val, nil
}

func (p *parser) parseLoopClause() (LoopHint, error) {
	var hint LoopHint
	id, err := p.parseField("id")
	if err != nil {
		return hint, err
	}
	hint.ID, err = strconv.ParseInt(id.text, 10, 64)
	if err != nil {
		return hint, fmt.Errorf("axion: invalid loop id %q", id.text)
	}
	file, err := p.parseField("file")
	if err != nil {
		return hint, err
	}
	hint.File = file.text
	line, err := p.parseField("line")
	if err != nil {
		return hint, err
	}
	hint.Line, err = strconv.ParseInt(line.text, 10, 64)
	if err != nil {
		return hint, fmt.Errorf("axion: invalid loop line %q", line.text)
	}
	col, err := p.parseField("column")
	if err != nil {
		return hint, err
	}
	hint.Column, err = strconv.ParseInt(col.text, 10, 64)
	if err != nil {
		return hint, fmt.Errorf("axion: invalid loop column %q", col.text)
	}
	if _, err := p.parseField("annotated"); err != nil {
		return hint, err
	}
	depth, err := p.parseField("depth")
	if err != nil {
		return hint, err
	}
	hint.Depth, err = strconv.ParseInt(depth.text, 10, 64)
	if err != nil {
		return hint, fmt.Errorf("axion: invalid loop depth %q", depth.text)
	}
	bound, err := p.parseField("bound")
	if err != nil {
		return hint, err
	}
	switch bound.text {
	case "infinite":
		hint.BoundKind = LoopBoundInfinite
	case "unknown":
		hint.BoundKind = LoopBoundUnknown
	default:
		n, err := strconv.ParseInt(bound.text, 10, 64)
		if err != nil {
			return hint, fmt.Errorf("axion: invalid loop bound %q", bound.text)
		}
		hint.BoundKind = LoopBoundStatic
		hint.BoundValue = n
	}
	if _, err := p.expect(tokRParen); err != nil {
		return hint, err
	}
	return hint, nil
}

func (p *parser) parseMatchGuardClause() (MatchGuard, error) {
	var mg MatchGuard
	enum, err := p.parseField("enum")
	if err != nil {
		return mg, err
	}
	mg.EnumName = enum.text
	variant, err := p.parseField("variant")
	if err != nil {
		return mg, err
	}
	mg.VariantName = variant.text

	t := p.peekTok()
	if t.kind == tokLParen {
		// Peek ahead for an optional (payload SYM) clause.
		save := p.snapshot()
		p.advance()
		head, err := p.expect(tokAtom)
		if err == nil && head.text == "payload" {
			val := p.advance()
			if _, err := p.expect(tokRParen); err == nil {
				mg.Payload = val.text
				mg.HasPayload = true
			} else {
				p.restore(save)
			}
		} else {
			p.restore(save)
		}
	}
	result, err := p.parseField("result")
	if err != nil {
		return mg, err
	}
	if result.text != "pass" && result.text != "fail" {
		return mg, fmt.Errorf("axion: require-match-guard result must be pass|fail, got %q", result.text)
	}
	mg.Result = result.text
	if _, err := p.expect(tokRParen); err != nil {
		return mg, err
	}
	return mg, nil
}

func (p *parser) parseSegmentEventClause() (SegmentEventReq, error) {
	var se SegmentEventReq
	segment, err := p.parseField("segment")
	if err != nil {
		return se, err
	}
	se.Segment = segment.text
	action, err := p.parseField("action")
	if err != nil {
		return se, err
	}
	se.Action = strings.Trim(action.text, "\"")

	t := p.peekTok()
	if t.kind == tokLParen {
		save := p.snapshot()
		p.advance()
		head, err := p.expect(tokAtom)
		if err == nil && head.text == "addr" {
			val := p.advance()
			if _, err := p.expect(tokRParen); err == nil {
				n, err := strconv.ParseInt(val.text, 10, 64)
				if err != nil {
					return se, fmt.Errorf("axion: invalid addr %q", val.text)
				}
				se.Addr = n
				se.HasAddr = true
			} else {
				p.restore(save)
			}
		} else {
			p.restore(save)
		}
	}
	if _, err := p.expect(tokRParen); err != nil {
		return se, err
	}
	return se, nil
}

func (p *parser) parseAxionEventClause() (AxionEventReq, error) {
	var ae AxionEventReq
	reason, err := p.parseField("reason")
	if err != nil {
		return ae, err
	}
	ae.Reason = strings.Trim(reason.text, "\"")
	if _, err := p.expect(tokRParen); err != nil {
		return ae, err
	}
	return ae, nil
}
