// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package xmlparser implements a chunk-resumable XML stream parser. It
// accepts XML in arbitrarily sized pieces and emits structured write events
// to an event.Sink as soon as each piece is fully consumed, without ever
// needing the whole document in memory at once.
package xmlparser

import (
	"fmt"
	"unicode/utf8"

	"github.com/williammuji/pb-xml-util/escape"
	"github.com/williammuji/pb-xml-util/event"
	"github.com/williammuji/pb-xml-util/internal/xmlnames"
)

const defaultMaxRecursionDepth = 100

// tagNameFrame is one entry of tagNameStack: the tag name as it was read
// (with any "_list_" prefix removed) and whether it opened a list.
type tagNameFrame struct {
	name     string
	isList   bool
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithMaxRecursionDepth overrides the default nesting limit of 100 object
// levels. List nesting does not count against this limit, only object
// nesting (matching IncrementRecursionDepth, which is only ever called from
// the object branch of ParseStartTagName).
func WithMaxRecursionDepth(n int) Option {
	return func(p *Parser) { p.maxRecursionDepth = n }
}

// WithCoerceToUTF8 makes the parser tolerate non-UTF-8 input by replacing
// each invalid byte with replacement instead of failing outright.
func WithCoerceToUTF8(replacement string) Option {
	return func(p *Parser) {
		p.coerceToUTF8 = true
		p.utf8Replacement = replacement
	}
}

// WithAllowNoRootElement makes FinishParse succeed with an empty event
// stream when the input consisted only of whitespace, instead of reporting
// ErrExpectedOpenTag.
func WithAllowNoRootElement(allow bool) Option {
	return func(p *Parser) { p.allowNoRootElement = allow }
}

// Parser turns a stream of XML chunks into a stream of event.Sink calls.
// The zero value is not usable; construct one with New.
type Parser struct {
	sink event.Sink

	stack []parseState

	leftover []byte

	// xml is the chunk currently being parsed (leftover plus whatever was
	// just handed to Parse, or the coerced/validated leftover during
	// FinishParse); pos is the parser's cursor into it. Every borrowed
	// slice below (key, parsed, text, tagName) aliases xml and is only
	// valid until the next call replaces xml outright.
	xml []byte
	pos int

	key        []byte
	keyStorage []byte

	finishing         bool
	seenNonWhitespace bool
	allowNoRootElement bool

	parsed        []byte
	parsedStorage []byte
	stringOpen    byte

	coerceToUTF8    bool
	utf8Replacement string

	recursionDepth    int
	maxRecursionDepth int

	text    []byte
	tagName []byte

	tagNameStack    []tagNameFrame
	elementTypeStack []elementType

	names *xmlnames.Interner
}

// New returns a Parser that writes events to sink as input is parsed.
func New(sink event.Sink, opts ...Option) *Parser {
	p := &Parser{
		sink:              sink,
		utf8Replacement:   " ",
		maxRecursionDepth: defaultMaxRecursionDepth,
		names:             xmlnames.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.stack = append(p.stack, stateBeginElement)
	return p
}

// SetMaxRecursionDepth adjusts the nesting limit after construction.
func (p *Parser) SetMaxRecursionDepth(n int) {
	p.maxRecursionDepth = n
}

// Parse feeds the next chunk of XML to the parser. A nil or empty chunk is
// a no-op. Parse may hold on to a trailing partial token (or, if xml is
// split mid rune, a trailing partial UTF-8 sequence) until the next call
// supplies the rest of it.
func (p *Parser) Parse(xml []byte) error {
	chunk := xml
	if len(p.leftover) > 0 {
		merged := make([]byte, 0, len(p.leftover)+len(xml))
		merged = append(merged, p.leftover...)
		merged = append(merged, xml...)
		p.leftover = nil
		chunk = merged
	}

	// Parse always looks for a structurally valid UTF-8 prefix first,
	// exactly like the original's call to UTF8SpnStructurallyValid,
	// regardless of whether FinishParse will later tolerate (and replace)
	// invalid bytes in the true tail via WithCoerceToUTF8.
	n := escape.UTF8ValidPrefixLen(chunk)
	if n == 0 {
		p.leftover = append(p.leftover[:0:0], chunk...)
		return nil
	}
	err := p.parseChunk(chunk[:n])
	if len(chunk) > n {
		p.leftover = append(p.leftover, chunk[n:]...)
	}
	return err
}

// FinishParse signals that no more input is coming. Any leftover bytes are
// parsed in "finishing" mode, where running out of data mid-token is a real
// error (ErrExpectedClosingQuote and friends) rather than something to
// retry later.
func (p *Parser) FinishParse() error {
	if len(p.stack) == 0 && len(p.leftover) == 0 && len(p.tagNameStack) == 0 {
		return nil
	}

	valid := escape.UTF8Valid(p.leftover)
	if p.coerceToUTF8 && !valid {
		p.xml = escape.ReplaceInvalidUTF8(p.leftover, p.utf8Replacement)
	} else {
		p.xml = p.leftover
		if !valid {
			p.pos = 0
			return p.reportFailure("Encountered non UTF-8 code points.", ErrorNonUTF8)
		}
	}
	p.pos = 0

	if p.allowNoRootElement && len(p.stack) == 1 && p.stack[0] == stateBeginElement && isAllWhitespace(p.xml) {
		p.stack = nil
		p.leftover = nil
		return nil
	}

	p.finishing = true
	if err := p.runParser(); err != nil {
		return err
	}
	p.skipWhitespace(-1)
	if p.pos < len(p.xml) {
		return p.reportFailure("Parsing terminated before end of input.", ErrorParsingTerminatedBeforeEndOfInput)
	}
	return nil
}

func (p *Parser) parseChunk(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	p.xml = chunk
	p.pos = 0
	p.finishing = false

	if err := p.runParser(); err != nil {
		return err
	}

	p.skipWhitespace(-1)
	if p.pos >= len(p.xml) {
		p.leftover = nil
		return nil
	}
	if len(p.stack) == 0 {
		return p.reportFailure("Parsing terminated before end of input.", ErrorParsingTerminatedBeforeEndOfInput)
	}
	p.leftover = append([]byte(nil), p.xml[p.pos:]...)
	return nil
}

// runParser drives the state machine until either the stack empties (one
// full value parsed from the root) or the input runs out. On a cancelled
// state function (only possible while !finishing), the state that
// cancelled is pushed back so the next Parse/FinishParse call resumes it,
// and any borrowed key bytes are copied into keyStorage since the chunk
// they alias is about to be discarded.
func (p *Parser) runParser() error {
	for len(p.stack) > 0 {
		state := p.stack[len(p.stack)-1]
		var tok tokenType
		if p.stringOpen == 0 {
			tok = p.nextTokenType(state)
		} else {
			tok = tokenBeginString
		}
		p.stack = p.stack[:len(p.stack)-1]

		var err error
		switch state {
		case stateBeginElement:
			err = p.parseBeginElement(tok)
		case stateStartTag:
			err = p.parseStartTag(tok)
		case stateBeginElementMid:
			err = p.parseBeginElementMid(tok)
		case stateAttrKey:
			err = p.parseAttrKey(tok)
		case stateAttrMid:
			err = p.parseAttrMid(tok)
		case stateAttrValue:
			err = p.parseAttrValue(tok)
		case stateBeginElementClose:
			err = p.parseBeginElementClose(tok)
		case stateText:
			err = p.parseText(tok)
		case stateEndElement:
			err = p.parseEndElement(tok)
		case stateEndElementMid:
			err = p.parseEndElementMid(tok)
		case stateEndTag:
			err = p.parseEndTag(tok)
		case stateEndElementClose:
			err = p.parseEndElementClose(tok)
		default:
			err = fmt.Errorf("xmlparser: unknown parse state: %s", state)
		}

		if err != nil {
			if !p.finishing && err == errCancelled {
				p.stack = append(p.stack, state)
				if len(p.key) > 0 && len(p.keyStorage) == 0 {
					p.keyStorage = append([]byte(nil), p.key...)
					p.key = p.keyStorage
				}
				return nil
			}
			return err
		}
	}
	return nil
}

// incrementRecursionDepth bumps the object-nesting depth and fails once it
// exceeds maxRecursionDepth. Called only when opening an object (never a
// list); the matching decrement happens in parseEndTag.
func (p *Parser) incrementRecursionDepth(tagName string) error {
	p.recursionDepth++
	if p.recursionDepth > p.maxRecursionDepth {
		return fmt.Errorf("xmlparser: message too deep: max recursion depth reached for tag %q: %w", tagName, ErrMessageTooDeep)
	}
	return nil
}

// advance moves the cursor forward by one UTF-8 rune, or to the end of xml
// if fewer bytes remain than the rune's encoded width would otherwise
// require (which can't happen for well-formed input, but matches the
// original's own defensive min() against running past the buffer).
func (p *Parser) advance() {
	rest := p.xml[p.pos:]
	if len(rest) == 0 {
		return
	}
	_, size := utf8.DecodeRune(rest)
	if size > len(rest) {
		size = len(rest)
	}
	p.pos += size
}

// isAllWhitespace reports whether b contains only ASCII whitespace bytes
// (including the empty slice).
func isAllWhitespace(b []byte) bool {
	for _, c := range b {
		if !isASCIISpace(c) {
			return false
		}
	}
	return true
}

// skipWhitespace advances past whitespace. When state is stateBeginElementMid
// it reserves a single trailing whitespace byte instead of consuming it,
// whenever that byte is either the last byte available or immediately
// followed by a non-whitespace byte: that reservation is what lets a chunk
// boundary fall right after a tag's attribute-separating space (e.g. "<tag "
// | "attr=\"x\">") without losing the information that a separator was
// there. Pass state = -1 for the plain, no-reservation behavior used by
// FinishParse and ParseChunk's own post-parse whitespace skip.
func (p *Parser) skipWhitespace(state parseState) {
	for p.pos < len(p.xml) && isASCIISpace(p.xml[p.pos]) {
		if state == stateBeginElementMid {
			rest := len(p.xml) - p.pos
			if rest == 1 {
				p.seenNonWhitespace = true
				break
			}
			if rest >= 2 && !isASCIISpace(p.xml[p.pos+1]) {
				p.seenNonWhitespace = true
				break
			}
		}
		p.advance()
	}
	if p.pos < len(p.xml) && !isASCIISpace(p.xml[p.pos]) {
		p.seenNonWhitespace = true
	}
}

// nextTokenType classifies the byte at the cursor for the given state,
// skipping (and possibly reserving) whitespace first.
func (p *Parser) nextTokenType(state parseState) tokenType {
	p.skipWhitespace(state)

	if p.pos >= len(p.xml) {
		return tokenUnknown
	}
	c := p.xml[p.pos]
	switch c {
	case '"', '\'':
		return tokenBeginString
	case '<':
		return tokenOpenTag
	case '>':
		return tokenCloseTag
	case '/':
		return tokenEndTagSlash
	case '?':
		return tokenDeclaration
	case '!':
		return tokenComment
	case ' ':
		return tokenAttrSeparator
	case '=':
		return tokenAttrValueSeparator
	}
	if isLetter(c) {
		return tokenBeginKey
	}
	return tokenBeginText
}

// reportFailure builds a ParseError with a ±20-byte context snippet and a
// caret under the exact failing byte, matching ReportFailure's formatting.
func (p *Parser) reportFailure(message string, code ErrorCode) error {
	const contextLength = 20
	begin := p.pos - contextLength
	if begin < 0 {
		begin = 0
	}
	end := p.pos + contextLength
	if end > len(p.xml) {
		end = len(p.xml)
	}
	snippet := string(p.xml[begin:end])
	caretPos := p.pos - begin
	caret := make([]byte, caretPos+1)
	for i := 0; i < caretPos; i++ {
		caret[i] = ' '
	}
	caret[caretPos] = '^'

	return &ParseError{
		Code:    code,
		Message: message,
		Snippet: snippet,
		Caret:   string(caret),
	}
}

// reportUnknown cancels (to retry once more data arrives) unless we're in
// finishing mode, in which case it reports a real failure, adding an
// "Unexpected end of string." prefix when the cursor is at the very end of
// the input.
func (p *Parser) reportUnknown(message string, code ErrorCode) error {
	if !p.finishing {
		return errCancelled
	}
	if p.pos >= len(p.xml) {
		return p.reportFailure("Unexpected end of string. "+message, code)
	}
	return p.reportFailure(message, code)
}
