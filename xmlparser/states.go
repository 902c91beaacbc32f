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

package xmlparser

import "github.com/williammuji/pb-xml-util/escape"

// parseState is one frame of the explicit parse stack. Using an explicit
// stack instead of recursive descent is what lets Parse accept the input in
// arbitrary chunks: whenever a state function runs out of bytes mid-token,
// it pushes its own state back on and returns, and the next call to Parse
// resumes exactly where it left off.
type parseState int

const (
	stateBeginElement     parseState = iota // expects '<'
	stateStartTag                           // expects a tag name, '/', '!' or '?'
	stateBeginElementMid                    // expects a space or '>'
	stateAttrKey                            // expects a key or '/'
	stateAttrMid                            // expects '='
	stateAttrValue                          // expects a quote or a double quote
	stateBeginElementClose                  // expects '>'
	stateText                               // expects text or '<'
	stateEndElement                         // expects '<'
	stateEndElementMid                      // expects '/'
	stateEndTag                             // expects a tag name
	stateEndElementClose                    // expects '>'
	// stateElementMid is never pushed onto the stack by any transition
	// below; the grammar comment it documents (expects a close tag or
	// "/>") describes a self-closing-tag path that the rest of the state
	// machine never actually reaches. Kept as a named constant only so the
	// full state enumeration stays visible.
	stateElementMid
)

func (s parseState) String() string {
	switch s {
	case stateBeginElement:
		return "BeginElement"
	case stateStartTag:
		return "StartTag"
	case stateBeginElementMid:
		return "BeginElementMid"
	case stateAttrKey:
		return "AttrKey"
	case stateAttrMid:
		return "AttrMid"
	case stateAttrValue:
		return "AttrValue"
	case stateBeginElementClose:
		return "BeginElementClose"
	case stateText:
		return "Text"
	case stateEndElement:
		return "EndElement"
	case stateEndElementMid:
		return "EndElementMid"
	case stateEndTag:
		return "EndTag"
	case stateEndElementClose:
		return "EndElementClose"
	case stateElementMid:
		return "ElementMid"
	default:
		return "Unknown"
	}
}

// tokenType classifies the byte (or absence of one) at the parser's current
// position, given the current parseState (the state matters only in that
// SkipWhitespace's reserved-space behavior differs in stateBeginElementMid).
type tokenType int

const (
	tokenOpenTag           tokenType = iota // <
	tokenCloseTag                           // >
	tokenEndTagSlash                        // /
	tokenDeclaration                        // ?
	tokenComment                            // !
	tokenBeginString                        // " or '
	tokenAttrSeparator                      // space
	tokenAttrValueSeparator                 // =
	tokenBeginKey                           // ASCII letter or _
	tokenBeginText                          // any other byte
	tokenUnknown                            // ran out of data, or a byte we can't classify yet
)

// elementType records whether a still-open tag on tagNameStack was opened
// as an object or a list. elementTypeStack is pushed and popped alongside
// tagNameStack; parseEndTag picks the closing event from the end tag's own
// "_list_" prefix, not from this stack.
type elementType int

const (
	elementObject elementType = iota
	elementList
)

// listTagPrefix marks a tag name as opening/closing a list rather than an
// object. The stripped name (with the prefix removed) is the logical name
// carried in the emitted StartList/EndList event.
const listTagPrefix = "_list_"

const anonymousTagName = "anonymous"
const rootTagName = "root"

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphanumeric(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9')
}

func isAlphanumericOrHyphen(c byte) bool {
	return isAlphanumeric(c) || c == '-'
}

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// consumeKey scans a leading attribute-key token from b: a letter/underscore
// followed by any run of alphanumerics or hyphens. It returns the key and
// the unconsumed remainder. ok is false if b doesn't start a key at all.
func consumeKey(b []byte) (key []byte, rest []byte, ok bool) {
	if len(b) == 0 || !isLetter(b[0]) {
		return nil, b, false
	}
	n := 1
	for n < len(b) && isAlphanumericOrHyphen(b[n]) {
		n++
	}
	return b[:n], b[n:], true
}

// consumeTagName has the same grammar as consumeKey; kept as a separate
// function because tag names and attribute keys are conceptually distinct
// tokens even though today they accept the same characters.
func consumeTagName(b []byte) (name []byte, rest []byte, ok bool) {
	return consumeKey(b)
}

// consumeText scans a run of text up to (but not including) the next '<'.
// The leading byte is always accepted unconditionally, matching the
// original grammar's off-by-one loop start; any '&' found after the first
// byte is only accepted when what follows it, to the very end of b (not
// merely to the next '<'), is byte-for-byte one of the five predefined
// entity references. That full-suffix comparison (rather than a bounded
// "does a legal reference start here" check) means a second '&' earlier in
// a longer text run will normally fail this check even when it does open a
// well-formed reference; that quirk is carried over unchanged by requiring
// the reference to consume exactly what's left of b, not just its prefix.
func consumeText(b []byte) (text []byte, rest []byte, ok bool) {
	if len(b) == 0 {
		return nil, b, false
	}
	n := 1
	for n < len(b) {
		if b[n] == '<' {
			break
		}
		if b[n] == '&' && !isExactPredefinedEntitySuffix(b[n:]) {
			return nil, b, false
		}
		n++
	}
	return b[:n], b[n:], true
}

// isExactPredefinedEntitySuffix reports whether b, taken in its entirety, is
// one well-formed predefined entity reference, with nothing left over.
func isExactPredefinedEntitySuffix(b []byte) bool {
	name, n, ok := escape.EntityNameAt(b)
	return ok && n == len(b) && escape.IsPredefinedEntity(name)
}
