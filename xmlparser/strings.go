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

import (
	"unicode/utf8"

	"github.com/williammuji/pb-xml-util/escape"
)

const unicodeEscapedLength = 6 // "\uXXXX"

// parseStringHelper parses a quoted string value into p.parsed, handling
// backslash escapes (including \uXXXX and \uXXXX\uYYYY surrogate pairs).
// string_open tracks which quote character opened the string across
// possibly-cancelled calls, the same role it plays in the original.
func (p *Parser) parseStringHelper() error {
	if p.stringOpen == 0 {
		p.stringOpen = p.xml[p.pos]
		p.advance()
	}

	last := p.pos
	for p.pos < len(p.xml) {
		c := p.xml[p.pos]
		if c == '\\' {
			if last < p.pos {
				p.parsedStorage = append(p.parsedStorage, p.xml[last:p.pos]...)
			}
			if len(p.xml)-p.pos == 1 {
				if !p.finishing {
					return errCancelled
				}
				return p.reportFailure("Closing quote expected in string.", ErrorExpectedClosingQuote)
			}
			if p.xml[p.pos+1] == 'u' {
				if err := p.parseUnicodeEscape(); err != nil {
					return err
				}
				last = p.pos
				continue
			}
			switch p.xml[p.pos+1] {
			case 'b':
				p.parsedStorage = append(p.parsedStorage, '\b')
			case 'f':
				p.parsedStorage = append(p.parsedStorage, '\f')
			case 'n':
				p.parsedStorage = append(p.parsedStorage, '\n')
			case 'r':
				p.parsedStorage = append(p.parsedStorage, '\r')
			case 't':
				p.parsedStorage = append(p.parsedStorage, '\t')
			case 'v':
				p.parsedStorage = append(p.parsedStorage, '\v')
			default:
				p.parsedStorage = append(p.parsedStorage, p.xml[p.pos+1])
			}
			p.pos += 2
			last = p.pos
			continue
		}
		if c == p.stringOpen {
			if len(p.parsedStorage) == 0 {
				p.parsed = p.xml[last:p.pos]
			} else {
				if last < p.pos {
					p.parsedStorage = append(p.parsedStorage, p.xml[last:p.pos]...)
				}
				p.parsed = p.parsedStorage
			}
			p.stringOpen = 0
			p.advance()
			return nil
		}
		p.advance()
	}

	if last < p.pos {
		p.parsedStorage = append(p.parsedStorage, p.xml[last:p.pos]...)
	}
	if !p.finishing {
		return errCancelled
	}
	p.stringOpen = 0
	return p.reportFailure("Closing quote expected in string.", ErrorExpectedClosingQuote)
}

// parseUnicodeEscape decodes a \uXXXX escape (and, if code is a high
// surrogate, a following \uYYYY low surrogate) at p.pos into a UTF-8
// encoded rune appended to p.parsedStorage.
func (p *Parser) parseUnicodeEscape() error {
	if len(p.xml)-p.pos < unicodeEscapedLength {
		if !p.finishing {
			return errCancelled
		}
		return p.reportFailure("Illegal hex string.", ErrorIllegalHexString)
	}

	hi, err := escape.DecodeHex4(p.xml[p.pos+2 : p.pos+unicodeEscapedLength])
	if err != nil {
		return p.reportFailure("Invalid escape sequence.", ErrorInvalidEscapeSequence)
	}
	code := rune(hi)

	if escape.IsHighSurrogate(hi) {
		rest := len(p.xml) - p.pos
		switch {
		case rest < 2*unicodeEscapedLength:
			if !p.finishing {
				return errCancelled
			}
			if !p.coerceToUTF8 {
				return p.reportFailure("Missing low surrogate.", ErrorMissingLowSurrogate)
			}
		case p.xml[p.pos+unicodeEscapedLength] == '\\' && p.xml[p.pos+unicodeEscapedLength+1] == 'u':
			lo, err := escape.DecodeHex4(p.xml[p.pos+unicodeEscapedLength+2 : p.pos+2*unicodeEscapedLength])
			if err != nil {
				return p.reportFailure("Invalid escape sequence.", ErrorInvalidEscapeSequence)
			}
			if escape.IsLowSurrogate(lo) {
				combined, _ := escape.DecodeSurrogatePair(hi, lo)
				code = combined
				p.pos += unicodeEscapedLength
			} else if !p.coerceToUTF8 {
				return p.reportFailure("Invalid low surrogate.", ErrorInvalidLowSurrogate)
			}
		default:
			if !p.coerceToUTF8 {
				return p.reportFailure("Missing low surrogate.", ErrorMissingLowSurrogate)
			}
		}
	}

	if !p.coerceToUTF8 && !isValidCodePoint(code) {
		return p.reportFailure("Invalid unicode code point.", ErrorInvalidUnicode)
	}

	p.pos += unicodeEscapedLength
	p.parsedStorage = appendRuneUTF8(p.parsedStorage, code)
	return nil
}

// isValidCodePoint rejects surrogate halves that never got paired up and
// code points beyond the Unicode range.
func isValidCodePoint(r rune) bool {
	if r < 0 || r > 0x10FFFF {
		return false
	}
	if r >= 0xD800 && r <= 0xDFFF {
		return false
	}
	return true
}

func appendRuneUTF8(dst []byte, r rune) []byte {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return append(dst, buf[:n]...)
}
