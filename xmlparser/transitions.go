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

// This file holds the per-state transition functions RunParser dispatches
// to. Each one mirrors its XmlStreamParser::Parse* counterpart, including
// two quirks that are load-bearing for what "chunk-boundary transparent"
// means here but that a naive from-scratch implementation would not
// reproduce:
//
//   - self-closing tags written with a space before the slash ("<foo />")
//     are parsed but never close the element (without that space, "<foo/>"
//     fails with ErrExpectedSpaceOrCloseTag at the '/'):
//     the END_TAG_SLASH branch of parseAttrKey advances past '/' and pushes
//     stateBeginElementClose, which on '>' only pushes stateText — it never
//     emits EndObject/EndList or pops tagNameStack. Only an explicit
//     "</foo>" actually closes an element.
//   - XML comments ("<!--...-->") never successfully parse. parseStartTag's
//     tokenComment branch calls parseComments without first advancing past
//     the '!' that caused the COMMENT classification (contrast with
//     parseDeclaration, which does consume its own leading '?'), so
//     parseComments' "does this start with '--'" check always sees '!' and
//     fails with ErrExpectedDashInComment as soon as two bytes are
//     available to look at.

func (p *Parser) parseBeginElement(tok tokenType) error {
	switch tok {
	case tokenOpenTag:
		p.advance()
		p.stack = append(p.stack, stateStartTag)
		return nil
	case tokenUnknown:
		return p.reportUnknown("Expected an open tag.", ErrorExpectedOpenTag)
	default:
		return p.reportFailure("Expected an open tag.", ErrorExpectedOpenTag)
	}
}

func (p *Parser) parseStartTag(tok tokenType) error {
	switch tok {
	case tokenDeclaration:
		return p.parseDeclaration()
	case tokenComment:
		return p.parseComments()
	case tokenBeginKey:
		return p.parseStartTagName()
	case tokenEndTagSlash:
		return p.parseEndElementMidFromSlash()
	case tokenUnknown:
		return p.reportUnknown("Expected a tag name.", ErrorExpectedTagName)
	default:
		return p.reportFailure("Expected a tag name.", ErrorExpectedTagName)
	}
}

func (p *Parser) parseBeginElementMid(tok tokenType) error {
	switch tok {
	case tokenAttrSeparator:
		p.advance()
		p.stack = append(p.stack, stateAttrKey)
		return nil
	case tokenCloseTag:
		p.advance()
		p.stack = append(p.stack, stateText)
		return nil
	case tokenUnknown:
		return p.reportUnknown("Expected a space or a close tag.", ErrorExpectedSpaceOrCloseTag)
	default:
		return p.reportFailure("Expected a space or a close tag.", ErrorExpectedSpaceOrCloseTag)
	}
}

func (p *Parser) parseText(tok tokenType) error {
	switch tok {
	case tokenOpenTag:
		p.advance()
		p.stack = append(p.stack, stateText, stateStartTag)
		return nil
	case tokenUnknown:
		return p.reportUnknown("Expected an open tag.", ErrorExpectedOpenTag)
	default:
		return p.parseTextBody()
	}
}

func (p *Parser) parseTextBody() error {
	original := p.pos
	text, rest, ok := consumeText(p.xml[p.pos:])
	if !ok {
		return p.reportFailure("Invalid text.", ErrorInvalidText)
	}
	p.pos = len(p.xml) - len(rest)

	if !p.finishing && p.pos >= len(p.xml) {
		p.pos = original
		return errCancelled
	}

	p.text = text
	if err := p.sink.RenderString("", string(p.text)); err != nil {
		return err
	}
	p.stack = append(p.stack, stateEndElement)
	return nil
}

func (p *Parser) parseEndElement(tok tokenType) error {
	switch tok {
	case tokenOpenTag:
		return p.parseEndElementBody()
	case tokenUnknown:
		return p.reportUnknown("Expected an open tag.", ErrorExpectedOpenTag)
	default:
		return p.reportFailure("Expected a open tag in end element.", ErrorExpectedOpenTagInEndElement)
	}
}

func (p *Parser) parseEndElementBody() error {
	p.advance() // past '<'
	p.stack = append(p.stack, stateEndElementMid)
	return nil
}

func (p *Parser) parseBeginElementClose(tok tokenType) error {
	switch tok {
	case tokenCloseTag:
		p.advance()
		p.stack = append(p.stack, stateText)
		return nil
	case tokenUnknown:
		return p.reportUnknown("Expected a close tag.", ErrorExpectedCloseTag)
	default:
		return p.reportFailure("Expected a close tag in begin element.", ErrorExpectedCloseTagInBeginElement)
	}
}

// parseEndElementMid is the stateEndElementMid handler: it expects the '/'
// of a "</tag>" end tag, reached after parseEndElementBody has already
// consumed the '<'.
func (p *Parser) parseEndElementMid(tok tokenType) error {
	switch tok {
	case tokenEndTagSlash:
		p.advance()
		p.stack = append(p.stack, stateEndTag)
		return nil
	case tokenUnknown:
		return p.reportUnknown("Expected a slash.", ErrorExpectedSlash)
	default:
		return p.reportFailure("Expected an end tag slash.", ErrorExpectedEndTagSlash)
	}
}

// parseEndElementMidFromSlash handles the '/' that starts an end tag
// ("</foo>") when it's encountered directly from stateStartTag, i.e.
// immediately after the tag-opening '<'. It discards the stateText
// continuation parseText always pushes alongside stateStartTag, since this
// '<' turned out to be a closing tag rather than another child element.
func (p *Parser) parseEndElementMidFromSlash() error {
	p.advance() // past '/'
	if len(p.stack) > 0 && p.stack[len(p.stack)-1] == stateText {
		p.stack = p.stack[:len(p.stack)-1]
	}
	p.stack = append(p.stack, stateEndTag)
	return nil
}

func (p *Parser) parseEndElementClose(tok tokenType) error {
	switch tok {
	case tokenCloseTag:
		p.advance()
		return nil
	case tokenUnknown:
		return p.reportUnknown("Expected a close tag.", ErrorExpectedCloseTag)
	default:
		return p.reportFailure("Expected an close tag in end element.", ErrorExpectedCloseInEndElement)
	}
}

func (p *Parser) parseEndTag(tok tokenType) error {
	if tok == tokenUnknown {
		return p.reportUnknown("Expected a tag name.", ErrorExpectedTagName)
	}
	if tok != tokenBeginKey {
		return p.reportFailure("Expected a tag name in end tag.", ErrorExpectedTagNameInEndTag)
	}

	original := p.pos
	name, rest, ok := consumeTagName(p.xml[p.pos:])
	if !ok {
		return p.reportFailure("Invalid end tag name.", ErrorInvalidEndTagName)
	}
	p.pos = len(p.xml) - len(rest)

	if !p.finishing && p.pos >= len(p.xml) {
		p.pos = original
		return errCancelled
	}

	tagName := p.names.Intern(name)
	endList := false
	if stripped, ok := stripListPrefix(tagName); ok {
		tagName = stripped
		endList = true
	}

	top := p.tagNameStack[len(p.tagNameStack)-1]
	if top.name != tagName {
		return p.reportFailure("Tag name not match.", ErrorTagNameNotMatch)
	}

	if endList {
		if err := p.sink.EndList(); err != nil {
			return err
		}
	} else {
		if tagName != anonymousTagName {
			if err := p.sink.EndObject(); err != nil {
				return err
			}
		}
		p.recursionDepth--
	}
	p.elementTypeStack = p.elementTypeStack[:len(p.elementTypeStack)-1]
	p.tagNameStack = p.tagNameStack[:len(p.tagNameStack)-1]
	p.stack = append(p.stack, stateEndElementClose)
	return nil
}

func (p *Parser) parseAttrKey(tok tokenType) error {
	switch tok {
	case tokenEndTagSlash:
		// Self-closing "/>" — see the file-level comment: this advances
		// past '/' and awaits '>', but the element it opened is never
		// actually closed.
		p.advance()
		p.stack = append(p.stack, stateBeginElementClose)
		return nil
	case tokenBeginKey:
		if err := p.parseKey(); err != nil {
			return err
		}
		p.stack = append(p.stack, stateAttrMid)
		return nil
	case tokenUnknown:
		return p.reportUnknown("Expected a begin key or a slash.", ErrorExpectedBeginKeyOrSlash)
	default:
		return p.reportFailure("Expected a begin key or a slash.", ErrorExpectedBeginKeyOrSlash)
	}
}

func (p *Parser) parseAttrMid(tok tokenType) error {
	switch tok {
	case tokenAttrValueSeparator:
		p.advance()
		p.stack = append(p.stack, stateAttrValue)
		return nil
	case tokenUnknown:
		return p.reportUnknown("Expected a equal mark.", ErrorExpectedEqualMark)
	default:
		return p.reportFailure("Expected a equal mark.", ErrorExpectedEqualMark)
	}
}

func (p *Parser) parseAttrValue(tok tokenType) error {
	switch tok {
	case tokenBeginString:
		if err := p.parseStringHelper(); err != nil {
			return err
		}
		if err := p.sink.RenderString(p.names.Intern(p.key), string(p.parsed)); err != nil {
			return err
		}
		p.key = nil
		p.parsed = nil
		p.keyStorage = nil
		p.parsedStorage = nil
		p.stack = append(p.stack, stateBeginElementMid)
		return nil
	case tokenUnknown:
		return p.reportUnknown("Expected a quote before attribute value.", ErrorExpectedQuoteBeforeAttrValue)
	default:
		return p.reportFailure("Expected a quote before attribute value.", ErrorExpectedQuoteBeforeAttrValue)
	}
}

func (p *Parser) parseComments() error {
	if len(p.xml)-p.pos < 2 {
		if !p.finishing {
			return errCancelled
		}
		return p.reportFailure("Illegal comment.", ErrorIllegalComment)
	}

	data := p.xml[p.pos:]
	if data[0] != '-' || data[1] != '-' {
		return p.reportFailure("Dash expected in comment.", ErrorExpectedDashInComment)
	}
	p.pos += 2

	for p.pos < len(p.xml) {
		data = p.xml[p.pos:]
		if data[0] == '-' {
			if len(data) < 3 {
				if !p.finishing {
					return errCancelled
				}
				return p.reportFailure("Illegal close comment.", ErrorIllegalCloseComment)
			}
			if data[1] != '-' || data[2] != '>' {
				return p.reportFailure("Illegal close comment.", ErrorIllegalCloseComment)
			}
			p.pos += 3
			return nil
		}
		p.advance()
	}
	if !p.finishing {
		return errCancelled
	}
	return p.reportFailure("Close dash expected in comment.", ErrorExpectedCloseDashInComment)
}

func (p *Parser) parseDeclaration() error {
	original := p.pos
	if len(p.xml)-p.pos < 1 {
		if !p.finishing {
			return errCancelled
		}
		return p.reportFailure("Illegal comment.", ErrorIllegalDeclaration)
	}

	data := p.xml[p.pos:]
	if data[0] != '?' {
		return p.reportFailure("Question mark expected in comment.", ErrorExpectedQuestionMarkInComment)
	}
	p.pos++

	for p.pos < len(p.xml) {
		data = p.xml[p.pos:]
		if data[0] == '?' {
			if len(data) < 2 {
				if !p.finishing {
					p.pos = original
					return errCancelled
				}
				return p.reportFailure("Illegal close declaration.", ErrorIllegalCloseDeclaration)
			}
			if data[1] != '>' {
				return p.reportFailure("Illegal close declaration.", ErrorIllegalCloseDeclaration)
			}
			p.pos += 2
			return nil
		}
		p.advance()
	}
	if !p.finishing {
		p.pos = original
		return errCancelled
	}
	return p.reportFailure("Close question mark expected in comment.", ErrorExpectedCloseQuestionMarkInDeclaration)
}

func (p *Parser) parseKey() error {
	original := p.pos
	key, rest, ok := consumeKey(p.xml[p.pos:])
	if !ok {
		return p.reportFailure("Invalid key.", ErrorInvalidKey)
	}
	p.pos = len(p.xml) - len(rest)

	if !p.finishing && p.pos >= len(p.xml) {
		p.pos = original
		return errCancelled
	}
	p.key = key
	p.keyStorage = nil
	return nil
}

func (p *Parser) parseStartTagName() error {
	if err := p.parseTagName(); err != nil {
		return err
	}

	tagName := p.names.Intern(p.tagName)
	if stripped, isList := stripListPrefix(tagName); isList {
		if err := p.sink.StartList(stripped); err != nil {
			return err
		}
		p.elementTypeStack = append(p.elementTypeStack, elementList)
		p.tagNameStack = append(p.tagNameStack, tagNameFrame{name: stripped, isList: true})
	} else {
		parentIsList := false
		if len(p.tagNameStack) > 0 {
			parentIsList = p.tagNameStack[len(p.tagNameStack)-1].isList
		}
		if tagName != anonymousTagName {
			if tagName == rootTagName || parentIsList {
				if err := p.sink.StartObject(""); err != nil {
					return err
				}
			} else {
				if err := p.sink.StartObject(tagName); err != nil {
					return err
				}
			}
		}
		p.elementTypeStack = append(p.elementTypeStack, elementObject)
		if err := p.incrementRecursionDepth(tagName); err != nil {
			return err
		}
		p.tagNameStack = append(p.tagNameStack, tagNameFrame{name: tagName, isList: false})
	}

	p.tagName = nil
	p.stack = append(p.stack, stateBeginElementMid)
	return nil
}

func (p *Parser) parseTagName() error {
	original := p.pos
	name, rest, ok := consumeTagName(p.xml[p.pos:])
	if !ok {
		return p.reportFailure("Invalid tag name.", ErrorInvalidTagName)
	}
	p.pos = len(p.xml) - len(rest)

	if !p.finishing && p.pos >= len(p.xml) {
		p.pos = original
		return errCancelled
	}
	p.tagName = name
	return nil
}

// stripListPrefix reports whether name carries the "_list_" marker and, if
// so, returns the name with it removed.
func stripListPrefix(name string) (string, bool) {
	if len(name) >= len(listTagPrefix) && name[:len(listTagPrefix)] == listTagPrefix {
		return name[len(listTagPrefix):], true
	}
	return name, false
}
