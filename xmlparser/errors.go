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
	"errors"
	"fmt"
)

// ErrorCode identifies the specific rule a parse failure violated, mirroring
// XmlStreamParser::ParseErrorType in the original C++ implementation.
type ErrorCode int

const (
	ErrorInvalidKey ErrorCode = iota
	ErrorNonUTF8
	ErrorParsingTerminatedBeforeEndOfInput
	ErrorExpectedClosingQuote
	ErrorExpectedTagName
	ErrorIllegalHexString
	ErrorInvalidEscapeSequence
	ErrorMissingLowSurrogate
	ErrorInvalidLowSurrogate
	ErrorInvalidUnicode
	ErrorExpectedOpenTag
	ErrorExpectedOpenTagInEndElement
	ErrorExpectedCloseTagInBeginElement
	ErrorInvalidText
	ErrorInvalidEndTagName
	ErrorTagNameNotMatch
	ErrorExpectedTagNameInEndTag
	ErrorExpectedBeginKeyOrSlash
	ErrorExpectedQuoteBeforeAttrValue
	ErrorIllegalComment
	ErrorExpectedDashInComment
	ErrorIllegalCloseComment
	ErrorExpectedCloseDashInComment
	ErrorIllegalDeclaration
	ErrorExpectedQuestionMarkInComment
	ErrorIllegalCloseDeclaration
	ErrorExpectedCloseQuestionMarkInDeclaration
	ErrorExpectedClosingTag
	ErrorInvalidTagName
	ErrorExpectedEndTagSlash
	ErrorExpectedSpaceOrCloseTag
	ErrorExpectedCloseTag
	ErrorExpectedSlash
	ErrorExpectedEqualMark
	ErrorExpectedCloseInEndElement
	ErrorMessageTooDeep
)

func (c ErrorCode) String() string {
	if s, ok := errorCodeNames[c]; ok {
		return s
	}
	return "Unknown"
}

var errorCodeNames = map[ErrorCode]string{
	ErrorInvalidKey:                              "InvalidKey",
	ErrorNonUTF8:                                 "NonUTF8",
	ErrorParsingTerminatedBeforeEndOfInput:        "ParsingTerminatedBeforeEndOfInput",
	ErrorExpectedClosingQuote:                     "ExpectedClosingQuote",
	ErrorExpectedTagName:                          "ExpectedTagName",
	ErrorIllegalHexString:                         "IllegalHexString",
	ErrorInvalidEscapeSequence:                    "InvalidEscapeSequence",
	ErrorMissingLowSurrogate:                      "MissingLowSurrogate",
	ErrorInvalidLowSurrogate:                      "InvalidLowSurrogate",
	ErrorInvalidUnicode:                           "InvalidUnicode",
	ErrorExpectedOpenTag:                          "ExpectedOpenTag",
	ErrorExpectedOpenTagInEndElement:              "ExpectedOpenTagInEndElement",
	ErrorExpectedCloseTagInBeginElement:           "ExpectedCloseTagInBeginElement",
	ErrorInvalidText:                              "InvalidText",
	ErrorInvalidEndTagName:                        "InvalidEndTagName",
	ErrorTagNameNotMatch:                          "TagNameNotMatch",
	ErrorExpectedTagNameInEndTag:                  "ExpectedTagNameInEndTag",
	ErrorExpectedBeginKeyOrSlash:                  "ExpectedBeginKeyOrSlash",
	ErrorExpectedQuoteBeforeAttrValue:              "ExpectedQuoteBeforeAttrValue",
	ErrorIllegalComment:                           "IllegalComment",
	ErrorExpectedDashInComment:                     "ExpectedDashInComment",
	ErrorIllegalCloseComment:                      "IllegalCloseComment",
	ErrorExpectedCloseDashInComment:               "ExpectedCloseDashInComment",
	ErrorIllegalDeclaration:                       "IllegalDeclaration",
	ErrorExpectedQuestionMarkInComment:            "ExpectedQuestionMarkInComment",
	ErrorIllegalCloseDeclaration:                  "IllegalCloseDeclaration",
	ErrorExpectedCloseQuestionMarkInDeclaration:   "ExpectedCloseQuestionMarkInDeclaration",
	ErrorExpectedClosingTag:                       "ExpectedClosingTag",
	ErrorInvalidTagName:                           "InvalidTagName",
	ErrorExpectedEndTagSlash:                      "ExpectedEndTagSlash",
	ErrorExpectedSpaceOrCloseTag:                  "ExpectedSpaceOrCloseTag",
	ErrorExpectedCloseTag:                         "ExpectedCloseTag",
	ErrorExpectedSlash:                            "ExpectedSlash",
	ErrorExpectedEqualMark:                        "ExpectedEqualMark",
	ErrorExpectedCloseInEndElement:                "ExpectedCloseInEndElement",
	ErrorMessageTooDeep:                           "MessageTooDeep",
}

// sentinels holds one stable error value per ErrorCode, the way decodeError
// constants work in the teacher's decoder.go, so callers can use
// errors.Is(err, xmlparser.ErrTagNameNotMatch) instead of comparing codes.
var sentinels = func() map[ErrorCode]error {
	m := make(map[ErrorCode]error, len(errorCodeNames))
	for code, name := range errorCodeNames {
		m[code] = errors.New(name)
	}
	return m
}()

var (
	ErrInvalidKey                            = sentinels[ErrorInvalidKey]
	ErrNonUTF8                                = sentinels[ErrorNonUTF8]
	ErrParsingTerminatedBeforeEndOfInput       = sentinels[ErrorParsingTerminatedBeforeEndOfInput]
	ErrExpectedClosingQuote                   = sentinels[ErrorExpectedClosingQuote]
	ErrExpectedTagName                        = sentinels[ErrorExpectedTagName]
	ErrIllegalHexString                       = sentinels[ErrorIllegalHexString]
	ErrInvalidEscapeSequence                  = sentinels[ErrorInvalidEscapeSequence]
	ErrMissingLowSurrogate                    = sentinels[ErrorMissingLowSurrogate]
	ErrInvalidLowSurrogate                    = sentinels[ErrorInvalidLowSurrogate]
	ErrInvalidUnicode                         = sentinels[ErrorInvalidUnicode]
	ErrExpectedOpenTag                        = sentinels[ErrorExpectedOpenTag]
	ErrExpectedOpenTagInEndElement            = sentinels[ErrorExpectedOpenTagInEndElement]
	ErrExpectedCloseTagInBeginElement         = sentinels[ErrorExpectedCloseTagInBeginElement]
	ErrInvalidText                            = sentinels[ErrorInvalidText]
	ErrInvalidEndTagName                      = sentinels[ErrorInvalidEndTagName]
	ErrTagNameNotMatch                        = sentinels[ErrorTagNameNotMatch]
	ErrExpectedTagNameInEndTag                = sentinels[ErrorExpectedTagNameInEndTag]
	ErrExpectedBeginKeyOrSlash                = sentinels[ErrorExpectedBeginKeyOrSlash]
	ErrExpectedQuoteBeforeAttrValue           = sentinels[ErrorExpectedQuoteBeforeAttrValue]
	ErrIllegalComment                         = sentinels[ErrorIllegalComment]
	ErrExpectedDashInComment                  = sentinels[ErrorExpectedDashInComment]
	ErrIllegalCloseComment                    = sentinels[ErrorIllegalCloseComment]
	ErrExpectedCloseDashInComment             = sentinels[ErrorExpectedCloseDashInComment]
	ErrIllegalDeclaration                     = sentinels[ErrorIllegalDeclaration]
	ErrExpectedQuestionMarkInComment          = sentinels[ErrorExpectedQuestionMarkInComment]
	ErrIllegalCloseDeclaration                = sentinels[ErrorIllegalCloseDeclaration]
	ErrExpectedCloseQuestionMarkInDeclaration = sentinels[ErrorExpectedCloseQuestionMarkInDeclaration]
	ErrExpectedClosingTag                     = sentinels[ErrorExpectedClosingTag]
	ErrInvalidTagName                         = sentinels[ErrorInvalidTagName]
	ErrExpectedEndTagSlash                    = sentinels[ErrorExpectedEndTagSlash]
	ErrExpectedSpaceOrCloseTag                = sentinels[ErrorExpectedSpaceOrCloseTag]
	ErrExpectedCloseTag                       = sentinels[ErrorExpectedCloseTag]
	ErrExpectedSlash                          = sentinels[ErrorExpectedSlash]
	ErrExpectedEqualMark                      = sentinels[ErrorExpectedEqualMark]
	ErrExpectedCloseInEndElement               = sentinels[ErrorExpectedCloseInEndElement]
	ErrMessageTooDeep                         = sentinels[ErrorMessageTooDeep]
)

// ParseError reports a parse failure along with a ±20-byte snippet of the
// input around the failure point and a caret marking the exact byte,
// matching XmlStreamParser::ReportFailure's diagnostic formatting.
type ParseError struct {
	Code    ErrorCode
	Message string
	Snippet string
	Caret   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s\n%s\n%s", e.Message, e.Snippet, e.Caret)
}

func (e *ParseError) Unwrap() error {
	return sentinels[e.Code]
}

// errCancelled is an internal control-flow signal: a state function ran out
// of bytes mid-token and wants RunParser to push its state back onto the
// stack and return cleanly so the caller can supply more input. It never
// escapes Parse/FinishParse as-is; FinishParse runs with finishing=true, so
// cancellation there is converted into a real ParseError instead (the
// original's finishing_ flag dictates the same split in ReportUnknown).
var errCancelled = errors.New("xmlparser: cancelled")
