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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/williammuji/pb-xml-util/event"
)

// runAtSplit parses xml split into two pieces at byte offset split, feeding
// each piece through Parse and then calling FinishParse. split == len(xml)
// is an ordinary split whose second piece is empty; the one-byte-at-a-time
// case is runOneByteAtATime's job.
func runAtSplit(t *testing.T, xml string, split int, opts ...Option) ([]event.Record, error) {
	t.Helper()
	rec := &event.Recorder{}
	p := New(rec, opts...)
	if err := p.Parse([]byte(xml[:split])); err != nil {
		return rec.Records, err
	}
	if err := p.Parse([]byte(xml[split:])); err != nil {
		return rec.Records, err
	}
	if err := p.FinishParse(); err != nil {
		return rec.Records, err
	}
	return rec.Records, nil
}

func runOneByteAtATime(t *testing.T, xml string, opts ...Option) ([]event.Record, error) {
	t.Helper()
	rec := &event.Recorder{}
	p := New(rec, opts...)
	for i := 0; i < len(xml); i++ {
		if err := p.Parse([]byte(xml[i : i+1])); err != nil {
			return rec.Records, err
		}
	}
	if err := p.FinishParse(); err != nil {
		return rec.Records, err
	}
	return rec.Records, nil
}

// everySplit runs want against xml split at every possible byte offset, plus
// the one-byte-at-a-time case, mirroring the original test suite's own
// "split at every possible point" methodology for proving the parser is
// chunk-boundary transparent.
func everySplit(t *testing.T, xml string, want []event.Record) {
	t.Helper()
	for split := 0; split <= len(xml); split++ {
		got, err := runAtSplit(t, xml, split)
		if err != nil {
			t.Fatalf("split=%d: unexpected error: %v", split, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("split=%d: records mismatch (-want +got):\n%s", split, diff)
		}
	}
	got, err := runOneByteAtATime(t, xml)
	if err != nil {
		t.Fatalf("one byte at a time: unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("one byte at a time: records mismatch (-want +got):\n%s", diff)
	}
}

func rStartObject(name string) event.Record { return event.Record{Kind: event.KindStartObject, Name: name} }
func rEndObject() event.Record               { return event.Record{Kind: event.KindEndObject} }
func rStartList(name string) event.Record    { return event.Record{Kind: event.KindStartList, Name: name} }
func rEndList() event.Record                 { return event.Record{Kind: event.KindEndList} }
func rString(name, v string) event.Record {
	return event.Record{Kind: event.KindRenderString, Name: name, String: v}
}

func TestSimpleTextValue(t *testing.T) {
	everySplit(t, "<root>true</root>", []event.Record{
		rStartObject(""),
		rString("", "true"),
		rEndObject(),
	})
}

func TestEmptyObject(t *testing.T) {
	everySplit(t, "<root></root>", []event.Record{
		rStartObject(""),
		rEndObject(),
	})
}

func TestEmptyList(t *testing.T) {
	everySplit(t, "<_list_empty></_list_empty>", []event.Record{
		rStartList("empty"),
		rEndList(),
	})
}

func TestAttributeValues(t *testing.T) {
	everySplit(t, `<root s="true" d="false" key="null"></root>`, []event.Record{
		rStartObject(""),
		rString("s", "true"),
		rString("d", "false"),
		rString("key", "null"),
		rEndObject(),
	})
}

func TestSingleQuotedAttributeValue(t *testing.T) {
	everySplit(t, `<root test='Another String'></root>`, []event.Record{
		rStartObject(""),
		rString("test", "Another String"),
		rEndObject(),
	})
}

func TestListChildrenAreAnonymousObjects(t *testing.T) {
	everySplit(t,
		`<root><_list_test><test>true</test><test>false</test></_list_test></root>`,
		[]event.Record{
			rStartObject(""),
			rStartList("test"),
			rStartObject(""),
			rString("", "true"),
			rEndObject(),
			rStartObject(""),
			rString("", "false"),
			rEndObject(),
			rEndList(),
			rEndObject(),
		})
}

func TestObjectChildOfList(t *testing.T) {
	everySplit(t,
		`<root t="true"><_list_l2><l2><_list_l22></_list_l22></l2></_list_l2><o key="true"></o></root>`,
		[]event.Record{
			rStartObject(""),
			rString("t", "true"),
			rStartList("l2"),
			rStartObject(""),
			rStartList("l22"),
			rEndList(),
			rEndObject(),
			rEndList(),
			rStartObject("o"),
			rString("key", "true"),
			rEndObject(),
			rEndObject(),
		})
}

func TestAnonymousTagEmitsNoWrapperEvents(t *testing.T) {
	everySplit(t, `<root><anonymous>value</anonymous></root>`, []event.Record{
		rStartObject(""),
		rString("", "value"),
		rEndObject(),
	})
}

func TestAttributeKeyMustStartWithLetter(t *testing.T) {
	_, err := runAtSplit(t, `<root 01234="x"></root>`, 6)
	if err == nil {
		t.Fatal("expected an error")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("got %T, want *ParseError", err)
	}
	if pe.Code != ErrorExpectedBeginKeyOrSlash {
		t.Errorf("got code %v, want ErrorExpectedBeginKeyOrSlash", pe.Code)
	}
}

func TestUnquotedAttributeValueIsRejected(t *testing.T) {
	_, err := runAtSplit(t, `<root foo-bar-baz=a></root>`, 10)
	if err == nil {
		t.Fatal("expected an error")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Code != ErrorExpectedQuoteBeforeAttrValue {
		t.Fatalf("got %v, want ErrorExpectedQuoteBeforeAttrValue", err)
	}
}

func TestMismatchedEndTagNameIsRejected(t *testing.T) {
	_, err := runAtSplit(t, `<root></toor>`, 6)
	if err == nil {
		t.Fatal("expected an error")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Code != ErrorTagNameNotMatch {
		t.Fatalf("got %v, want ErrorTagNameNotMatch", err)
	}
}

func TestTrailingContentAfterRootIsRejected(t *testing.T) {
	// The root element closes with its own Parse call still mid-chunk, so
	// the trailing content is detected by that same Parse call rather than
	// surfacing only later from FinishParse.
	rec := &event.Recorder{}
	p := New(rec)
	err := p.Parse([]byte(`<root></root> <stray/>`))
	if err == nil {
		t.Fatal("expected an error")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Code != ErrorParsingTerminatedBeforeEndOfInput {
		t.Fatalf("got %v, want ErrorParsingTerminatedBeforeEndOfInput", err)
	}
}

func TestSelfClosingTagNeverCloses(t *testing.T) {
	rec := &event.Recorder{}
	p := New(rec)
	if err := p.Parse([]byte(`<root />`)); err != nil {
		t.Fatalf("unexpected error from Parse: %v", err)
	}
	err := p.FinishParse()
	if err == nil {
		t.Fatal("expected FinishParse to fail: a self-closing tag never emits EndObject or pops the tag stack")
	}
}

func TestCommentsNeverParse(t *testing.T) {
	_, err := runAtSplit(t, `<root><!-- hi --></root>`, 6)
	if err == nil {
		t.Fatal("expected comments to fail to parse")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Code != ErrorExpectedDashInComment {
		t.Fatalf("got %v, want ErrorExpectedDashInComment", err)
	}
}

func TestDeclarationIsSkipped(t *testing.T) {
	everySplit(t, `<root><?xml-stylesheet type="text/xsl"?></root>`, []event.Record{
		rStartObject(""),
		rEndObject(),
	})
}

func TestRecursionDepthExceeded(t *testing.T) {
	var sb strings.Builder
	const depth = 101
	for i := 0; i < depth; i++ {
		sb.WriteString("<a>")
	}
	for i := 0; i < depth; i++ {
		sb.WriteString("</a>")
	}
	rec := &event.Recorder{}
	p := New(rec)
	err := p.Parse([]byte(sb.String()))
	if err == nil {
		err = p.FinishParse()
	}
	if err == nil {
		t.Fatal("expected max recursion depth to be exceeded")
	}
}

func TestAllowNoRootElement(t *testing.T) {
	rec := &event.Recorder{}
	p := New(rec, WithAllowNoRootElement(true))
	if err := p.Parse([]byte("   \n\t  ")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.FinishParse(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Records) != 0 {
		t.Fatalf("got %d records, want 0", len(rec.Records))
	}
}

func TestWithoutAllowNoRootElementWhitespaceOnlyFails(t *testing.T) {
	rec := &event.Recorder{}
	p := New(rec)
	if err := p.Parse([]byte("   ")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.FinishParse(); err == nil {
		t.Fatal("expected an error without WithAllowNoRootElement")
	}
}

func TestUnicodeEscape(t *testing.T) {
	everySplit(t, `<root test="caf\u00e9"></root>`, []event.Record{
		rStartObject(""),
		rString("test", "café"),
		rEndObject(),
	})
}

func TestSurrogatePairEscape(t *testing.T) {
	everySplit(t, `<root test="\ud83d\ude00"></root>`, []event.Record{
		rStartObject(""),
		rString("test", "😀"),
		rEndObject(),
	})
}

func TestBackslashEscapes(t *testing.T) {
	everySplit(t, `<root test="a\tb\nc"></root>`, []event.Record{
		rStartObject(""),
		rString("test", "a\tb\nc"),
		rEndObject(),
	})
}
