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

// Package xmlwriter turns a stream of event.Sink calls into XML bytes. It
// implements event.Sink directly, so anything that can drive xmlparser.Parser
// can drive a Writer the same way.
package xmlwriter

import (
	"encoding/base64"
	"errors"
	"io"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/williammuji/pb-xml-util/escape"
)

const rootTagName = "root"

// ErrUnclosedRoot is logged and returned by Close when the root element
// was never closed with a matching EndObject/EndList call.
var ErrUnclosedRoot = errors.New("xmlwriter: writer was not fully closed")

// Option configures a Writer at construction time.
type Option func(*Writer)

// WithIndent turns on pretty-printing: every element open/close emits a
// newline plus one copy of indent per level of nesting. The empty string
// (the default) means compact output with no newlines at all.
func WithIndent(indent string) Option {
	return func(w *Writer) { w.indent = indent }
}

// WithWebSafeBase64 selects URL-safe, padded base64 for RenderBytes instead
// of the standard alphabet.
func WithWebSafeBase64(enabled bool) Option {
	return func(w *Writer) { w.webSafeBase64 = enabled }
}

// WithLogger overrides the logger Close warns through when the root element
// was left open. Defaults to logrus.StandardLogger().
func WithLogger(logger *logrus.Logger) Option {
	return func(w *Writer) { w.logger = logger }
}

// Writer implements event.Sink, streaming XML to w as events arrive. The
// zero value is not usable; construct one with New.
type Writer struct {
	w       io.Writer
	element *element

	indent        string
	webSafeBase64 bool
	logger        *logrus.Logger

	tagNeedsClosed bool
	startElement   bool
}

// New returns a Writer that streams XML to w.
func New(w io.Writer, opts ...Option) *Writer {
	wr := &Writer{
		w:       w,
		element: &element{},
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(wr)
	}
	return wr
}

// Close reports whether the root element was closed with a matching
// EndObject/EndList. It never fails the way a parse error would; an
// unclosed root is only ever a warning, logged through the Writer's
// configured logger and also returned as ErrUnclosedRoot so a caller that
// does check can act on it.
func (w *Writer) Close() error {
	if w.element != nil && !w.element.isRoot() {
		w.logger.Warn("xmlwriter: writer was not fully closed")
		return ErrUnclosedRoot
	}
	return nil
}

func (w *Writer) writeByte(c byte) error {
	_, err := w.w.Write([]byte{c})
	return err
}

func (w *Writer) writeString(s string) error {
	_, err := io.WriteString(w.w, s)
	return err
}

// newLine writes a newline plus indent*level, or does nothing when no
// indent string is configured. pop accounts for the level having already
// been decremented by a pending Pop.
func (w *Writer) newLine(pop bool) error {
	if w.indent == "" {
		return nil
	}
	level := w.element.level()
	if pop {
		level--
	}
	if err := w.writeByte('\n'); err != nil {
		return err
	}
	for i := 0; i < level; i++ {
		if err := w.writeString(w.indent); err != nil {
			return err
		}
	}
	return nil
}

// pushObject and pushArray mark the parent as having a child the moment
// the new frame is created, not when it's later popped — the same instant
// the original's Element constructor calls parent->set_has_child().
func (w *Writer) pushObject(name string) {
	parent := w.element
	if parent != nil {
		parent.hasChild = true
	}
	w.element = &element{parent: parent, name: name, isObject: true}
}

func (w *Writer) pushArray(name string) {
	parent := w.element
	if parent != nil {
		parent.hasChild = true
	}
	w.element = &element{parent: parent, name: name, isList: true}
}

func (w *Writer) pop() {
	w.element = w.element.parent
}

func (w *Writer) setHasTextOrAttribute(name string) {
	if name == "" {
		w.element.hasText = true
	} else {
		w.element.hasAttribute = true
	}
}

// writeCloseTag closes a still-open start tag's '>' if one is pending, then
// emits the pretty-print newline appropriate to the element's current
// position (a freshly opened element's first child, or a closing tag that
// had children).
func (w *Writer) writeCloseTag() error {
	if w.tagNeedsClosed {
		if err := w.writeByte('>'); err != nil {
			return err
		}
		w.tagNeedsClosed = false
	}
	if w.element.isRoot() {
		return nil
	}
	if w.startElement {
		w.startElement = false
		return w.newLine(false)
	}
	if w.element.hasChild && !w.element.anonymous {
		return w.newLine(true)
	}
	return nil
}

// writePrefix writes the pretty-printing/close-tag bookkeeping that must
// happen before a name-value pair (render=true, the common case for
// RenderX calls) or before a nested element's own opening tag
// (render=false, used by StartObject/StartList).
func (w *Writer) writePrefix(name string, render bool) error {
	if w.tagNeedsClosed && !render {
		if err := w.writeByte('>'); err != nil {
			return err
		}
		w.tagNeedsClosed = false
	}

	if !render && !w.element.isRoot() {
		if w.startElement {
			w.startElement = false
			if err := w.newLine(false); err != nil {
				return err
			}
		} else if w.element.hasChild {
			if err := w.newLine(true); err != nil {
				return err
			}
		}
	}

	if render && w.element.isList {
		if err := w.newLine(false); err != nil {
			return err
		}
		if err := w.writeByte('<'); err != nil {
			return err
		}
		if err := w.writeString(anonymousTagName); err != nil {
			return err
		}
		w.element.anonymous = true
		w.element.hasChild = true
		w.element.listChildNeedsEndTag = true
		w.tagNeedsClosed = true
	}

	if render {
		if name != "" {
			if err := w.writeByte(' '); err != nil {
				return err
			}
			if err := escape.WriteEscaped(w.w, name); err != nil {
				return err
			}
			return w.writeByte('=')
		}
		w.tagNeedsClosed = false
		return w.writeByte('>')
	}
	return nil
}

// writeSuffix closes the per-call "anonymous" wrapper a list's scalar leaf
// children get, opened by writePrefix's render branch above.
func (w *Writer) writeSuffix() error {
	if !w.element.isList || !w.element.listChildNeedsEndTag {
		return nil
	}
	if err := w.writeCloseTag(); err != nil {
		return err
	}
	if err := w.writeString("</"); err != nil {
		return err
	}
	if w.element.anonymous {
		if err := w.writeString(anonymousTagName); err != nil {
			return err
		}
		w.element.anonymous = false
	} else if err := w.writeString(w.element.name); err != nil {
		return err
	}
	w.element.listChildNeedsEndTag = false
	return w.writeByte('>')
}

const anonymousTagName = "anonymous"

// StartObject opens a new object element. An empty name becomes "root" at
// the document root, or the enclosing list's own name when name is empty
// inside a list (an anonymous list-of-objects child).
func (w *Writer) StartObject(name string) error {
	w.element.hasChild = false
	w.element.hasText = false
	w.element.hasAttribute = false
	w.startElement = true

	tagName := name
	if name == "" {
		if w.element.isRoot() {
			tagName = rootTagName
		} else if w.element.isList {
			tagName = w.element.name
		}
	}

	if err := w.writePrefix(tagName, false); err != nil {
		return err
	}
	if err := w.writeByte('<'); err != nil {
		return err
	}
	if err := w.writeString(tagName); err != nil {
		return err
	}
	w.tagNeedsClosed = true
	w.pushObject(tagName)
	return nil
}

// EndObject closes the innermost open object, emitting "></name>" when the
// element had neither attributes nor children.
func (w *Writer) EndObject() error {
	w.startElement = false
	tagName := w.element.name
	if err := w.writeCloseTag(); err != nil {
		return err
	}
	if tagName != "" {
		if err := w.writeString("</"); err != nil {
			return err
		}
		if err := w.writeString(tagName); err != nil {
			return err
		}
		if err := w.writeByte('>'); err != nil {
			return err
		}
	}
	w.pop()
	if err := w.writeSuffix(); err != nil {
		return err
	}
	if w.element.isRoot() {
		return w.newLine(false)
	}
	return nil
}

// StartList opens a list element, emitted as "<_list_name>".
func (w *Writer) StartList(name string) error {
	w.startElement = true
	if err := w.writePrefix(name, false); err != nil {
		return err
	}
	if err := w.writeByte('<'); err != nil {
		return err
	}
	if err := w.writeString(listTagPrefix); err != nil {
		return err
	}
	if err := w.writeString(name); err != nil {
		return err
	}
	if err := w.writeByte('>'); err != nil {
		return err
	}
	w.pushArray(name)
	return nil
}

const listTagPrefix = "_list_"

// EndList closes the innermost open list, emitted as "</_list_name>".
func (w *Writer) EndList() error {
	w.startElement = false
	if err := w.writeCloseTag(); err != nil {
		return err
	}
	tagName := w.element.name
	if err := w.writeString("</" + listTagPrefix); err != nil {
		return err
	}
	if err := w.writeString(tagName); err != nil {
		return err
	}
	if err := w.writeByte('>'); err != nil {
		return err
	}
	w.pop()
	if err := w.writeSuffix(); err != nil {
		return err
	}
	if w.element.isRoot() {
		return w.newLine(false)
	}
	return nil
}

// renderSimple renders value verbatim (no escaping) as either an attribute
// value (name non-empty) or text content (name empty). Every Render* method
// that doesn't need escaping (bools, integers other than uint64, finite
// floats, null) funnels through this.
func (w *Writer) renderSimple(name, value string) error {
	if err := w.writePrefix(name, true); err != nil {
		return err
	}
	if name != "" {
		if err := w.writeByte('"'); err != nil {
			return err
		}
	}
	if err := w.writeString(value); err != nil {
		return err
	}
	if name != "" {
		if err := w.writeByte('"'); err != nil {
			return err
		}
	}
	w.setHasTextOrAttribute(name)
	return w.writeSuffix()
}

func (w *Writer) RenderBool(name string, value bool) error {
	if value {
		return w.renderSimple(name, "true")
	}
	return w.renderSimple(name, "false")
}

func (w *Writer) RenderInt32(name string, value int32) error {
	return w.renderSimple(name, strconv.FormatInt(int64(value), 10))
}

func (w *Writer) RenderUint32(name string, value uint32) error {
	return w.renderSimple(name, strconv.FormatUint(uint64(value), 10))
}

// RenderInt64 renders value in decimal through renderSimple: quoted as an
// attribute value (name non-empty), written bare as text content (name
// empty).
func (w *Writer) RenderInt64(name string, value int64) error {
	return w.renderSimple(name, strconv.FormatInt(value, 10))
}

// RenderUint64 always quotes, even as text content (name == ""), unlike
// every other scalar Render method here. That asymmetry is carried over
// rather than smoothed out.
func (w *Writer) RenderUint64(name string, value uint64) error {
	if err := w.writePrefix(name, true); err != nil {
		return err
	}
	if err := w.writeByte('"'); err != nil {
		return err
	}
	if err := w.writeString(strconv.FormatUint(value, 10)); err != nil {
		return err
	}
	if err := w.writeByte('"'); err != nil {
		return err
	}
	w.setHasTextOrAttribute(name)
	return w.writeSuffix()
}

func (w *Writer) RenderFloat(name string, value float32) error {
	f := float64(value)
	if !math.IsNaN(f) && !math.IsInf(f, 0) {
		return w.renderSimple(name, strconv.FormatFloat(f, 'g', -1, 32))
	}
	return w.RenderString(name, nonFiniteFloatString(f))
}

func (w *Writer) RenderDouble(name string, value float64) error {
	if !math.IsNaN(value) && !math.IsInf(value, 0) {
		return w.renderSimple(name, strconv.FormatFloat(value, 'g', -1, 64))
	}
	return w.RenderString(name, nonFiniteFloatString(value))
}

// RenderString escapes value per the JSON-style escaping contract, as
// either an attribute value (name non-empty) or text content (name empty).
func (w *Writer) RenderString(name, value string) error {
	if err := w.writePrefix(name, true); err != nil {
		return err
	}
	if name != "" {
		if err := w.writeByte('"'); err != nil {
			return err
		}
	}
	if err := escape.WriteEscaped(w.w, value); err != nil {
		return err
	}
	if name != "" {
		if err := w.writeByte('"'); err != nil {
			return err
		}
	}
	w.setHasTextOrAttribute(name)
	return w.writeSuffix()
}

// RenderBytes base64-encodes value (standard alphabet by default, URL-safe
// when WithWebSafeBase64 is set) and writes it as an attribute value or
// text content the same way RenderString does.
func (w *Writer) RenderBytes(name string, value []byte) error {
	if err := w.writePrefix(name, true); err != nil {
		return err
	}
	enc := base64.StdEncoding
	if w.webSafeBase64 {
		enc = base64.URLEncoding
	}
	if name != "" {
		if err := w.writeByte('"'); err != nil {
			return err
		}
	}
	if err := w.writeString(enc.EncodeToString(value)); err != nil {
		return err
	}
	if name != "" {
		if err := w.writeByte('"'); err != nil {
			return err
		}
	}
	w.setHasTextOrAttribute(name)
	return w.writeSuffix()
}

func (w *Writer) RenderNull(name string) error {
	return w.renderSimple(name, "null")
}

// RenderComments emits a raw "<!--...-->" span, bypassing the element
// stack entirely; a start tag still waiting for its '>' is closed first.
// It is not part of event.Sink; call it directly on a *Writer when
// interleaving a comment between events.
func (w *Writer) RenderComments(comments string) error {
	if w.tagNeedsClosed {
		if err := w.writeByte('>'); err != nil {
			return err
		}
		w.tagNeedsClosed = false
	}
	if err := w.writeString("<!--"); err != nil {
		return err
	}
	if err := w.writeString(comments); err != nil {
		return err
	}
	return w.writeString("-->")
}

func nonFiniteFloatString(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if f > 0 {
		return "Infinity"
	}
	return "-Infinity"
}
