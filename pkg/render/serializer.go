package render

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/weaver-dev/weaver/pkg/signal"
	"github.com/weaver-dev/weaver/pkg/wire"
)

// chunkThreshold is the TTFB-tuned batch size: the first non-empty
// chunk flushes immediately, thereafter the serializer batches into
// chunks of at least this many bytes.
const chunkThreshold = 2048

// Serializer consumes a token sequence and writes HTML: attribute
// escaping, bind markers, inline signal-definition scripts, and
// chunked flushing.
type Serializer struct {
	W       io.Writer
	Flusher http.Flusher

	buf     bytes.Buffer
	flushed bool
}

// Drain reads tokens from in until the channel closes, writing HTML to
// s.W and flushing per the chunking rule above.
func (s *Serializer) Drain(in <-chan Token) error {
	for tok := range in {
		if err := s.writeToken(tok); err != nil {
			return err
		}
		if err := s.maybeFlush(); err != nil {
			return err
		}
	}
	return s.flush()
}

// writeAll writes tokens directly and flushes once, used by the
// suspense resolver to pre-render children to a plain string.
func (s *Serializer) writeAll(tokens []Token) error {
	for _, tok := range tokens {
		if err := s.writeToken(tok); err != nil {
			return err
		}
	}
	return s.flush()
}

func (s *Serializer) maybeFlush() error {
	if !s.flushed && s.buf.Len() > 0 {
		return s.flush()
	}
	if s.buf.Len() >= chunkThreshold {
		return s.flush()
	}
	return nil
}

func (s *Serializer) flush() error {
	if s.buf.Len() == 0 {
		return nil
	}
	s.flushed = true
	if _, err := s.W.Write(s.buf.Bytes()); err != nil {
		return err
	}
	s.buf.Reset()
	if s.Flusher != nil {
		s.Flusher.Flush()
	}
	return nil
}

func (s *Serializer) writeToken(tok Token) error {
	switch tok.Kind {
	case TokOpen:
		return s.writeOpen(tok)
	case TokClose:
		_, err := fmt.Fprintf(&s.buf, "</%s>", tok.Tag)
		return err
	case TokText:
		_, err := s.buf.WriteString(escapeHTML(tok.Text))
		return err
	case TokRaw:
		_, err := s.buf.WriteString(tok.Text)
		return err
	case TokBindOpen:
		_, err := fmt.Fprintf(&s.buf, "<!--^%s-->", tok.BindID)
		return err
	case TokBindClose:
		_, err := fmt.Fprintf(&s.buf, "<!--/%s-->", tok.BindID)
		return err
	case TokSignalDef:
		return s.writeSignalDef(tok.Def)
	}
	return nil
}

func (s *Serializer) writeOpen(tok Token) error {
	s.buf.WriteByte('<')
	s.buf.WriteString(tok.Tag)

	writeAttrMap(&s.buf, tok.Attrs)
	writeBoolAttrs(&s.buf, tok.BoolAttrs)
	writeAttrMap(&s.buf, tok.PropAttrs)
	writeAttrMap(&s.buf, tok.EventAttrs)

	if tok.Void {
		s.buf.WriteString("/>")
	} else {
		s.buf.WriteByte('>')
	}
	return nil
}

func writeAttrMap(buf *bytes.Buffer, attrs map[string]string) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, ` %s="%s"`, k, escapeAttr(attrs[k]))
	}
}

func writeBoolAttrs(buf *bytes.Buffer, attrs []string) {
	sorted := append([]string(nil), attrs...)
	sort.Strings(sorted)
	for _, k := range sorted {
		fmt.Fprintf(buf, " %s", k)
	}
}

func (s *Serializer) writeSignalDef(sig signal.Signal) error {
	payload, err := wire.SignalDefinition(sig)
	if err != nil {
		return err
	}
	s.buf.WriteString("<script>weaver.push(")
	s.buf.Write(payload)
	s.buf.WriteString(")</script>")
	return nil
}
