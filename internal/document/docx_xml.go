package document

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// rewriteDocumentXML translates the paragraph text of a WordprocessingML
// document part in place.
func rewriteDocumentXML(ctx context.Context, path string, translate TranslateFunc) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveInvalid, err)
	}
	var out bytes.Buffer
	if err := rewriteWordXML(ctx, bytes.NewReader(data), &out, translate); err != nil {
		return err
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveInvalid, err)
	}
	return nil
}

// rewriteWordXML copies an XML token stream from r to w, replacing the text
// of every paragraph with its translation. Tokens are read raw so namespace
// prefixes survive the round trip byte for byte; only the character data
// inside w:t elements is touched. Paragraphs inside table cells pass through
// here too since they are ordinary w:p elements in the stream.
func rewriteWordXML(ctx context.Context, r io.Reader, w io.Writer, translate TranslateFunc) error {
	dec := xml.NewDecoder(r)
	bw := bufio.NewWriter(w)

	var para []xml.Token
	depth := 0 // open w:p elements

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: malformed document part: %v", ErrArchiveInvalid, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if isWordElem(t.Name, "p") {
				depth++
			}
		case xml.EndElement:
			if isWordElem(t.Name, "p") && depth > 0 {
				depth--
				if depth == 0 {
					para = append(para, xml.CopyToken(tok))
					if err := rewriteParagraph(ctx, bw, para, translate); err != nil {
						return err
					}
					para = para[:0]
					continue
				}
			}
		}

		if depth > 0 {
			para = append(para, xml.CopyToken(tok))
		} else if err := writeToken(bw, tok); err != nil {
			return err
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: unterminated paragraph element", ErrArchiveInvalid)
	}
	return bw.Flush()
}

// paragraphText accumulates the visible text of one paragraph. A buffered
// top-level paragraph can contain further paragraphs (text boxes nest them),
// so each w:p gets its own group and runs attach to the innermost one.
type paragraphText struct {
	original   strings.Builder
	translated string
	rewrite    bool
	seenRun    bool
}

// textRun ties a w:t start token to its paragraph.
type textRun struct {
	group *paragraphText
	first bool
}

// rewriteParagraph emits one buffered paragraph, translated. The paragraph's
// text is gathered from its w:t runs, translated as one unit, written back
// into the first run, and the remaining runs are emptied. Formatting runs,
// properties, and embedded objects are emitted unchanged. Paragraphs with no
// visible text are copied verbatim without calling the backend.
func rewriteParagraph(ctx context.Context, w *bufio.Writer, toks []xml.Token, translate TranslateFunc) error {
	runs := make(map[int]*textRun)
	var groups []*paragraphText
	var stack []*paragraphText
	var open *paragraphText // paragraph owning the currently open w:t

	for i, tok := range toks {
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case isWordElem(t.Name, "p"):
				g := &paragraphText{}
				groups = append(groups, g)
				stack = append(stack, g)
			case isWordElem(t.Name, "t"):
				if len(stack) == 0 {
					continue
				}
				g := stack[len(stack)-1]
				runs[i] = &textRun{group: g, first: !g.seenRun}
				g.seenRun = true
				open = g
			}
		case xml.EndElement:
			switch {
			case isWordElem(t.Name, "p"):
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			case isWordElem(t.Name, "t"):
				open = nil
			}
		case xml.CharData:
			if open != nil {
				open.original.Write([]byte(t))
			}
		}
	}

	for _, g := range groups {
		if strings.TrimSpace(g.original.String()) == "" {
			continue
		}
		out, err := translate(ctx, g.original.String())
		if err != nil {
			return err
		}
		g.translated = out
		g.rewrite = true
	}

	skipText := false // dropping the original text of a rewritten w:t
	for i, tok := range toks {
		switch t := tok.(type) {
		case xml.StartElement:
			if run, ok := runs[i]; ok && run.group.rewrite {
				start := t
				if run.first {
					start = ensurePreserveSpace(start)
				}
				if err := writeToken(w, start); err != nil {
					return err
				}
				if run.first {
					if err := writeToken(w, xml.CharData(run.group.translated)); err != nil {
						return err
					}
				}
				skipText = true
				continue
			}
		case xml.EndElement:
			if skipText && isWordElem(t.Name, "t") {
				skipText = false
			}
		case xml.CharData:
			if skipText {
				continue
			}
		}
		if err := writeToken(w, tok); err != nil {
			return err
		}
	}
	return nil
}

// ensurePreserveSpace forces xml:space="preserve" onto a w:t start tag so
// leading or trailing spaces in the translation are not dropped by readers.
func ensurePreserveSpace(start xml.StartElement) xml.StartElement {
	attrs := make([]xml.Attr, 0, len(start.Attr)+1)
	present := false
	for _, a := range start.Attr {
		if a.Name.Space == "xml" && a.Name.Local == "space" {
			a.Value = "preserve"
			present = true
		}
		attrs = append(attrs, a)
	}
	if !present {
		attrs = append(attrs, xml.Attr{
			Name:  xml.Name{Space: "xml", Local: "space"},
			Value: "preserve",
		})
	}
	start.Attr = attrs
	return start
}

// isWordElem matches an element of the main WordprocessingML namespace by
// its conventional w: prefix. Raw tokens keep the prefix in Name.Space, so
// m:t math text and a:t drawing text never match.
func isWordElem(n xml.Name, local string) bool {
	return n.Space == "w" && n.Local == local
}

// rawName rebuilds the prefixed name of a raw token.
func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// writeToken serializes one raw token. The standard encoder cannot be used
// here: it would treat raw prefixes as namespace URLs and rewrite every tag.
// Write errors are sticky in the bufio.Writer and surface at Flush; escape
// errors are returned directly.
func writeToken(w *bufio.Writer, tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		w.WriteByte('<')
		w.WriteString(rawName(t.Name))
		for _, a := range t.Attr {
			w.WriteByte(' ')
			w.WriteString(rawName(a.Name))
			w.WriteString(`="`)
			if err := xml.EscapeText(w, []byte(a.Value)); err != nil {
				return err
			}
			w.WriteByte('"')
		}
		w.WriteByte('>')
	case xml.EndElement:
		w.WriteString("</")
		w.WriteString(rawName(t.Name))
		w.WriteByte('>')
	case xml.CharData:
		return xml.EscapeText(w, t)
	case xml.Comment:
		w.WriteString("<!--")
		w.Write(t)
		w.WriteString("-->")
	case xml.ProcInst:
		w.WriteString("<?")
		w.WriteString(t.Target)
		w.WriteByte(' ')
		w.Write(t.Inst)
		w.WriteString("?>")
	case xml.Directive:
		w.WriteString("<!")
		w.Write(t)
		w.WriteByte('>')
	}
	return nil
}
