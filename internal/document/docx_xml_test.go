package document

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upperTranslate marks text as translated and records what it was called
// with.
func upperTranslate(calls *[]string) TranslateFunc {
	return func(_ context.Context, text string) (string, error) {
		if calls != nil {
			*calls = append(*calls, text)
		}
		return "PT:" + strings.ToUpper(text), nil
	}
}

func rewriteString(t *testing.T, in string, translate TranslateFunc) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, rewriteWordXML(context.Background(), strings.NewReader(in), &out, translate))
	return out.String()
}

const docHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math">`

func TestRewriteWordXMLSingleRun(t *testing.T) {
	in := docHeader + `<w:body><w:p><w:r><w:t>Hello world</w:t></w:r></w:p></w:body></w:document>`

	var calls []string
	out := rewriteString(t, in, upperTranslate(&calls))

	assert.Equal(t, []string{"Hello world"}, calls)
	assert.Contains(t, out, `<w:t xml:space="preserve">PT:HELLO WORLD</w:t>`)
	assert.NotContains(t, out, "Hello world")
	// The namespace declarations survive untouched.
	assert.Contains(t, out, `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`)
	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
}

func TestRewriteWordXMLMultipleRuns(t *testing.T) {
	in := docHeader + `<w:body><w:p>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>Hello </w:t></w:r>` +
		`<w:r><w:t>beautiful </w:t></w:r>` +
		`<w:r><w:t>world</w:t></w:r>` +
		`</w:p></w:body></w:document>`

	var calls []string
	out := rewriteString(t, in, upperTranslate(&calls))

	// The paragraph is translated as one unit, not run by run.
	assert.Equal(t, []string{"Hello beautiful world"}, calls)
	// The whole translation lands in the first run, the others are emptied
	// but keep their elements.
	assert.Contains(t, out, `<w:t xml:space="preserve">PT:HELLO BEAUTIFUL WORLD</w:t>`)
	assert.Equal(t, 3, strings.Count(out, "<w:t"), "all runs keep their text elements")
	assert.Contains(t, out, `<w:t></w:t>`)
	// Formatting properties are untouched.
	assert.Contains(t, out, `<w:b></w:b>`)
}

func TestRewriteWordXMLTableCells(t *testing.T) {
	in := docHeader + `<w:body>` +
		`<w:tbl><w:tr>` +
		`<w:tc><w:p><w:r><w:t>cell one</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:p><w:r><w:t>cell two</w:t></w:r></w:p></w:tc>` +
		`</w:tr></w:tbl>` +
		`<w:p><w:r><w:t>after table</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	var calls []string
	out := rewriteString(t, in, upperTranslate(&calls))

	assert.Equal(t, []string{"cell one", "cell two", "after table"}, calls)
	assert.Contains(t, out, "PT:CELL ONE")
	assert.Contains(t, out, "PT:CELL TWO")
	assert.Contains(t, out, "PT:AFTER TABLE")
}

func TestRewriteWordXMLSkipsBlankParagraphs(t *testing.T) {
	in := docHeader + `<w:body>` +
		`<w:p><w:pPr><w:jc w:val="center"/></w:pPr></w:p>` +
		`<w:p><w:r><w:t>   </w:t></w:r></w:p>` +
		`</w:body></w:document>`

	var calls []string
	out := rewriteString(t, in, upperTranslate(&calls))

	assert.Empty(t, calls, "blank paragraphs never reach the backend")
	assert.Contains(t, out, `<w:t>   </w:t>`, "whitespace runs pass through unchanged")
	assert.Contains(t, out, `<w:jc w:val="center"></w:jc>`)
}

func TestRewriteWordXMLLeavesMathTextAlone(t *testing.T) {
	in := docHeader + `<w:body><w:p>` +
		`<m:oMath><m:r><m:t>x+y</m:t></m:r></m:oMath>` +
		`<w:r><w:t>the sum</w:t></w:r>` +
		`</w:p></w:body></w:document>`

	var calls []string
	out := rewriteString(t, in, upperTranslate(&calls))

	assert.Equal(t, []string{"the sum"}, calls)
	assert.Contains(t, out, `<m:t>x+y</m:t>`)
}

func TestRewriteWordXMLNestedParagraphs(t *testing.T) {
	// A text box nests paragraphs inside an outer paragraph; each one is its
	// own translation unit.
	in := docHeader + `<w:body><w:p>` +
		`<w:r><w:t>outer text</w:t></w:r>` +
		`<w:r><w:txbxContent><w:p><w:r><w:t>inner text</w:t></w:r></w:p></w:txbxContent></w:r>` +
		`</w:p></w:body></w:document>`

	var calls []string
	out := rewriteString(t, in, upperTranslate(&calls))

	assert.ElementsMatch(t, []string{"outer text", "inner text"}, calls)
	assert.Contains(t, out, "PT:OUTER TEXT")
	assert.Contains(t, out, "PT:INNER TEXT")
}

func TestRewriteWordXMLEscapesTranslation(t *testing.T) {
	in := docHeader + `<w:body><w:p><w:r><w:t>a &amp; b</w:t></w:r></w:p></w:body></w:document>`

	out := rewriteString(t, in, func(context.Context, string) (string, error) {
		return "x < y & z", nil
	})

	assert.Contains(t, out, "x &lt; y &amp; z")
}

func TestRewriteWordXMLPropagatesBackendError(t *testing.T) {
	in := docHeader + `<w:body><w:p><w:r><w:t>text</w:t></w:r></w:p></w:body></w:document>`

	boom := errors.New("backend down")
	var out bytes.Buffer
	err := rewriteWordXML(context.Background(), strings.NewReader(in), &out, func(context.Context, string) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestRewriteWordXMLRejectsMalformedXML(t *testing.T) {
	var out bytes.Buffer
	err := rewriteWordXML(context.Background(), strings.NewReader("<w:document><w:p><w:t>unclosed"), &out, upperTranslate(nil))
	assert.ErrorIs(t, err, ErrArchiveInvalid)
}

func TestRewriteWordXMLKeepsExistingPreserveAttr(t *testing.T) {
	in := docHeader + `<w:body><w:p><w:r><w:t xml:space="preserve"> lead</w:t></w:r></w:p></w:body></w:document>`

	out := rewriteString(t, in, upperTranslate(nil))
	assert.Equal(t, 1, strings.Count(out, `xml:space="preserve"`))
	assert.Contains(t, out, "PT: LEAD")
}
