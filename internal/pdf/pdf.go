// Package pdf renders resumes as small self-contained PDF documents.
// It writes the object structure by hand: the output is a plain PDF 1.4
// file with two standard Helvetica fonts and uncompressed text streams,
// which every viewer accepts without an external PDF dependency.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	dom "github.com/serh11pashkov/resumebuilder/internal/domain"
)

const (
	pageWidth  = 612.0
	pageHeight = 792.0
	marginX    = 72.0
	marginTop  = 60.0
	marginBot  = 60.0
	wrapWidth  = 88
)

type line struct {
	text string
	bold bool
	size float64
	gap  float64 // extra leading above the line
}

type style struct {
	titleSize    float64
	headerSize   float64
	upperHeaders bool
	bullet       string
}

// Unknown template names fall back to classic.
var styles = map[string]style{
	"classic": {titleSize: 20, headerSize: 13, upperHeaders: true, bullet: "- "},
	"modern":  {titleSize: 24, headerSize: 14, upperHeaders: false, bullet: "> "},
	"minimal": {titleSize: 16, headerSize: 11, upperHeaders: true, bullet: ""},
}

// Render produces a PDF document for the resume. Layout accents switch on
// the resume's template name.
func Render(r dom.Resume) []byte {
	st, ok := styles[r.TemplateName]
	if !ok {
		st = styles["classic"]
	}
	return build(layout(r, st))
}

func layout(r dom.Resume, st style) []line {
	var lines []line
	add := func(text string, bold bool, size, gap float64) {
		lines = append(lines, line{text: text, bold: bold, size: size, gap: gap})
	}
	header := func(text string) {
		if st.upperHeaders {
			text = strings.ToUpper(text)
		}
		add(text, true, st.headerSize, 10)
	}
	body := func(text string) {
		for _, part := range strings.Split(text, "\n") {
			for _, w := range wrap(part, wrapWidth) {
				add(w, false, 10, 0)
			}
		}
	}

	add(r.Title, true, st.titleSize, 0)
	if r.PersonalInfo != "" {
		body(r.PersonalInfo)
	}
	if r.Summary != "" {
		header("Summary")
		body(r.Summary)
	}
	if len(r.Experiences) > 0 {
		header("Experience")
		for _, e := range r.Experiences {
			heading := e.Position
			if e.Company != "" {
				if heading != "" {
					heading += ", "
				}
				heading += e.Company
			}
			add(heading, true, 11, 6)
			add(span(e.StartDate, e.EndDate, e.IsCurrent)+locationSuffix(e.Location), false, 9, 0)
			if e.Description != "" {
				body(e.Description)
			}
		}
	}
	if len(r.Educations) > 0 {
		header("Education")
		for _, e := range r.Educations {
			heading := e.Degree
			if e.FieldOfStudy != "" {
				if heading != "" {
					heading += " in "
				}
				heading += e.FieldOfStudy
			}
			if heading == "" {
				heading = e.Institution
			} else if e.Institution != "" {
				heading += ", " + e.Institution
			}
			add(heading, true, 11, 6)
			add(span(e.StartDate, e.EndDate, false), false, 9, 0)
			if e.Description != "" {
				body(e.Description)
			}
		}
	}
	if len(r.Skills) > 0 {
		header("Skills")
		for _, s := range r.Skills {
			text := st.bullet + s.Name
			if s.ProficiencyLevel != "" {
				text += " (" + s.ProficiencyLevel + ")"
			}
			add(text, false, 10, 0)
		}
	}
	return lines
}

func locationSuffix(loc string) string {
	if loc == "" {
		return ""
	}
	return ", " + loc
}

func span(start, end string, current bool) string {
	if current {
		end = "present"
	}
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start
	case start == "":
		return end
	}
	return start + " to " + end
}

// wrap splits text into chunks of at most limit runes on word boundaries;
// a single overlong word stays on its own line.
func wrap(text string, limit int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var out []string
	cur := words[0]
	curLen := utf8.RuneCountInString(cur)
	for _, w := range words[1:] {
		wLen := utf8.RuneCountInString(w)
		if curLen+1+wLen > limit {
			out = append(out, cur)
			cur, curLen = w, wLen
			continue
		}
		cur += " " + w
		curLen += 1 + wLen
	}
	return append(out, cur)
}

// build paginates lines and assembles the PDF object structure.
func build(lines []line) []byte {
	var pages [][]string // text operations per page
	var ops []string
	y := pageHeight - marginTop
	for _, l := range lines {
		leading := l.size*1.3 + l.gap
		if y-leading < marginBot {
			pages = append(pages, ops)
			ops = nil
			y = pageHeight - marginTop
		}
		y -= leading
		font := "/F1"
		if l.bold {
			font = "/F2"
		}
		if l.text != "" {
			ops = append(ops, fmt.Sprintf("BT %s %.1f Tf %.1f %.1f Td (%s) Tj ET",
				font, l.size, marginX, y, escape(l.text)))
		}
	}
	pages = append(pages, ops)

	// Objects: 1 catalog, 2 pages, 3/4 fonts, then page+stream pairs.
	var kids []string
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 5+2*i))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages)))
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold >>")
	for i, ops := range pages {
		streamObj := 6 + 2*i
		writeObj(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.0f %.0f] /Contents %d 0 R /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> >>",
			pageWidth, pageHeight, streamObj))
		stream := strings.Join(ops, "\n")
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefStart)
	return buf.Bytes()
}

// escape sanitizes text for a PDF literal string: backslash-escapes
// delimiters, emits Latin-1 runes as single bytes (the standard fonts use
// a one-byte encoding) and downgrades anything beyond it.
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(byte(r))
		default:
			if r > 0xFF {
				b.WriteByte('?')
			} else {
				b.WriteByte(byte(r))
			}
		}
	}
	return b.String()
}
