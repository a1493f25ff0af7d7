// Package markdown implements the structural section edits applied to guidance documents.
//
// A document is parsed into a preamble (everything before the first level 2-6 heading,
// including the title line) followed by a flat, ordered list of sections. A section
// owns its heading line and every line up to the next heading of any level; the
// "extent" of a section additionally covers its nested, deeper subsections. Headings
// inside fenced code blocks are ignored. Parse followed by String reproduces the input
// byte for byte.
package markdown

import (
	"regexp"
	"strings"
)

var headingRe = regexp.MustCompile(`^(#{2,6})\s+(.+?)\s*$`)

// Section is a heading and the lines that follow it up to the next heading.
type Section struct {
	Level int      // heading level, 2-6
	Title string   // heading text, trimmed
	Lines []string // heading line first, then body lines
}

// Document is an ordered section model of a markdown text.
type Document struct {
	Preamble []string
	Sections []Section
}

// Parse splits text into a Document. A fence opener without a matching closer is
// plain text, so headings after it are still found.
func Parse(text string) *Document {
	doc := &Document{}
	lines := strings.Split(text, "\n")
	fenceEnd := -1
	for i, line := range lines {
		inFence := i <= fenceEnd
		if !inFence {
			if end := closingFence(lines, i); end > 0 {
				fenceEnd, inFence = end, true
			}
		}
		if !inFence {
			if m := headingRe.FindStringSubmatch(line); m != nil {
				doc.Sections = append(doc.Sections, Section{
					Level: len(m[1]),
					Title: strings.TrimSpace(m[2]),
					Lines: []string{line},
				})
				continue
			}
		}
		if n := len(doc.Sections); n > 0 {
			doc.Sections[n-1].Lines = append(doc.Sections[n-1].Lines, line)
		} else {
			doc.Preamble = append(doc.Preamble, line)
		}
	}
	return doc
}

// FenceMarker reports whether line opens or closes a fenced code block and returns the
// run of backticks or tildes that makes up the fence.
func FenceMarker(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, ch := range []string{"`", "~"} {
		if strings.HasPrefix(trimmed, strings.Repeat(ch, 3)) {
			n := len(trimmed) - len(strings.TrimLeft(trimmed, ch))
			return strings.Repeat(ch, n), true
		}
	}
	return "", false
}

// closingFence returns the index of the line closing the fence opened at lines[open], or
// -1 when lines[open] is not a fence or nothing closes it. A closer is a bare run of the
// opener's character at least as long as the opener.
func closingFence(lines []string, open int) int {
	marker, ok := FenceMarker(lines[open])
	if !ok {
		return -1
	}
	for k := open + 1; k < len(lines); k++ {
		m, ok := FenceMarker(lines[k])
		if ok && m[0] == marker[0] && len(m) >= len(marker) && strings.TrimSpace(lines[k]) == m {
			return k
		}
	}
	return -1
}

// String renders the document back to text.
func (d *Document) String() string {
	lines := make([]string, 0, len(d.Preamble)+len(d.Sections)*4)
	lines = append(lines, d.Preamble...)
	for _, s := range d.Sections {
		lines = append(lines, s.Lines...)
	}
	return strings.Join(lines, "\n")
}

// Body returns the section's lines without the heading.
func (s Section) Body() []string {
	if len(s.Lines) == 0 {
		return nil
	}
	return s.Lines[1:]
}

// extentEnd returns the index one past the last section nested under section i.
func (d *Document) extentEnd(i int) int {
	level := d.Sections[i].Level
	j := i + 1
	for j < len(d.Sections) && d.Sections[j].Level > level {
		j++
	}
	return j
}

// find returns the indexes of sections whose title equals title, case-insensitively.
func (d *Document) find(title string) []int {
	var idx []int
	for i, s := range d.Sections {
		if strings.EqualFold(s.Title, strings.TrimSpace(title)) {
			idx = append(idx, i)
		}
	}
	return idx
}

// removeExtents drops the extents of the given section indexes, highest first.
func (d *Document) removeExtents(idx []int) {
	for k := len(idx) - 1; k >= 0; k-- {
		i := idx[k]
		if i >= len(d.Sections) {
			continue
		}
		end := d.extentEnd(i)
		d.Sections = append(d.Sections[:i], d.Sections[end:]...)
	}
}

// lastLines returns the slice that currently ends the document.
func (d *Document) lastLines() *[]string {
	if n := len(d.Sections); n > 0 {
		return &d.Sections[n-1].Lines
	}
	return &d.Preamble
}

// Title returns the document title: the first line with leading '#' characters removed.
func Title(text string) string {
	first, _, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(strings.TrimLeft(first, "#"))
}

// blockLines splits a markdown block into lines without its trailing newlines.
func blockLines(block string) []string {
	return strings.Split(strings.TrimRight(block, "\n"), "\n")
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
