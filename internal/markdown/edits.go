package markdown

import "strings"

// StripSections removes every section whose title matches one of titles (case-insensitive),
// together with its nested subsections.
func StripSections(text string, titles []string) string {
	remove := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		remove[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	doc := Parse(text)
	for i := 0; i < len(doc.Sections); {
		if _, ok := remove[strings.ToLower(doc.Sections[i].Title)]; ok {
			end := doc.extentEnd(i)
			doc.Sections = append(doc.Sections[:i], doc.Sections[end:]...)
			continue
		}
		i++
	}
	return doc.String()
}

// ReplaceSection replaces the extent of the section titled title with block, a complete
// markdown section including its heading line. When no such section exists the block is
// appended at the end of the document after a blank line.
//
// When the title occurs more than once, the first occurrence is replaced and the later
// ones are removed, so the result always holds exactly one such section.
func ReplaceSection(text, title, block string) string {
	doc := Parse(text)
	lines := append(blockLines(block), "")

	idx := doc.find(title)
	if len(idx) == 0 {
		appendBlock(doc, lines)
		return doc.String()
	}

	first := idx[0]
	end := doc.extentEnd(first)
	doc.removeExtents(after(idx[1:], end))

	replacement := Section{
		Level: doc.Sections[first].Level,
		Title: doc.Sections[first].Title,
		Lines: lines,
	}
	rest := append([]Section{replacement}, doc.Sections[end:]...)
	doc.Sections = append(doc.Sections[:first], rest...)
	return doc.String()
}

// InsertIntoSection places snippet, a markdown block led by its own heading, into the
// document. If a section with the snippet's heading already exists, the first fenced code
// region of the first such section is replaced by the snippet and any later sections with
// that heading are removed. Otherwise the snippet is appended at the end of the extent of
// the section titled anchor. If neither exists, or the existing block's fence is never
// closed, the text is returned unchanged.
func InsertIntoSection(text, anchor, snippet string) string {
	snippetLines := blockLines(snippet)
	doc := Parse(text)

	if m := headingRe.FindStringSubmatch(snippetLines[0]); m != nil {
		if idx := doc.find(m[2]); len(idx) > 0 {
			first := idx[0]
			if unclosedFence(doc.Sections[first].Lines) {
				return text
			}
			doc.removeExtents(after(idx[1:], doc.extentEnd(first)))
			doc.Sections[first].Lines = replaceFence(doc.Sections[first].Lines, snippetLines, first+1 < len(doc.Sections))
			return doc.String()
		}
	}

	idx := doc.find(anchor)
	if len(idx) == 0 {
		return text
	}
	last := &doc.Sections[doc.extentEnd(idx[0])-1].Lines
	*last = trimTrailingBlank(*last)
	*last = append(*last, "")
	*last = append(*last, snippetLines...)
	*last = append(*last, "")
	return doc.String()
}

// ExtractSection returns the trimmed body of the first level-2 section whose title
// contains name (case-insensitive), including nested subsections. It returns "" when
// there is no such section.
func ExtractSection(text, name string) string {
	doc := Parse(text)
	needle := strings.ToLower(name)
	for i, s := range doc.Sections {
		if s.Level != 2 || !strings.Contains(strings.ToLower(s.Title), needle) {
			continue
		}
		var body []string
		body = append(body, s.Body()...)
		for _, nested := range doc.Sections[i+1 : doc.extentEnd(i)] {
			body = append(body, nested.Lines...)
		}
		return strings.TrimSpace(strings.Join(body, "\n"))
	}
	return ""
}

// replaceFence swaps the heading and first fenced block of a section for snippet,
// keeping anything after the closing fence.
func replaceFence(lines, snippet []string, followed bool) []string {
	rest := lines[1:]
	if open := firstFence(lines); open > 0 {
		rest = lines[closingFence(lines, open)+1:]
	}
	if len(rest) == 0 && followed {
		rest = []string{""}
	}

	out := make([]string, 0, len(snippet)+len(rest))
	out = append(out, snippet...)
	return append(out, rest...)
}

// unclosedFence reports whether the first fence after the heading line is never closed.
func unclosedFence(lines []string) bool {
	open := firstFence(lines)
	return open > 0 && closingFence(lines, open) < 0
}

// firstFence returns the index of the first fence line after the heading, or -1.
func firstFence(lines []string) int {
	for k := 1; k < len(lines); k++ {
		if _, ok := FenceMarker(lines[k]); ok {
			return k
		}
	}
	return -1
}

func appendBlock(doc *Document, lines []string) {
	last := doc.lastLines()
	*last = trimTrailingBlank(*last)
	if len(*last) > 0 || len(doc.Sections) > 0 {
		*last = append(*last, "")
	}
	*last = append(*last, lines...)
}

// after filters idx down to indexes at or beyond end.
func after(idx []int, end int) []int {
	var out []int
	for _, i := range idx {
		if i >= end {
			out = append(out, i)
		}
	}
	return out
}
