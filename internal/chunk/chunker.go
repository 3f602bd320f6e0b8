// Package chunk splits a markdown document body into ordered,
// size-bounded, heading-aware chunks, grounded on the teacher repo's
// internal/chunk/markdown_chunker.go (section-then-paragraph-then-line
// greedy splitting), generalized to spec §4.C's exact budget and
// priority-heading rules.
package chunk

import (
	"regexp"
	"strings"
)

var headingPattern = regexp.MustCompile(`(?m)^(#{1,2}) (.+)$`)
var paragraphBreak = regexp.MustCompile(`\n{2,}`)

type section struct {
	heading string
	level   int
	body    string
	offset  int
}

type span struct {
	text   string
	offset int
}

// Split chunks a document body per spec §4.C.
func Split(body string) []Chunk {
	sections := sectionize(body)

	var chunks []Chunk
	order := 0
	for _, sec := range sections {
		spans := chunkSection(sec)
		for i, sp := range spans {
			heading := ""
			level := 0
			priority := false
			if i == 0 {
				heading = sec.heading
				level = sec.level
				priority = isPriorityHeading(sec.heading)
			}
			chunks = append(chunks, Chunk{
				Heading:         heading,
				HeadingLevel:    level,
				Body:            sp.text,
				Order:           order,
				Offset:          sp.offset,
				PriorityHeading: priority,
			})
			order++
		}
	}
	return chunks
}

func sectionize(body string) []section {
	matches := headingPattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return []section{{heading: "", level: 0, body: body, offset: 0}}
	}

	var sections []section
	if matches[0][0] > 0 {
		sections = append(sections, section{heading: "", level: 0, body: body[:matches[0][0]], offset: 0})
	}

	for i, m := range matches {
		level := m[3] - m[2]
		heading := strings.TrimSpace(body[m[4]:m[5]])

		bodyStart := m[1]
		if bodyStart < len(body) && body[bodyStart] == '\n' {
			bodyStart++
		}

		bodyEnd := len(body)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}

		sections = append(sections, section{
			heading: heading,
			level:   level,
			body:    body[bodyStart:bodyEnd],
			offset:  bodyStart,
		})
	}
	return sections
}

func chunkSection(sec section) []span {
	if len(sec.body) <= MaxChunkChars {
		return []span{{text: sec.body, offset: sec.offset}}
	}
	return splitByParagraphs(sec.body, sec.offset)
}

func splitByParagraphs(text string, baseOffset int) []span {
	paragraphs := splitSpans(text, paragraphBreak, baseOffset)

	var out []span
	var cur strings.Builder
	curOffset := -1

	flush := func() {
		if cur.Len() > 0 {
			out = append(out, span{text: cur.String(), offset: curOffset})
			cur.Reset()
			curOffset = -1
		}
	}

	for _, p := range paragraphs {
		if len(p.text) > MaxChunkChars {
			flush()
			out = append(out, splitByLines(p.text, p.offset)...)
			continue
		}

		sep := 0
		if cur.Len() > 0 {
			sep = 2
		}
		if cur.Len() > 0 && cur.Len()+sep+len(p.text) > MaxChunkChars {
			flush()
		}
		if cur.Len() == 0 {
			curOffset = p.offset
		} else {
			cur.WriteString("\n\n")
		}
		cur.WriteString(p.text)
	}
	flush()
	return out
}

func splitByLines(text string, baseOffset int) []span {
	lines := strings.Split(text, "\n")

	var out []span
	var cur strings.Builder
	curOffset := -1
	pos := 0

	flush := func() {
		if cur.Len() > 0 {
			out = append(out, span{text: cur.String(), offset: baseOffset + curOffset})
			cur.Reset()
			curOffset = -1
		}
	}

	for i, line := range lines {
		if len(line) > MaxChunkChars {
			flush()
			out = append(out, span{text: line[:MaxChunkChars], offset: baseOffset + pos})
		} else {
			sep := 0
			if cur.Len() > 0 {
				sep = 1
			}
			if cur.Len() > 0 && cur.Len()+sep+len(line) > MaxChunkChars {
				flush()
			}
			if cur.Len() == 0 {
				curOffset = pos
			} else {
				cur.WriteString("\n")
			}
			cur.WriteString(line)
		}
		pos += len(line)
		if i < len(lines)-1 {
			pos++
		}
	}
	flush()
	return out
}

// splitSpans splits s on sep, returning non-empty spans with their offsets
// relative to baseOffset.
func splitSpans(s string, sep *regexp.Regexp, baseOffset int) []span {
	idxs := sep.FindAllStringIndex(s, -1)
	var out []span
	start := 0
	for _, m := range idxs {
		if m[0] > start {
			out = append(out, span{text: s[start:m[0]], offset: baseOffset + start})
		}
		start = m[1]
	}
	if start < len(s) {
		out = append(out, span{text: s[start:], offset: baseOffset + start})
	}
	return out
}

func isPriorityHeading(heading string) bool {
	if heading == "" {
		return false
	}
	norm := strings.ToLower(strings.TrimSpace(strings.TrimLeft(heading, "# ")))
	return priorityHeadings[norm]
}
