// Package header parses the optional leading key/value header block of a
// vibemcp markdown document and falls back to path-based inference,
// per spec §4.B.
package header

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the parsed (or inferred) metadata for a document.
type Metadata struct {
	Project string
	Type    string
	Status  string
	Updated string
	Owner   string
	Feature string
	Tags    []string
}

// Result is the parser's output: metadata plus the body with any header
// block removed.
type Result struct {
	Metadata Metadata
	Body     string
}

var folderType = map[string]string{
	"tasks":      "task",
	"plans":      "plan",
	"sessions":   "session",
	"reports":    "report",
	"changelog":  "changelog",
	"references": "reference",
	"scratch":    "scratch",
	"assets":     "asset",
}

var statusLinePattern = regexp.MustCompile(`(?im)^Status:\s*(\S+)\s*$`)

type rawHeader struct {
	Project string   `yaml:"project"`
	Type    string   `yaml:"type"`
	Status  string   `yaml:"status"`
	Updated string   `yaml:"updated"`
	Owner   string   `yaml:"owner"`
	Feature string   `yaml:"feature"`
	Tags    []string `yaml:"tags"`
}

// Parse extracts the header block (if present) and infers any unset
// project/type/status fields from relPath and the body, per spec §4.B.
func Parse(text, relPath string) Result {
	meta, body := parseHeaderBlock(text)

	segments := strings.Split(relPath, "/")

	if meta.Project == "" && len(segments) >= 1 {
		meta.Project = segments[0]
	}

	if meta.Type == "" {
		if len(segments) == 2 && segments[1] == "status.md" {
			meta.Type = "status"
		} else if len(segments) >= 2 {
			if t, ok := folderType[segments[1]]; ok {
				meta.Type = t
			}
		}
	}

	if meta.Type == "task" && meta.Status == "" {
		if m := statusLinePattern.FindStringSubmatch(body); m != nil {
			meta.Status = strings.ToLower(m[1])
		}
	}

	return Result{Metadata: meta, Body: body}
}

// parseHeaderBlock attempts to split a leading "---\n...\n---\n" block off
// the front of text. A parse failure is non-fatal: the header is treated
// as absent and the whole text becomes the body.
func parseHeaderBlock(text string) (Metadata, string) {
	const delim = "---"

	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != delim {
		return Metadata{}, text
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == delim {
			end = i
			break
		}
	}
	if end == -1 {
		return Metadata{}, text
	}

	block := strings.Join(lines[1:end], "\n")
	body := strings.Join(lines[end+1:], "\n")
	body = strings.TrimPrefix(body, "\n")

	var raw rawHeader
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
		return Metadata{}, text
	}

	meta := Metadata{
		Project: raw.Project,
		Type:    raw.Type,
		Status:  raw.Status,
		Updated: raw.Updated,
		Owner:   raw.Owner,
		Feature: raw.Feature,
		Tags:    raw.Tags,
	}
	return meta, body
}
