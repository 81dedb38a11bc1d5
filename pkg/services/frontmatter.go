package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var frontMatterFormats = map[string]*frontmatter.Format{
	"---": frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	"+++": frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
	";;;": frontmatter.NewFormat(";;;", ";;;", json.Unmarshal),
	"{": {
		Start:           "{",
		End:             "}",
		Unmarshal:       json.Unmarshal,
		UnmarshalDelims: true,
		RequiresNewLine: true,
	},
}

var formatNames = map[string]string{
	"---": "yaml",
	"+++": "toml",
	";;;": "json",
	"{":   "json",
}

// detectFormat returns the delimiter on the first non-blank line when it
// opens a known frontmatter block.
func detectFormat(content []byte) string {
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := frontMatterFormats[line]; ok {
			return line
		}
		return ""
	}
	return ""
}

// ParseFrontMatter splits content into its header block and body. Content
// without a complete header, including one whose closing delimiter is
// missing, returns an empty map, the whole content as body and an empty
// format.
func ParseFrontMatter(content []byte) (map[string]interface{}, string, string, error) {
	delim := detectFormat(content)
	if delim == "" {
		return map[string]interface{}{}, string(content), "", nil
	}

	var fm map[string]interface{}
	body, err := frontmatter.MustParse(bytes.NewReader(content), &fm, frontMatterFormats[delim])
	if errors.Is(err, frontmatter.ErrNotFound) {
		return map[string]interface{}{}, string(content), "", nil
	}
	if err != nil {
		return nil, "", "", fmt.Errorf("parse %s frontmatter: %w", formatNames[delim], err)
	}

	normalized := sanitizeFrontMatter(fm)
	if normalized == nil {
		normalized = map[string]interface{}{}
	}
	return normalized, string(body), formatNames[delim], nil
}

func sanitizeFrontMatter(fm map[string]interface{}) map[string]interface{} {
	if fm == nil {
		return nil
	}
	sanitized := make(map[string]interface{}, len(fm))
	for k, v := range fm {
		sanitized[k] = sanitizeFrontMatterValue(v)
	}
	return sanitized
}

// sanitizeFrontMatterValue converts decoder specific shapes into values that
// encode cleanly as JSON and in templates.
func sanitizeFrontMatterValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return sanitizeFrontMatter(v)
	case map[interface{}]interface{}:
		normalized := make(map[string]interface{}, len(v))
		for key, inner := range v {
			normalized[fmt.Sprint(key)] = sanitizeFrontMatterValue(inner)
		}
		return normalized
	case []interface{}:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = sanitizeFrontMatterValue(v[i])
		}
		return slice
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case toml.LocalDate, toml.LocalDateTime, toml.LocalTime:
		return fmt.Sprint(v)
	default:
		return v
	}
}
