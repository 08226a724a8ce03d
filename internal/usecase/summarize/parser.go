package summarize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/pkg/validator"
)

// Parser decodes and validates reasoning service responses
type Parser struct {
	validate    *validator.CustomValidator
	maxSegments int
}

// NewParser creates a new Parser instance
func NewParser(v *validator.CustomValidator, maxSegments int) *Parser {
	if v == nil {
		v = validator.New()
	}
	if maxSegments <= 0 {
		maxSegments = 5
	}
	return &Parser{validate: v, maxSegments: maxSegments}
}

type segmentsResponse struct {
	SummarySegments []entities.SummarySegment `json:"summary_segments"`
}

// ParseSegmentsResponse extracts the summary_segments object from a model reply.
// Unknown fields, invalid segments and out of range counts are rejected.
func (p *Parser) ParseSegmentsResponse(content string) ([]entities.SummarySegment, error) {
	obj, ok := firstObject(stripFences(content))
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(obj)))
	dec.DisallowUnknownFields()

	var resp segmentsResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	n := len(resp.SummarySegments)
	if n == 0 {
		return nil, fmt.Errorf("missing summary_segments in response")
	}
	if n > p.maxSegments {
		return nil, fmt.Errorf("too many segments: %d (maximum: %d)", n, p.maxSegments)
	}

	for i, seg := range resp.SummarySegments {
		if err := p.validate.Validate(seg); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
	}

	return resp.SummarySegments, nil
}

// stripFences removes markdown code fences the model may wrap around JSON
func stripFences(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

// firstObject returns the first balanced top-level {...} in s
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
