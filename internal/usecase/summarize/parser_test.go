package summarize

import (
	"strings"
	"testing"
)

func TestParseSegmentsResponse(t *testing.T) {
	valid := `{"summary_segments":[{"start_time":0,"end_time":12.5,"importance":9,"topic":"introduction","reason":"sets up the talk"}]}`

	tests := []struct {
		name    string
		input   string
		wantN   int
		wantErr string
	}{
		{name: "plain", input: valid, wantN: 1},
		{name: "fenced", input: "```json\n" + valid + "\n```", wantN: 1},
		{name: "wrapped in prose", input: "Here you go:\n" + valid + "\nHope this helps {not json}", wantN: 1},
		{
			name:    "too many segments",
			input:   `{"summary_segments":[` + strings.Repeat(`{"start_time":0,"end_time":1,"importance":5,"topic":"t","reason":"r"},`, 5) + `{"start_time":0,"end_time":1,"importance":5,"topic":"t","reason":"r"}]}`,
			wantErr: "too many segments",
		},
		{
			name:    "unknown field",
			input:   `{"summary_segments":[{"start_time":0,"end_time":1,"importance":5,"topic":"t","reason":"r","speaker":"A"}]}`,
			wantErr: "unknown field",
		},
		{
			name:    "importance out of range",
			input:   `{"summary_segments":[{"start_time":0,"end_time":1,"importance":11,"topic":"t","reason":"r"}]}`,
			wantErr: "segment 0",
		},
		{
			name:    "end before start",
			input:   `{"summary_segments":[{"start_time":5,"end_time":5,"importance":5,"topic":"t","reason":"r"}]}`,
			wantErr: "segment 0",
		},
		{
			name:    "missing topic",
			input:   `{"summary_segments":[{"start_time":0,"end_time":1,"importance":5,"reason":"r"}]}`,
			wantErr: "segment 0",
		},
		{name: "empty list", input: `{"summary_segments":[]}`, wantErr: "missing summary_segments"},
		{name: "no object", input: "I could not find anything", wantErr: "no JSON object"},
		{name: "truncated", input: `{"summary_segments":[{"start_time":0`, wantErr: "no JSON object"},
	}

	p := NewParser(nil, 5)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.ParseSegmentsResponse(tc.input)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tc.wantN {
				t.Fatalf("expected %d segments, got %d", tc.wantN, len(got))
			}
		})
	}
}

func TestFirstObject_IgnoresBracesInStrings(t *testing.T) {
	got, ok := firstObject(`noise {"a":"}{","b":{"c":1}} trailing}`)
	if !ok {
		t.Fatalf("expected an object")
	}
	if got != `{"a":"}{","b":{"c":1}}` {
		t.Fatalf("unexpected object %q", got)
	}
}
