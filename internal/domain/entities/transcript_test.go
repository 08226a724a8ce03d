package entities

import (
	"errors"
	"testing"
)

func TestTranscript_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tr      *Transcript
		wantErr bool
	}{
		{name: "nil", tr: nil, wantErr: true},
		{
			name: "ordered",
			tr: &Transcript{
				Words:    []Word{{Text: "a", Start: 0, End: 0.4, Confidence: 0.9}, {Text: "b", Start: 0.4, End: 0.8, Confidence: 1}},
				Segments: []Segment{{Text: "a b", Start: 0, End: 0.8}, {Text: "c", Start: 0.8, End: 2}},
			},
		},
		{
			name:    "word goes backwards",
			tr:      &Transcript{Words: []Word{{Start: 1, End: 2}, {Start: 0.5, End: 0.9}}},
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			tr:      &Transcript{Words: []Word{{Start: 0, End: 1, Confidence: 1.5}}},
			wantErr: true,
		},
		{
			name:    "segments overlap",
			tr:      &Transcript{Segments: []Segment{{Start: 0, End: 5}, {Start: 4, End: 8}}},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tr.Validate()
			if tc.wantErr && !errors.Is(err, ErrMalformedTranscript) {
				t.Fatalf("expected ErrMalformedTranscript got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTranscript_NormalizeRepairsJitter(t *testing.T) {
	tr := &Transcript{
		Words: []Word{
			{Text: "world", Start: 0.5, End: 0.9, Confidence: 1.02},
			{Text: "hello", Start: 0.1, End: 0.05, Confidence: 0.8},
		},
		Segments: []Segment{
			{Text: "second", Start: 4.9, End: 9},
			{Text: "first", Start: 0, End: 5},
		},
	}
	tr.Normalize()

	if err := tr.Validate(); err != nil {
		t.Fatalf("normalized transcript still invalid: %v", err)
	}
	if tr.Words[0].Text != "hello" || tr.Segments[0].Text != "first" {
		t.Fatalf("expected temporal order, got %+v / %+v", tr.Words, tr.Segments)
	}
	if tr.Segments[1].Start != 5 {
		t.Fatalf("expected overlap trimmed to 5, got %.2f", tr.Segments[1].Start)
	}
}

func TestTranscript_NormalizeDropsSwallowedSegments(t *testing.T) {
	tr := &Transcript{Segments: []Segment{
		{Text: "so", Start: 0, End: 5},
		{Text: "um", Start: 3, End: 5},
		{Text: "next", Start: 5, End: 9},
		{Text: "", Start: 6, End: 8},
	}}
	tr.Normalize()

	if err := tr.Validate(); err != nil {
		t.Fatalf("normalized transcript invalid: %v", err)
	}
	want := []Segment{{Text: "so um", Start: 0, End: 5}, {Text: "next", Start: 5, End: 9}}
	if len(tr.Segments) != len(want) {
		t.Fatalf("expected %d segments, got %+v", len(want), tr.Segments)
	}
	for i := range want {
		if tr.Segments[i] != want[i] {
			t.Fatalf("segment %d = %+v, want %+v", i, tr.Segments[i], want[i])
		}
	}
}
