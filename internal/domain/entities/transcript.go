package entities

import (
	"fmt"
	"sort"
	"strings"
)

// Word is a single recognised word with its time span in seconds
type Word struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Segment is a sentence/utterance sized span of speech
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is the output of transcribing one video.
// Created once per pipeline run and treated as immutable afterwards.
type Transcript struct {
	FullText string    `json:"full_text"`
	Words    []Word    `json:"words"`
	Segments []Segment `json:"segments"`
}

// IsEmpty reports whether the transcript carries no usable segments
func (t *Transcript) IsEmpty() bool {
	return t == nil || len(t.Segments) == 0
}

// Validate checks the ordering invariants of words and segments
func (t *Transcript) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: transcript is nil", ErrMalformedTranscript)
	}

	for i, w := range t.Words {
		if w.End < w.Start {
			return fmt.Errorf("%w: word %d ends before it starts", ErrMalformedTranscript, i)
		}
		if w.Confidence < 0 || w.Confidence > 1 {
			return fmt.Errorf("%w: word %d confidence %.3f out of range", ErrMalformedTranscript, i, w.Confidence)
		}
		if i > 0 && w.Start < t.Words[i-1].Start {
			return fmt.Errorf("%w: word %d starts before word %d", ErrMalformedTranscript, i, i-1)
		}
	}

	for i, s := range t.Segments {
		if s.Start < 0 || s.End < s.Start {
			return fmt.Errorf("%w: segment %d has invalid range [%.3f, %.3f]", ErrMalformedTranscript, i, s.Start, s.End)
		}
		if i > 0 && s.Start < t.Segments[i-1].End {
			return fmt.Errorf("%w: segment %d overlaps segment %d", ErrMalformedTranscript, i, i-1)
		}
	}

	return nil
}

// Normalize sorts words by start time and trims segment overlaps so that
// Validate holds for recogniser output with small timing jitter.
// Segments left with no duration are dropped.
func (t *Transcript) Normalize() {
	if t == nil {
		return
	}

	sort.SliceStable(t.Words, func(i, j int) bool {
		return t.Words[i].Start < t.Words[j].Start
	})
	for i := range t.Words {
		if t.Words[i].End < t.Words[i].Start {
			t.Words[i].End = t.Words[i].Start
		}
		if t.Words[i].Confidence < 0 {
			t.Words[i].Confidence = 0
		}
		if t.Words[i].Confidence > 1 {
			t.Words[i].Confidence = 1
		}
	}

	sort.SliceStable(t.Segments, func(i, j int) bool {
		return t.Segments[i].Start < t.Segments[j].Start
	})
	kept := t.Segments[:0]
	for _, seg := range t.Segments {
		if seg.Start < 0 {
			seg.Start = 0
		}
		n := len(kept)
		if n > 0 && seg.Start < kept[n-1].End {
			seg.Start = kept[n-1].End
		}
		// nothing left after trimming: fold the words into the previous segment
		if seg.End <= seg.Start {
			if n > 0 && seg.Text != "" {
				kept[n-1].Text = strings.TrimSpace(kept[n-1].Text + " " + seg.Text)
			}
			continue
		}
		kept = append(kept, seg)
	}
	t.Segments = kept
}
