package storage

import (
	"net/url"
	"testing"
)

func TestRewriteHost(t *testing.T) {
	u, _ := url.Parse("http://minio:9000/video-summaries/summaries/abc/out.mp4?X-Amz-Signature=sig")

	got, err := rewriteHost(u, "")
	if err != nil || got != u.String() {
		t.Fatalf("without public url the presigned url is returned as is, got %q %v", got, err)
	}

	got, err = rewriteHost(u, "https://files.example.com")
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if want := "https://files.example.com/video-summaries/summaries/abc/out.mp4?X-Amz-Signature=sig"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
