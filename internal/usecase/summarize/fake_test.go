package summarize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type fakeCall struct {
	name string
	args []string
}

// fakeExec stands in for ffmpeg, ffprobe and whisper-cli. It writes the
// files the real tools would produce so the callers can proceed.
type fakeExec struct {
	mu          sync.Mutex
	calls       []fakeCall
	duration    float64
	probeErr    error
	whisperJSON string
	concatList  string
	concatDir   string
}

func (f *fakeExec) Execute(_ context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{name: name, args: append([]string(nil), args...)})

	switch name {
	case "ffprobe":
		if f.probeErr != nil {
			return "", f.probeErr
		}
		return fmt.Sprintf(`{"format":{"duration":"%.3f"},"streams":[`+
			`{"codec_type":"video","width":1280,"height":720,"avg_frame_rate":"30000/1001"},`+
			`{"codec_type":"audio"}]}`, f.duration), nil
	case "whisper-cli":
		prefix := argValue(args, "-of")
		if prefix == "" {
			return "", errors.New("missing -of")
		}
		return "", os.WriteFile(prefix+".json", []byte(f.whisperJSON), 0o644)
	case "ffmpeg":
		if argValue(args, "-f") == "concat" {
			list := argValue(args, "-i")
			b, err := os.ReadFile(list)
			if err != nil {
				return "", err
			}
			f.concatList = string(b)
			f.concatDir = filepath.Dir(list)
		}
		return "", os.WriteFile(args[len(args)-1], []byte("media"), 0o644)
	}
	return "", fmt.Errorf("unexpected command %s", name)
}

func (f *fakeExec) callsTo(name string) []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeCall
	for _, c := range f.calls {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func writeVideo(dir string) string {
	path := filepath.Join(dir, "talk.mp4")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 64)), 0o644); err != nil {
		panic(err)
	}
	return path
}
