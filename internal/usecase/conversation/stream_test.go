package conversation

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"
)

func TestSessionStream_AccumulateAndDrain(t *testing.T) {
	s := NewSessionStream(16000, nil)
	s.Start("m1")

	first := base64.StdEncoding.EncodeToString([]byte("aaa"))
	second := base64.StdEncoding.EncodeToString([]byte("bbbb"))

	if err := s.AddChunk("m1", first); err != nil {
		t.Fatalf("add chunk: %v", err)
	}
	if err := s.AddChunk("m1", second); err != nil {
		t.Fatalf("add chunk: %v", err)
	}
	if !s.IsSpeaking("m1") {
		t.Fatal("expected speaking flag set")
	}

	chunks := s.StopSpeaking("m1")
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if string(chunks[0]) != "aaa" || string(chunks[1]) != "bbbb" {
		t.Fatalf("unexpected chunk contents %q %q", chunks[0], chunks[1])
	}
	if s.IsSpeaking("m1") {
		t.Fatal("expected speaking flag cleared")
	}

	// Buffer drained atomically: a second stop yields nothing
	if chunks := s.StopSpeaking("m1"); len(chunks) != 0 {
		t.Fatalf("expected empty buffer after drain, got %d chunks", len(chunks))
	}
}

func TestSessionStream_StartResetsUnconditionally(t *testing.T) {
	s := NewSessionStream(16000, nil)
	s.Start("m1")
	s.AddChunk("m1", base64.StdEncoding.EncodeToString([]byte("old")))

	// Restarting must never merge with the prior buffer
	s.Start("m1")
	s.AddChunk("m1", base64.StdEncoding.EncodeToString([]byte("new")))

	chunks := s.StopSpeaking("m1")
	if len(chunks) != 1 || string(chunks[0]) != "new" {
		t.Fatalf("expected only the post-restart chunk, got %v", chunks)
	}
}

func TestSessionStream_InvalidBase64Rejected(t *testing.T) {
	s := NewSessionStream(16000, nil)
	s.Start("m1")

	if err := s.AddChunk("m1", "!!not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if got := s.StopSpeaking("m1"); len(got) != 0 {
		t.Fatalf("invalid chunk must not be buffered, got %d", len(got))
	}
}

func TestSessionStream_ClearReleasesBuffer(t *testing.T) {
	s := NewSessionStream(16000, nil)
	s.Start("m1")
	s.AddChunk("m1", base64.StdEncoding.EncodeToString([]byte("x")))

	s.Clear("m1")

	if s.IsSpeaking("m1") {
		t.Fatal("cleared session must not be speaking")
	}
	if got := s.StopSpeaking("m1"); got != nil {
		t.Fatalf("expected nil after clear, got %v", got)
	}
}

func TestStreamAudioResponse_ChunkLawAndRoundTrip(t *testing.T) {
	const chunkSize = 8
	s := NewSessionStream(chunkSize, nil)

	// 20 bytes with chunk size 8: ceil(20/8) = 3 content chunks + 1 final marker
	audio := []byte("abcdefghijklmnopqrst")

	var content []AudioChunk
	var finals []AudioChunk
	for chunk := range s.StreamAudioResponse(context.Background(), audio) {
		if chunk.IsFinal {
			finals = append(finals, chunk)
		} else {
			content = append(content, chunk)
		}
	}

	if len(content) != 3 {
		t.Fatalf("expected 3 content chunks, got %d", len(content))
	}
	if len(finals) != 1 {
		t.Fatalf("expected exactly one final marker, got %d", len(finals))
	}
	if finals[0].Data != "" {
		t.Fatalf("final marker must carry empty data, got %q", finals[0].Data)
	}
	if finals[0].ChunkNumber != 4 {
		t.Fatalf("expected final chunk number 4, got %d", finals[0].ChunkNumber)
	}

	var buf bytes.Buffer
	for i, chunk := range content {
		if chunk.ChunkNumber != i+1 {
			t.Fatalf("expected chunk number %d, got %d", i+1, chunk.ChunkNumber)
		}
		decoded, err := base64.StdEncoding.DecodeString(chunk.Data)
		if err != nil {
			t.Fatalf("chunk %d not valid base64: %v", i+1, err)
		}
		buf.Write(decoded)
	}
	if !bytes.Equal(buf.Bytes(), audio) {
		t.Fatalf("round-trip mismatch: got %q", buf.Bytes())
	}
}

func TestStreamAudioResponse_EmptyAudioOnlyFinalMarker(t *testing.T) {
	s := NewSessionStream(8, nil)

	var chunks []AudioChunk
	for chunk := range s.StreamAudioResponse(context.Background(), nil) {
		chunks = append(chunks, chunk)
	}

	if len(chunks) != 1 || !chunks[0].IsFinal {
		t.Fatalf("expected single final marker, got %v", chunks)
	}
}

func TestStreamAudioResponse_CancelStopsProducer(t *testing.T) {
	s := NewSessionStream(4, nil)
	ctx, cancel := context.WithCancel(context.Background())

	out := s.StreamAudioResponse(ctx, bytes.Repeat([]byte("a"), 64))

	// Take one chunk then cancel; the channel must close without draining all
	<-out
	cancel()

	count := 0
	for range out {
		count++
	}
	if count >= 16 {
		t.Fatalf("expected early termination, got %d further chunks", count)
	}
}
