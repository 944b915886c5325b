package emit

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"

	"github.com/goware/urlx"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Sink receives one serialized event record per call. Implementations must
// be safe for use from the generation loop and return promptly; the emitter
// handles retries and drops.
type Sink interface {
	Write(ctx context.Context, record []byte) error
	Close() error
}

// StdoutSink writes newline-delimited JSON to stdout, which is what a
// container log shipper picks up.
type StdoutSink struct {
	mu sync.Mutex
}

func NewStdoutSink() *StdoutSink {
	return &StdoutSink{}
}

func (s *StdoutSink) Write(_ context.Context, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(os.Stdout, "%s\n", record)
	return err
}

func (s *StdoutSink) Close() error {
	return nil
}

// FileSink appends records to a rotating log file.
type FileSink struct {
	mu sync.Mutex
	lj *lumberjack.Logger
}

func NewFileSink(path string) *FileSink {
	return &FileSink{
		lj: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			Compress:   true,
		},
	}
}

func (s *FileSink) Write(_ context.Context, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.lj.Write(record); err != nil {
		return err
	}
	_, err := s.lj.Write([]byte("\n"))
	return err
}

func (s *FileSink) Close() error {
	return s.lj.Close()
}

// HTTPSink posts each record to a collector endpoint.
type HTTPSink struct {
	endpoint *url.URL
	client   *http.Client
}

func NewHTTPSink(endpoint string) (*HTTPSink, error) {
	u, err := urlx.ParseWithDefaultScheme(endpoint, "http")
	if err != nil {
		return nil, fmt.Errorf("emit: parse sink endpoint: %w", err)
	}
	return &HTTPSink{endpoint: u, client: &http.Client{}}, nil
}

func (s *HTTPSink) Write(ctx context.Context, record []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint.String(), bytes.NewReader(record))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("emit: sink responded %d", resp.StatusCode)
	}
	return nil
}

func (s *HTTPSink) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// MemorySink collects records in memory. Used in tests and as a stand-in
// when no sink is configured.
type MemorySink struct {
	mu      sync.Mutex
	records [][]byte
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(_ context.Context, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(record))
	copy(buf, record)
	s.records = append(s.records, buf)
	return nil
}

func (s *MemorySink) Close() error {
	return nil
}

func (s *MemorySink) Records() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.records))
	copy(out, s.records)
	return out
}
