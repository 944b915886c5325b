// logsink is a development collector for the generator's http sink. It
// accepts posted log records, tracks distinct session ids with a cuckoo
// filter, and prints a summary on shutdown.
package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	cuckoo "github.com/panmari/cuckoofilter"
)

type Options struct {
	Port    int  `long:"port" description:"Port number to listen on for HTTP" default:"9800"`
	Verbose bool `long:"verbose" description:"Print each received record to stdout"`
}

// RecordServer counts incoming log records and the distinct sessions and
// users behind them.
type RecordServer struct {
	records  atomic.Int64
	errors   atomic.Int64
	sessions *cuckoo.Filter
	users    *cuckoo.Filter
}

func NewRecordServer() *RecordServer {
	return &RecordServer{
		sessions: cuckoo.NewFilter(1000000),
		users:    cuckoo.NewFilter(100000),
	}
}

// record is the subset of the sink schema the collector cares about.
type record struct {
	SessionID string `json:"session_id"`
	UserName  string `json:"user_name"`
	Error     string `json:"error"`
}

func (s *RecordServer) Process(rec record) {
	s.records.Add(1)
	if rec.Error != "" {
		s.errors.Add(1)
	}
	if rec.SessionID != "" && !s.sessions.Lookup([]byte(rec.SessionID)) {
		s.sessions.Insert([]byte(rec.SessionID))
	}
	if rec.UserName != "" && !s.users.Lookup([]byte(rec.UserName)) {
		s.users.Insert([]byte(rec.UserName))
	}
}

func initReceiver(ctx context.Context, opts Options, rs *RecordServer) {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var reader io.ReadCloser = r.Body
		if r.Header.Get("Content-Encoding") == "gzip" {
			var err error
			reader, err = gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, "Failed to decompress gzip data: "+err.Error(), http.StatusBadRequest)
				return
			}
			defer reader.Close()
		}
		body, err := io.ReadAll(reader)
		if err != nil {
			http.Error(w, "Error reading request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		var rec record
		if err := json.Unmarshal(body, &rec); err != nil {
			http.Error(w, "Invalid JSON data", http.StatusBadRequest)
			return
		}
		rs.Process(rec)
		if opts.Verbose {
			fmt.Printf("%s\n", body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: mux,
	}

	go func() {
		log.Printf("logsink listening on port %d", opts.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during server shutdown: %v", err)
		}
	}()
}

func main() {
	var opts Options

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.Fatalf("Error parsing flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rs := NewRecordServer()
	initReceiver(ctx, opts, rs)

	<-ctx.Done()

	fmt.Printf("\n%d records received (%d with errors), %d distinct sessions, %d distinct users\n",
		rs.records.Load(), rs.errors.Load(), rs.sessions.Count(), rs.users.Count())
}
