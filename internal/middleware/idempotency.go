package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"
)

// IdempotencyConfig tunes the response cache. Zero values default to a
// 24h TTL swept hourly.
type IdempotencyConfig struct {
	TTL     time.Duration
	Cleanup time.Duration
}

// IdempotencyStore caches responses to mutations carrying an
// Idempotency-Key header so a retried request replays the original
// outcome instead of running twice. Entries are keyed by a fingerprint
// of caller, key, method, path and body, which means the same key with a
// different payload is a different request, not a replay.
type IdempotencyStore struct {
	mu       sync.RWMutex
	entries  map[string]*idempotencyEntry
	ttl      time.Duration
	stopChan chan struct{}
}

type idempotencyEntry struct {
	status    int
	headers   http.Header
	body      []byte
	expiresAt time.Time
	inFlight  bool
	done      chan struct{}
}

// NewIdempotencyStore creates a store and starts its sweep goroutine.
// Call Stop when done.
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = time.Hour
	}

	s := &IdempotencyStore{
		entries:  make(map[string]*idempotencyEntry),
		ttl:      cfg.TTL,
		stopChan: make(chan struct{}),
	}
	go s.sweepLoop(cfg.Cleanup)
	return s
}

// Stop ends the sweep goroutine.
func (s *IdempotencyStore) Stop() {
	close(s.stopChan)
}

func (s *IdempotencyStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.cleanupExpired()
		case <-s.stopChan:
			return
		}
	}
}

// cleanupExpired drops finished entries past their TTL. In-flight
// entries stay: their waiters hold references to the done channel.
func (s *IdempotencyStore) cleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, entry := range s.entries {
		if !entry.inFlight && entry.expiresAt.Before(now) {
			delete(s.entries, key)
		}
	}
}

// fingerprint derives the cache key. Scoping by caller keeps one
// trainer's key from replaying another's response.
func fingerprint(callerID, idempotencyKey, method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(callerID))
	h.Write([]byte(idempotencyKey))
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// recordingWriter tees the response into a buffer for caching.
type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

// replay writes a cached entry, marking it so clients can tell the
// response was not freshly computed.
func replay(w http.ResponseWriter, entry *idempotencyEntry) {
	for k, vals := range entry.headers {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("X-Idempotency-Replayed", "true")
	w.WriteHeader(entry.status)
	_, _ = w.Write(entry.body)
}

// Idempotency caches responses to POST/PUT/PATCH requests that carry an
// Idempotency-Key header. A concurrent duplicate blocks until the first
// request finishes, then replays its response.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get("Idempotency-Key")
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			callerID := GetTrainerID(r.Context())
			if callerID == "" {
				callerID = r.RemoteAddr
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := fingerprint(callerID, idempotencyKey, r.Method, r.URL.Path, body)

			store.mu.Lock()
			entry, exists := store.entries[key]
			if exists {
				if entry.inFlight {
					store.mu.Unlock()
					<-entry.done

					store.mu.RLock()
					entry = store.entries[key]
					store.mu.RUnlock()

					if entry != nil && !entry.inFlight {
						replay(w, entry)
						return
					}
					// Entry vanished under us; fall through and run fresh.
					store.mu.Lock()
				} else if entry.expiresAt.After(time.Now()) {
					store.mu.Unlock()
					replay(w, entry)
					return
				}
			}

			entry = &idempotencyEntry{inFlight: true, done: make(chan struct{})}
			store.entries[key] = entry
			store.mu.Unlock()

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			store.mu.Lock()
			entry.status = rec.status
			entry.headers = rec.Header().Clone()
			entry.body = rec.body.Bytes()
			entry.expiresAt = time.Now().Add(store.ttl)
			entry.inFlight = false
			close(entry.done)
			store.mu.Unlock()
		})
	}
}
