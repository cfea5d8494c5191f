/*
Copyright 2022 The pdfcpu Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package oracle

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hhrutter/lzw"
	"github.com/pkg/errors"
)

// CacheKey is (image-hash, prompt-hash), §4.6 and §6 "Persisted state".
type CacheKey struct {
	ImageHash  string
	PromptHash string
}

// fileName is the on-disk entry name, §6: "<image-hash>_<prompt-hash>.json".
func (k CacheKey) fileName() string {
	return fmt.Sprintf("%s_%s.json", k.ImageHash, k.PromptHash)
}

// entry is one cached analysis plus its bookkeeping (§6 persisted state
// shape: {hash, timestamp, promptHash, result}).
type entry struct {
	Hash       string    `json:"hash"`
	Timestamp  time.Time `json:"timestamp"`
	PromptHash string    `json:"promptHash"`
	Result     Analysis  `json:"result"`
}

// Cache is the oracle response cache: in-memory plus an optional disk
// tier, one-writer-many-readers per key (§5 Concurrency & Resource
// Model), bounded by a TTL and a total-size cap (§4.6).
type Cache struct {
	dir          string
	ttl          time.Duration
	maxBytes     int64
	compress     bool

	mu      sync.RWMutex
	mem     map[CacheKey]entry
	curSize int64

	inflight sync.Map // CacheKey -> *sync.Mutex, serializes Put per key
}

// NewCache returns a Cache rooted at dir (empty disables the disk tier).
func NewCache(dir string, ttl time.Duration, maxBytes int64, compress bool) *Cache {
	return &Cache{
		dir:      dir,
		ttl:      ttl,
		maxBytes: maxBytes,
		compress: compress,
		mem:      map[CacheKey]entry{},
	}
}

// HashStridedSample computes a short SHA-256 over a strided sample of
// pixel bytes plus the image dimensions (§4.6: "short SHA-256 of a
// strided pixel sample + dimensions"). Striding keeps hashing O(1) in
// practice for very large images.
func HashStridedSample(pix []byte, w, h, stride int) string {
	if stride < 1 {
		stride = 1
	}
	h256 := sha256.New()
	fmt.Fprintf(h256, "%dx%d:", w, h)
	for i := 0; i < len(pix); i += stride * 4 {
		end := i + 4
		if end > len(pix) {
			end = len(pix)
		}
		h256.Write(pix[i:end])
	}
	return hex.EncodeToString(h256.Sum(nil))[:16]
}

// HashText is the SHA-256 of the instruction/prompt text (§4.6).
func HashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// lockFor returns the per-key mutex that Put holds while writing an
// entry. It is not held across the provider call, so concurrent Analyze
// calls for the same key can each reach the oracle (§4.6).
func (c *Cache) lockFor(key CacheKey) *sync.Mutex {
	v, _ := c.inflight.LoadOrStore(key, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Get returns a non-expired cached analysis for key, if any. It never
// blocks on an in-flight writer for the same key: readers proceed
// against whatever snapshot is already committed (§5).
func (c *Cache) Get(key CacheKey) (*Analysis, bool) {
	c.mu.RLock()
	e, ok := c.mem[key]
	c.mu.RUnlock()
	if ok {
		if time.Since(e.Timestamp) <= c.ttl {
			a := e.Result
			return &a, true
		}
		return nil, false
	}

	if c.dir == "" {
		return nil, false
	}
	e, err := c.readDiskEntry(key)
	if err != nil {
		return nil, false
	}
	if time.Since(e.Timestamp) > c.ttl {
		return nil, false
	}
	c.mu.Lock()
	c.mem[key] = e
	c.mu.Unlock()
	a := e.Result
	return &a, true
}

// Put stores analysis under key, in memory and (if configured) on disk,
// serializing concurrent writers for the same key.
func (c *Cache) Put(key CacheKey, analysis Analysis) error {
	lock := c.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	e := entry{Hash: key.ImageHash, Timestamp: time.Now(), PromptHash: key.PromptHash, Result: analysis}

	c.mu.Lock()
	c.mem[key] = e
	c.mu.Unlock()

	if c.dir == "" {
		return nil
	}
	return c.writeDiskEntry(key, e)
}

func (c *Cache) readDiskEntry(key CacheKey) (entry, error) {
	path := filepath.Join(c.dir, key.fileName())
	f, err := os.Open(path)
	if err != nil {
		return entry{}, errors.Wrap(err, "oracle.Cache: open disk entry")
	}
	defer f.Close()

	var r io.Reader = f
	if c.compress {
		lr := lzw.NewReader(f, lzw.MSB, 8)
		defer lr.Close()
		r = lr
	}

	var e entry
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return entry{}, errors.Wrap(err, "oracle.Cache: decode disk entry")
	}
	return e, nil
}

func (c *Cache) writeDiskEntry(key CacheKey, e entry) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return errors.Wrap(err, "oracle.Cache: mkdir cache dir")
	}

	var buf bytes.Buffer
	if c.compress {
		w := lzw.NewWriter(&buf, lzw.MSB, 8)
		if err := json.NewEncoder(w).Encode(e); err != nil {
			w.Close()
			return errors.Wrap(err, "oracle.Cache: encode disk entry")
		}
		if err := w.Close(); err != nil {
			return errors.Wrap(err, "oracle.Cache: close lzw writer")
		}
	} else if err := json.NewEncoder(&buf).Encode(e); err != nil {
		return errors.Wrap(err, "oracle.Cache: encode disk entry")
	}

	if err := c.enforceSizeCap(int64(buf.Len())); err != nil {
		return err
	}

	path := filepath.Join(c.dir, key.fileName())
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "oracle.Cache: write disk entry")
	}
	c.curSize += int64(buf.Len())
	return nil
}

// enforceSizeCap evicts the oldest disk entries until there is room for
// an incoming entry of size n, honoring the cache's total-size cap
// (§4.6, §5 lifecycle: "bounded by size and TTL").
func (c *Cache) enforceSizeCap(n int64) error {
	if c.maxBytes <= 0 {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil // nothing to evict yet
	}

	type fi struct {
		path    string
		size    int64
		modTime time.Time
	}
	var files []fi
	var total int64
	for _, de := range entries {
		info, err := de.Info()
		if err != nil {
			continue
		}
		files = append(files, fi{path: filepath.Join(c.dir, de.Name()), size: info.Size(), modTime: info.ModTime()})
		total += info.Size()
	}

	for total+n > c.maxBytes && len(files) > 0 {
		oldestIdx := 0
		for i := 1; i < len(files); i++ {
			if files[i].modTime.Before(files[oldestIdx].modTime) {
				oldestIdx = i
			}
		}
		os.Remove(files[oldestIdx].path)
		total -= files[oldestIdx].size
		files = append(files[:oldestIdx], files[oldestIdx+1:]...)
	}
	return nil
}

// Clear removes every in-memory and on-disk entry (§5: "cleared on
// explicit request").
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.mem = map[CacheKey]entry{}
	c.curSize = 0
	c.mu.Unlock()

	if c.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil
	}
	for _, de := range entries {
		os.Remove(filepath.Join(c.dir, de.Name()))
	}
	return nil
}
