package sweeper

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sweeper periodically removes stale scratch files left behind by
// failed or abandoned processing runs. It only ever touches files
// matching the processor's naming scheme inside the scratch directory;
// durable media is out of its reach by construction.
type Sweeper struct {
	scratchDir string
	maxAge     time.Duration
	interval   time.Duration
	stop       chan struct{}
	done       chan struct{}
}

// New creates a sweeper for the given scratch directory
func New(scratchDir string, maxAge, interval time.Duration) *Sweeper {
	return &Sweeper{
		scratchDir: scratchDir,
		maxAge:     maxAge,
		interval:   interval,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the background sweep loop. The first sweep happens
// immediately so a restart clears leftovers without waiting a tick.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)

		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the loop and waits for any in-progress sweep
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

// Sweep runs a single pass synchronously
func (s *Sweeper) Sweep() {
	s.sweep()
}

func (s *Sweeper) sweep() {
	entries, err := os.ReadDir(s.scratchDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] Scratch sweep failed to read %s: %v", s.scratchDir, err)
		}
		return
	}

	cutoff := time.Now().Add(-s.maxAge)
	removed := 0

	for _, e := range entries {
		if e.IsDir() || !isScratchArtifact(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.scratchDir, e.Name())
		if err := os.Remove(path); err != nil {
			log.Printf("[WARN] Scratch sweep could not remove %s: %v", path, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("[INFO] Scratch sweep removed %d stale file(s)", removed)
	}
}

// isScratchArtifact matches the names the processor writes
func isScratchArtifact(name string) bool {
	return strings.HasPrefix(name, "trim_") || strings.HasPrefix(name, "thumb_")
}
