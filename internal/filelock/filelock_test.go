package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestFor(t *testing.T) {
	target := filepath.Join(t.TempDir(), "lakeside.yaml")
	lock := For(target)
	if lock.Path() != target+".lock" {
		t.Errorf("Expected lock path %s.lock, got %s", target, lock.Path())
	}
}

func TestTryLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "choices.yaml.lock")

	lock1 := NewFileLock(lockPath)
	lock2 := NewFileLock(lockPath)

	acquired, err := lock1.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if !acquired {
		t.Fatal("First TryLock should succeed")
	}

	acquired, err = lock2.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if acquired {
		t.Error("Second TryLock should fail while the lock is held")
	}

	if err := lock1.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	acquired, err = lock2.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if !acquired {
		t.Error("TryLock should succeed after unlock")
	}
	lock2.Unlock()
}

func TestLockWithin_Timeout(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "choices.yaml.lock")

	holder := NewFileLock(lockPath)
	if err := holder.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	defer holder.Unlock()

	err := NewFileLock(lockPath).LockWithin(30*time.Millisecond, 5*time.Millisecond)
	if !errors.Is(err, ErrLockTimeout) {
		t.Errorf("Expected ErrLockTimeout, got %v", err)
	}
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "choices.yaml")

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("project: old\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := AtomicWrite(target, []byte("project: new\n")); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(got) != "project: new\n" {
		t.Errorf("Expected overwritten content, got %q", got)
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("Expected permissions 0644, got %v", info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the target file, found %d entries", len(entries))
	}
}

func TestAtomicWrite_CreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "choices.yaml")
	if err := AtomicWrite(target, []byte("x")); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("Expected file to exist: %v", err)
	}
}

func TestUpdate_MissingFileStartsEmpty(t *testing.T) {
	target := filepath.Join(t.TempDir(), "choices.yaml")

	var seen []byte
	err := Update(target, func(current []byte) ([]byte, error) {
		seen = current
		return []byte("project: lakeside\n"), nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if seen != nil {
		t.Errorf("Expected nil content for a missing file, got %q", seen)
	}

	got, _ := os.ReadFile(target)
	if string(got) != "project: lakeside\n" {
		t.Errorf("Unexpected content %q", got)
	}
}

func TestUpdate_ErrorLeavesFileUntouched(t *testing.T) {
	target := filepath.Join(t.TempDir(), "choices.yaml")
	if err := os.WriteFile(target, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("bad choice")
	err := Update(target, func([]byte) ([]byte, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Expected callback error, got %v", err)
	}

	got, _ := os.ReadFile(target)
	if string(got) != "original" {
		t.Errorf("File changed after failed update: %q", got)
	}
}

func TestUpdate_Concurrent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "counter.txt")

	const goroutines = 8
	const iterations = 5

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				err := Update(target, func(current []byte) ([]byte, error) {
					n := 0
					if s := strings.TrimSpace(string(current)); s != "" {
						var err error
						if n, err = strconv.Atoi(s); err != nil {
							return nil, err
						}
					}
					time.Sleep(time.Millisecond)
					return []byte(fmt.Sprintf("%d", n+1)), nil
				})
				if err != nil {
					t.Errorf("Update failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if want := fmt.Sprintf("%d", goroutines*iterations); string(got) != want {
		t.Errorf("Expected counter %s, got %s (lost update)", want, got)
	}
}

func TestLockAndWrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "choices.yaml")
	if err := LockAndWrite(target, []byte("tier: 10k\n")); err != nil {
		t.Fatalf("LockAndWrite failed: %v", err)
	}
	got, _ := os.ReadFile(target)
	if string(got) != "tier: 10k\n" {
		t.Errorf("Unexpected content %q", got)
	}
}
