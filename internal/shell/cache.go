package shell

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/chris-regnier/moodjournal/internal/entry"
)

const cacheFileName = ".status-cache"

// StatusCache is the last computed status for one user.
type StatusCache struct {
	UserID         string     `json:"user_id"`
	Today          bool       `json:"today"`
	TodayMood      entry.Mood `json:"today_mood,omitempty"`
	Streak         int        `json:"streak"`
	Total          int        `json:"total"`
	TodayDate      string     `json:"today_date"`
	StorageBackend string     `json:"storage_backend"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CachePath returns the full path to the status cache file.
func CachePath(dataDir string) string {
	return filepath.Join(dataDir, cacheFileName)
}

// ReadCache returns the cached status, or nil if it is missing or unreadable.
func ReadCache(dataDir string) *StatusCache {
	data, err := os.ReadFile(CachePath(dataDir))
	if err != nil {
		return nil
	}
	var c StatusCache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}
	return &c
}

// WriteCache writes the status cache.
func WriteCache(dataDir string, c *StatusCache) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(CachePath(dataDir), data, 0o600)
}

// IsFresh reports whether the cache belongs to userID, was computed today,
// and is younger than ttl.
func (c *StatusCache) IsFresh(userID string, ttl time.Duration, now time.Time) bool {
	if c == nil || c.UserID != userID {
		return false
	}
	if c.TodayDate != entry.DayKey(now) {
		return false
	}
	return now.Sub(c.UpdatedAt) <= ttl
}

// InvalidateCache removes the status cache file.
func InvalidateCache(dataDir string) error {
	if err := os.Remove(CachePath(dataDir)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
