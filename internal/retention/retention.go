package retention

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Store is the subset of the persistence layer the sweeper needs.
type Store interface {
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// Sweeper deletes records that have aged out of the retention window.
type Sweeper struct {
	store Store

	// now is the sweep clock; injectable for tests.
	now func() time.Time
}

func NewSweeper(store Store) *Sweeper {
	return &Sweeper{store: store, now: time.Now}
}

// Sweep deletes all records received before now minus the retention
// window and returns the deleted count. Running it twice with no new
// data deletes nothing the second time.
func (s *Sweeper) Sweep(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retention window must be positive, got %d", retentionDays)
	}

	cutoff := s.now().UTC().AddDate(0, 0, -retentionDays)
	deleted, err := s.store.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep old newsletters: %w", err)
	}

	if deleted > 0 {
		logrus.Infof("Retention sweep deleted %d newsletters older than %s", deleted, cutoff.Format("2006-01-02"))
	}
	return deleted, nil
}
