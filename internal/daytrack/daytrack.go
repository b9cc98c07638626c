// Package daytrack is the daily-tracking store that owns per-day
// aggregate totals. The ledger reads and writes aggregates only
// through it, keyed the same way as day-scoped history.
package daytrack

import (
	"encoding/json"
	"fmt"

	"github.com/weighline/cutlog/internal/kvstore"
	"github.com/weighline/cutlog/internal/model"
)

// Store reads and writes one DailyAggregate per date key.
type Store interface {
	Aggregate(date string) (model.DailyAggregate, error)
	SaveAggregate(date string, agg model.DailyAggregate) error
}

type kvStore struct {
	kv kvstore.Store
}

func New(kv kvstore.Store) Store {
	return &kvStore{kv: kv}
}

// Aggregate returns the stored record for the day, or a zero aggregate
// when the day has never been written.
func (s *kvStore) Aggregate(date string) (model.DailyAggregate, error) {
	value, found, err := s.kv.Get(kvstore.DayRecordKey(date))
	if err != nil {
		return model.DailyAggregate{}, fmt.Errorf("load day record %s: %w", date, err)
	}
	if !found {
		return model.DailyAggregate{}, nil
	}
	var agg model.DailyAggregate
	if err := json.Unmarshal(value, &agg); err != nil {
		return model.DailyAggregate{}, fmt.Errorf("decode day record %s: %w", date, err)
	}
	return agg, nil
}

func (s *kvStore) SaveAggregate(date string, agg model.DailyAggregate) error {
	payload, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("encode day record %s: %w", date, err)
	}
	if err := s.kv.Set(kvstore.DayRecordKey(date), payload); err != nil {
		return fmt.Errorf("save day record %s: %w", date, err)
	}
	return nil
}
