// Package ledger owns one day's intake totals and its append-only
// food log. It is the single writer for both: the aggregate and the
// history never diverge except through an explicit manual edit, which
// deliberately clears history.
package ledger

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/weighline/cutlog/internal/daytrack"
	"github.com/weighline/cutlog/internal/kvstore"
	"github.com/weighline/cutlog/internal/model"
	"github.com/weighline/cutlog/internal/units"
)

// Draft is the input to Append. Amounts are sanitized, not validated:
// malformed or non-positive input becomes zero contribution and is
// never surfaced as an error.
type Draft struct {
	Name           string
	MacroType      model.MacroType
	AmountGrams    int
	SourceCategory model.SourceCategory
	LiquidOunces   int
}

// Store holds one day's state. All operations are synchronous and run
// to completion; none of them return errors. Persistence happens
// strictly after every mutation, and persistence failures are logged
// and absorbed.
type Store struct {
	day     string
	agg     model.DailyAggregate
	history []model.FoodLogEntry
	kv      kvstore.Store
	days    daytrack.Store
	log     *zap.Logger
	seq     int
}

// Open loads the day's aggregate and history. A failed or corrupt load
// degrades to an empty day rather than failing.
func Open(day string, kv kvstore.Store, days daytrack.Store, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{day: day, kv: kv, days: days, log: log}
	s.load()
	return s
}

// Day returns the current date key.
func (s *Store) Day() string {
	return s.day
}

// SwitchDay re-points the store at another date key and loads that
// day's state. Nothing is written.
func (s *Store) SwitchDay(day string) {
	s.day = day
	s.agg = model.DailyAggregate{}
	s.history = nil
	s.load()
}

// Append records one food. It increments the matching macro total,
// recomputes that macro's slice count from the new total, adds liquid
// ounces to water when present, and appends an immutable history row.
// A draft with no positive grams and no liquid is a silent no-op.
func (s *Store) Append(d Draft) model.FoodLogEntry {
	if d.AmountGrams < 0 {
		d.AmountGrams = 0
	}
	if d.LiquidOunces < 0 {
		d.LiquidOunces = 0
	}
	if d.AmountGrams == 0 && d.LiquidOunces == 0 {
		return model.FoodLogEntry{}
	}
	if d.MacroType != model.MacroProtein {
		d.MacroType = model.MacroCarbs
	}

	entry := model.FoodLogEntry{
		ID:             s.nextID(),
		Name:           strings.TrimSpace(d.Name),
		MacroType:      d.MacroType,
		AmountGrams:    d.AmountGrams,
		Timestamp:      time.Now(),
		SourceCategory: d.SourceCategory,
		LiquidOunces:   d.LiquidOunces,
	}

	s.applyDelta(d.MacroType, d.AmountGrams, d.LiquidOunces)
	s.history = append(s.history, entry)
	s.persist()
	return entry
}

// UndoLast removes the most recent entry and reverses its
// contribution. No-op on an empty history.
func (s *Store) UndoLast() {
	if len(s.history) == 0 {
		return
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.applyDelta(last.MacroType, -last.AmountGrams, -last.LiquidOunces)
	s.persist()
}

// DeleteEntry removes an arbitrary entry by id with the same
// arithmetic as UndoLast. Unknown ids are a no-op.
func (s *Store) DeleteEntry(id string) {
	for i, e := range s.history {
		if e.ID != id {
			continue
		}
		s.history = append(s.history[:i], s.history[i+1:]...)
		s.applyDelta(e.MacroType, -e.AmountGrams, -e.LiquidOunces)
		s.persist()
		return
	}
}

// ManualEdit overwrites one macro total directly and recomputes its
// slice count. The whole day's history is cleared: a manual total is
// not attributable to individual foods, so entry-level undo after one
// would be ambiguous.
func (s *Store) ManualEdit(macro model.MacroType, newGramTotal int) {
	if newGramTotal < 0 {
		newGramTotal = 0
	}
	if macro == model.MacroProtein {
		s.agg.ProteinGrams = newGramTotal
		s.agg.ProteinSlices = units.ForMacro(model.MacroProtein, newGramTotal)
	} else {
		s.agg.CarbsGrams = newGramTotal
		s.agg.CarbSlices = units.ForMacro(model.MacroCarbs, newGramTotal)
	}
	s.history = nil
	s.persist()
}

// ResetDay zeroes both macro totals and both slice counts and clears
// history. Water is scoped to macros only and left untouched.
func (s *Store) ResetDay() {
	s.agg.CarbsGrams = 0
	s.agg.ProteinGrams = 0
	s.agg.CarbSlices = 0
	s.agg.ProteinSlices = 0
	s.history = nil
	s.persist()
}

func (s *Store) Aggregate() model.DailyAggregate {
	return s.agg
}

// History returns the day's entries, most-recent-last.
func (s *Store) History() []model.FoodLogEntry {
	out := make([]model.FoodLogEntry, len(s.history))
	copy(out, s.history)
	return out
}

// applyDelta adjusts one macro total and water by the given amounts,
// clamping at zero, then recomputes the macro's slices from the
// resulting total. Recomputing from the total rather than per entry is
// what keeps grams and slices from drifting across add/undo cycles.
func (s *Store) applyDelta(macro model.MacroType, grams, liquid int) {
	if macro == model.MacroProtein {
		s.agg.ProteinGrams = clampZero(s.agg.ProteinGrams + grams)
		s.agg.ProteinSlices = units.ForMacro(model.MacroProtein, s.agg.ProteinGrams)
	} else {
		s.agg.CarbsGrams = clampZero(s.agg.CarbsGrams + grams)
		s.agg.CarbSlices = units.ForMacro(model.MacroCarbs, s.agg.CarbsGrams)
	}
	if liquid != 0 {
		s.agg.WaterOunces = clampZero(s.agg.WaterOunces + liquid)
	}
}

func (s *Store) load() {
	agg, err := s.days.Aggregate(s.day)
	if err != nil {
		s.log.Warn("load day aggregate failed, starting empty",
			zap.String("day", s.day), zap.Error(err))
		agg = model.DailyAggregate{}
	}
	s.agg = agg

	value, found, err := s.kv.Get(kvstore.DayHistoryKey(s.day))
	if err != nil {
		s.log.Warn("load day history failed, starting empty",
			zap.String("day", s.day), zap.Error(err))
		return
	}
	if !found {
		return
	}
	var history []model.FoodLogEntry
	if err := json.Unmarshal(value, &history); err != nil {
		s.log.Warn("decode day history failed, starting empty",
			zap.String("day", s.day), zap.Error(err))
		return
	}
	s.history = history
}

func (s *Store) persist() {
	if err := s.days.SaveAggregate(s.day, s.agg); err != nil {
		s.log.Warn("persist day aggregate failed",
			zap.String("day", s.day), zap.Error(err))
	}
	payload, err := json.Marshal(s.history)
	if err != nil {
		s.log.Warn("encode day history failed",
			zap.String("day", s.day), zap.Error(err))
		return
	}
	if err := s.kv.Set(kvstore.DayHistoryKey(s.day), payload); err != nil {
		s.log.Warn("persist day history failed",
			zap.String("day", s.day), zap.Error(err))
	}
}

// nextID derives an id from the wall clock, with a per-store sequence
// suffix so entries created within the same nanosecond stay unique.
func (s *Store) nextID() string {
	s.seq++
	return strconv.FormatInt(time.Now().UnixNano(), 36) + "-" + strconv.Itoa(s.seq)
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
