// Package kvstore is the persistence boundary for the ledger: a
// key-value repository with one value per logical key. History is
// day-scoped, custom foods and meals are global.
package kvstore

// Store is the narrow contract the ledger persists through. Get
// reports absence explicitly so callers can distinguish "never
// written" from a read failure.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

const (
	KeyCustomFoods = "custom-foods"
	KeyCustomMeals = "custom-meals"
)

// DayHistoryKey is the per-day key for the ordered food log. Date keys
// are local YYYY-MM-DD.
func DayHistoryKey(date string) string {
	return "food-history:" + date
}

// DayRecordKey is the per-day key for the daily-tracking record that
// owns the aggregate totals.
func DayRecordKey(date string) string {
	return "day-record:" + date
}
