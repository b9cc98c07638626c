package kvstore

import "go.uber.org/zap"

// Fallback wraps a durable store and degrades to in-memory-only
// operation for the remainder of the session after the first storage
// failure. The ledger keeps working; data loss on reload is the
// accepted outcome, not a crash.
type Fallback struct {
	durable  Store
	memory   *Memory
	degraded bool
	log      *zap.Logger
}

func NewFallback(durable Store, log *zap.Logger) *Fallback {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fallback{durable: durable, memory: NewMemory(), log: log}
}

// Degraded reports whether the session has fallen back to memory.
func (f *Fallback) Degraded() bool {
	return f.degraded
}

func (f *Fallback) Get(key string) ([]byte, bool, error) {
	if f.degraded {
		return f.memory.Get(key)
	}
	value, found, err := f.durable.Get(key)
	if err != nil {
		f.degrade("read", key, err)
		return f.memory.Get(key)
	}
	return value, found, nil
}

func (f *Fallback) Set(key string, value []byte) error {
	if !f.degraded {
		if err := f.durable.Set(key, value); err != nil {
			f.degrade("write", key, err)
		} else {
			return nil
		}
	}
	return f.memory.Set(key, value)
}

func (f *Fallback) Delete(key string) error {
	if !f.degraded {
		if err := f.durable.Delete(key); err != nil {
			f.degrade("delete", key, err)
		} else {
			return nil
		}
	}
	return f.memory.Delete(key)
}

func (f *Fallback) degrade(op, key string, err error) {
	f.degraded = true
	f.log.Warn("storage failed, continuing in-memory for this session",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}
