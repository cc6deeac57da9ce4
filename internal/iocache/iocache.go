package iocache

import (
	"sync"

	"github.com/huangsam/hirecast/internal/contract"
)

// CacheStoreManager manages the result cache and run history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	result       contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// set replaces both stores.
func (mgr *CacheStoreManager) set(result contract.CacheStore, history contract.HistoryStore) {
	mgr.Lock()
	defer mgr.Unlock()
	mgr.result = result
	mgr.history = history
}

// GetResultStore returns the result CacheStore, or nil when caching is disabled.
func (mgr *CacheStoreManager) GetResultStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.result
}

// GetHistoryStore returns the HistoryStore, or nil when run tracking is disabled.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
