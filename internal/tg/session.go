package tg

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultExpiration = 24 * time.Hour
	cleanupInterval   = 30 * time.Minute
)

// SessionsCache хранит черновики розыгрышей по chat id.
// Черновик живет только в памяти процесса: рестарт молча обрывает
// незавершенные диалоги создания.
type SessionsCache struct {
	cache *cache.Cache
}

func NewSessionsCache() *SessionsCache {
	return &SessionsCache{
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

func keyToString(key int64) string {
	return fmt.Sprintf("%d", key)
}

func (sc *SessionsCache) Set(key int64, draft GiveawayDraft) {
	sc.cache.Set(keyToString(key), draft, defaultExpiration)
}

// Get возвращает черновик из кэша. Если черновика нет,
// создает новый пустой, сохраняет его в кэше и возвращает.
func (sc *SessionsCache) Get(key int64) GiveawayDraft {
	value, exists := sc.cache.Get(keyToString(key))
	if !exists {
		newDraft := GiveawayDraft{}
		sc.Set(key, newDraft)
		return newDraft
	}

	draft, ok := value.(GiveawayDraft)
	if !ok {
		newDraft := GiveawayDraft{}
		sc.Set(key, newDraft)
		return newDraft
	}

	return draft
}

func (sc *SessionsCache) Delete(key int64) {
	sc.cache.Delete(keyToString(key))
}
