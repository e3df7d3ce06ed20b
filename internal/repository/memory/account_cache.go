package memory

import (
	"time"

	"ai-supportchat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// AccountCache keeps recently verified accounts in memory so the identity
// check doesn't hit the store on every request. Entries expire quickly:
// account deletion must surface as AccountNotFound within the TTL.
type AccountCache struct {
	cache *cache.Cache
}

func NewAccountCache() *AccountCache {
	c := cache.New(2*time.Minute, 10*time.Minute)
	return &AccountCache{cache: c}
}

func (r *AccountCache) Set(account *entity.Account) {
	r.cache.Set(account.Id.String(), account, cache.DefaultExpiration)
}

func (r *AccountCache) Get(accountId uuid.UUID) (*entity.Account, bool) {
	if x, found := r.cache.Get(accountId.String()); found {
		return x.(*entity.Account), true
	}
	return nil, false
}

func (r *AccountCache) Delete(accountId uuid.UUID) {
	r.cache.Delete(accountId.String())
}
