package reservation

import "github.com/redis/go-redis/v9"

// The four atomic transition scripts that move ticket ids between a
// class's available/reserved/sold containers. Each runs to completion on
// the store without interleaving with any other command, which is the
// sole source of multi-key atomicity this package relies on: the
// atomicity contract lives in the store, not in this process.
//
// go-redis's Script.Run issues EVALSHA and transparently falls back to EVAL
// on a NOSCRIPT reply, reloading and caching the SHA for subsequent calls.
// That covers the store contract's "unknown handle -> re-register, retry
// once" requirement without any hand-rolled retry loop here.

var reserveNScript = redis.NewScript(`
local available = KEYS[1]
local reserved = KEYS[2]
local pool = KEYS[3]
local reservedExp = KEYS[4]
local n = tonumber(ARGV[1])
local expiry = tonumber(ARGV[2])

local out = {}
for i = 1, n do
  local id = redis.call('SPOP', available)
  if not id then
    break
  end
  redis.call('SADD', reserved, id)
  redis.call('ZADD', reservedExp, expiry, id)
  local payload = redis.call('HGET', pool, id) or ''
  table.insert(out, id)
  table.insert(out, payload)
end
return out
`)

var confirmScript = redis.NewScript(`
local reserved = KEYS[1]
local sold = KEYS[2]
local reservedExp = KEYS[3]

for i = 1, #ARGV do
  local id = ARGV[i]
  redis.call('SMOVE', reserved, sold, id)
  redis.call('ZREM', reservedExp, id)
end
return #ARGV
`)

var rollbackScript = redis.NewScript(`
local reserved = KEYS[1]
local available = KEYS[2]
local reservedExp = KEYS[3]

for i = 1, #ARGV do
  local id = ARGV[i]
  redis.call('SMOVE', reserved, available, id)
  redis.call('ZREM', reservedExp, id)
end
return #ARGV
`)

var reclaimExpiredScript = redis.NewScript(`
local reserved = KEYS[1]
local available = KEYS[2]
local reservedExp = KEYS[3]
local now = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])

local ids = redis.call('ZRANGEBYSCORE', reservedExp, '-inf', now, 'LIMIT', 0, limit)
if #ids == 0 then
  return {}
end
for i = 1, #ids do
  local id = ids[i]
  redis.call('SMOVE', reserved, available, id)
  redis.call('ZREM', reservedExp, id)
end
return ids
`)
