// Package sessioncache tracks, in Redis, which SFU node a participant's
// session lives on. The Dispatcher consults it to decide whether a rejoin
// should stick to the node the participant was already on (so its publisher
// state survives a reconnect) or whether a fresh node needs to be allocated.
//
// Grounded on
// original_source/crates/dispatcher/src/infrastructure/cache/cache_manager.rs
// (primary key + secondary participant_id index), restructured around
// go-redis/v9's pipelining the way
// _examples/randeeprajputr-webinar_backend and
// _examples/observer04-teatime use it for session state.
package sessioncache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a lookup finds no matching session.
var ErrNotFound = errors.New("session not found")

const participantIndexPrefix = "participant_id:"

// Session describes where one participant's session is being served from.
type Session struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	NodeID        string `json:"sfu_node_id"`
	NodeAddr      string `json:"node_addr"`
}

// Cache is a thin wrapper around a redis client, keyed the way the original
// dispatcher keys it: the primary key is "room:<room_id>:<participant_id>",
// and a secondary "participant_id:<participant_id>" key points back at it so
// a client can be found by participant id alone after a reconnect.
type Cache struct {
	rdb *redis.Client
}

// New builds a client for the first address in addrs; it does not dial or
// probe any address. Multiple addresses are accepted for parity with the
// cluster-aware client the original dispatcher used; this SFU's deployments
// run a single Redis primary, so only the first address is used and the rest
// are left to the infrastructure layer (DNS/proxy), not this client.
func New(addrs []string) (*Cache, error) {
	if len(addrs) == 0 {
		return nil, errors.New("sessioncache: at least one redis address is required")
	}

	opts, err := redis.ParseURL(addrs[0])
	if err != nil {
		opts = &redis.Options{Addr: addrs[0]}
	}

	return &Cache{rdb: redis.NewClient(opts)}, nil
}

func primaryKey(roomID, participantID string) string {
	return fmt.Sprintf("room:%s:%s", roomID, participantID)
}

func roomMembersKey(roomID string) string {
	return fmt.Sprintf("room:%s:members", roomID)
}

// Put stores a session, its participant-id index entry, and its membership
// in the room's member set, in one round trip.
func (c *Cache) Put(ctx context.Context, s Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("sessioncache: failed to marshal session: %w", err)
	}

	key := primaryKey(s.RoomID, s.ParticipantID)

	_, err = c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, payload, 0)
		pipe.Set(ctx, participantIndexPrefix+s.ParticipantID, key, 0)
		pipe.SAdd(ctx, roomMembersKey(s.RoomID), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("sessioncache: failed to write session: %w", err)
	}

	return nil
}

// Get looks a session up by its primary (room, participant) key.
func (c *Cache) Get(ctx context.Context, roomID, participantID string) (Session, error) {
	return c.getByKey(ctx, primaryKey(roomID, participantID))
}

// GetByParticipant resolves a participant id to its session via the
// secondary index, without the caller needing to already know the room id
// (e.g. on a bare reconnect where only the participant id survived).
func (c *Cache) GetByParticipant(ctx context.Context, participantID string) (Session, error) {
	key, err := c.rdb.Get(ctx, participantIndexPrefix+participantID).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	} else if err != nil {
		return Session{}, fmt.Errorf("sessioncache: failed to resolve participant index: %w", err)
	}

	return c.getByKey(ctx, key)
}

func (c *Cache) getByKey(ctx context.Context, key string) (Session, error) {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	} else if err != nil {
		return Session{}, fmt.Errorf("sessioncache: failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return Session{}, fmt.Errorf("sessioncache: failed to unmarshal session: %w", err)
	}

	return s, nil
}

// Remove deletes a session, its participant-id index entry, and its
// membership in the room's member set.
func (c *Cache) Remove(ctx context.Context, roomID, participantID string) error {
	key := primaryKey(roomID, participantID)

	_, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.Del(ctx, participantIndexPrefix+participantID)
		pipe.SRem(ctx, roomMembersKey(roomID), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("sessioncache: failed to remove session: %w", err)
	}

	return nil
}

// ListByRoom returns every session currently tracked for roomID, resolved
// via the room's member set (a Redis SET we maintain on Put/Remove) rather
// than a KEYS/SCAN, so the Dispatcher's broadcast fan-out never does an
// O(keyspace) pass over Redis.
func (c *Cache) ListByRoom(ctx context.Context, roomID string) ([]Session, error) {
	keys, err := c.rdb.SMembers(ctx, roomMembersKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("sessioncache: failed to list room members: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("sessioncache: failed to batch-get room members: %w", err)
	}

	sessions := make([]Session, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue // member key expired/removed since SMembers; skip it
		}
		var s Session
		if err := json.Unmarshal([]byte(str), &s); err != nil {
			continue
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

// Close releases the underlying redis connection pool.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
