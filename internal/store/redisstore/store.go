// Package redisstore keeps ephemeral viewer presence in redis. A session
// watches at most one room; joining a new room removes the old membership.
package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionTTL = 6 * time.Hour

type Store struct {
	client *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func sessionKey(sessionID string) string { return "viewer:session:" + sessionID }
func roomKey(roomID string) string       { return "viewer:room:" + roomID }

// Join points the session at roomID, leaving any previously watched room.
func (s *Store) Join(ctx context.Context, sessionID, roomID string) error {
	prev, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	if prev != "" && prev != roomID {
		if err := s.client.SRem(ctx, roomKey(prev), sessionID).Err(); err != nil {
			return err
		}
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(sessionID), roomID, sessionTTL)
	pipe.SAdd(ctx, roomKey(roomID), sessionID)
	pipe.Expire(ctx, roomKey(roomID), sessionTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) Leave(ctx context.Context, sessionID string) error {
	roomID, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, roomKey(roomID), sessionID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) Count(ctx context.Context, roomID string) (int64, error) {
	return s.client.SCard(ctx, roomKey(roomID)).Result()
}
