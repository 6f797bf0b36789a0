package timer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Session state is useless after a day; the TTL is housekeeping only.
	stateTTL = 24 * time.Hour
	// The calendar day is part of the guard key, so this TTL never affects
	// correctness; it just garbage-collects spent guards.
	startedTTL = 48 * time.Hour
)

// RedisStore persists timer state in redis with optimistic CAS writes and
// pub/sub change notifications, so every session watching the key reconciles
// to the most recent write.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, key Key) (State, error) {
	data, err := s.client.Get(ctx, key.String()).Result()
	if errors.Is(err, redis.Nil) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, err
	}

	var st State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return State{}, fmt.Errorf("corrupt timer state: %w", err)
	}
	return st, nil
}

func (s *RedisStore) Save(ctx context.Context, key Key, st State) (State, error) {
	k := key.String()

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		var current int64
		data, err := tx.Get(ctx, k).Result()
		switch {
		case errors.Is(err, redis.Nil):
			current = 0
		case err != nil:
			return err
		default:
			var existing State
			if uerr := json.Unmarshal([]byte(data), &existing); uerr != nil {
				return fmt.Errorf("corrupt timer state: %w", uerr)
			}
			current = existing.Version
		}

		if st.Version != current {
			return ErrVersionConflict
		}
		st.Version = current + 1

		payload, err := json.Marshal(st)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, payload, stateTTL)
			pipe.Publish(ctx, k, payload)
			return nil
		})
		return err
	}, k)

	if errors.Is(err, redis.TxFailedErr) {
		// The key changed between WATCH and EXEC: someone else won.
		return State{}, ErrVersionConflict
	}
	if err != nil {
		return State{}, err
	}

	return st, nil
}

func (s *RedisStore) Delete(ctx context.Context, key Key) error {
	return s.client.Del(ctx, key.String()).Err()
}

func (s *RedisStore) TryMarkStarted(ctx context.Context, memberID, gymID int, day string) (bool, error) {
	return s.client.SetNX(ctx, startedKey(memberID, gymID, day), 1, startedTTL).Result()
}

func (s *RedisStore) Watch(ctx context.Context, key Key) (<-chan State, error) {
	sub := s.client.Subscribe(ctx, key.String())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan State, 8)
	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var st State
				if err := json.Unmarshal([]byte(msg.Payload), &st); err != nil {
					continue
				}
				select {
				case out <- st:
				default:
					// A slow watcher only ever needs the latest state.
				}
			}
		}
	}()

	return out, nil
}

func startedKey(memberID, gymID int, day string) string {
	return fmt.Sprintf("timer:started:%d:%d:%s", memberID, gymID, day)
}
