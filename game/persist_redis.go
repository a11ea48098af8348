package game

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
)

type RedisTableStateTracker struct {
	rdclient *redis.Client
}

func NewRedisTableStateTracker(redisURL string, redisPW string, redisDB int) *RedisTableStateTracker {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisTableStateTracker{
		rdclient: rdclient,
	}
}

func (r *RedisTableStateTracker) Load(tableID string) (*TableView, error) {
	viewBytes, err := r.rdclient.Get(context.Background(), r.key(tableID)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("Table state for table: %s is not found", tableID)
	} else if err != nil {
		return nil, err
	}
	view := &TableView{}
	err = jsoniter.Unmarshal([]byte(viewBytes), view)
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (r *RedisTableStateTracker) Save(tableID string, view *TableView) error {
	viewBytes, err := jsoniter.Marshal(view)
	if err != nil {
		return err
	}
	return r.rdclient.Set(context.Background(), r.key(tableID), viewBytes, 0).Err()
}

func (r *RedisTableStateTracker) Remove(tableID string) error {
	return r.rdclient.Del(context.Background(), r.key(tableID)).Err()
}

func (r *RedisTableStateTracker) key(tableID string) string {
	return "tablestate:" + tableID
}
