// Package storage 在 redis 中保存通关记录
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/maze-escape/internal/config"
)

const (
	// Redis key
	recordKey    = "maze:record:"
	bestKey      = "maze:best:"
	escapesKey   = "maze:escapes:"
	recordTTL    = 30 * 24 * time.Hour
	maxBestLimit = 100
)

// Record 一次通关记录，只保存结果，不保存迷宫
type Record struct {
	ID         string `json:"id"`
	GameID     string `json:"game_id"`
	PlayerName string `json:"player_name"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	Moves      int    `json:"moves"`
	DurationMs int64  `json:"duration_ms"`
	CreatedAt  int64  `json:"created_at"`
}

// Duration 通关用时
func (r *Record) Duration() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}

// RankedRecord 带名次（从 1 开始）的记录
type RankedRecord struct {
	Rank int `json:"rank"`
	Record
}

// RecordStore 按迷宫尺寸保存记录，步数少者排前
type RecordStore struct {
	redis *redis.Client
}

// NewRecordStore 创建记录存储
func NewRecordStore(client *redis.Client) *RecordStore {
	return &RecordStore{redis: client}
}

// NewRedisClient 连接 redis 并 ping
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

func sizeKey(rows, cols int) string {
	return fmt.Sprintf("%dx%d", rows, cols)
}

// Save 保存记录并加入排行，ID 与 CreatedAt 为空时自动填充
func (rs *RecordStore) Save(ctx context.Context, r *Record) error {
	if r.Rows < 1 || r.Cols < 1 || r.Moves < 0 {
		return fmt.Errorf("invalid record %dx%d moves=%d", r.Rows, r.Cols, r.Moves)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	size := sizeKey(r.Rows, r.Cols)
	pipe := rs.redis.TxPipeline()
	pipe.Set(ctx, recordKey+r.ID, data, recordTTL)
	pipe.ZAdd(ctx, bestKey+size, redis.Z{Score: float64(r.Moves), Member: r.ID})
	pipe.Incr(ctx, escapesKey+size)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// Get 按 ID 读取记录，不存在时返回 nil, nil
func (rs *RecordStore) Get(ctx context.Context, id string) (*Record, error) {
	data, err := rs.redis.Get(ctx, recordKey+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Best 返回某尺寸前 limit 条记录，步数升序。已过期的记录会从排行中移除
func (rs *RecordStore) Best(ctx context.Context, rows, cols, limit int) ([]RankedRecord, error) {
	if limit <= 0 || limit > maxBestLimit {
		limit = maxBestLimit
	}

	key := bestKey + sizeKey(rows, cols)
	ids, err := rs.redis.ZRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]RankedRecord, 0, len(ids))
	for _, id := range ids {
		r, err := rs.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if r == nil {
			rs.redis.ZRem(ctx, key, id)
			continue
		}
		entries = append(entries, RankedRecord{Rank: len(entries) + 1, Record: *r})
	}
	return entries, nil
}

// Rank 返回记录名次（从 1 开始），未上榜返回 -1
func (rs *RecordStore) Rank(ctx context.Context, id string, rows, cols int) (int64, error) {
	rank, err := rs.redis.ZRank(ctx, bestKey+sizeKey(rows, cols), id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return -1, err
	}
	return rank + 1, nil
}

// Escapes 某尺寸的累计通关次数
func (rs *RecordStore) Escapes(ctx context.Context, rows, cols int) (int64, error) {
	n, err := rs.redis.Get(ctx, escapesKey+sizeKey(rows, cols)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}
