package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"resume-match-go/internal/config"
	"resume-match-go/internal/constants"
	"resume-match-go/internal/tracing"
	"resume-match-go/internal/types"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound is returned when a key is not found in Redis.
// It wraps the underlying redis.Nil error for abstraction.
var ErrNotFound = redis.Nil

// 为Redis操作定义专用tracer
var redisTracer = otel.Tracer("resume-match-go/storage/redis")

// Redis操作前缀采样率配置
var redisKeySamplingRates = map[string]float64{
	"match:resume:": 0.1,  // 简历缓存操作采样10%
	"match:job:":    0.1,  // 岗位缓存操作采样10%
	"match:file:":   0.25, // 去重集合操作采样25%
}

// 随机数生成器
var (
	rnd      *rand.Rand
	rndMutex sync.Mutex
)

func init() {
	source := rand.NewSource(time.Now().UnixNano())
	rnd = rand.New(source)
}

// shouldSampleRedisOp 根据key前缀决定是否需要创建span
func shouldSampleRedisOp(key string) bool {
	if key == "" {
		return false
	}

	for prefix, rate := range redisKeySamplingRates {
		if strings.HasPrefix(key, prefix) {
			return randFloat() < rate
		}
	}

	// 默认采样率5%
	return randFloat() < 0.05
}

func randFloat() float64 {
	rndMutex.Lock()
	defer rndMutex.Unlock()
	return rnd.Float64()
}

// Redis wraps the Redis client
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter creates a new Redis client connection
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		// 连接池设置
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// 超时设置
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		// 重试设置
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,

		// 连接生命周期
		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime: time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute,
	}

	client := redis.NewClient(opt)

	// 添加OpenTelemetry钩子, 记录所有Redis操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	// Ping to check connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Redis{
		Client: client,
		config: cfg,
	}, nil
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// GetHashExpireDuration 返回配置的内容指纹记录过期时间
func (r *Redis) GetHashExpireDuration() time.Duration {
	days := r.config.HashRecordExpireDays
	if days <= 0 {
		days = 365 // 默认1年
	}
	return time.Duration(days) * 24 * time.Hour
}

// CheckAndAddContentHash 检查并添加内容SHA-256指纹到去重集合，是一个原子操作。
// 返回指纹在调用前是否已存在。
func (r *Redis) CheckAndAddContentHash(ctx context.Context, hashHex string) (exists bool, err error) {
	ctx, span := redisTracer.Start(ctx, "Redis.CheckAndAddContentHash",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		semconv.DBSystemRedis,
		attribute.String("db.redis.database", fmt.Sprintf("%d", r.config.DB)),
		attribute.String("net.peer.name", r.config.Address),
		attribute.String("db.operation", "EVAL"),
		attribute.String("db.redis.key", constants.KeyContentHashSet),
		attribute.String("db.redis.member", hashHex),
	)

	if r.Client == nil {
		err = fmt.Errorf("redis client is not initialized")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	// 使用Lua脚本进行原子检查和添加
	script := `
		local exists = redis.call('SISMEMBER', KEYS[1], ARGV[1])
		redis.call('SADD', KEYS[1], ARGV[1])
		redis.call('EXPIRE', KEYS[1], ARGV[2])
		return exists
	`

	expiry := r.GetHashExpireDuration().Seconds()

	res, err := r.Client.Eval(ctx, script, []string{constants.KeyContentHashSet}, hashHex, expiry).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("执行原子检查和添加操作失败: %w", err)
	}

	// Lua脚本返回0表示不存在，1表示存在
	existsVal, ok := res.(int64)
	if !ok {
		err := fmt.Errorf("意外的Redis返回类型: %T", res)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	exists = existsVal == 1
	span.SetAttributes(attribute.Bool("already_exists", exists))
	span.SetStatus(codes.Ok, "")

	return exists, nil
}

// RemoveContentHash 从去重集合中移除内容指纹，用于写库失败时回滚
func (r *Redis) RemoveContentHash(ctx context.Context, hashHex string) error {
	ctx, span := redisTracer.Start(ctx, "Redis.RemoveContentHash",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		semconv.DBSystemRedis,
		attribute.String("db.redis.database", fmt.Sprintf("%d", r.config.DB)),
		attribute.String("net.peer.name", r.config.Address),
		attribute.String("db.operation", "SREM"),
		attribute.String("db.redis.key", constants.KeyContentHashSet),
		attribute.String("db.redis.member", hashHex),
	)

	if r.Client == nil {
		err := fmt.Errorf("redis client is not initialized")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	result, err := r.Client.SRem(ctx, constants.KeyContentHashSet, hashHex).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("从集合中移除内容指纹失败: %w", err)
	}

	span.SetAttributes(attribute.Int64("removed_count", result))
	span.SetStatus(codes.Ok, "")

	return nil
}

// SetResumeHashMapping 记录简历内容指纹到记录ID的映射
func (r *Redis) SetResumeHashMapping(ctx context.Context, hashHex, resumeID string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyResumeHashToID, hashHex)
	return r.Client.Set(ctx, key, resumeID, constants.HashMappingDuration).Err()
}

// GetResumeIDByHash 通过内容指纹查询已有简历记录ID
func (r *Redis) GetResumeIDByHash(ctx context.Context, hashHex string) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyResumeHashToID, hashHex)
	return r.Client.Get(ctx, key).Result() // 包括 redis.Nil 错误
}

// SetJobHashMapping 记录岗位内容指纹到记录ID的映射
func (r *Redis) SetJobHashMapping(ctx context.Context, hashHex, jobID string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyJobHashToID, hashHex)
	return r.Client.Set(ctx, key, jobID, constants.HashMappingDuration).Err()
}

// GetJobIDByHash 通过内容指纹查询已有岗位记录ID
func (r *Redis) GetJobIDByHash(ctx context.Context, hashHex string) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyJobHashToID, hashHex)
	return r.Client.Get(ctx, key).Result()
}

// CacheResumeRecord 缓存结构化简历记录
func (r *Redis) CacheResumeRecord(ctx context.Context, record *types.ResumeRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("简历记录或其ID不能为空")
	}
	key := fmt.Sprintf(constants.KeyResumeRecord, record.ID)
	return r.setJSON(ctx, key, record, constants.RecordCacheDuration)
}

// GetCachedResumeRecord 从缓存读取结构化简历记录，未命中返回ErrNotFound
func (r *Redis) GetCachedResumeRecord(ctx context.Context, resumeID string) (*types.ResumeRecord, error) {
	key := fmt.Sprintf(constants.KeyResumeRecord, resumeID)
	var record types.ResumeRecord
	if err := r.getJSON(ctx, key, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// CacheJobRecord 缓存结构化岗位记录
func (r *Redis) CacheJobRecord(ctx context.Context, record *types.JobRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("岗位记录或其ID不能为空")
	}
	key := fmt.Sprintf(constants.KeyJobRecord, record.ID)
	return r.setJSON(ctx, key, record, constants.RecordCacheDuration)
}

// GetCachedJobRecord 从缓存读取结构化岗位记录，未命中返回ErrNotFound
func (r *Redis) GetCachedJobRecord(ctx context.Context, jobID string) (*types.JobRecord, error) {
	key := fmt.Sprintf(constants.KeyJobRecord, jobID)
	var record types.JobRecord
	if err := r.getJSON(ctx, key, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// setJSON 序列化并写入带过期时间的缓存值
func (r *Redis) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.Client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	var span trace.Span
	if shouldSampleRedisOp(key) {
		ctx, span = redisTracer.Start(ctx, "Redis.SetJSON", trace.WithSpanKind(trace.SpanKindClient))
		defer span.End()

		span.SetAttributes(
			semconv.DBSystemRedis,
			attribute.String("db.operation", "SET"),
			attribute.String("db.redis.key", tracing.SafeRedisKey(key)),
		)
	}

	data, err := json.Marshal(value)
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return fmt.Errorf("序列化缓存值失败: %w", err)
	}

	if err := r.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return fmt.Errorf("写入缓存失败: %w", err)
	}

	if span != nil {
		span.SetStatus(codes.Ok, "")
	}
	return nil
}

// getJSON 读取并反序列化缓存值，键不存在时返回ErrNotFound
func (r *Redis) getJSON(ctx context.Context, key string, dest interface{}) error {
	if r.Client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	var span trace.Span
	if shouldSampleRedisOp(key) {
		ctx, span = redisTracer.Start(ctx, "Redis.GetJSON", trace.WithSpanKind(trace.SpanKindClient))
		defer span.End()

		span.SetAttributes(
			semconv.DBSystemRedis,
			attribute.String("db.operation", "GET"),
			attribute.String("db.redis.key", tracing.SafeRedisKey(key)),
		)
	}

	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if span != nil {
			if err == redis.Nil {
				span.SetAttributes(attribute.Bool("cache.hit", false))
				span.SetStatus(codes.Ok, "cache miss")
			} else {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
		}
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return fmt.Errorf("反序列化缓存值失败: %w", err)
	}

	if span != nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "")
	}
	return nil
}
