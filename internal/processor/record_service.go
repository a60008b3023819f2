package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resume-match-go/internal/logger"
	"resume-match-go/internal/storage"
	"resume-match-go/internal/types"
)

// StorageRecordStore 基于MySQL持久化、Redis缓存的RecordStore实现。
// Redis不可用时退化为纯MySQL访问。
type StorageRecordStore struct {
	store *storage.Storage
}

// 编译期断言
var _ RecordStore = (*StorageRecordStore)(nil)

// NewStorageRecordStore 创建持久化记录服务，MySQL组件是必需的
func NewStorageRecordStore(store *storage.Storage) (*StorageRecordStore, error) {
	if store == nil {
		return nil, fmt.Errorf("存储管理器不能为空")
	}
	if store.MySQL == nil {
		return nil, fmt.Errorf("记录服务依赖MySQL组件")
	}
	return &StorageRecordStore{store: store}, nil
}

// SaveResume 按内容哈希去重保存简历，返回记录ID
func (s *StorageRecordStore) SaveResume(ctx context.Context, record *types.ResumeRecord) (string, error) {
	if record == nil {
		return "", NewValidationError("简历记录不能为空")
	}

	hash := resumeContentHash(record)

	// Redis快速路径: 指纹已见过时直接返回已有记录ID
	if s.store.Redis != nil {
		if id, err := s.store.Redis.GetResumeIDByHash(ctx, hash); err == nil && id != "" {
			logger.Ctx(ctx).Debug().
				Str("resume_id", id).
				Str("content_hash", hash).
				Msg("简历内容命中去重缓存")
			return id, nil
		}
	}

	id, err := s.store.MySQL.SaveResumeRecord(ctx, record, hash)
	if err != nil {
		return "", NewStorageError(record.ID, err.Error())
	}

	// 缓存失败不影响主流程
	if s.store.Redis != nil {
		if err := s.store.Redis.SetResumeHashMapping(ctx, hash, id); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("resume_id", id).Msg("写入简历指纹映射失败")
		}
		if id == record.ID {
			if err := s.store.Redis.CacheResumeRecord(ctx, record); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Str("resume_id", id).Msg("缓存简历记录失败")
			}
		}
	}

	return id, nil
}

// GetResume 按ID查询简历，优先走Redis缓存
func (s *StorageRecordStore) GetResume(ctx context.Context, id string) (*types.ResumeRecord, error) {
	if s.store.Redis != nil {
		if record, err := s.store.Redis.GetCachedResumeRecord(ctx, id); err == nil {
			return record, nil
		}
	}

	record, err := s.store.MySQL.GetResumeRecord(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return nil, NewNotFoundError(id, "简历不存在")
		}
		return nil, NewStorageError(id, err.Error())
	}

	if s.store.Redis != nil {
		if err := s.store.Redis.CacheResumeRecord(ctx, record); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("resume_id", id).Msg("回填简历缓存失败")
		}
	}

	return record, nil
}

// SaveJob 按内容哈希去重保存岗位，返回记录ID
func (s *StorageRecordStore) SaveJob(ctx context.Context, record *types.JobRecord) (string, error) {
	if record == nil {
		return "", NewValidationError("岗位记录不能为空")
	}

	hash := jobContentHash(record)

	if s.store.Redis != nil {
		if id, err := s.store.Redis.GetJobIDByHash(ctx, hash); err == nil && id != "" {
			logger.Ctx(ctx).Debug().
				Str("job_id", id).
				Str("content_hash", hash).
				Msg("岗位内容命中去重缓存")
			return id, nil
		}
	}

	id, err := s.store.MySQL.SaveJobRecord(ctx, record, hash)
	if err != nil {
		return "", NewStorageError(record.ID, err.Error())
	}

	if s.store.Redis != nil {
		if err := s.store.Redis.SetJobHashMapping(ctx, hash, id); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("job_id", id).Msg("写入岗位指纹映射失败")
		}
		if id == record.ID {
			if err := s.store.Redis.CacheJobRecord(ctx, record); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Str("job_id", id).Msg("缓存岗位记录失败")
			}
		}
	}

	return id, nil
}

// GetJob 按ID查询岗位，优先走Redis缓存
func (s *StorageRecordStore) GetJob(ctx context.Context, id string) (*types.JobRecord, error) {
	if s.store.Redis != nil {
		if record, err := s.store.Redis.GetCachedJobRecord(ctx, id); err == nil {
			return record, nil
		}
	}

	record, err := s.store.MySQL.GetJobRecord(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return nil, NewNotFoundError(id, "岗位不存在")
		}
		return nil, NewStorageError(id, err.Error())
	}

	if s.store.Redis != nil {
		if err := s.store.Redis.CacheJobRecord(ctx, record); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("job_id", id).Msg("回填岗位缓存失败")
		}
	}

	return record, nil
}

// SaveMatch 保存匹配结果
func (s *StorageRecordStore) SaveMatch(ctx context.Context, result *types.MatchResult) error {
	if result == nil {
		return NewValidationError("匹配结果不能为空")
	}
	if err := s.store.MySQL.SaveMatchRecord(ctx, result); err != nil {
		return NewStorageError(result.ResumeID, err.Error())
	}
	return nil
}

// Statistics 查询语料统计信息
func (s *StorageRecordStore) Statistics(ctx context.Context) (*types.MatchStatistics, error) {
	stats, err := s.store.MySQL.GetStatistics(ctx)
	if err != nil {
		return nil, NewStorageError("", err.Error())
	}
	return stats, nil
}

// resumeContentHash 计算简历内容指纹。
// 优先使用原始文本，原始文本缺失时退化为结构化记录的序列化结果。
func resumeContentHash(record *types.ResumeRecord) string {
	if record.RawText != "" {
		return storage.ContentHash(record.RawText)
	}
	data, err := json.Marshal(record)
	if err != nil {
		return storage.ContentHash(record.ID + record.Filename)
	}
	return storage.ContentHash(string(data))
}

// jobContentHash 计算岗位内容指纹
func jobContentHash(record *types.JobRecord) string {
	if record.Description != "" {
		return storage.ContentHash(record.Description)
	}
	data, err := json.Marshal(record)
	if err != nil {
		return storage.ContentHash(record.ID + record.Title)
	}
	return storage.ContentHash(string(data))
}
