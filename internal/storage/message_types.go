package storage

import "time"

// ResumeUploadMessage 简历上传消息，投递到解析队列由消费者异步处理
type ResumeUploadMessage struct {
	ResumeID            string    `json:"resume_id"`                // 简历记录ID
	UploadTimestamp     time.Time `json:"upload_timestamp"`         // 上传时间戳
	OriginalFilename    string    `json:"original_filename"`        // 原始文件名
	OriginalFilePathOSS string    `json:"original_file_path_oss"`   // MinIO中的对象路径
	ContentHash         string    `json:"content_hash,omitempty"`   // 原始文件的SHA-256，用于失败时回滚去重记录
	TargetJobID         string    `json:"target_job_id,omitempty"`  // 可选，上传时即指定的目标岗位
	SourceChannel       string    `json:"source_channel,omitempty"` // 来源渠道
}

// MatchCompletedEvent 匹配完成事件，经发件箱中继投递给下游订阅方
type MatchCompletedEvent struct {
	ResumeID     string    `json:"resume_id"`
	JobID        string    `json:"job_id"`
	OverallScore float64   `json:"overall_score"`
	MatchLevel   string    `json:"match_level"`
	ScoredAt     time.Time `json:"scored_at"`
}
