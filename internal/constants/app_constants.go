package constants

import "time"

const (
	// DefaultParserVersion 当前解析流水线的版本标识
	DefaultParserVersion = "1.0"

	// RecordCacheDuration 结构化记录在Redis中的缓存时长
	RecordCacheDuration = 24 * time.Hour

	// HashMappingDuration 内容指纹到记录ID映射的缓存时长
	HashMappingDuration = 7 * 24 * time.Hour

	// MatchEventsExchange 匹配完成事件的目标交换机
	MatchEventsExchange = "match.events.exchange"

	// MatchCompletedRoutingKey 匹配完成事件的路由键
	MatchCompletedRoutingKey = "match.completed"

	// EventTypeMatchCompleted 发件箱中匹配完成事件的类型标识
	EventTypeMatchCompleted = "match.completed.v1"
)
