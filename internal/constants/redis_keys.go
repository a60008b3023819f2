package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "match"

	// ResumeModulePrefix 简历模块
	ResumeModulePrefix = "resume"
	// JobModulePrefix 岗位模块
	JobModulePrefix = "job"
	// FileModulePrefix 文件模块
	FileModulePrefix = "file"

	// EntityRecord 结构化记录实体
	EntityRecord = "record"
	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityHashToID 内容指纹到记录ID的映射实体
	EntityHashToID = "hash_to_id"

	// KeyResumeRecord 简历结构化记录缓存 (STRING, JSON)
	// 格式: match:resume:record:{resumeID}
	KeyResumeRecord = AppPrefix + ":" + ResumeModulePrefix + ":" + EntityRecord + ":%s"

	// KeyJobRecord 岗位结构化记录缓存 (STRING, JSON)
	// 格式: match:job:record:{jobID}
	KeyJobRecord = AppPrefix + ":" + JobModulePrefix + ":" + EntityRecord + ":%s"

	// KeyContentHashSet 内容SHA-256指纹集合，用于快速去重 (SET)
	// 格式: match:file:dedup_set
	KeyContentHashSet = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet

	// KeyResumeHashToID 简历内容指纹到简历ID的映射 (STRING)
	// 格式: match:resume:hash_to_id:{sha256}
	KeyResumeHashToID = AppPrefix + ":" + ResumeModulePrefix + ":" + EntityHashToID + ":%s"

	// KeyJobHashToID 岗位内容指纹到岗位ID的映射 (STRING)
	// 格式: match:job:hash_to_id:{sha256}
	KeyJobHashToID = AppPrefix + ":" + JobModulePrefix + ":" + EntityHashToID + ":%s"
)
