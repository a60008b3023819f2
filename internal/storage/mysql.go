package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"resume-match-go/internal/config"
	"resume-match-go/internal/constants"
	"resume-match-go/internal/storage/models"
	"resume-match-go/internal/tracing"
	"resume-match-go/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var mysqlTracer = otel.Tracer("resume-match-go/storage/mysql")

// ErrRecordNotFound 查询不到记录时返回
var ErrRecordNotFound = errors.New("记录不存在")

// topSkillsLimit 统计接口返回的高频技能数量
const topSkillsLimit = 10

// GormTracingPlugin 是一个GORM插件，用于向OpenTelemetry中添加数据库操作的追踪点
type GormTracingPlugin struct {
	tracer         trace.Tracer
	dbName         string
	dbSystem       string
	disableErrSkip bool
}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 注册GORM回调以启用追踪
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	// 为所有CRUD操作注册Before和After回调
	if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before("CREATE")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("otel:after_create", p.after()); err != nil {
		return err
	}

	if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before("SELECT")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel:after_query", p.after()); err != nil {
		return err
	}

	if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before("UPDATE")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("otel:after_update", p.after()); err != nil {
		return err
	}

	if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("DELETE")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after()); err != nil {
		return err
	}

	if err := cb.Row().Before("gorm:row").Register("otel:before_row", p.before("ROW")); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("otel:after_row", p.after()); err != nil {
		return err
	}

	if err := cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before("RAW")); err != nil {
		return err
	}
	if err := cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after()); err != nil {
		return err
	}

	return nil
}

// before 返回在GORM操作之前执行的回调函数
func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		if p.disableErrSkip && db.Statement.SkipHooks {
			return
		}

		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		spanName := fmt.Sprintf("%s %s", operation, tableName)
		opts := []trace.SpanStartOption{
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		}

		sqlStatement := db.Statement.SQL.String()
		if sqlStatement != "" {
			opts = append(opts, trace.WithAttributes(
				attribute.String("db.statement", tracing.SafeSQL(sqlStatement)),
			))
		}

		newCtx, span := p.tracer.Start(ctx, spanName, opts...)

		// 将span保存在DB上下文中，以便在after回调中使用
		db.Statement.Context = context.WithValue(newCtx, "otel-span", span)
	}
}

// after 返回在GORM操作之后执行的回调函数
func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value("otel-span").(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		if db.Statement.RowsAffected > 0 {
			span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		} else {
			span.SetAttributes(attribute.Int64("db.rows_affected", 0))
		}

		// ErrRecordNotFound 是业务逻辑正常情况的一部分，不作为错误上报
		if db.Error != nil {
			if errors.Is(db.Error, gorm.ErrRecordNotFound) {
				span.SetAttributes(attribute.String("error.type", "record_not_found"))
				span.SetStatus(codes.Ok, "record not found")
			} else {
				tracing.RecordError(span, db.Error, tracing.ErrorTypeMySQL)
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
}

// NewGormTracingPlugin 创建一个新的GORM追踪插件
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{
		tracer:         mysqlTracer,
		dbName:         dbName,
		dbSystem:       "mysql",
		disableErrSkip: true,
	}
}

// WithDisableErrSkip 设置是否禁用错误跳过
func (p *GormTracingPlugin) WithDisableErrSkip(disable bool) *GormTracingPlugin {
	p.disableErrSkip = disable
	return p
}

// Database 关系数据库接口
type Database interface {
	// DB 返回GORM数据库连接实例
	DB() *gorm.DB

	// Close 关闭数据库连接
	Close() error
}

// 确保MySQL实现了Database接口
var _ Database = (*MySQL)(nil)

// MySQL 提供关系数据库功能
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL客户端
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	// 构建DSN，添加超时设置
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		cfg.ConnectTimeoutSeconds, cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds)

	// 配置GORM日志级别
	var logLevel logger.LogLevel
	switch cfg.LogLevel {
	case 1:
		logLevel = logger.Silent
	case 2:
		logLevel = logger.Error
	case 3:
		logLevel = logger.Warn
	case 4:
		logLevel = logger.Info
	default:
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logLevel),
		PrepareStmt:                              true, // 开启预编译语句缓存
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	// 设置连接池参数
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)

	m := &MySQL{
		db:  db,
		cfg: cfg,
	}

	// 注册OpenTelemetry追踪插件
	tracingPlugin := NewGormTracingPlugin(cfg.Database).WithDisableErrSkip(true)
	if err := db.Use(tracingPlugin); err != nil {
		return nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	// 使用 GORM 的 AutoMigrate 功能自动迁移表结构
	if err := m.autoMigrateSchema(); err != nil {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("自动迁移数据库结构失败: %w", err)
	}

	log.Println("成功连接到MySQL并自动迁移数据库结构")
	return m, nil
}

// autoMigrateSchema 使用GORM自动迁移数据库表结构
func (m *MySQL) autoMigrateSchema() error {
	currentLogger := m.db.Logger

	// 创建一个静默的logger以关闭迁移期间的SQL日志打印
	silentLogger := logger.New(
		log.New(log.Writer(), "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	silentDB := m.db.Session(&gorm.Session{Logger: silentLogger})

	err := silentDB.AutoMigrate(
		&models.Resume{},
		&models.ResumeSkill{},
		&models.Job{},
		&models.MatchRecord{},
		&models.OutboxMessage{},
	)

	m.db = m.db.Session(&gorm.Session{Logger: currentLogger})

	return err
}

// DB 返回GORM数据库连接实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return sqlDB.Close()
}

// SaveResumeRecord 按内容哈希幂等保存简历记录，返回记录ID。
// 相同内容重复写入时返回已有记录的ID。
func (m *MySQL) SaveResumeRecord(ctx context.Context, record *types.ResumeRecord, contentHash string) (string, error) {
	if record == nil {
		return "", fmt.Errorf("简历记录不能为空")
	}

	payload, err := models.ToJSON(record)
	if err != nil {
		return "", fmt.Errorf("序列化简历记录失败: %w", err)
	}

	row := models.Resume{
		ResumeID:             record.ID,
		Filename:             record.Filename,
		ContentHash:          contentHash,
		CandidateName:        record.Contact.Name,
		CandidateEmail:       record.Contact.Email,
		TotalExperienceYears: record.TotalExperienceYears,
		ParseConfidence:      record.ParseConfidence,
		RawText:              record.RawText,
		PayloadJSON:          payload,
	}

	// 依赖content_hash上的唯一索引做幂等插入
	result := m.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_hash"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		return "", fmt.Errorf("保存简历记录失败: %w", result.Error)
	}

	// 冲突时未插入新行，回查已有记录的ID
	if result.RowsAffected == 0 {
		var existing models.Resume
		if err := m.db.WithContext(ctx).
			Select("resume_id").
			Where("content_hash = ?", contentHash).
			First(&existing).Error; err != nil {
			return "", fmt.Errorf("查询已有简历记录失败: %w", err)
		}
		return existing.ResumeID, nil
	}

	if err := m.saveResumeSkills(ctx, record); err != nil {
		return "", err
	}

	return record.ID, nil
}

// saveResumeSkills 写入技能倒排表，支撑高频技能统计
func (m *MySQL) saveResumeSkills(ctx context.Context, record *types.ResumeRecord) error {
	if len(record.Skills) == 0 {
		return nil
	}

	rows := make([]models.ResumeSkill, 0, len(record.Skills))
	for _, skill := range record.Skills {
		rows = append(rows, models.ResumeSkill{
			ResumeID:  record.ID,
			SkillName: skill.Name,
			Category:  string(skill.Category),
			Level:     string(skill.Level),
		})
	}

	err := m.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 100).Error
	if err != nil {
		return fmt.Errorf("保存简历技能索引失败: %w", err)
	}
	return nil
}

// GetResumeRecord 按ID查询简历记录
func (m *MySQL) GetResumeRecord(ctx context.Context, id string) (*types.ResumeRecord, error) {
	var row models.Resume
	err := m.db.WithContext(ctx).Where("resume_id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("简历 %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("查询简历记录失败: %w", err)
	}

	var record types.ResumeRecord
	if err := json.Unmarshal(row.PayloadJSON, &record); err != nil {
		return nil, fmt.Errorf("反序列化简历记录失败: %w", err)
	}
	// 原文不进JSON快照，从独立列恢复
	record.RawText = row.RawText
	return &record, nil
}

// SaveJobRecord 按内容哈希幂等保存岗位记录，返回记录ID
func (m *MySQL) SaveJobRecord(ctx context.Context, record *types.JobRecord, contentHash string) (string, error) {
	if record == nil {
		return "", fmt.Errorf("岗位记录不能为空")
	}

	payload, err := models.ToJSON(record)
	if err != nil {
		return "", fmt.Errorf("序列化岗位记录失败: %w", err)
	}

	row := models.Job{
		JobID:          record.ID,
		Title:          record.Title,
		Company:        record.Company,
		Location:       record.Location,
		ContentHash:    contentHash,
		SeniorityLevel: string(record.SeniorityLevel),
		PayloadJSON:    payload,
	}

	result := m.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_hash"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		return "", fmt.Errorf("保存岗位记录失败: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var existing models.Job
		if err := m.db.WithContext(ctx).
			Select("job_id").
			Where("content_hash = ?", contentHash).
			First(&existing).Error; err != nil {
			return "", fmt.Errorf("查询已有岗位记录失败: %w", err)
		}
		return existing.JobID, nil
	}

	return record.ID, nil
}

// GetJobRecord 按ID查询岗位记录
func (m *MySQL) GetJobRecord(ctx context.Context, id string) (*types.JobRecord, error) {
	var row models.Job
	err := m.db.WithContext(ctx).Where("job_id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("岗位 %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("查询岗位记录失败: %w", err)
	}

	var record types.JobRecord
	if err := json.Unmarshal(row.PayloadJSON, &record); err != nil {
		return nil, fmt.Errorf("反序列化岗位记录失败: %w", err)
	}
	return &record, nil
}

// SaveMatchRecord 保存匹配结果，同一简历-岗位组合重复评估时覆盖旧结果
func (m *MySQL) SaveMatchRecord(ctx context.Context, result *types.MatchResult) error {
	if result == nil {
		return fmt.Errorf("匹配结果不能为空")
	}

	details, err := models.ToJSON(result)
	if err != nil {
		return fmt.Errorf("序列化匹配结果失败: %w", err)
	}

	row := models.MatchRecord{
		ResumeID:        result.ResumeID,
		JobID:           result.JobID,
		OverallScore:    result.OverallScore,
		SkillScore:      result.SkillMatch.Score,
		ExperienceScore: result.ExperienceMatch.Score,
		EducationScore:  result.EducationMatch.Score,
		SemanticScore:   result.SemanticScore,
		MatchLevel:      string(result.MatchLevel),
		Confidence:      result.Confidence,
		DetailsJSON:     details,
	}

	// 匹配结果与完成事件写入同一事务，由发件箱中继异步投递
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "resume_id"}, {Name: "job_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"overall_score", "skill_score", "experience_score",
					"education_score", "semantic_score", "match_level",
					"confidence", "details_json", "updated_at",
				}),
			}).
			Create(&row).Error; err != nil {
			return err
		}

		payload, err := json.Marshal(MatchCompletedEvent{
			ResumeID:     result.ResumeID,
			JobID:        result.JobID,
			OverallScore: result.OverallScore,
			MatchLevel:   string(result.MatchLevel),
			ScoredAt:     result.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("序列化匹配完成事件失败: %w", err)
		}

		return tx.Create(&models.OutboxMessage{
			AggregateID:      result.ResumeID,
			EventType:        constants.EventTypeMatchCompleted,
			Payload:          string(payload),
			TargetExchange:   constants.MatchEventsExchange,
			TargetRoutingKey: constants.MatchCompletedRoutingKey,
			Status:           models.OutboxStatusPending,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("保存匹配结果失败: %w", err)
	}
	return nil
}

// GetStatistics 汇总语料规模、平均匹配分与高频技能
func (m *MySQL) GetStatistics(ctx context.Context) (*types.MatchStatistics, error) {
	stats := &types.MatchStatistics{}
	db := m.db.WithContext(ctx)

	if err := db.Model(&models.Resume{}).Count(&stats.TotalResumes).Error; err != nil {
		return nil, fmt.Errorf("统计简历数量失败: %w", err)
	}
	if err := db.Model(&models.Job{}).Count(&stats.TotalJobs).Error; err != nil {
		return nil, fmt.Errorf("统计岗位数量失败: %w", err)
	}
	if err := db.Model(&models.MatchRecord{}).Count(&stats.TotalMatches).Error; err != nil {
		return nil, fmt.Errorf("统计匹配数量失败: %w", err)
	}

	var avg sql.NullFloat64
	if err := db.Model(&models.MatchRecord{}).
		Select("AVG(overall_score)").
		Scan(&avg).Error; err != nil {
		return nil, fmt.Errorf("统计平均匹配分失败: %w", err)
	}
	if avg.Valid {
		stats.AverageMatchScore = avg.Float64
	}

	var topSkills []types.SkillFrequency
	err := db.Model(&models.ResumeSkill{}).
		Select("skill_name AS skill, COUNT(*) AS count").
		Group("skill_name").
		Order("count DESC, skill_name ASC").
		Limit(topSkillsLimit).
		Scan(&topSkills).Error
	if err != nil {
		return nil, fmt.Errorf("统计高频技能失败: %w", err)
	}
	stats.TopSkills = topSkills

	return stats, nil
}
