package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Resume 简历主表，结构化解析结果以JSON快照存储
type Resume struct {
	ResumeID             string         `gorm:"type:char(36);primaryKey"`
	Filename             string         `gorm:"type:varchar(255)"`
	ContentHash          string         `gorm:"type:char(64);uniqueIndex:idx_resumes_content_hash"` // 原始文本的SHA-256
	CandidateName        string         `gorm:"type:varchar(255);index:idx_resumes_candidate_name"`
	CandidateEmail       string         `gorm:"type:varchar(255);index:idx_resumes_candidate_email"`
	TotalExperienceYears float64        `gorm:"type:double"`
	ParseConfidence      float64        `gorm:"type:double"`
	RawText              string         `gorm:"type:mediumtext"`    // 归一化后的简历原文，关键词筛选用
	PayloadJSON          datatypes.JSON `gorm:"type:json;not null"` // 序列化的结构化简历记录
	CreatedAt            time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt            time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Resume) TableName() string {
	return "resumes"
}

// ResumeSkill 简历技能倒排表，支撑按技能统计与筛选
type ResumeSkill struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ResumeID  string    `gorm:"type:char(36);not null;uniqueIndex:idx_resume_skills_unique,priority:1"`
	SkillName string    `gorm:"type:varchar(100);not null;index:idx_resume_skills_name;uniqueIndex:idx_resume_skills_unique,priority:2"`
	Category  string    `gorm:"type:varchar(50)"`
	Level     string    `gorm:"type:varchar(50)"`
	CreatedAt time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	Resume *Resume `gorm:"foreignKey:ResumeID;references:ResumeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ResumeSkill) TableName() string {
	return "resume_skills"
}

// Job 岗位信息表
type Job struct {
	JobID          string         `gorm:"type:char(36);primaryKey"`
	Title          string         `gorm:"type:varchar(255)"`
	Company        string         `gorm:"type:varchar(255)"`
	Location       string         `gorm:"type:varchar(255)"`
	ContentHash    string         `gorm:"type:char(64);uniqueIndex:idx_jobs_content_hash"` // 岗位描述文本的SHA-256
	SeniorityLevel string         `gorm:"type:varchar(50);index:idx_jobs_seniority"`
	PayloadJSON    datatypes.JSON `gorm:"type:json;not null"` // 序列化的结构化岗位记录
	CreatedAt      time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt      time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Job) TableName() string {
	return "jobs"
}

// MatchRecord 简历-岗位匹配结果表
type MatchRecord struct {
	MatchID         uint64         `gorm:"primaryKey;autoIncrement"`
	ResumeID        string         `gorm:"type:char(36);not null;index:idx_matches_resume_id;uniqueIndex:idx_matches_resume_job_unique,priority:1"`
	JobID           string         `gorm:"type:char(36);not null;index:idx_matches_job_id_overall,priority:1;uniqueIndex:idx_matches_resume_job_unique,priority:2"`
	OverallScore    float64        `gorm:"type:double;index:idx_matches_job_id_overall,priority:2"`
	SkillScore      float64        `gorm:"type:double"`
	ExperienceScore float64        `gorm:"type:double"`
	EducationScore  float64        `gorm:"type:double"`
	SemanticScore   float64        `gorm:"type:double"`
	MatchLevel      string         `gorm:"type:varchar(20);index:idx_matches_level"`
	Confidence      float64        `gorm:"type:double"`
	DetailsJSON     datatypes.JSON `gorm:"type:json"` // 序列化的完整匹配结果
	CreatedAt       time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt       time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	Resume *Resume `gorm:"foreignKey:ResumeID;references:ResumeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Job    *Job    `gorm:"foreignKey:JobID;references:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (MatchRecord) TableName() string {
	return "match_records"
}

// ToJSON Helper function to serialize an arbitrary value into datatypes.JSON
func ToJSON(v interface{}) (datatypes.JSON, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// StringToJSON Helper function to convert string to datatypes.JSON
func StringToJSON(s string) datatypes.JSON {
	return datatypes.JSON(s)
}
