package types

import "time"

// SkillLevel 技能熟练程度
type SkillLevel string

const (
	// SkillLevelBeginner 入门
	SkillLevelBeginner SkillLevel = "beginner"
	// SkillLevelIntermediate 熟练
	SkillLevelIntermediate SkillLevel = "intermediate"
	// SkillLevelAdvanced 精通
	SkillLevelAdvanced SkillLevel = "advanced"
	// SkillLevelExpert 专家
	SkillLevelExpert SkillLevel = "expert"
)

// SkillCategory 技能类别
type SkillCategory string

const (
	// CategoryTechnical 技术类技能
	CategoryTechnical SkillCategory = "technical"
	// CategorySoft 软技能
	CategorySoft SkillCategory = "soft"
	// CategoryLanguage 语言类技能
	CategoryLanguage SkillCategory = "language"
	// CategoryCertification 认证类技能
	CategoryCertification SkillCategory = "certification"
	// CategoryTool 工具类技能
	CategoryTool SkillCategory = "tool"
	// CategoryFramework 框架类技能
	CategoryFramework SkillCategory = "framework"
)

// SeniorityLevel 岗位资历级别
type SeniorityLevel string

const (
	SeniorityEntry     SeniorityLevel = "entry"
	SeniorityJunior    SeniorityLevel = "junior"
	SeniorityMid       SeniorityLevel = "mid"
	SenioritySenior    SeniorityLevel = "senior"
	SeniorityLead      SeniorityLevel = "lead"
	SeniorityExecutive SeniorityLevel = "executive"
)

// ContactInfo 从简历头部提取的联系方式，构造后不再修改
type ContactInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// EducationRecord 一条教育经历，顺序与简历原文一致
type EducationRecord struct {
	Institution    string   `json:"institution"`
	Degree         string   `json:"degree"`
	FieldOfStudy   string   `json:"field_of_study,omitempty"`
	GraduationYear *int     `json:"graduation_year,omitempty"`
	GPA            *float64 `json:"gpa,omitempty"`
}

// WorkExperienceRecord 一条工作经历
// DurationMonths 为 nil 表示起止日期无法解析，调用方不得将其当作0处理
type WorkExperienceRecord struct {
	Company          string   `json:"company"`
	Title            string   `json:"title"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"` // 在职经历固定写作 "Present"
	DurationMonths   *int     `json:"duration_months,omitempty"`
	Description      string   `json:"description,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Achievements     []string `json:"achievements,omitempty"`
	SkillsUsed       []string `json:"skills_used,omitempty"`
}

// SkillRecord 一条技能记录，Name 为技能库中的规范名（未命中时保留原文）
type SkillRecord struct {
	Name            string        `json:"name"`
	Category        SkillCategory `json:"category"`
	Level           SkillLevel    `json:"level,omitempty"`
	YearsExperience *int          `json:"years_experience,omitempty"`
}

// ResumeRecord 简历分析结果，构造完成后不可变
type ResumeRecord struct {
	ID                   string                 `json:"id,omitempty"`
	Filename             string                 `json:"filename"`
	Contact              ContactInfo            `json:"contact_info"`
	Summary              string                 `json:"summary,omitempty"`
	Education            []EducationRecord      `json:"education,omitempty"`
	WorkExperience       []WorkExperienceRecord `json:"work_experience,omitempty"`
	Skills               []SkillRecord          `json:"skills,omitempty"`
	Certifications       []string               `json:"certifications,omitempty"`
	Projects             []string               `json:"projects,omitempty"`
	Languages            []string               `json:"languages,omitempty"`
	TotalExperienceYears float64                `json:"total_experience_years"`
	// ParseConfidence 五大板块（联系方式/教育/工作/技能/概要）成功填充的比例，0-1
	ParseConfidence float64   `json:"parse_confidence"`
	RawText         string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// JobRequirement 岗位对单项技能的要求
type JobRequirement struct {
	Skill        string        `json:"skill"`
	Category     SkillCategory `json:"category"`
	Importance   float64       `json:"importance"` // 0-1
	Required     bool          `json:"required"`
	MinimumYears *int          `json:"minimum_years,omitempty"`
}

// JobRecord 岗位描述分析结果，构造完成后不可变
// RequiredSkills 按技能库类别分组，类别权重参与技能得分计算
type JobRecord struct {
	ID                 string              `json:"id,omitempty"`
	Title              string              `json:"title"`
	Company            string              `json:"company,omitempty"`
	Location           string              `json:"location,omitempty"`
	Description        string              `json:"description"`
	RequiredSkills     map[string][]string `json:"required_skills,omitempty"`
	PreferredSkills    []string            `json:"preferred_skills,omitempty"`
	Requirements       []JobRequirement    `json:"requirements,omitempty"`
	EducationRequired  string              `json:"education_required,omitempty"`
	ExperienceRequired string              `json:"experience_required,omitempty"`
	SalaryRange        string              `json:"salary_range,omitempty"`
	SeniorityLevel     SeniorityLevel      `json:"seniority_level,omitempty"`
	Industry           string              `json:"industry,omitempty"`
	Responsibilities   []string            `json:"responsibilities,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// SkillMatch 技能维度的匹配明细
type SkillMatch struct {
	Score         float64  `json:"score"` // 0-100
	MatchedSkills []string `json:"matched_skills,omitempty"`
	MissingSkills []string `json:"missing_skills,omitempty"`
}

// ExperienceMatch 经验维度的匹配明细
type ExperienceMatch struct {
	Score             float64 `json:"score"` // 0-100
	YearsExperience   float64 `json:"years_experience"`
	RequiredYears     float64 `json:"required_years"`
	MeetsRequirements bool    `json:"meets_requirements"`
	RelevantYears     float64 `json:"relevant_experience_years,omitempty"`
	SeniorityMatch    bool    `json:"seniority_match"`
}

// EducationMatch 学历维度的匹配明细。
// HighestLevel 是候选人最高学历的序数刻度值，0表示未识别出学历，
// 筛选条件按它与下限比较，不依赖岗位侧是否声明了学历要求。
type EducationMatch struct {
	Score             float64 `json:"score"` // 0-100
	MeetsRequirements bool    `json:"meets_requirements"`
	LevelMatch        bool    `json:"education_level_match"`
	HighestLevel      int     `json:"highest_education_level"`
}

// MatchLevel 匹配程度的定性档位
type MatchLevel string

const (
	MatchExcellent MatchLevel = "excellent"
	MatchGood      MatchLevel = "good"
	MatchFair      MatchLevel = "fair"
	MatchPoor      MatchLevel = "poor"
)

// MatchResult 一次简历-岗位匹配的完整结果
// OverallScore 是四个分项得分的固定加权和，相同输入必然得到相同输出
type MatchResult struct {
	ResumeID        string          `json:"resume_id"`
	JobID           string          `json:"job_id"`
	SkillMatch      SkillMatch      `json:"skill_match"`
	ExperienceMatch ExperienceMatch `json:"experience_match"`
	EducationMatch  EducationMatch  `json:"education_match"`
	SemanticScore   float64         `json:"semantic_score"` // 0-100
	OverallScore    float64         `json:"overall_score"`  // 0-100
	MatchLevel      MatchLevel      `json:"match_level"`
	Confidence      float64         `json:"confidence"` // 0-100
	Recommendations []string        `json:"recommendations,omitempty"`
	// RankingPosition 仅在批量排序时赋值，从1开始
	RankingPosition *int      `json:"ranking_position,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// MatchStatistics 匹配统计信息
type MatchStatistics struct {
	TotalResumes      int64            `json:"total_resumes"`
	TotalJobs         int64            `json:"total_jobs"`
	TotalMatches      int64            `json:"total_matches"`
	AverageMatchScore float64          `json:"average_match_score"`
	TopSkills         []SkillFrequency `json:"top_skills,omitempty"`
}

// SkillFrequency 技能出现频次
type SkillFrequency struct {
	Skill string `json:"skill"`
	Count int64  `json:"count"`
}
