// Package knowledge 提供静态技能知识库。
// 简历侧与岗位侧的抽取器以及匹配打分共享同一份数据，
// 技能规范名的一致性是跨侧匹配（如简历写"JS"、岗位要求"JavaScript"）的前提。
package knowledge

import (
	"regexp"
	"strings"

	"resume-match-go/internal/types"
)

// 打分用的技能分组名，作为 JobRecord.RequiredSkills 的键
const (
	GroupProgrammingLanguages = "programming_languages"
	GroupFrameworksLibraries  = "frameworks_libraries"
	GroupDatabases            = "databases"
	GroupCloudDevOps          = "cloud_devops"
	GroupDataScience          = "data_science"
	GroupSoftSkills           = "soft_skills"
)

// SkillEntry 技能库中的一条记录
type SkillEntry struct {
	Name     string              // 规范名
	Category types.SkillCategory // 技能类别
	Group    string              // 打分分组
	Keywords []string            // 同义关键词
}

// SkillDB 只读技能库，构造完成后可被任意数量的goroutine并发读取
type SkillDB struct {
	entries  []SkillEntry
	byLower  map[string]int
	patterns map[string]*regexp.Regexp // 规范名 -> 整词匹配正则
}

// NewSkillDB 按给定条目构建技能库并预编译匹配正则
func NewSkillDB(entries []SkillEntry) *SkillDB {
	db := &SkillDB{
		entries:  entries,
		byLower:  make(map[string]int, len(entries)),
		patterns: make(map[string]*regexp.Regexp, len(entries)),
	}
	for i, e := range entries {
		db.byLower[strings.ToLower(e.Name)] = i
		db.patterns[e.Name] = compileSkillPattern(e)
	}
	return db
}

// compileSkillPattern 编译规范名及其全部同义词的整词匹配正则。
// RE2 不支持环视，这里用显式的非单词字符作为词边界，
// 才能正确处理 "c++"、"c#"、"node.js" 这类以符号结尾的技能名。
func compileSkillPattern(e SkillEntry) *regexp.Regexp {
	alts := make([]string, 0, len(e.Keywords)+1)
	alts = append(alts, regexp.QuoteMeta(e.Name))
	for _, kw := range e.Keywords {
		alts = append(alts, regexp.QuoteMeta(kw))
	}
	expr := `(?i)(?:^|[^a-zA-Z0-9_+#])(` + strings.Join(alts, "|") + `)(?:$|[^a-zA-Z0-9_+#])`
	return regexp.MustCompile(expr)
}

// Entries 返回技能库的全部条目，调用方不得修改
func (db *SkillDB) Entries() []SkillEntry {
	return db.entries
}

// Lookup 按规范名查找条目（大小写不敏感）
func (db *SkillDB) Lookup(name string) (SkillEntry, bool) {
	if i, ok := db.byLower[strings.ToLower(name)]; ok {
		return db.entries[i], true
	}
	return SkillEntry{}, false
}

// Mentioned 判断文本中是否以整词形式出现了该技能的规范名或任一同义词
func (db *SkillDB) Mentioned(name, text string) bool {
	p, ok := db.patterns[name]
	if !ok {
		return false
	}
	return p.MatchString(text)
}

// FindAll 返回文本中出现的全部技能条目，顺序与技能库条目顺序一致（结果可复现）
func (db *SkillDB) FindAll(text string) []SkillEntry {
	var found []SkillEntry
	for _, e := range db.entries {
		if db.patterns[e.Name].MatchString(text) {
			found = append(found, e)
		}
	}
	return found
}

// FindAllNames 同 FindAll，仅返回规范名
func (db *SkillDB) FindAllNames(text string) []string {
	entries := db.FindAll(text)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

// Context 返回技能首次出现位置前后各 window 个字符的上下文片段，
// 用于推断熟练程度和要求强度；未出现时返回空串
func (db *SkillDB) Context(name, text string, window int) string {
	p, ok := db.patterns[name]
	if !ok {
		return ""
	}
	loc := p.FindStringSubmatchIndex(text)
	if loc == nil {
		return ""
	}
	// 子匹配下标2/3是技能词本身，不含边界字符
	start := loc[2] - window
	if start < 0 {
		start = 0
	}
	end := loc[3] + window
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

// GroupWeight 返回打分分组的权重，未列出的分组取1.0
func GroupWeight(group string) float64 {
	switch group {
	case GroupProgrammingLanguages:
		return 1.5
	case GroupCloudDevOps:
		return 1.4
	case GroupFrameworksLibraries, GroupDataScience:
		return 1.3
	case GroupDatabases:
		return 1.2
	case GroupSoftSkills:
		return 0.8
	default:
		return 1.0
	}
}

// DefaultSkillDB 返回内置技能库
func DefaultSkillDB() *SkillDB {
	return NewSkillDB(defaultSkillEntries)
}

var defaultSkillEntries = []SkillEntry{
	// 编程语言
	{Name: "Python", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"python", "py"}},
	{Name: "JavaScript", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"javascript", "js", "es6"}},
	{Name: "Java", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"java"}},
	{Name: "C++", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"c++", "cpp"}},
	{Name: "C#", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"c#", "csharp"}},
	{Name: "Go", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"golang", "go"}},
	{Name: "Rust", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"rust"}},
	{Name: "TypeScript", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"typescript", "ts"}},
	{Name: "PHP", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"php"}},
	{Name: "Ruby", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"ruby"}},
	{Name: "Swift", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"swift"}},
	{Name: "Kotlin", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"kotlin"}},
	{Name: "Scala", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"scala"}},
	{Name: "MATLAB", Category: types.CategoryTechnical, Group: GroupProgrammingLanguages, Keywords: []string{"matlab"}},

	// 框架与库
	{Name: "React", Category: types.CategoryFramework, Group: GroupFrameworksLibraries, Keywords: []string{"react", "reactjs"}},
	{Name: "Angular", Category: types.CategoryFramework, Group: GroupFrameworksLibraries, Keywords: []string{"angular", "angularjs"}},
	{Name: "Vue.js", Category: types.CategoryFramework, Group: GroupFrameworksLibraries, Keywords: []string{"vue", "vuejs"}},
	{Name: "Node.js", Category: types.CategoryFramework, Group: GroupFrameworksLibraries, Keywords: []string{"node", "nodejs"}},
	{Name: "Express.js", Category: types.CategoryFramework, Group: GroupFrameworksLibraries, Keywords: []string{"express", "expressjs"}},
	{Name: "Django", Category: types.CategoryFramework, Group: GroupFrameworksLibraries, Keywords: []string{"django"}},
	{Name: "Flask", Category: types.CategoryFramework, Group: GroupFrameworksLibraries, Keywords: []string{"flask"}},
	{Name: "FastAPI", Category: types.CategoryFramework, Group: GroupFrameworksLibraries, Keywords: []string{"fastapi"}},
	{Name: "Spring", Category: types.CategoryFramework, Group: GroupFrameworksLibraries, Keywords: []string{"spring framework"}},
	{Name: "Laravel", Category: types.CategoryFramework, Group: GroupFrameworksLibraries, Keywords: []string{"laravel"}},
	{Name: "Ruby on Rails", Category: types.CategoryFramework, Group: GroupFrameworksLibraries, Keywords: []string{"rails", "ror"}},

	// 数据库
	{Name: "MySQL", Category: types.CategoryTechnical, Group: GroupDatabases, Keywords: []string{"mysql"}},
	{Name: "PostgreSQL", Category: types.CategoryTechnical, Group: GroupDatabases, Keywords: []string{"postgresql", "postgres"}},
	{Name: "MongoDB", Category: types.CategoryTechnical, Group: GroupDatabases, Keywords: []string{"mongodb", "mongo"}},
	{Name: "SQLite", Category: types.CategoryTechnical, Group: GroupDatabases, Keywords: []string{"sqlite"}},
	{Name: "Redis", Category: types.CategoryTechnical, Group: GroupDatabases, Keywords: []string{"redis"}},
	{Name: "Elasticsearch", Category: types.CategoryTechnical, Group: GroupDatabases, Keywords: []string{"elasticsearch"}},
	{Name: "Oracle", Category: types.CategoryTechnical, Group: GroupDatabases, Keywords: []string{"oracle database"}},
	{Name: "SQL Server", Category: types.CategoryTechnical, Group: GroupDatabases, Keywords: []string{"sql server", "mssql"}},

	// 云与DevOps
	{Name: "AWS", Category: types.CategoryTool, Group: GroupCloudDevOps, Keywords: []string{"amazon web services", "aws"}},
	{Name: "Azure", Category: types.CategoryTool, Group: GroupCloudDevOps, Keywords: []string{"microsoft azure", "azure"}},
	{Name: "Google Cloud", Category: types.CategoryTool, Group: GroupCloudDevOps, Keywords: []string{"gcp", "google cloud platform"}},
	{Name: "Docker", Category: types.CategoryTool, Group: GroupCloudDevOps, Keywords: []string{"docker", "containerization"}},
	{Name: "Kubernetes", Category: types.CategoryTool, Group: GroupCloudDevOps, Keywords: []string{"kubernetes", "k8s"}},
	{Name: "Jenkins", Category: types.CategoryTool, Group: GroupCloudDevOps, Keywords: []string{"jenkins"}},
	{Name: "Terraform", Category: types.CategoryTool, Group: GroupCloudDevOps, Keywords: []string{"terraform"}},
	{Name: "Ansible", Category: types.CategoryTool, Group: GroupCloudDevOps, Keywords: []string{"ansible"}},
	{Name: "Git", Category: types.CategoryTool, Group: GroupCloudDevOps, Keywords: []string{"git", "version control"}},
	{Name: "GitHub", Category: types.CategoryTool, Group: GroupCloudDevOps, Keywords: []string{"github"}},
	{Name: "GitLab", Category: types.CategoryTool, Group: GroupCloudDevOps, Keywords: []string{"gitlab"}},

	// 数据科学与机器学习
	{Name: "Machine Learning", Category: types.CategoryTechnical, Group: GroupDataScience, Keywords: []string{"ml", "machine learning"}},
	{Name: "Deep Learning", Category: types.CategoryTechnical, Group: GroupDataScience, Keywords: []string{"deep learning", "neural networks"}},
	{Name: "TensorFlow", Category: types.CategoryTechnical, Group: GroupDataScience, Keywords: []string{"tensorflow"}},
	{Name: "PyTorch", Category: types.CategoryTechnical, Group: GroupDataScience, Keywords: []string{"pytorch"}},
	{Name: "Pandas", Category: types.CategoryTechnical, Group: GroupDataScience, Keywords: []string{"pandas"}},
	{Name: "NumPy", Category: types.CategoryTechnical, Group: GroupDataScience, Keywords: []string{"numpy"}},
	{Name: "Scikit-learn", Category: types.CategoryTechnical, Group: GroupDataScience, Keywords: []string{"sklearn", "scikit-learn"}},
	{Name: "Data Analysis", Category: types.CategoryTechnical, Group: GroupDataScience, Keywords: []string{"data analysis", "analytics"}},
	{Name: "Tableau", Category: types.CategoryTool, Group: GroupDataScience, Keywords: []string{"tableau"}},
	{Name: "Power BI", Category: types.CategoryTool, Group: GroupDataScience, Keywords: []string{"power bi", "powerbi"}},

	// 软技能
	{Name: "Leadership", Category: types.CategorySoft, Group: GroupSoftSkills, Keywords: []string{"leadership", "leading teams"}},
	{Name: "Communication", Category: types.CategorySoft, Group: GroupSoftSkills, Keywords: []string{"communication", "presentation"}},
	{Name: "Project Management", Category: types.CategorySoft, Group: GroupSoftSkills, Keywords: []string{"project management"}},
	{Name: "Team Collaboration", Category: types.CategorySoft, Group: GroupSoftSkills, Keywords: []string{"collaboration", "teamwork"}},
	{Name: "Problem Solving", Category: types.CategorySoft, Group: GroupSoftSkills, Keywords: []string{"problem solving", "analytical"}},
	{Name: "Agile", Category: types.CategorySoft, Group: GroupSoftSkills, Keywords: []string{"agile", "scrum", "kanban"}},
	{Name: "Mentoring", Category: types.CategorySoft, Group: GroupSoftSkills, Keywords: []string{"mentoring", "coaching"}},
}
