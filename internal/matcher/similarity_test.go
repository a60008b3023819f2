package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemanticSimilarityIdenticalDocs(t *testing.T) {
	doc := "senior backend engineer building distributed systems in go"
	got := SemanticSimilarity(doc, doc)
	assert.InDelta(t, 100, got, 0.001, "相同文档的余弦相似度应为满分")
}

func TestSemanticSimilarityDisjointDocs(t *testing.T) {
	got := SemanticSimilarity("apple banana cherry", "velocity momentum torque")
	assert.Equal(t, 0.0, got, "无共同词项时相似度为0")
}

func TestSemanticSimilarityEmptySide(t *testing.T) {
	assert.Equal(t, 0.0, SemanticSimilarity("", "some job description"))
	assert.Equal(t, 0.0, SemanticSimilarity("some resume text", ""))
	assert.Equal(t, 0.0, SemanticSimilarity("", ""))
}

func TestSemanticSimilarityStopWordsOnly(t *testing.T) {
	assert.Equal(t, 0.0, SemanticSimilarity("the and of", "python developer"),
		"仅含停用词的一侧视为空")
}

func TestSemanticSimilarityPartialOverlap(t *testing.T) {
	a := "python developer with react experience"
	b := "python engineer familiar with react"
	got := SemanticSimilarity(a, b)
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, 100.0)
}

func TestSemanticSimilarityDeterministic(t *testing.T) {
	a := "machine learning models in production"
	b := "deploying machine learning pipelines"
	first := SemanticSimilarity(a, b)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, SemanticSimilarity(a, b), "相似度计算必须逐位确定")
	}
}
