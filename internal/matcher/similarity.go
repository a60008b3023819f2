// Package matcher 实现简历与岗位的确定性匹配打分、排序与筛选。
// 所有计算都是输入的纯函数，不做I/O，相同输入必然得到相同结果。
package matcher

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9][a-z0-9+#.\-]*`)

// 英文停用词表
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"to": {}, "was": {}, "were": {}, "will": {}, "with": {}, "you": {},
	"your": {}, "we": {}, "our": {}, "this": {}, "these": {}, "their": {},
}

// SemanticSimilarity 计算两段文本的TF-IDF余弦相似度，缩放到0-100。
// 分词取一元和二元词组，去停用词，全部小写；
// 词表只在这两篇文档上拟合。任一侧为空时返回0。
func SemanticSimilarity(docA, docB string) float64 {
	termsA := extractTerms(docA)
	termsB := extractTerms(docB)
	if len(termsA) == 0 || len(termsB) == 0 {
		return 0
	}

	tfA := termFrequencies(termsA)
	tfB := termFrequencies(termsB)

	// 词表 = 两篇文档词项的并集；IDF在两篇文档上计算，
	// 共现词项 idf=ln(2/3)+1 的平滑变体，此处用 ln((1+N)/(1+df))+1
	vocabSet := make(map[string]struct{}, len(tfA)+len(tfB))
	for t := range tfA {
		vocabSet[t] = struct{}{}
	}
	for t := range tfB {
		vocabSet[t] = struct{}{}
	}
	// 固定词表遍历顺序，浮点累加顺序不同会引入不确定性
	vocab := make([]string, 0, len(vocabSet))
	for t := range vocabSet {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)

	var dot, normA, normB float64
	for _, term := range vocab {
		df := 0
		if tfA[term] > 0 {
			df++
		}
		if tfB[term] > 0 {
			df++
		}
		idf := math.Log(3.0/float64(1+df)) + 1

		wa := tfA[term] * idf
		wb := tfB[term] * idf
		dot += wa * wb
		normA += wa * wa
		normB += wb * wb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return clampScore(sim * 100)
}

// extractTerms 分词并生成一元和二元词组，去除停用词
func extractTerms(doc string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(doc), -1)
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}

	terms := make([]string, 0, len(kept)*2)
	terms = append(terms, kept...)
	for i := 0; i+1 < len(kept); i++ {
		terms = append(terms, kept[i]+" "+kept[i+1])
	}
	return terms
}

func termFrequencies(terms []string) map[string]float64 {
	tf := make(map[string]float64, len(terms))
	for _, t := range terms {
		tf[t]++
	}
	// 频次归一化
	total := float64(len(terms))
	for t := range tf {
		tf[t] /= total
	}
	return tf
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
