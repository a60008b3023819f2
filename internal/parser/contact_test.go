package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleResumeHeader = `John Smith
Senior Software Engineer
john.smith@example.com
(555) 123-4567
San Francisco, CA
linkedin.com/in/johnsmith
github.com/jsmith`

func TestExtractContactInfoAllFields(t *testing.T) {
	info := ExtractContactInfo(sampleResumeHeader)

	assert.Equal(t, "John Smith", info.Name)
	assert.Equal(t, "john.smith@example.com", info.Email)
	assert.Equal(t, "(555) 123-4567", info.Phone)
	assert.Equal(t, "San Francisco, CA", info.Location)
	assert.Equal(t, "linkedin.com/in/johnsmith", info.LinkedIn)
	assert.Equal(t, "github.com/jsmith", info.GitHub)
}

func TestExtractContactInfoSkipsJobTitleLine(t *testing.T) {
	// 姓名行在职位行之后出现时仍应选中姓名行
	text := "Senior Software Engineer\nJane Doe\njane@example.com"
	info := ExtractContactInfo(text)
	assert.Equal(t, "Jane Doe", info.Name)
}

func TestExtractContactInfoNameFallback(t *testing.T) {
	// 每个词首字母大写但超过4个词，走退化路径取前两词大写的首行
	text := "Mary Jane Watson Parker Osborn Stacy\nmary@example.com"
	info := ExtractContactInfo(text)
	assert.Equal(t, "Mary Jane Watson Parker Osborn Stacy", info.Name)
}

func TestExtractContactInfoEmptyInput(t *testing.T) {
	info := ExtractContactInfo("")
	assert.Empty(t, info.Name)
	assert.Empty(t, info.Email)
	assert.Empty(t, info.Phone)
}

func TestExtractContactInfoPhoneVariants(t *testing.T) {
	for _, phone := range []string{"555-123-4567", "555.123.4567", "(555) 123-4567"} {
		info := ExtractContactInfo("John Doe\n" + phone)
		assert.NotEmpty(t, info.Phone, "应识别电话格式: %s", phone)
	}
}
