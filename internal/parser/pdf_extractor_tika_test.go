package parser

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTikaTextExtractorExtractText(t *testing.T) {
	var gotResourceName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tika", r.URL.Path)
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		gotResourceName = r.Header.Get("X-Tika-Resource-Name")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-fake"), body)

		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("John Smith\nSoftware Engineer"))
	}))
	defer server.Close()

	extractor := NewTikaTextExtractor(server.URL)
	text, err := extractor.ExtractTextFromBytes(context.Background(), []byte("%PDF-fake"), "resume.pdf")
	require.NoError(t, err, "提取不应失败")

	assert.Equal(t, "John Smith\nSoftware Engineer", text)
	assert.Equal(t, "resume.pdf", gotResourceName, "应传递资源名请求头")
}

func TestTikaTextExtractorServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	extractor := NewTikaTextExtractor(server.URL)
	_, err := extractor.ExtractTextFromBytes(context.Background(), []byte("broken"), "bad.pdf")
	require.Error(t, err, "非200状态码应返回错误")
	assert.Contains(t, err.Error(), "422")
}

func TestTikaTextExtractorAnnotationsDisabled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.Header.Get("X-Tika-PDFExtractAnnotationText"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	extractor := NewTikaTextExtractor(server.URL, WithTikaAnnotations(false))
	_, err := extractor.ExtractTextFromBytes(context.Background(), []byte("%PDF"), "")
	require.NoError(t, err)
}
