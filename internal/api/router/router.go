package router

import (
	"context"

	"resume-match-go/internal/api/handler"
	"resume-match-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.opentelemetry.io/otel/trace"
)

// respondError 写入错误响应并将错误记录到当前请求的Span上
func respondError(c context.Context, ctx *app.RequestContext, err error) {
	status := handler.StatusForError(err)
	tracing.RecordHTTPError(trace.SpanFromContext(c), err, status)
	ctx.JSON(status, utils.H{"error": err.Error()})
}

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, matchHandler *handler.MatchHandler) {
	api := h.Group("/api/v1")

	// 简历文本解析
	api.POST("/resume/analyze", func(c context.Context, ctx *app.RequestContext) {
		var req handler.ResumeAnalyzeRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}

		record, err := matchHandler.HandleResumeAnalyze(c, &req)
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, record)
	})

	// 简历文件上传，异步解析
	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		targetJobID := ctx.PostForm("target_job_id")
		sourceChannel := ctx.PostForm("source_channel")
		if sourceChannel == "" {
			sourceChannel = "web_upload" // 默认值
		}

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := matchHandler.HandleResumeUpload(
			c,
			file,
			fileHeader.Size,
			fileHeader.Filename,
			targetJobID,
			sourceChannel,
		)
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	// 批量简历文本解析
	api.POST("/resume/batch", func(c context.Context, ctx *app.RequestContext) {
		var req handler.BatchAnalyzeRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}

		result, err := matchHandler.HandleBatchAnalyze(c, &req)
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, result)
	})

	// 岗位描述解析
	api.POST("/job/analyze", func(c context.Context, ctx *app.RequestContext) {
		var req handler.JobAnalyzeRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}

		record, err := matchHandler.HandleJobAnalyze(c, &req)
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, record)
	})

	// 单对匹配评分
	api.GET("/match/:resume_id/:job_id", func(c context.Context, ctx *app.RequestContext) {
		resumeID := ctx.Param("resume_id")
		jobID := ctx.Param("job_id")

		result, err := matchHandler.HandleMatch(c, resumeID, jobID)
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, result)
	})

	// 候选人排序
	api.POST("/rank", func(c context.Context, ctx *app.RequestContext) {
		var req handler.RankRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}

		results, err := matchHandler.HandleRank(c, &req)
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"results": results})
	})

	// 候选人筛选
	api.POST("/candidates/filter", func(c context.Context, ctx *app.RequestContext) {
		var req handler.FilterRequest
		if err := ctx.BindAndValidate(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}

		results, err := matchHandler.HandleFilter(c, &req)
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"results": results})
	})

	// 语料统计
	api.GET("/stats", func(c context.Context, ctx *app.RequestContext) {
		stats, err := matchHandler.HandleStatistics(c)
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, stats)
	})

	// 健康检查
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
