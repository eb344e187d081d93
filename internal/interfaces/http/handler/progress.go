package handler

import (
	"github.com/gin-gonic/gin"

	"z-novel-reader-api/internal/application/reading"
	"z-novel-reader-api/internal/interfaces/http/dto"
	"z-novel-reader-api/internal/interfaces/http/middleware"
	apperrors "z-novel-reader-api/pkg/errors"
)

// maxRecentLimit 最近阅读书架单次返回上限
const maxRecentLimit = 50

// ProgressHandler 阅读进度处理器
type ProgressHandler struct {
	progress    *reading.ProgressService
	recentLimit int
}

// NewProgressHandler 创建阅读进度处理器
func NewProgressHandler(progress *reading.ProgressService, recentLimit int) *ProgressHandler {
	if recentLimit <= 0 {
		recentLimit = reading.DefaultRecentLimit
	}
	return &ProgressHandler{
		progress:    progress,
		recentLimit: recentLimit,
	}
}

// SaveProgress 保存阅读位置
// @Summary 保存阅读进度
// @Description 先写本地缓存再写远端记录，同一章节重复保存只更新位置
// @Tags Reading
// @Accept json
// @Produce json
// @Param body body dto.SaveProgressRequest true "阅读位置"
// @Success 200 {object} dto.Response[entity.ProgressSaveResult]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/me/progress [put]
func (h *ProgressHandler) SaveProgress(c *gin.Context) {
	var req dto.SaveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.NovelID != "" {
		middleware.SetNovelID(c, req.NovelID)
	}

	result, err := h.progress.SaveProgress(c.Request.Context(), currentUserID(c), req.NovelID, req.VolumeID, req.ChapterID, *req.Position)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, result)
}

// RecentlyRead 最近阅读书架
// @Summary 最近阅读
// @Description 每本小说只保留最新的一条进度，并附带小说、卷、章节详情
// @Tags Reading
// @Produce json
// @Param limit query int false "条数"
// @Success 200 {object} dto.Response[dto.RecentlyReadResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/me/progress [get]
func (h *ProgressHandler) RecentlyRead(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		dto.FromError(c, apperrors.ErrUnauthenticated)
		return
	}

	limit := dto.BindLimit(c, h.recentLimit, maxRecentLimit)
	items, err := h.progress.RecentlyRead(c.Request.Context(), userID, limit)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.RecentlyReadResponse{Items: items})
}

// LatestForNovel 某本小说最新的阅读进度，没有记录时响应不含 data
func (h *ProgressHandler) LatestForNovel(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		dto.FromError(c, apperrors.ErrUnauthenticated)
		return
	}

	record, err := h.progress.LatestProgressForNovel(c.Request.Context(), userID, dto.BindNovelID(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, record)
}

// GetProgress 读取单章阅读进度，远端不可用时回退到本地缓存
// @Summary 获取章节阅读进度
// @Tags Reading
// @Produce json
// @Param nid path string true "小说 ID"
// @Param vid path string true "卷 ID"
// @Param cid path string true "章节 ID"
// @Success 200 {object} dto.Response[entity.ReadingProgress]
// @Router /v1/me/progress/{nid}/{vid}/{cid} [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		dto.FromError(c, apperrors.ErrUnauthenticated)
		return
	}

	record, err := h.progress.GetProgress(c.Request.Context(), userID, dto.BindNovelID(c), dto.BindVolumeID(c), dto.BindChapterID(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, record)
}
