package handler

import (
	"github.com/gin-gonic/gin"

	"z-novel-reader-api/internal/application/catalog"
	"z-novel-reader-api/internal/application/favorite"
	"z-novel-reader-api/internal/interfaces/http/dto"
	"z-novel-reader-api/internal/interfaces/http/middleware"
	apperrors "z-novel-reader-api/pkg/errors"
)

// NovelHandler 小说、卷、章节处理器
type NovelHandler struct {
	catalog      *catalog.Service
	firstChapter *favorite.FirstChapterResolver
}

// NewNovelHandler 创建小说处理器
func NewNovelHandler(catalogService *catalog.Service, firstChapter *favorite.FirstChapterResolver) *NovelHandler {
	return &NovelHandler{
		catalog:      catalogService,
		firstChapter: firstChapter,
	}
}

// ListGenres 获取题材列表
// @Summary 获取题材列表
// @Tags Novels
// @Produce json
// @Success 200 {object} dto.Response[dto.GenreListResponse]
// @Router /v1/genres [get]
func (h *NovelHandler) ListGenres(c *gin.Context) {
	genres, err := h.catalog.ListGenres(c.Request.Context())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.GenreListResponse{Genres: genres})
}

// ListNewNovels 获取新书列表
// @Summary 新书列表
// @Description 按创建时间倒序返回最近创建的小说
// @Tags Novels
// @Produce json
// @Success 200 {object} dto.Response[dto.NovelListResponse]
// @Router /v1/novels [get]
func (h *NovelHandler) ListNewNovels(c *gin.Context) {
	novels, err := h.catalog.ListNewNovels(c.Request.Context())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.NovelListResponse{Novels: novels})
}

// ListMyNovels 获取当前用户创建的小说
// @Summary 我的作品
// @Tags Novels
// @Produce json
// @Success 200 {object} dto.Response[dto.NovelListResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/novels/mine [get]
func (h *NovelHandler) ListMyNovels(c *gin.Context) {
	novels, err := h.catalog.ListUserNovels(c.Request.Context(), currentUserID(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.NovelListResponse{Novels: novels})
}

// CreateNovel 创建小说
// @Summary 创建小说
// @Tags Novels
// @Accept json
// @Produce json
// @Param body body dto.CreateNovelRequest true "小说信息"
// @Success 201 {object} dto.Response[entity.Novel]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/novels [post]
func (h *NovelHandler) CreateNovel(c *gin.Context) {
	var req dto.CreateNovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	novel, err := h.catalog.CreateNovel(c.Request.Context(), currentUserID(c), req.ToInput())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Created(c, novel)
}

// GetNovel 获取小说详情
// @Summary 获取小说详情
// @Tags Novels
// @Produce json
// @Param nid path string true "小说 ID"
// @Success 200 {object} dto.Response[entity.Novel]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/novels/{nid} [get]
func (h *NovelHandler) GetNovel(c *gin.Context) {
	novel, err := h.catalog.GetNovel(c.Request.Context(), dto.BindNovelID(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, novel)
}

// UpdateNovel 更新小说
// @Summary 更新小说
// @Description 仅作者可更新
// @Tags Novels
// @Accept json
// @Produce json
// @Param nid path string true "小说 ID"
// @Param body body dto.UpdateNovelRequest true "待更新字段"
// @Success 200 {object} dto.Response[entity.Novel]
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/novels/{nid} [put]
func (h *NovelHandler) UpdateNovel(c *gin.Context) {
	var req dto.UpdateNovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	novel, err := h.catalog.UpdateNovel(c.Request.Context(), currentUserID(c), dto.BindNovelID(c), req.ToUpdate())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, novel)
}

// DeleteNovel 删除小说
// @Summary 删除小说
// @Description 仅作者可删除，同时删除卷、章节与评论
// @Tags Novels
// @Param nid path string true "小说 ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/novels/{nid} [delete]
func (h *NovelHandler) DeleteNovel(c *gin.Context) {
	if err := h.catalog.DeleteNovel(c.Request.Context(), currentUserID(c), dto.BindNovelID(c)); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.NoContent(c)
}

// GetNovelStats 获取小说统计
// @Summary 小说统计
// @Tags Novels
// @Produce json
// @Param nid path string true "小说 ID"
// @Success 200 {object} dto.Response[entity.NovelStats]
// @Router /v1/novels/{nid}/stats [get]
func (h *NovelHandler) GetNovelStats(c *gin.Context) {
	stats, err := h.catalog.GetNovelStats(c.Request.Context(), dto.BindNovelID(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, stats)
}

// ListVolumes 获取卷列表
func (h *NovelHandler) ListVolumes(c *gin.Context) {
	volumes, err := h.catalog.ListVolumes(c.Request.Context(), dto.BindNovelID(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.VolumeListResponse{Volumes: volumes})
}

// CreateVolume 新增卷
// @Summary 新增卷
// @Tags Volumes
// @Accept json
// @Produce json
// @Param nid path string true "小说 ID"
// @Param body body dto.CreateVolumeRequest true "卷信息"
// @Success 201 {object} dto.Response[entity.Volume]
// @Router /v1/novels/{nid}/volumes [post]
func (h *NovelHandler) CreateVolume(c *gin.Context) {
	var req dto.CreateVolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	volume, err := h.catalog.AddVolume(c.Request.Context(), currentUserID(c), dto.BindNovelID(c), req.Title, req.VolumeNumber)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Created(c, volume)
}

// GetContents 获取目录（全部卷及章节，不含正文）
func (h *NovelHandler) GetContents(c *gin.Context) {
	volumes, err := h.catalog.GetVolumesAndChapters(c.Request.Context(), dto.BindNovelID(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.ContentsResponse{Volumes: volumes})
}

// GetFirstChapter 获取开始阅读的首章
func (h *NovelHandler) GetFirstChapter(c *gin.Context) {
	novelID := dto.BindNovelID(c)
	first, err := h.firstChapter.Resolve(c.Request.Context(), novelID)
	if err != nil {
		dto.FromError(c, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to resolve first chapter"))
		return
	}
	if first == nil {
		dto.FromError(c, apperrors.ErrChapterNotFound.WithDetail("novel "+novelID+" has no chapters"))
		return
	}
	dto.Success(c, first)
}

// CreateChapter 新增章节
// @Summary 新增章节
// @Tags Chapters
// @Accept json
// @Produce json
// @Param nid path string true "小说 ID"
// @Param vid path string true "卷 ID"
// @Param body body dto.CreateChapterRequest true "章节信息"
// @Success 201 {object} dto.Response[entity.Chapter]
// @Router /v1/novels/{nid}/volumes/{vid}/chapters [post]
func (h *NovelHandler) CreateChapter(c *gin.Context) {
	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	chapter, err := h.catalog.AddChapter(c.Request.Context(), currentUserID(c), dto.BindNovelID(c), dto.BindVolumeID(c), req.ToInput())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Created(c, chapter)
}

// GetChapter 获取章节正文
// @Summary 获取章节
// @Tags Chapters
// @Produce json
// @Param nid path string true "小说 ID"
// @Param vid path string true "卷 ID"
// @Param cid path string true "章节 ID"
// @Success 200 {object} dto.Response[entity.Chapter]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/novels/{nid}/volumes/{vid}/chapters/{cid} [get]
func (h *NovelHandler) GetChapter(c *gin.Context) {
	chapter, err := h.catalog.GetChapter(c.Request.Context(), dto.BindNovelID(c), dto.BindVolumeID(c), dto.BindChapterID(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, chapter)
}

// currentUserID 当前请求的用户 ID，匿名时为空
func currentUserID(c *gin.Context) string {
	return middleware.CurrentIdentity(c).UserID
}
