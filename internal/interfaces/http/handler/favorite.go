package handler

import (
	"github.com/gin-gonic/gin"

	"z-novel-reader-api/internal/application/favorite"
	"z-novel-reader-api/internal/interfaces/http/dto"
)

// FavoriteHandler 收藏处理器
type FavoriteHandler struct {
	favorites *favorite.Service
}

// NewFavoriteHandler 创建收藏处理器
func NewFavoriteHandler(favorites *favorite.Service) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// ListFavorites 收藏书架
// @Summary 收藏书架
// @Description 按最近活动时间倒序，附带首章与最近阅读进度
// @Tags Favorites
// @Produce json
// @Success 200 {object} dto.Response[dto.FavoriteListResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/me/favorites [get]
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	novels, err := h.favorites.ListFavoriteNovels(c.Request.Context(), currentUserID(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.FavoriteListResponse{Novels: novels})
}

// IsFavorited 单本收藏状态，匿名用户恒为 false
func (h *FavoriteHandler) IsFavorited(c *gin.Context) {
	novelID := dto.BindNovelID(c)
	ok, err := h.favorites.IsFavorited(c.Request.Context(), currentUserID(c), novelID)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.IsFavoritedResponse{NovelID: novelID, IsFavorite: ok})
}

// ToggleFavorite 切换收藏
// @Summary 切换收藏
// @Tags Favorites
// @Produce json
// @Param nid path string true "小说 ID"
// @Success 200 {object} dto.Response[entity.FavoriteToggleResult]
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/me/favorites/{nid}/toggle [post]
func (h *FavoriteHandler) ToggleFavorite(c *gin.Context) {
	result, err := h.favorites.ToggleFavorite(c.Request.Context(), currentUserID(c), dto.BindNovelID(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, result)
}

// BatchStatus 批量查询收藏状态
// @Summary 批量收藏状态
// @Tags Favorites
// @Accept json
// @Produce json
// @Param body body dto.BatchFavoriteStatusRequest true "小说 ID 列表"
// @Success 200 {object} dto.Response[dto.BatchFavoriteStatusResponse]
// @Router /v1/me/favorites/status [post]
func (h *FavoriteHandler) BatchStatus(c *gin.Context) {
	var req dto.BatchFavoriteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	statuses, err := h.favorites.BatchFavoriteStatus(c.Request.Context(), currentUserID(c), req.NovelIDs)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.BatchFavoriteStatusResponse{Statuses: statuses})
}
