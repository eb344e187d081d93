// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h *RouterHandlers) {
	v1.GET("/genres", h.Novel.ListGenres)

	// 小说目录
	novels := v1.Group("/novels")
	{
		novels.GET("", h.Novel.ListNewNovels)
		novels.POST("", h.Novel.CreateNovel)
		novels.GET("/mine", h.Novel.ListMyNovels)
		novels.GET("/:nid", h.Novel.GetNovel)
		novels.PUT("/:nid", h.Novel.UpdateNovel)
		novels.DELETE("/:nid", h.Novel.DeleteNovel)
		novels.GET("/:nid/stats", h.Novel.GetNovelStats)
		novels.GET("/:nid/contents", h.Novel.GetContents)
		novels.GET("/:nid/first-chapter", h.Novel.GetFirstChapter)

		// 平铺布局的章节
		novels.GET("/:nid/chapters/:cid", h.Novel.GetChapter)

		novels.GET("/:nid/volumes", h.Novel.ListVolumes)
		novels.POST("/:nid/volumes", h.Novel.CreateVolume)
		novels.POST("/:nid/volumes/:vid/chapters", h.Novel.CreateChapter)
		novels.GET("/:nid/volumes/:vid/chapters/:cid", h.Novel.GetChapter)

		// 章节评论
		comments := novels.Group("/:nid/volumes/:vid/chapters/:cid/comments")
		{
			comments.GET("", h.Comment.ListComments)
			comments.POST("", h.Comment.AddComment)
			comments.POST("/:cmid/replies", h.Comment.AddReply)
			comments.POST("/:cmid/like", h.Comment.ToggleLike)
			comments.POST("/:cmid/replies/:rid/like", h.Comment.ToggleLike)
		}
	}

	// 当前用户的阅读数据
	me := v1.Group("/me")
	{
		me.PUT("/progress", h.Progress.SaveProgress)
		me.GET("/progress", h.Progress.RecentlyRead)
		me.GET("/progress/:nid", h.Progress.LatestForNovel)
		me.GET("/progress/:nid/:vid/:cid", h.Progress.GetProgress)

		me.GET("/favorites", h.Favorite.ListFavorites)
		me.POST("/favorites/status", h.Favorite.BatchStatus)
		me.GET("/favorites/:nid", h.Favorite.IsFavorited)
		me.POST("/favorites/:nid/toggle", h.Favorite.ToggleFavorite)

		me.POST("/bookmarks", h.Bookmark.SaveBookmark)
		me.GET("/bookmarks/:bid", h.Bookmark.GetBookmark)
	}
}
