// Package comment 提供章节评论、回复与点赞
package comment

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/internal/domain/repository"
	apperrors "z-novel-reader-api/pkg/errors"
	"z-novel-reader-api/pkg/logger"
)

var tracer = otel.Tracer("comment")

const (
	// DefaultAuthorName 用户未设置昵称时的显示名
	DefaultAuthorName = "Anonymous"
	// MaxContentLength 评论内容最大字符数
	MaxContentLength = 2000

	repliesFanout = 8
)

// ChapterRef 评论所属章节；VolumeID 为空时为平铺章节
type ChapterRef struct {
	NovelID   string
	VolumeID  string
	ChapterID string
}

func (r ChapterRef) validate() error {
	if err := repository.ValidateID("novel", r.NovelID); err != nil {
		return err
	}
	if r.VolumeID != "" {
		if err := repository.ValidateID("volume", r.VolumeID); err != nil {
			return err
		}
	}
	return repository.ValidateID("chapter", r.ChapterID)
}

// Service 评论服务
type Service struct {
	store repository.DocumentStore
	tx    repository.Transactor
}

// NewService 创建评论服务
func NewService(store repository.DocumentStore, tx repository.Transactor) *Service {
	return &Service{store: store, tx: tx}
}

func normalizeInput(author entity.Author, content string) (entity.Author, string, error) {
	if err := repository.ValidateUserID(author.UserID); err != nil {
		return author, "", err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return author, "", apperrors.Validation("comment content is required")
	}
	if len([]rune(content)) > MaxContentLength {
		return author, "", apperrors.Validation("comment exceeds %d characters", MaxContentLength)
	}
	if strings.TrimSpace(author.Name) == "" {
		author.Name = DefaultAuthorName
	}
	return author, content, nil
}

// AddComment 在章节下发表评论
func (s *Service) AddComment(ctx context.Context, author entity.Author, ref ChapterRef, content string) (*entity.Comment, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	author, content, err := normalizeInput(author, content)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "comment.AddComment",
		trace.WithAttributes(
			attribute.String("novel.id", ref.NovelID),
			attribute.String("chapter.id", ref.ChapterID),
		))
	defer span.End()

	chapter, err := s.store.Get(ctx, repository.ChapterPath(ref.NovelID, ref.VolumeID, ref.ChapterID))
	if err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to get chapter")
	}
	if chapter == nil {
		return nil, apperrors.ErrChapterNotFound.WithDetail(ref.ChapterID)
	}

	collection := repository.CommentsCollection(ref.NovelID, ref.VolumeID, ref.ChapterID)
	id, err := s.store.Add(ctx, collection, entity.NewCommentFields(author, content))
	if err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to add comment")
	}
	logger.Debug(ctx, "comment added", "comment_id", id, "user_id", author.UserID)
	return s.get(ctx, repository.JoinPath(collection, id), id)
}

// AddReply 回复评论，评论不存在时返回 NotFound
func (s *Service) AddReply(ctx context.Context, author entity.Author, ref ChapterRef, commentID, content string) (*entity.Comment, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	if err := repository.ValidateID("comment", commentID); err != nil {
		return nil, err
	}
	author, content, err := normalizeInput(author, content)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "comment.AddReply",
		trace.WithAttributes(attribute.String("comment.id", commentID)))
	defer span.End()

	parent, err := s.store.Get(ctx, repository.CommentPath(ref.NovelID, ref.VolumeID, ref.ChapterID, commentID))
	if err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to get comment")
	}
	if parent == nil {
		return nil, apperrors.ErrCommentNotFound.WithDetail(commentID)
	}

	collection := repository.RepliesCollection(ref.NovelID, ref.VolumeID, ref.ChapterID, commentID)
	id, err := s.store.Add(ctx, collection, entity.NewCommentFields(author, content))
	if err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to add reply")
	}
	return s.get(ctx, repository.JoinPath(collection, id), id)
}

func (s *Service) get(ctx context.Context, path, id string) (*entity.Comment, error) {
	doc, err := s.store.Get(ctx, path)
	if err != nil {
		return nil, storeError(err, "failed to get comment")
	}
	if doc == nil {
		return nil, apperrors.ErrCommentNotFound.WithDetail(id)
	}
	return entity.CommentFromDocument(doc), nil
}

// ListComments 列出章节评论（最新在前），每条评论附带按时间升序的回复
func (s *Service) ListComments(ctx context.Context, ref ChapterRef) ([]*entity.Comment, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "comment.ListComments",
		trace.WithAttributes(attribute.String("chapter.id", ref.ChapterID)))
	defer span.End()

	docs, err := s.store.Query(ctx, repository.CommentsCollection(ref.NovelID, ref.VolumeID, ref.ChapterID), repository.Query{
		OrderBy: []repository.Order{repository.Desc(entity.FieldCommentCreatedAt)},
	})
	if err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to list comments")
	}

	comments := make([]*entity.Comment, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(repliesFanout)
	for i, d := range docs {
		comments[i] = entity.CommentFromDocument(d)
		g.Go(func() error {
			replies, err := s.store.Query(gctx, repository.RepliesCollection(ref.NovelID, ref.VolumeID, ref.ChapterID, d.ID), repository.Query{
				OrderBy: []repository.Order{repository.Asc(entity.FieldCommentCreatedAt)},
			})
			if err != nil {
				return err
			}
			out := make([]*entity.Comment, 0, len(replies))
			for _, r := range replies {
				out = append(out, entity.CommentFromDocument(r))
			}
			comments[i].Replies = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to list replies")
	}

	span.SetAttributes(attribute.Int("comments.count", len(comments)))
	return comments, nil
}

// ToggleLike 切换评论或回复的点赞；replyID 为空时作用于评论本身
func (s *Service) ToggleLike(ctx context.Context, userID string, ref ChapterRef, commentID, replyID string) (*entity.LikeResult, error) {
	if err := repository.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := ref.validate(); err != nil {
		return nil, err
	}
	if err := repository.ValidateID("comment", commentID); err != nil {
		return nil, err
	}

	if replyID != "" {
		if err := repository.ValidateID("reply", replyID); err != nil {
			return nil, err
		}
	}

	path := repository.CommentPath(ref.NovelID, ref.VolumeID, ref.ChapterID, commentID)
	target := commentID
	if replyID != "" {
		path = repository.ReplyPath(ref.NovelID, ref.VolumeID, ref.ChapterID, commentID, replyID)
		target = replyID
	}

	ctx, span := tracer.Start(ctx, "comment.ToggleLike",
		trace.WithAttributes(attribute.String("comment.path", path)))
	defer span.End()

	var result entity.LikeResult
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.store.Get(ctx, path)
		if err != nil {
			return err
		}
		if doc == nil {
			return apperrors.ErrCommentNotFound.WithDetail(target)
		}
		c := entity.CommentFromDocument(doc)
		result.Liked = c.ToggleLike(userID)
		result.Likes = c.Likes
		return s.store.Update(ctx, path, c.LikeFields())
	})
	if err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to toggle like")
	}
	return &result, nil
}

func storeError(err error, message string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Wrap(err, apperrors.CodeDatabaseError, message)
}
