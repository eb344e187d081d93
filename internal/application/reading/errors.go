// Package reading 提供阅读进度的保存、读取、去重与详情聚合
package reading

import (
	"z-novel-reader-api/internal/domain/repository"
	apperrors "z-novel-reader-api/pkg/errors"
)

// storeError 保留已分类的应用错误，其余存储错误包装为数据库错误
func storeError(err error, message string) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Wrap(err, apperrors.CodeDatabaseError, message)
}

func requireIDs(novelID, volumeID, chapterID string) error {
	if err := repository.ValidateID("novel", novelID); err != nil {
		return err
	}
	if err := repository.ValidateID("volume", volumeID); err != nil {
		return err
	}
	return repository.ValidateID("chapter", chapterID)
}
