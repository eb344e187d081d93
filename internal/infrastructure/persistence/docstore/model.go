package docstore

import (
	"time"

	"gorm.io/datatypes"

	"z-novel-reader-api/internal/domain/repository"
)

// documentModel documents 表，一行对应一个文档
type documentModel struct {
	Path       string            `gorm:"primaryKey;size:512"`
	Collection string            `gorm:"size:512;index:idx_documents_collection"`
	DocID      string            `gorm:"column:doc_id;size:128"`
	Fields     datatypes.JSONMap `gorm:"column:fields"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName 表名
func (documentModel) TableName() string {
	return "documents"
}

func (m *documentModel) toDocument() *repository.Document {
	return &repository.Document{
		ID:         m.DocID,
		Path:       m.Path,
		Fields:     cloneFields(m.Fields),
		CreateTime: m.CreatedAt,
		UpdateTime: m.UpdatedAt,
	}
}
