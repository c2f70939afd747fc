package model

import "gorm.io/gorm"

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&LiteraryEra{},
		&Poet{},
		&Theme{},
		&Poem{},
		&PoemTheme{},
		&Profile{},
		&PoemLike{},
		&ModernPoem{},
		&ModernPoemLike{},
		&PoemComment{},
		&ModernPoemComment{},
		&Follow{},
		&Outbox{},
		&Inbox{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
