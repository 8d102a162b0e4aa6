package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// updateColumns applies a partial update to the row matching id. Only columns
// in allowed may be written; a missing row yields gorm.ErrRecordNotFound.
func updateColumns(ctx context.Context, db *gorm.DB, table string, allowed map[string]struct{}, id interface{}, columns map[string]interface{}) error {
	if err := checkColumns(table, allowed, columns); err != nil {
		return err
	}
	result := db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func checkColumns(table string, allowed map[string]struct{}, columns map[string]interface{}) error {
	if len(columns) == 0 {
		return fmt.Errorf("update %s: no columns", table)
	}
	for name := range columns {
		if _, ok := allowed[name]; !ok {
			return fmt.Errorf("update %s: column %q is not updatable", table, name)
		}
	}
	return nil
}

func columnSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
