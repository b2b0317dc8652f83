package repository

import "gorm.io/gorm"

// base carries the database handles shared by every repository: the
// primary for writes and, when configured, a read replica for lookups.
type base struct {
	db     *gorm.DB
	readDB *gorm.DB
}

// read returns the handle used for read queries, preferring the replica.
func (b base) read() *gorm.DB {
	if b.readDB != nil {
		return b.readDB
	}
	return b.db
}
