package persistence

import "time"

// siteModel maps to the sites table of spec.md §4.4.
type siteModel struct {
	Key  string `gorm:"primaryKey;column:key"`
	PV   uint64 `gorm:"column:pv"`
	UV   uint64 `gorm:"column:uv"`
	Host string `gorm:"column:host"`
}

func (siteModel) TableName() string { return "sites" }

// pageModel maps to the pages table of spec.md §4.4.
type pageModel struct {
	Key  string `gorm:"primaryKey;column:key"`
	PV   uint64 `gorm:"column:pv"`
	Path string `gorm:"column:path"`
}

func (pageModel) TableName() string { return "pages" }

// visitorModel maps to the visitors table of spec.md §4.4.
type visitorModel struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement;column:id"`
	SiteKey string `gorm:"column:site_key;index"`
	Hash    uint64 `gorm:"column:hash"`
}

func (visitorModel) TableName() string { return "visitors" }

// operationLogModel maps to the optional operation_logs table of
// spec.md §4.4.
type operationLogModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;column:id"`
	Timestamp time.Time `gorm:"column:timestamp"`
	Action    string    `gorm:"column:action"`
	Detail    string    `gorm:"column:detail"`
	IP        string    `gorm:"column:ip"`
}

func (operationLogModel) TableName() string { return "operation_logs" }
