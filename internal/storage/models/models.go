package models

import (
	"time"

	"gorm.io/datatypes"
)

// CandidateSnapshot 候选人记录在MySQL中的归档快照
// 内存集合才是运行时的事实来源；快照仅作持久化留底，随整库重置一并清空
type CandidateSnapshot struct {
	CandidateID     int            `gorm:"column:candidate_id;primaryKey"`
	SubmissionUUID  string         `gorm:"column:submission_uuid;type:varchar(36);index"`
	Filename        string         `gorm:"column:filename;type:varchar(512)"`
	RawText         string         `gorm:"column:raw_text;type:longtext"`
	Skills          datatypes.JSON `gorm:"column:skills"`
	ExperienceYears int            `gorm:"column:experience_years"`
	EducationLevel  string         `gorm:"column:education_level;type:varchar(32)"`
	Email           *string        `gorm:"column:email;type:varchar(255)"`
	Phone           *string        `gorm:"column:phone;type:varchar(64)"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
}

// TableName 指定表名
func (CandidateSnapshot) TableName() string {
	return "candidate_snapshots"
}
