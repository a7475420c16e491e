package storage

import "time"

// CandidateIngestedMessage 候选人入库事件
// 在一条记录进入内存集合之后发布，供下游系统（通知、索引重建等）消费
type CandidateIngestedMessage struct {
	CandidateID     int       `json:"candidate_id"`
	SubmissionUUID  string    `json:"submission_uuid"`
	Filename        string    `json:"filename"`
	SourceChannel   string    `json:"source_channel,omitempty"`
	Skills          []string  `json:"skills"`
	ExperienceYears int       `json:"experience_years"`
	EducationLevel  string    `json:"education_level"`
	IngestedAt      time.Time `json:"ingested_at"`
}
