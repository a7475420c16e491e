package constants

const (
	// MaxUploadSizeBytes 单个上传文件的大小上限 (16MB)
	MaxUploadSizeBytes = 16 * 1024 * 1024

	// UploadFormFieldFiles 上传接口的multipart字段名
	UploadFormFieldFiles = "files"

	// DefaultSourceChannel 未指定来源渠道时的默认值
	DefaultSourceChannel = "web_upload"

	// CandidateIngestedRoutingKey 候选人入库事件的路由键
	CandidateIngestedRoutingKey = "candidate.ingested"
)
