package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// FileModulePrefix 文件模块
	FileModulePrefix = "file"

	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"

	// KeyFileMD5Set 文件MD5集合，用于上传去重 (SET)
	// 格式: app:file:dedup_set
	KeyFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet
)
