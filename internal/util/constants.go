package util

const (
	DateFormat = "2006-01-02"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeJSON = "application/json"
)

// 查询参数上限
const (
	DefaultActivityDays  = 30
	MaxActivityDays      = 365
	DefaultLeaderboard   = 20
	MaxLeaderboard       = 100
	DefaultSessionsLimit = 50
)
