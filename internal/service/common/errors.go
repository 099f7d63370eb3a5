package common

// メッセージの絵文字定数
const (
	ErrorIcon   = "❌"
	SuccessIcon = "✅"
	WarningIcon = "⚠️"
	SearchIcon  = "🔍"
	InfoIcon    = "📋"
	StatsIcon   = "📊"
	DeleteIcon  = "🗑️"
)

// エラーメッセージフォーマット定数
const (
	ListErrorFormat = "%s %s一覧の取得に失敗: %w"
)
