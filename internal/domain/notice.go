package domain

// NoticeType 与前端 Result.type 一致
type NoticeType string

const (
	NoticeSuccess NoticeType = "success"
	NoticeError   NoticeType = "error"
	NoticeWarning NoticeType = "warning"
)

// Notice 面向用户的一次性提示（原页面中的 alert）
type Notice struct {
	Type    NoticeType `json:"type"`
	Message string     `json:"message"`
}

// SaveState 保存请求状态
type SaveState string

const (
	SaveIdle    SaveState = "idle"
	SavePending SaveState = "pending"
	SaveSuccess SaveState = "success"
	SaveFailed  SaveState = "failed"
)

const (
	MsgSaveOK          = "保存しました ✅"
	MsgSaveFailed      = "保存に失敗しました ❌"
	MsgSaveInFlight    = "保存中です。しばらくお待ちください"
	MsgVisitValidation = "日付と内容を入力してください"
)
