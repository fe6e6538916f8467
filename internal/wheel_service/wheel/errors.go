package wheel

import (
	"fmt"
)

// WheelError 代表轉盤引擎錯誤
type WheelError struct {
	Code    string
	Message string
}

// Error 實現error接口
func (e *WheelError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is 依錯誤碼比較，讓 errors.Is 可以比對帶格式訊息的錯誤
func (e *WheelError) Is(target error) bool {
	t, ok := target.(*WheelError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// 預定義錯誤
var (
	// 沒有任何可抽選的選項，屬於配置錯誤
	ErrConfiguration = &WheelError{
		Code:    "CONFIGURATION_ERROR",
		Message: "沒有可用的轉盤選項",
	}

	ErrSpinInProgress = &WheelError{
		Code:    "SPIN_IN_PROGRESS",
		Message: "轉盤正在旋轉中",
	}

	ErrInvalidIndex = &WheelError{
		Code:    "INVALID_INDEX",
		Message: "無效的扇形索引",
	}
)

// NewWheelErrorWithFormat 使用格式化字串創建新的轉盤錯誤
func NewWheelErrorWithFormat(code string, format string, args ...interface{}) *WheelError {
	return &WheelError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
