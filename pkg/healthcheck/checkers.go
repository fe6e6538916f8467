package healthcheck

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const defaultCheckTimeout = 3 * time.Second

// DependencyChecker 以 PingFunc 檢查外部依賴（歷史紀錄存儲、Redis、MySQL）
type DependencyChecker struct {
	Name_    string
	PingFunc func(ctx context.Context) error
	Timeout  time.Duration
}

// Name 返回檢查器的名稱
func (d *DependencyChecker) Name() string {
	if d.Name_ != "" {
		return d.Name_
	}
	return "dependency-checker"
}

// Check 在超時內執行 PingFunc
func (d *DependencyChecker) Check(r *http.Request) error {
	if d.PingFunc == nil {
		return fmt.Errorf("Ping 函數未配置")
	}

	timeout := d.Timeout
	if timeout == 0 {
		timeout = defaultCheckTimeout
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	return d.PingFunc(ctx)
}

// CustomChecker 自定義健康檢查器，使用提供的函數執行檢查
type CustomChecker struct {
	Name_     string
	CheckFunc func(r *http.Request) error
}

// Name 返回檢查器的名稱
func (c *CustomChecker) Name() string {
	if c.Name_ != "" {
		return c.Name_
	}
	return "custom-checker"
}

// Check 使用自定義函數執行健康檢查
func (c *CustomChecker) Check(r *http.Request) error {
	if c.CheckFunc == nil {
		return fmt.Errorf("檢查函數未配置")
	}
	return c.CheckFunc(r)
}
