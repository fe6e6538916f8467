package healthcheck

import (
	"go.uber.org/fx"
)

// Module 提供健康檢查管理器
var Module = fx.Options(
	fx.Provide(New),
)
