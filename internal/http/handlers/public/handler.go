package public

import "github.com/bagocfsa/shukrullahProduction-sub000/internal/provider"

// Handler 店面/公开接口处理器入口
// 说明：该处理器仅用于店面下单与查询侧 API。
type Handler struct {
	*provider.Container
}

// New 创建店面处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
