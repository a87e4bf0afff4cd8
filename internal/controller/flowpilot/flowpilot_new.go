package flowpilot

// ControllerV1 v1接口控制器
type ControllerV1 struct{}

// NewV1 创建v1控制器
func NewV1() *ControllerV1 {
	return &ControllerV1{}
}
