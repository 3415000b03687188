package errx

// 进程级统一错误码。
//
// 约束：
// - 系统类错误码用于告警与排障归一化
// - 配置类错误属于“调用方输入”问题，按业务类错误处理（不捕获栈）

const (
	// CodeInternal 表示服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示服务不可用（关闭中/依赖异常）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeBind 表示监听地址无法绑定（端口被占用/无权限）。
	CodeBind Code = "BIND_ERROR"
	// CodeConfigInvalid 表示配置文件或环境变量不合法。
	CodeConfigInvalid Code = "CONFIG_INVALID"
)

var (
	ErrInternal      = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable   = NewSys(CodeUnavailable, "服务不可用")
	ErrBind          = NewSys(CodeBind, "监听地址不可用")
	ErrConfigInvalid = NewBiz(CodeConfigInvalid, "配置不合法")
)
