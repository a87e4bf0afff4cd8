package errors

// ErrCode 业务错误码类型
type ErrCode int

const (
	// 通用错误 1000-1999
	ErrInvalidParameter ErrCode = 1001 // 参数错误
	ErrInternalError    ErrCode = 1002 // 内部错误
	ErrNotFound         ErrCode = 1003 // 资源未找到
	ErrOperationFailed  ErrCode = 1004 // 操作失败

	// 输入安全相关 2000-2999
	ErrSecretDetected    ErrCode = 2001 // 输入包含疑似凭据
	ErrInjectionDetected ErrCode = 2002 // 输入包含提示注入

	// 上游服务相关 3000-3999
	ErrEmbeddingFailed  ErrCode = 3001 // Embedding调用失败
	ErrGenerationFailed ErrCode = 3002 // 生成服务调用失败

	// 索引/文档相关 4000-4999
	ErrDocumentNotFound ErrCode = 4001 // 文档未找到
	ErrIngestionFailed  ErrCode = 4002 // 文档索引失败
	ErrUnsupportedFile  ErrCode = 4003 // 不支持的文件类型

	// 向量数据库 5000-5999
	ErrVectorStoreInit ErrCode = 5001 // 向量库初始化失败
	ErrVectorSearch    ErrCode = 5002 // 向量搜索失败
	ErrVectorInsert    ErrCode = 5003 // 向量插入失败
	ErrVectorDelete    ErrCode = 5004 // 向量删除失败

	// 数据库相关 6000-6999
	ErrDatabaseQuery  ErrCode = 6001 // 数据库查询失败
	ErrDatabaseInsert ErrCode = 6002 // 数据库插入失败
	ErrDatabaseInit   ErrCode = 6003 // 数据库初始化失败

	// 会话相关 7000-7999
	ErrSessionNotFound ErrCode = 7001 // 会话未找到
	ErrTurnAuditFailed ErrCode = 7002 // 对话轮次落库失败
)

// HTTPStatusCode 返回错误码对应的HTTP状态码
func (e ErrCode) HTTPStatusCode() int {
	switch {
	case e == ErrInvalidParameter:
		return 400
	case e == ErrSecretDetected || e == ErrInjectionDetected:
		// 输入被拒绝：语义上是请求问题而不是服务问题
		return 422
	case e == ErrNotFound || e == ErrDocumentNotFound || e == ErrSessionNotFound:
		return 404
	case e == ErrEmbeddingFailed || e == ErrGenerationFailed:
		return 502
	default:
		return 500
	}
}
