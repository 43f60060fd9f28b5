package model

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`               // 响应状态码，0表示成功
	Message string      `json:"message"`            // 响应消息
	Data    interface{} `json:"data,omitempty"`     // 响应数据，可能为空
	TraceID string      `json:"trace_id,omitempty"` // 调用链追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Code:    code,
		Message: message,
	}
}

// DocumentUploadResponse 文档上传响应
type DocumentUploadResponse struct {
	DocumentID string `json:"document_id"` // 文档会话ID
	FileName   string `json:"filename"`    // 文件名
	Characters int    `json:"characters"`  // 提取的字符数
	Blocks     int    `json:"blocks"`      // 分块数量
}

// DocumentDeleteResponse 文档删除响应
type DocumentDeleteResponse struct {
	Success    bool   `json:"success"`     // 是否成功
	DocumentID string `json:"document_id"` // 文档会话ID
}

// QAResponse 问答响应
type QAResponse struct {
	Question   string `json:"question"`              // 用户问题
	Answer     string `json:"answer"`                // 格式化后的回答
	DocumentID string `json:"document_id,omitempty"` // 文档会话ID
}

// ReadyResponse 就绪检查响应
type ReadyResponse struct {
	Ready bool   `json:"ready"`           // 推理后端是否都已初始化
	Error string `json:"error,omitempty"` // 预热失败原因
}
