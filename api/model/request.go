package model

import (
	"mime/multipart"
)

// DocumentUploadRequest 文档上传请求
type DocumentUploadRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"` // 文件对象
}

// DocumentIDRequest 按文档ID操作的请求
type DocumentIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"` // 文档会话ID
}

// QARequest 问答请求
// DocumentID 和 Text 二选一：前者针对已上传的文档，后者直接提交全文
type QARequest struct {
	Question   string `json:"question" binding:"required,max=2000"`        // 问题内容
	DocumentID string `json:"document_id" binding:"required_without=Text"` // 文档会话ID
	Text       string `json:"text" binding:"required_without=DocumentID"`  // 文档全文
}

// ReadyRequest 就绪检查请求
type ReadyRequest struct {
	Warm bool `form:"warm"` // 是否触发模型加载
}
