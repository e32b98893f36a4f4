// Package vo 定义视图对象（View Objects），用于在 Service 与 Controller 之间传递数据。
package vo

import "github.com/bionicotaku/lingo-services-person/internal/models/paging"

// PersonDTO 是 Person 的传输对象，既用于请求体也用于响应体。
// 入参中的 ID 会被忽略，主键始终由存储分配或来自路径参数。
type PersonDTO struct {
	ID    int64   `json:"id,omitempty"`
	Name  string  `json:"name"`
	Age   int32   `json:"age"`
	Email *string `json:"email,omitempty"`
}

// MessageResponseDTO 是写操作的统一响应体。
type MessageResponseDTO struct {
	Message string `json:"message"`
}

// PersonPage 是分页查询返回的信封结构。
type PersonPage = paging.Page[*PersonDTO]
