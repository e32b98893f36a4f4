// Package paging 提供分页请求与分页结果的通用模型，供 Repository、Service 与 Controller 共享。
package paging

import (
	"fmt"
	"math"
	"strings"
)

const (
	// DefaultPageSize 是未显式指定 size 时的页大小。
	DefaultPageSize = 20
	// MaxPageSize 限制单页最多返回的记录数。
	MaxPageSize = 100
)

// Direction 表示排序方向。
type Direction string

// 排序方向常量。
const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// Order 描述单个排序字段。
type Order struct {
	Property  string
	Direction Direction
}

// String 以 "property,dir" 形式输出，与查询参数格式一致。
func (o Order) String() string {
	return o.Property + "," + strings.ToLower(string(o.Direction))
}

// Pageable 描述一次分页查询：零基页码、页大小与排序规则。
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

// NewPageable 构造分页请求，并将越界的 page/size 收敛到合法区间。
func NewPageable(page, size int, sort ...Order) Pageable {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	// page*size 不得溢出 int64，超大页码收敛到最后一个可表示的页。
	if maxPage := math.MaxInt64 / int64(size); int64(page) > maxPage {
		page = int(maxPage)
	}
	return Pageable{Page: page, Size: size, Sort: sort}
}

// Offset 返回当前页首条记录的偏移量，结果饱和在 [0, MaxInt64]。
func (p Pageable) Offset() int64 {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if int64(p.Page) > math.MaxInt64/int64(p.Size) {
		return math.MaxInt64
	}
	return int64(p.Page) * int64(p.Size)
}

// ParseOrder 解析 "property" 或 "property,asc|desc" 形式的排序表达式。
func ParseOrder(raw string) (Order, error) {
	parts := strings.Split(raw, ",")
	property := strings.TrimSpace(parts[0])
	if property == "" {
		return Order{}, fmt.Errorf("empty sort property in %q", raw)
	}
	order := Order{Property: property, Direction: ASC}
	if len(parts) > 2 {
		return Order{}, fmt.Errorf("malformed sort expression %q", raw)
	}
	if len(parts) == 2 {
		switch strings.ToLower(strings.TrimSpace(parts[1])) {
		case "", "asc":
			order.Direction = ASC
		case "desc":
			order.Direction = DESC
		default:
			return Order{}, fmt.Errorf("unknown sort direction in %q", raw)
		}
	}
	return order, nil
}

// Page 是一页查询结果及其分页元信息。
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// NewPage 根据分页请求与总记录数构造结果页。
func NewPage[T any](content []T, pageable Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if pageable.Size > 0 {
		totalPages = int((total + int64(pageable.Size) - 1) / int64(pageable.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          pageable.Page,
		Size:          pageable.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// Map 逐项转换页内容，保留分页元信息。
func Map[S, D any](src Page[S], fn func(S) D) Page[D] {
	content := make([]D, 0, len(src.Content))
	for _, item := range src.Content {
		content = append(content, fn(item))
	}
	return Page[D]{
		Content:       content,
		Page:          src.Page,
		Size:          src.Size,
		TotalElements: src.TotalElements,
		TotalPages:    src.TotalPages,
	}
}
