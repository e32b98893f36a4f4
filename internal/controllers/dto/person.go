// Package dto 负责 HTTP 请求参数的解析与校验，将原始输入转换为服务层可用的类型。
package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bionicotaku/lingo-services-person/internal/models/paging"
	"github.com/bionicotaku/lingo-services-person/internal/models/po"
)

// ParsePersonID 解析路径中的人员 ID。仅拒绝非整数输入，0 与负数交由服务层按不存在处理。
func ParsePersonID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// ParsePageable 解析 page、size、sort 查询参数。
// sort 可重复出现，形如 sort=name,desc&sort=id。
func ParsePageable(query url.Values) (paging.Pageable, error) {
	page, err := intParam(query, "page", 0)
	if err != nil {
		return paging.Pageable{}, err
	}
	size, err := intParam(query, "size", paging.DefaultPageSize)
	if err != nil {
		return paging.Pageable{}, err
	}

	var orders []paging.Order
	for _, raw := range query["sort"] {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		order, err := paging.ParseOrder(raw)
		if err != nil {
			return paging.Pageable{}, err
		}
		if !po.IsPersonSortProperty(order.Property) {
			return paging.Pageable{}, fmt.Errorf("unsupported sort property %q", order.Property)
		}
		orders = append(orders, order)
	}
	return paging.NewPageable(page, size, orders...), nil
}

func intParam(query url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, nil
}
