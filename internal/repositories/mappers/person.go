// Package mappers 提供仓储层的模型转换工具，将存储层结果映射为领域实体。
package mappers

import (
	"github.com/bionicotaku/lingo-services-person/internal/models/po"

	"github.com/jackc/pgx/v5/pgtype"
)

// PersonRow 对应 person.persons 的一行查询结果，可空列使用 pgtype 承载。
type PersonRow struct {
	ID        int64
	Name      string
	Age       int32
	Email     pgtype.Text
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

// ScanTargets 返回与 PersonColumns 顺序一致的扫描目标。
func (r *PersonRow) ScanTargets() []any {
	return []any{&r.ID, &r.Name, &r.Age, &r.Email, &r.CreatedAt, &r.UpdatedAt}
}

// PersonColumns 是所有查询共用的列清单。
const PersonColumns = "id, name, age, email, created_at, updated_at"

// PersonFromRow 将查询行转换为领域实体 po.Person。
func PersonFromRow(row PersonRow) *po.Person {
	return &po.Person{
		ID:        row.ID,
		Name:      row.Name,
		Age:       row.Age,
		Email:     textPtr(row.Email),
		CreatedAt: mustTimestamp(row.CreatedAt),
		UpdatedAt: mustTimestamp(row.UpdatedAt),
	}
}
