// Package po 定义面向持久化的数据对象（Persistent Objects），由 Repository 层使用。
// PO 对象映射数据库表结构，不直接暴露给上层业务逻辑。
package po

import "time"

// Person 表示 person.persons 表的数据库实体。
type Person struct {
	ID        int64     // 主键，由数据库 bigserial 生成，写入后不可变
	Name      string    // 姓名
	Age       int32     // 年龄
	Email     *string   // 邮箱，可为空
	CreatedAt time.Time // 创建时间（数据库默认 now()）
	UpdatedAt time.Time // 更新时间（每次写入刷新）
}

// IsPersisted 判断实体是否已经落库（拥有数据库分配的主键）。
func (p *Person) IsPersisted() bool {
	return p != nil && p.ID > 0
}

// PersonSortProperties 列出允许作为分页排序键的字段名。
var PersonSortProperties = []string{"id", "name", "age", "email", "created_at"}

// IsPersonSortProperty 判断字段是否可用于排序。
func IsPersonSortProperty(property string) bool {
	for _, p := range PersonSortProperties {
		if p == property {
			return true
		}
	}
	return false
}
