// Package mapper 负责领域实体与传输对象之间的双向转换。
package mapper

import (
	"github.com/bionicotaku/lingo-services-person/internal/models/po"
	"github.com/bionicotaku/lingo-services-person/internal/models/vo"
)

// PersonMapper 在 po.Person 与 vo.PersonDTO 之间做字段拷贝，无内部状态。
type PersonMapper struct{}

// NewPersonMapper 构造 PersonMapper，供 Wire 注入。
func NewPersonMapper() *PersonMapper {
	return &PersonMapper{}
}

// ToDTO 将实体转换为传输对象。nil 输入返回 nil。
func (PersonMapper) ToDTO(person *po.Person) *vo.PersonDTO {
	if person == nil {
		return nil
	}
	return &vo.PersonDTO{
		ID:    person.ID,
		Name:  person.Name,
		Age:   person.Age,
		Email: cloneString(person.Email),
	}
}

// ToModel 将传输对象转换为实体，不复制 ID。
func (PersonMapper) ToModel(dto *vo.PersonDTO) *po.Person {
	if dto == nil {
		return nil
	}
	return &po.Person{
		Name:  dto.Name,
		Age:   dto.Age,
		Email: cloneString(dto.Email),
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
