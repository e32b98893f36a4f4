// Package services 编排应用用例：事务边界、错误映射与 DTO 转换。
package services

import (
	"github.com/bionicotaku/lingo-services-person/internal/models/mapper"
	"github.com/bionicotaku/lingo-services-person/internal/repositories"

	"github.com/google/wire"
)

// ProviderSet 暴露服务层构造器，并将具体仓储绑定到 PersonRepo 接口。
var ProviderSet = wire.NewSet(
	mapper.NewPersonMapper,
	NewPersonService,
	wire.Bind(new(PersonRepo), new(*repositories.PersonRepository)),
)
