package controllers

import (
	"context"
	stdhttp "net/http"

	"github.com/bionicotaku/lingo-services-person/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-person/internal/metadata"
	"github.com/bionicotaku/lingo-services-person/internal/models/paging"
	"github.com/bionicotaku/lingo-services-person/internal/models/vo"
	"github.com/bionicotaku/lingo-services-person/internal/services"

	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// 路由对应的 operation 名称，供中间件匹配与日志使用。
const (
	OperationPersonFindPage   = "/person.v1.PersonService/FindPage"
	OperationPersonFindByID   = "/person.v1.PersonService/FindByID"
	OperationPersonCreate     = "/person.v1.PersonService/CreatePerson"
	OperationPersonUpdateByID = "/person.v1.PersonService/UpdateByID"
	OperationPersonDelete     = "/person.v1.PersonService/Delete"
)

// PersonHandler 负责处理 /persons 相关的 HTTP 请求。
type PersonHandler struct {
	*BaseHandler
	svc *services.PersonService
}

// NewPersonHandler 构造人员 Handler。
func NewPersonHandler(svc *services.PersonService, base *BaseHandler) *PersonHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &PersonHandler{BaseHandler: base, svc: svc}
}

// RegisterPersonHTTPServer 将人员路由注册到 Kratos HTTP Server。
func RegisterPersonHTTPServer(s *khttp.Server, h *PersonHandler) {
	r := s.Route("/")
	r.GET("/persons", h.findPage)
	r.POST("/persons", h.createPerson)
	r.GET("/persons/{id}", h.findByID)
	r.PUT("/persons/{id}", h.updateByID)
	r.DELETE("/persons/{id}", h.deleteByID)
}

// FindByID 查询单个人员。
func (h *PersonHandler) FindByID(ctx context.Context, id int64) (*vo.PersonDTO, error) {
	ctx, cancel := h.begin(ctx, HandlerTypeQuery)
	defer cancel()
	return h.svc.FindByID(ctx, id)
}

// FindPage 分页查询人员。
func (h *PersonHandler) FindPage(ctx context.Context, pageable paging.Pageable) (*vo.PersonPage, error) {
	ctx, cancel := h.begin(ctx, HandlerTypeQuery)
	defer cancel()
	return h.svc.FindPage(ctx, pageable)
}

// CreatePerson 新建人员。
func (h *PersonHandler) CreatePerson(ctx context.Context, in *vo.PersonDTO) (*vo.MessageResponseDTO, error) {
	ctx, cancel := h.begin(ctx, HandlerTypeCommand)
	defer cancel()
	return h.svc.CreatePerson(ctx, in)
}

// UpdateByID 更新指定人员。
func (h *PersonHandler) UpdateByID(ctx context.Context, id int64, in *vo.PersonDTO) (*vo.MessageResponseDTO, error) {
	ctx, cancel := h.begin(ctx, HandlerTypeCommand)
	defer cancel()
	return h.svc.UpdateByID(ctx, id, in)
}

// Delete 删除指定人员。
func (h *PersonHandler) Delete(ctx context.Context, id int64) error {
	ctx, cancel := h.begin(ctx, HandlerTypeCommand)
	defer cancel()
	return h.svc.Delete(ctx, id)
}

// begin 解析请求元信息并绑定超时。
func (h *PersonHandler) begin(ctx context.Context, kind HandlerType) (context.Context, context.CancelFunc) {
	meta := h.ExtractMetadata(ctx)
	ctx, cancel := h.WithTimeout(ctx, kind)
	return metadata.Inject(ctx, meta), cancel
}

func (h *PersonHandler) findPage(ctx khttp.Context) error {
	pageable, err := dto.ParsePageable(ctx.Query())
	if err != nil {
		return services.NewInvalidArgumentError("%v", err)
	}
	khttp.SetOperation(ctx, OperationPersonFindPage)
	handler := ctx.Middleware(func(c context.Context, req any) (any, error) {
		return h.FindPage(c, req.(paging.Pageable))
	})
	out, err := handler(ctx, pageable)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, out)
}

func (h *PersonHandler) findByID(ctx khttp.Context) error {
	id, err := dto.ParsePersonID(ctx.Vars().Get("id"))
	if err != nil {
		return services.NewInvalidArgumentError("%v", err)
	}
	khttp.SetOperation(ctx, OperationPersonFindByID)
	handler := ctx.Middleware(func(c context.Context, req any) (any, error) {
		return h.FindByID(c, req.(int64))
	})
	out, err := handler(ctx, id)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, out)
}

func (h *PersonHandler) createPerson(ctx khttp.Context) error {
	var in vo.PersonDTO
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	khttp.SetOperation(ctx, OperationPersonCreate)
	handler := ctx.Middleware(func(c context.Context, req any) (any, error) {
		return h.CreatePerson(c, req.(*vo.PersonDTO))
	})
	out, err := handler(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusCreated, out)
}

func (h *PersonHandler) updateByID(ctx khttp.Context) error {
	id, err := dto.ParsePersonID(ctx.Vars().Get("id"))
	if err != nil {
		return services.NewInvalidArgumentError("%v", err)
	}
	var in vo.PersonDTO
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	khttp.SetOperation(ctx, OperationPersonUpdateByID)
	handler := ctx.Middleware(func(c context.Context, req any) (any, error) {
		return h.UpdateByID(c, id, req.(*vo.PersonDTO))
	})
	out, err := handler(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, out)
}

func (h *PersonHandler) deleteByID(ctx khttp.Context) error {
	id, err := dto.ParsePersonID(ctx.Vars().Get("id"))
	if err != nil {
		return services.NewInvalidArgumentError("%v", err)
	}
	khttp.SetOperation(ctx, OperationPersonDelete)
	handler := ctx.Middleware(func(c context.Context, req any) (any, error) {
		return nil, h.Delete(c, req.(int64))
	})
	if _, err := handler(ctx, id); err != nil {
		return err
	}
	// 204 无响应体，直接写状态码。
	ctx.Response().WriteHeader(stdhttp.StatusNoContent)
	return nil
}
