package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bionicotaku/lingo-services-person/internal/models/mapper"
	"github.com/bionicotaku/lingo-services-person/internal/models/paging"
	"github.com/bionicotaku/lingo-services-person/internal/models/po"
	"github.com/bionicotaku/lingo-services-person/internal/models/vo"
	"github.com/bionicotaku/lingo-services-person/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

const (
	messageCreated = "Created person with ID "
	messageUpdated = "Updated person with ID "
)

// PersonRepo 定义 Person 实体的持久化能力。
type PersonRepo interface {
	FindByID(ctx context.Context, sess txmanager.Session, id int64) (*po.Person, error)
	FindAll(ctx context.Context, sess txmanager.Session, pageable paging.Pageable) (paging.Page[*po.Person], error)
	Save(ctx context.Context, sess txmanager.Session, person *po.Person) (*po.Person, error)
	DeleteByID(ctx context.Context, sess txmanager.Session, id int64) error
}

// PersonService 封装人员的增删改查用例。
// 所有操作都在事务内执行，分页查询使用只读事务。
type PersonService struct {
	repo      PersonRepo
	mapper    *mapper.PersonMapper
	txManager txmanager.Manager
	log       *log.Helper
}

// NewPersonService 构造人员服务。
func NewPersonService(repo PersonRepo, m *mapper.PersonMapper, tx txmanager.Manager, logger log.Logger) *PersonService {
	if m == nil {
		m = mapper.NewPersonMapper()
	}
	return &PersonService{
		repo:      repo,
		mapper:    m,
		txManager: tx,
		log:       log.NewHelper(logger),
	}
}

// FindByID 查询单个人员。
func (s *PersonService) FindByID(ctx context.Context, id int64) (*vo.PersonDTO, error) {
	var person *po.Person
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var err error
		person, err = s.verifyIfExists(txCtx, sess, id)
		return err
	})
	if err != nil {
		return nil, s.translate(ctx, "find person", id, err)
	}
	return s.mapper.ToDTO(person), nil
}

// FindPage 分页查询人员列表；无数据时返回空页。
func (s *PersonService) FindPage(ctx context.Context, pageable paging.Pageable) (*vo.PersonPage, error) {
	var page paging.Page[*po.Person]
	err := s.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var err error
		page, err = s.repo.FindAll(txCtx, sess, pageable)
		return err
	})
	if err != nil {
		return nil, s.translate(ctx, "list persons", 0, err)
	}

	result := paging.Map(page, s.mapper.ToDTO)
	s.log.WithContext(ctx).Debugf("FindPage: page=%d size=%d returned=%d total=%d", result.Page, result.Size, len(result.Content), result.TotalElements)
	return &result, nil
}

// CreatePerson 新建人员，入参中的 ID 会被忽略。
func (s *PersonService) CreatePerson(ctx context.Context, dto *vo.PersonDTO) (*vo.MessageResponseDTO, error) {
	if dto == nil {
		return nil, NewInvalidArgumentError("person payload is required")
	}
	entity := s.mapper.ToModel(dto)

	var saved *po.Person
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var err error
		saved, err = s.repo.Save(txCtx, sess, entity)
		return err
	})
	if err != nil {
		return nil, s.translate(ctx, "create person", 0, err)
	}

	s.log.WithContext(ctx).Infof("person created: id=%d", saved.ID)
	return createMessageResponse(saved.ID, messageCreated), nil
}

// UpdateByID 覆盖更新指定人员。实体 ID 取自路径参数，忽略请求体中的 ID。
func (s *PersonService) UpdateByID(ctx context.Context, id int64, dto *vo.PersonDTO) (*vo.MessageResponseDTO, error) {
	if dto == nil {
		return nil, NewInvalidArgumentError("person payload is required")
	}

	var saved *po.Person
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		if _, err := s.verifyIfExists(txCtx, sess, id); err != nil {
			return err
		}
		entity := s.mapper.ToModel(dto)
		entity.ID = id
		var err error
		saved, err = s.repo.Save(txCtx, sess, entity)
		return err
	})
	if err != nil {
		return nil, s.translate(ctx, "update person", id, err)
	}

	s.log.WithContext(ctx).Infof("person updated: id=%d", saved.ID)
	return createMessageResponse(saved.ID, messageUpdated), nil
}

// Delete 删除指定人员。仍被其他记录引用时返回数据完整性错误。
func (s *PersonService) Delete(ctx context.Context, id int64) error {
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		if _, err := s.verifyIfExists(txCtx, sess, id); err != nil {
			return err
		}
		return s.repo.DeleteByID(txCtx, sess, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDataIntegrityViolation) {
			s.log.WithContext(ctx).Warnf("delete person rejected by constraint: id=%d err=%v", id, err)
			return NewDataIntegrityError(id).WithCause(err)
		}
		return s.translate(ctx, "delete person", id, err)
	}

	s.log.WithContext(ctx).Infof("person deleted: id=%d", id)
	return nil
}

func (s *PersonService) verifyIfExists(ctx context.Context, sess txmanager.Session, id int64) (*po.Person, error) {
	return s.repo.FindByID(ctx, sess, id)
}

// translate 将仓储层错误映射为带原因码的 kratos 错误。
func (s *PersonService) translate(ctx context.Context, op string, id int64, err error) error {
	switch {
	case errors.Is(err, repositories.ErrPersonNotFound):
		return ErrPersonNotFound
	case errors.Is(err, context.DeadlineExceeded):
		s.log.WithContext(ctx).Warnf("%s timeout: id=%d", op, id)
		return errors.GatewayTimeout(ReasonTimeout, op+" timeout")
	}
	var se *errors.Error
	if errors.As(err, &se) {
		return se
	}
	s.log.WithContext(ctx).Errorf("%s failed: id=%d err=%v", op, id, err)
	return errors.InternalServer(ReasonInternal, op+" failed").WithCause(fmt.Errorf("%s: %w", op, err))
}

func createMessageResponse(id int64, prefix string) *vo.MessageResponseDTO {
	return &vo.MessageResponseDTO{Message: prefix + strconv.FormatInt(id, 10)}
}
