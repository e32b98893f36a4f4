// Package repositories 提供数据访问层实现，负责与 PostgreSQL 交互。
package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bionicotaku/lingo-services-person/internal/models/paging"
	"github.com/bionicotaku/lingo-services-person/internal/models/po"
	"github.com/bionicotaku/lingo-services-person/internal/repositories/mappers"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrPersonNotFound 表示目标人员记录不存在。
	ErrPersonNotFound = errors.New("person not found")
	// ErrDataIntegrityViolation 表示写入违反了数据库完整性约束（如仍被外键引用）。
	ErrDataIntegrityViolation = errors.New("data integrity violation")
)

// PostgreSQL SQLSTATE，见 https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// 排序字段 → 列名；与 po.PersonSortProperties 保持一致，未列出的字段被忽略。
var sortableColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"age":        "age",
	"email":      "email",
	"created_at": "created_at",
}

// dbtx 是 pgxpool.Pool 与 pgx.Tx 的公共子集。
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PersonRepository 封装 person.persons 表的访问逻辑。
// 查询失败由连接池上的 pgx tracer 与服务层统一记录日志，这里只包装错误。
type PersonRepository struct {
	db *pgxpool.Pool
}

// NewPersonRepository 构造 PersonRepository。
func NewPersonRepository(db *pgxpool.Pool) *PersonRepository {
	return &PersonRepository{db: db}
}

// conn 在事务内返回 sess.Tx()，否则回落到连接池。
func (r *PersonRepository) conn(sess txmanager.Session) dbtx {
	if sess != nil {
		if tx := sess.Tx(); tx != nil {
			return tx
		}
	}
	return r.db
}

// FindByID 根据主键查询人员，不存在时返回 ErrPersonNotFound。
func (r *PersonRepository) FindByID(ctx context.Context, sess txmanager.Session, id int64) (*po.Person, error) {
	query := `SELECT ` + mappers.PersonColumns + ` FROM person.persons WHERE id = $1`

	var row mappers.PersonRow
	if err := r.conn(sess).QueryRow(ctx, query, id).Scan(row.ScanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("find person %d: %w", id, err)
	}
	return mappers.PersonFromRow(row), nil
}

// FindAll 按分页与排序规则查询一页人员，并返回总记录数。
func (r *PersonRepository) FindAll(ctx context.Context, sess txmanager.Session, pageable paging.Pageable) (paging.Page[*po.Person], error) {
	db := r.conn(sess)

	var total int64
	if err := db.QueryRow(ctx, `SELECT count(*) FROM person.persons`).Scan(&total); err != nil {
		return paging.Page[*po.Person]{}, fmt.Errorf("count persons: %w", err)
	}

	query := `SELECT ` + mappers.PersonColumns + ` FROM person.persons ORDER BY ` +
		orderByClause(pageable.Sort) + ` LIMIT $1 OFFSET $2`
	rows, err := db.Query(ctx, query, pageable.Size, pageable.Offset())
	if err != nil {
		return paging.Page[*po.Person]{}, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	items := make([]*po.Person, 0, pageable.Size)
	for rows.Next() {
		var row mappers.PersonRow
		if err := rows.Scan(row.ScanTargets()...); err != nil {
			return paging.Page[*po.Person]{}, fmt.Errorf("scan person: %w", err)
		}
		items = append(items, mappers.PersonFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return paging.Page[*po.Person]{}, fmt.Errorf("iterate persons: %w", err)
	}

	return paging.NewPage(items, pageable, total), nil
}

// Save 持久化实体：ID 为 0 时插入并回填数据库生成的主键，否则按 ID 覆盖更新。
// 更新目标不存在时返回 ErrPersonNotFound。
func (r *PersonRepository) Save(ctx context.Context, sess txmanager.Session, person *po.Person) (*po.Person, error) {
	if person == nil {
		return nil, fmt.Errorf("save person: nil entity")
	}
	if person.IsPersisted() {
		return r.update(ctx, sess, person)
	}
	return r.insert(ctx, sess, person)
}

func (r *PersonRepository) insert(ctx context.Context, sess txmanager.Session, person *po.Person) (*po.Person, error) {
	query := `
		INSERT INTO person.persons (name, age, email)
		VALUES ($1, $2, $3)
		RETURNING ` + mappers.PersonColumns

	var row mappers.PersonRow
	err := r.conn(sess).QueryRow(ctx, query,
		person.Name,
		person.Age,
		mappers.ToPgText(person.Email),
	).Scan(row.ScanTargets()...)
	if err != nil {
		return nil, fmt.Errorf("insert person: %w", translateWriteError(err))
	}
	return mappers.PersonFromRow(row), nil
}

func (r *PersonRepository) update(ctx context.Context, sess txmanager.Session, person *po.Person) (*po.Person, error) {
	query := `
		UPDATE person.persons
		SET name = $2, age = $3, email = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + mappers.PersonColumns

	var row mappers.PersonRow
	err := r.conn(sess).QueryRow(ctx, query,
		person.ID,
		person.Name,
		person.Age,
		mappers.ToPgText(person.Email),
	).Scan(row.ScanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("update person %d: %w", person.ID, translateWriteError(err))
	}
	return mappers.PersonFromRow(row), nil
}

// DeleteByID 删除指定人员。记录不存在返回 ErrPersonNotFound，
// 仍被其他表引用时返回包装了 ErrDataIntegrityViolation 的错误。
func (r *PersonRepository) DeleteByID(ctx context.Context, sess txmanager.Session, id int64) error {
	tag, err := r.conn(sess).Exec(ctx, `DELETE FROM person.persons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete person %d: %w", id, translateWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrPersonNotFound
	}
	return nil
}

// translateWriteError 将完整性约束类 PgError 归并为 ErrDataIntegrityViolation。
func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgForeignKeyViolation, pgNotNullViolation, pgCheckViolation:
		return fmt.Errorf("%w: %s (%s)", ErrDataIntegrityViolation, pgErr.Message, pgErr.ConstraintName)
	default:
		return err
	}
}

func orderByClause(orders []paging.Order) string {
	clauses := make([]string, 0, len(orders)+1)
	hasID := false
	for _, o := range orders {
		column, ok := sortableColumns[o.Property]
		if !ok {
			continue
		}
		dir := "ASC"
		if o.Direction == paging.DESC {
			dir = "DESC"
		}
		clauses = append(clauses, column+" "+dir)
		if column == "id" {
			hasID = true
		}
	}
	// id 作为兜底排序键，保证翻页稳定。
	if !hasID {
		clauses = append(clauses, "id ASC")
	}
	return strings.Join(clauses, ", ")
}
