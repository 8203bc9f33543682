// Package businesstype реализует разрешение вида деятельности для генератора журналов.
//
// Ссылка на вид деятельности — размеченный вариант: предустановленный тип
// из статического каталога, пользовательский тип по UID из хранилища,
// либо тип по умолчанию при пустой ссылке. Отсутствие пользовательского типа —
// жесткая ошибка запроса, без тихого отката на тип по умолчанию.
package businesstype

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// ErrNotFound возвращается, когда пользовательский вид деятельности не найден.
var ErrNotFound = errors.New("business type not found")

// RefKind вид ссылки на тип деятельности.
type RefKind int

const (
	// RefDefault пустая ссылка, используется тип по умолчанию.
	RefDefault RefKind = iota
	// RefPredefined ссылка на предустановленный тип из каталога.
	RefPredefined
	// RefCustom ссылка на пользовательский тип по UID.
	RefCustom
)

// Ref размеченная ссылка на вид деятельности.
type Ref struct {
	Kind RefKind
	Name string // название предустановленного типа, для RefPredefined
	UID  string // идентификатор пользовательского типа, для RefCustom
}

// ParseRef классифицирует строковую ссылку из запроса:
// пустая строка — тип по умолчанию, совпадение с каталогом — предустановленный тип,
// всё остальное трактуется как UID пользовательского типа.
func ParseRef(s string) Ref {
	if s == "" {
		return Ref{Kind: RefDefault}
	}
	if _, ok := predefined[s]; ok {
		return Ref{Kind: RefPredefined, Name: s}
	}
	return Ref{Kind: RefCustom, UID: s}
}

// CustomRepository описывает контракт получения пользовательских типов из хранилища.
type CustomRepository interface {
	// GetCustomType возвращает пользовательский тип по UID для пользователя
	// или ErrNotFound, если такого типа нет.
	GetCustomType(ctx context.Context, uid, username string) (*models.CustomBusinessType, error)
}

// Resolver разрешает ссылку на вид деятельности в его описание.
type Resolver struct {
	repo CustomRepository
	log  *slog.Logger
}

// NewResolver создает новый Resolver.
func NewResolver(repo CustomRepository, log *slog.Logger) *Resolver {
	return &Resolver{repo: repo, log: log}
}

// Resolve возвращает описание вида деятельности для ссылки.
// Для RefCustom отсутствие типа или ошибка хранилища прерывают запрос.
func (r *Resolver) Resolve(ctx context.Context, ref Ref, username string) (*models.BusinessType, error) {
	const op = "businesstype.Resolve"

	switch ref.Kind {
	case RefPredefined:
		bt, ok := predefined[ref.Name]
		if !ok {
			return nil, fmt.Errorf("%s: %w: %s", op, ErrNotFound, ref.Name)
		}
		return bt, nil
	case RefCustom:
		custom, err := r.repo.GetCustomType(ctx, ref.UID, username)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%s: %w: %s", op, ErrNotFound, ref.UID)
			}
			return nil, fmt.Errorf("%s: fetch custom type %s: %w", op, ref.UID, err)
		}
		r.log.Info("resolved custom business type",
			slog.String("uid", ref.UID), slog.String("name", custom.DisplayName))
		return custom.Definition(), nil
	default:
		return Default(), nil
	}
}

// Default возвращает вид деятельности по умолчанию.
func Default() *models.BusinessType {
	return predefined[DefaultName]
}
