package authz

import (
	"strings"

	"github.com/gofrs/uuid/v5"
)

type ID struct{ uuid.UUID }

// surveyorNamespace seeds deterministic principal IDs derived from surveyor codes.
var surveyorNamespace = uuid.Must(uuid.FromString("6f1c2d9e-3b1a-4c55-9a7e-0c1d2e3f4a5b"))

// IDFromCode returns the stable principal ID for a surveyor code.
func IDFromCode(code string) ID {
	return ID{uuid.NewV5(surveyorNamespace, code)}
}

type Principal interface {
	ID() ID
	Code() string
	Name() string
}

type surveyor struct {
	id   ID
	code string
	name string
}

func (s surveyor) ID() ID {
	return s.id
}

func (s surveyor) Code() string {
	return s.code
}

func (s surveyor) Name() string {
	return s.name
}

func New(id ID, code, name string) Principal {
	return surveyor{id: id, code: code, name: name}
}

// NewSurveyor builds a principal whose ID is derived from its code.
func NewSurveyor(code, name string) Principal {
	return New(IDFromCode(code), code, name)
}

type Partial interface {
	SQL() (string, []any)
}

var NilPartial Partial = nilPartial{}

type nilPartial struct{}

func (p nilPartial) SQL() (string, []any) {
	return "", nil
}

type filterPartial struct {
	filterBy []string
	values   []any
}

func (p filterPartial) SQL() (string, []any) {
	if len(p.filterBy) == 0 {
		return "", nil
	}
	if len(p.filterBy) != len(p.values) {
		return "", nil
	}
	clauses := make([]string, 0, len(p.filterBy))
	args := make([]any, 0, len(p.values))
	for i, field := range p.filterBy {
		clauses = append(clauses, field+" = ?")
		args = append(args, p.values[i])
	}
	return "(" + strings.Join(clauses, " AND ") + ")", args
}

func FilterBy(key string, value any) filterPartial {
	return filterPartial{filterBy: []string{key}, values: []any{value}}
}

func (p filterPartial) And(key string, value any) Partial {
	p.filterBy = append(p.filterBy, key)
	p.values = append(p.values, value)
	return p
}

// OwnedBy scopes a query to rows assigned to the principal's surveyor code.
func OwnedBy(principal Principal) Partial {
	return FilterBy(`"surveyor_code"`, principal.Code())
}
