package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/pkg/authz"
)

func (a *Adapter) SaveCases(ctx context.Context, cases ...*casedocs.Case) error {
	if len(cases) < 1 {
		return nil
	}

	// A single upsert statement cannot touch the same row twice, last write wins.
	var (
		unique = make([]*casedocs.Case, 0, len(cases))
		index  = make(map[casedocs.CaseRef]int, len(cases))
	)
	for _, aCase := range cases {
		if i, ok := index[aCase.Ref]; ok {
			unique[i] = aCase
			continue
		}
		index[aCase.Ref] = len(unique)
		unique = append(unique, aCase)
	}

	return a.inTxDo(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// Six parameters per row.
		for chunk := range slices.Chunk(unique, maxParamsPerQuery/6) {
			if err := a.execQueryCheckRowsAffected(ctx, tx, insertCasesQuery{cases: chunk}); err != nil {
				return fmt.Errorf("exec insert cases query failed: %w", err)
			}
		}
		return nil
	})
}

type insertCasesQuery struct {
	cases []*casedocs.Case
}

func (q insertCasesQuery) SQL() (string, []any) {
	if len(q.cases) == 0 {
		return "", nil
	}

	query := `
		insert into "case_record" (
			"ref",
			"surveyor_code",
			"address",
			"status",
			"created",
			"updated"
		)
		values (?, ?, ?, ?, ?, ?)`
	args := make([]any, 0, len(q.cases)*6)
	args = append(
		args,
		q.cases[0].Ref,
		q.cases[0].SurveyorCode,
		q.cases[0].Address,
		q.cases[0].Status,
		q.cases[0].Created,
		q.cases[0].Updated,
	)
	for _, aCase := range q.cases[1:] {
		query += `, (?, ?, ?, ?, ?, ?)`
		args = append(
			args,
			aCase.Ref,
			aCase.SurveyorCode,
			aCase.Address,
			aCase.Status,
			aCase.Created,
			aCase.Updated,
		)
	}
	query += `
		on conflict("ref") do update set
			"surveyor_code"=excluded."surveyor_code",
			"address"=excluded."address",
			"status"=excluded."status",
			"updated"=excluded."updated"
	`

	return query, args
}

const selectCaseColumns = `
		select
			c."ref",
			c."surveyor_code",
			c."address",
			c."status",
			c."created",
			c."updated"
		from "case_record" c
`

func (a *Adapter) FindCase(ctx context.Context, ref casedocs.CaseRef) (*casedocs.Case, error) {
	var aCase *casedocs.Case
	if err := a.inTxDo(ctx, func(ctx context.Context, tx *sql.Tx) error {
		query := selectCaseColumns + ` where c."ref" = ?`

		row := tx.QueryRowContext(ctx, a.rebind(query), ref)
		var err error
		aCase, err = scanCase(row)
		return err
	}); err != nil {
		return nil, err
	}

	return aCase, nil
}

// FindCases loads every existing case among refs, one query per maxParamsPerQuery refs.
func (a *Adapter) FindCases(ctx context.Context, refs ...casedocs.CaseRef) ([]*casedocs.Case, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	var cases []*casedocs.Case
	if err := a.inTxDo(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for chunk := range slices.Chunk(refs, maxParamsPerQuery) {
			query, args := findCasesQuery{refs: chunk}.SQL()

			found, err := a.queryCases(ctx, tx, query, args)
			if err != nil {
				return fmt.Errorf("find cases query failed: %w", err)
			}
			cases = append(cases, found...)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return cases, nil
}

type findCasesQuery struct {
	refs []casedocs.CaseRef
}

func (q findCasesQuery) SQL() (string, []any) {
	args := make([]any, 0, len(q.refs))
	for _, ref := range q.refs {
		args = append(args, ref)
	}
	return selectCaseColumns + ` where c."ref" in (` + placeholders(len(q.refs)) + `)`, args
}

func (a *Adapter) ListCases(ctx context.Context, filter casedocs.CaseFilter, partial authz.Partial, params casedocs.SortParams) ([]*casedocs.Case, error) {
	var cases []*casedocs.Case
	if err := a.inTxDo(ctx, func(ctx context.Context, tx *sql.Tx) error {
		query, args := selectCasesQuery{
			filter:  filter,
			partial: partial,
			params:  params,
		}.SQL()

		var err error
		cases, err = a.queryCases(ctx, tx, query, args)
		if err != nil {
			return fmt.Errorf("select cases query failed: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return cases, nil
}

type selectCasesQuery struct {
	filter  casedocs.CaseFilter
	partial authz.Partial
	params  casedocs.SortParams
}

func (q selectCasesQuery) SQL() (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if q.filter.Status != "" {
		clauses = append(clauses, `c."status" = ?`)
		args = append(args, q.filter.Status)
	}

	if !q.filter.UpdatedBefore.IsZero() {
		clauses = append(clauses, `c."updated" < ?`)
		args = append(args, q.filter.UpdatedBefore)
	}

	partial := q.partial
	if partial == nil {
		partial = authz.NilPartial
	}
	partialClauses, partialArgs := partial.SQL()

	where, args := whereClause(clauses, args, partialClauses, partialArgs)

	return selectCaseColumns + where + q.params.SQL(), args
}

func (a *Adapter) queryCases(ctx context.Context, tx *sql.Tx, query string, args []any) ([]*casedocs.Case, error) {
	rows, err := tx.QueryContext(ctx, a.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []*casedocs.Case
	for rows.Next() {
		aCase, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, aCase)
	}

	return cases, rows.Err()
}

func scanCase(row Scannable) (*casedocs.Case, error) {
	aCase := new(casedocs.Case)

	if err := row.Scan(
		&aCase.Ref,
		&aCase.SurveyorCode,
		&aCase.Address,
		&aCase.Status,
		&aCase.Created,
		&aCase.Updated,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, casedocs.ErrNotFound
		}
		return nil, fmt.Errorf("scan case failed: %w", err)
	}

	aCase.Created = aCase.Created.UTC()
	aCase.Updated = aCase.Updated.UTC()

	return aCase, nil
}
