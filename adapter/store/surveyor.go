package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RichardKnop/casedocs/pkg/authz"
)

func (a *Adapter) SaveSurveyor(ctx context.Context, principal authz.Principal) error {
	return a.inTxDo(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := a.execQuery(ctx, tx, insertSurveyorQuery{principal}); err != nil {
			return fmt.Errorf("exec insert surveyor query failed: %w", err)
		}
		return nil
	})
}

type insertSurveyorQuery struct {
	authz.Principal
}

func (q insertSurveyorQuery) SQL() (string, []any) {
	query := `
		insert into "surveyor" (
			"id",
			"code",
			"name"
		)
		values (?, ?, ?)
		on conflict("id") do update set
			"name"=excluded."name",
			"updated"=current_timestamp
	`
	args := []any{
		q.ID(),
		q.Code(),
		sql.NullString{String: q.Name(), Valid: q.Name() != ""},
	}

	return query, args
}
