package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/RichardKnop/casedocs"
)

func (a *Adapter) SaveDocuments(ctx context.Context, documents ...casedocs.Document) error {
	if len(documents) < 1 {
		return nil
	}

	return a.inTxDo(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// Five parameters per row.
		for chunk := range slices.Chunk(documents, maxParamsPerQuery/5) {
			if err := a.execQueryCheckRowsAffected(ctx, tx, insertDocumentsQuery{documents: chunk}); err != nil {
				return fmt.Errorf("exec insert documents query failed: %w", err)
			}
		}
		return nil
	})
}

type insertDocumentsQuery struct {
	documents []casedocs.Document
}

func (q insertDocumentsQuery) SQL() (string, []any) {
	if len(q.documents) == 0 {
		return "", nil
	}

	query := `
		insert into "case_document" (
			"id",
			"case_ref",
			"title",
			"file_name",
			"created"
		)
		values `
	args := make([]any, 0, len(q.documents)*5)
	for i, aDocument := range q.documents {
		if i > 0 {
			query += `, `
		}
		query += `(?, ?, ?, ?, ?)`
		aDocument = aDocument.Sanitize()
		args = append(
			args,
			aDocument.ID,
			aDocument.CaseRef,
			aDocument.Title,
			aDocument.FileName,
			aDocument.Created,
		)
	}
	query += `
		on conflict("id") do update set
			"case_ref"=excluded."case_ref",
			"title"=excluded."title",
			"file_name"=excluded."file_name"
	`

	return query, args
}

// ListDocuments returns the documents of all refs ordered by case ref, then
// creation time.
func (a *Adapter) ListDocuments(ctx context.Context, refs ...casedocs.CaseRef) ([]casedocs.Document, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	var documents []casedocs.Document
	if err := a.inTxDo(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for chunk := range slices.Chunk(refs, maxParamsPerQuery) {
			query, args := selectDocumentsQuery{refs: chunk}.SQL()

			rows, err := tx.QueryContext(ctx, a.rebind(query), args...)
			if err != nil {
				return fmt.Errorf("select documents query failed: %w", err)
			}

			for rows.Next() {
				aDocument, err := scanDocument(rows)
				if err != nil {
					rows.Close()
					return err
				}
				documents = append(documents, aDocument)
			}
			if err := rows.Close(); err != nil {
				return err
			}
			if err := rows.Err(); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return documents, nil
}

type selectDocumentsQuery struct {
	refs []casedocs.CaseRef
}

func (q selectDocumentsQuery) SQL() (string, []any) {
	query := `
		select
			d."id",
			d."case_ref",
			d."title",
			d."file_name",
			d."created"
		from "case_document" d
		where d."case_ref" in (` + placeholders(len(q.refs)) + `)
		order by d."case_ref", d."created", d."id"
	`
	args := make([]any, 0, len(q.refs))
	for _, ref := range q.refs {
		args = append(args, ref)
	}

	return query, args
}

func scanDocument(row Scannable) (casedocs.Document, error) {
	var aDocument casedocs.Document

	if err := row.Scan(
		&aDocument.ID,
		&aDocument.CaseRef,
		&aDocument.Title,
		&aDocument.FileName,
		&aDocument.Created,
	); err != nil {
		return casedocs.Document{}, fmt.Errorf("scan document failed: %w", err)
	}

	aDocument.Created = aDocument.Created.UTC()

	return aDocument, nil
}
