package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RichardKnop/casedocs"
)

// SaveDataFile inserts a new data file and sets its generated ID.
func (a *Adapter) SaveDataFile(ctx context.Context, file *casedocs.DataFile) error {
	return a.inTxDo(ctx, func(ctx context.Context, tx *sql.Tx) error {
		query, args := insertDataFileQuery{file: file}.SQL()

		var id int64
		if err := tx.QueryRowContext(ctx, a.rebind(query), args...).Scan(&id); err != nil {
			return fmt.Errorf("insert data file query failed: %w", err)
		}
		file.ID = casedocs.DataFileID(id)

		return nil
	})
}

type insertDataFileQuery struct {
	file *casedocs.DataFile
}

func (q insertDataFileQuery) SQL() (string, []any) {
	query := `
		insert into "data_file" (
			"author_code",
			"file_name",
			"content_type",
			"file_size",
			"file_hash",
			"location",
			"created"
		)
		values (?, ?, ?, ?, ?, ?, ?)
		returning "id"
	`
	args := []any{
		q.file.AuthorCode,
		q.file.FileName,
		q.file.ContentType,
		q.file.Size,
		q.file.Hash,
		q.file.Location,
		q.file.Created,
	}

	return query, args
}

func (a *Adapter) FindDataFile(ctx context.Context, id casedocs.DataFileID) (*casedocs.DataFile, error) {
	var aFile *casedocs.DataFile
	if err := a.inTxDo(ctx, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			select
				f."id",
				f."author_code",
				f."file_name",
				f."content_type",
				f."file_size",
				f."file_hash",
				f."location",
				f."created"
			from "data_file" f
			where f."id" = ?
		`

		stmt, err := tx.PrepareContext(ctx, a.rebind(query))
		if err != nil {
			return fmt.Errorf("prepare find data file statement failed: %w", err)
		}
		defer stmt.Close()

		aFile, err = scanDataFile(stmt.QueryRowContext(ctx, int64(id)))
		return err
	}); err != nil {
		return nil, err
	}

	return aFile, nil
}

func scanDataFile(row Scannable) (*casedocs.DataFile, error) {
	var (
		aFile = new(casedocs.DataFile)
		id    int64
	)

	if err := row.Scan(
		&id,
		&aFile.AuthorCode,
		&aFile.FileName,
		&aFile.ContentType,
		&aFile.Size,
		&aFile.Hash,
		&aFile.Location,
		&aFile.Created,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, casedocs.ErrNotFound
		}
		return nil, fmt.Errorf("scan data file failed: %w", err)
	}

	aFile.ID = casedocs.DataFileID(id)
	aFile.Created = aFile.Created.UTC()

	return aFile, nil
}
