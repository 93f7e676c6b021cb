package casedocs

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/RichardKnop/casedocs/pkg/authz"
)

const (
	MB          = 1 << 20
	MaxFileSize = 20 * MB
)

// DataFileID identifies a data file record. Zero and negative values never
// match a stored record.
type DataFileID int64

type DataFile struct {
	ID          DataFileID
	AuthorCode  SurveyorCode
	FileName    string
	ContentType string
	Size        int64
	Hash        string
	Location    string // object name in FileStorage
	Created     time.Time
}

// CreateDataFile stores uploaded contents and records them as a data file.
func (s *Service) CreateDataFile(ctx context.Context, principal authz.Principal, fileName string, contents io.Reader) (*DataFile, error) {
	fileName = path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), `\`, "/"))
	if fileName == "" || fileName == "." || fileName == ".." || fileName == "/" {
		return nil, fmt.Errorf("%w: file name is required", ErrInvalidArgument)
	}

	tempFile, err := os.CreateTemp("", "datafile*")
	if err != nil {
		return nil, fmt.Errorf("error creating temp file: %w", err)
	}
	defer func() {
		tempFile.Close()
		if err := os.Remove(tempFile.Name()); err != nil {
			s.logger.Sugar().With("location", tempFile.Name(), "error", err).Warn("error removing temp file")
		}
	}()

	hashWriter := sha256.New()
	fileSize, err := io.Copy(tempFile, io.TeeReader(io.LimitReader(contents, MaxFileSize+1), hashWriter))
	if err != nil {
		return nil, fmt.Errorf("error copying to temp file: %w", err)
	}
	if fileSize > MaxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidArgument, MaxFileSize)
	}

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking temp file to start: %w", err)
	}
	contentType, err := detectContentType(tempFile)
	if err != nil {
		return nil, fmt.Errorf("error detecting content type: %w", err)
	}
	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking temp file to start: %w", err)
	}

	hash := hex.EncodeToString(hashWriter.Sum(nil))
	aFile := &DataFile{
		AuthorCode:  SurveyorCode(principal.Code()),
		FileName:    fileName,
		ContentType: contentType,
		Size:        fileSize,
		Hash:        hash,
		Location:    path.Join("lists", hash, fileName),
		Created:     s.now(),
	}

	s.logger.Sugar().With(
		"file_name", aFile.FileName,
		"size", aFile.Size,
		"location", aFile.Location,
	).Info("uploading data file")

	// Every upload must land in its own hash directory.
	if path.Dir(aFile.Location) != path.Join("lists", hash) {
		return nil, fmt.Errorf("%w: invalid file name %q", ErrInvalidArgument, fileName)
	}

	// Identical contents under the same name share an object, which must
	// survive a failed save of the duplicate.
	existed, err := s.storage.Exists(ctx, aFile.Location)
	if err != nil {
		return nil, fmt.Errorf("error checking file contents: %w", err)
	}

	if err := s.storage.Write(ctx, aFile.Location, tempFile); err != nil {
		return nil, fmt.Errorf("error writing file contents: %w", err)
	}

	if err := s.store.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		if err := s.store.SaveSurveyor(ctx, principal); err != nil {
			return fmt.Errorf("error saving surveyor: %w", err)
		}

		if err := s.store.SaveDataFile(ctx, aFile); err != nil {
			return fmt.Errorf("error saving data file: %w", err)
		}

		return nil
	}); err != nil {
		if !existed {
			s.removeDataFileContents(ctx, aFile.Location)
		}
		return nil, err
	}

	return aFile, nil
}

func (s *Service) removeDataFileContents(ctx context.Context, location string) {
	if err := s.storage.Delete(ctx, location); err != nil {
		s.logger.Sugar().With(
			"location", location,
			"error", err,
		).Error("error removing orphaned file contents")
	}
}

// FindDataFile returns the data file record without opening its contents.
func (s *Service) FindDataFile(ctx context.Context, id *DataFileID) (*DataFile, error) {
	key := DataFileID(-1)
	if id != nil {
		key = *id
	}
	if key <= 0 {
		return nil, ErrNotFound
	}

	var aFile *DataFile
	if err := s.store.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		var err error
		aFile, err = s.store.FindDataFile(ctx, key)
		return err
	}); err != nil {
		return nil, err
	}
	return aFile, nil
}

// OpenDataFile looks up a data file record and opens its contents from the
// configured storage. A nil id never matches.
func (s *Service) OpenDataFile(ctx context.Context, id *DataFileID) (*DataFile, io.ReadSeekCloser, error) {
	aFile, err := s.FindDataFile(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	exists, err := s.storage.Exists(ctx, aFile.Location)
	if err != nil {
		return nil, nil, fmt.Errorf("error checking file contents: %w", err)
	}
	if !exists {
		s.logger.Sugar().With(
			"id", aFile.ID,
			"location", aFile.Location,
		).Warn("data file contents missing from storage")
		return nil, nil, fmt.Errorf("data file %d contents: %w", aFile.ID, ErrNotFound)
	}

	contents, err := s.storage.Read(ctx, aFile.Location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("data file %d contents: %w", aFile.ID, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("error opening file contents: %w", err)
	}

	return aFile, contents, nil
}

func detectContentType(reader io.Reader) (string, error) {
	// At most the first 512 bytes of data are used:
	// https://golang.org/src/net/http/sniff.go?s=646:688#L11
	buff := make([]byte, 512)

	bytesRead, err := io.ReadFull(reader, buff)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}

	// Slice to remove fill-up zero values which cause a wrong content type detection
	// for files smaller than 512 bytes.
	buff = buff[:bytesRead]

	return http.DetectContentType(buff), nil
}
