package store

import (
	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/casedocstest"
)

func (s *StoreTestSuite) TestSaveAndFindDataFile() {
	ctx, cancel := testContext()
	defer cancel()

	var (
		file1 = gen.DataFile(casedocstest.WithDataFileAuthor("S01"))
		file2 = gen.DataFile(casedocstest.WithDataFileAuthor("S02"))
	)

	s.Require().NoError(s.adapter.SaveDataFile(ctx, file1), "error saving data file")
	s.Require().NoError(s.adapter.SaveDataFile(ctx, file2), "error saving data file")
	s.Positive(int64(file1.ID))
	s.Greater(file2.ID, file1.ID)

	s.Run("Find existing data file", func() {
		savedFile, err := s.adapter.FindDataFile(ctx, file1.ID)
		s.Require().NoError(err)
		s.Equal(file1, savedFile)
	})

	s.Run("Find missing data file", func() {
		_, err := s.adapter.FindDataFile(ctx, file2.ID+100)
		s.Require().ErrorIs(err, casedocs.ErrNotFound)
	})
}
