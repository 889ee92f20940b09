package repositories

import (
	"context"
	"testing"
	"time"

	"opsmanual/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ManualRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	chapters  ChapterRepository
	sections  SectionRepository
	contents  ContentRepository
	airlineID uuid.UUID
	context   context.Context
}

func (suite *ManualRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.chapters = NewChapterRepo(mock)
	suite.sections = NewSectionRepo(mock)
	suite.contents = NewContentRepo(mock)
	suite.airlineID = uuid.New()
	suite.context = context.Background()
}

func (suite *ManualRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestManualRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ManualRepoTestSuite))
}

func (suite *ManualRepoTestSuite) TestChapterNextOrder() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(MAX\(sort_order\), 0\) \+ 1 FROM chapters WHERE airline_id = \$1`).
		WithArgs(suite.airlineID).
		WillReturnRows(pgxmock.NewRows([]string{"next"}).AddRow(4))

	next, err := suite.chapters.NextOrder(suite.context, suite.airlineID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, next)
}

func (suite *ManualRepoTestSuite) TestChapterCreate() {
	chapter := &models.Chapter{
		ID:          uuid.New(),
		AirlineID:   suite.airlineID,
		Title:       "Normal Procedures",
		Description: stringPtr("Standard operating procedures"),
		Order:       1,
		IsActive:    true,
	}
	suite.mock.ExpectExec(`INSERT INTO chapters`).
		WithArgs(chapter.ID, chapter.AirlineID, chapter.Title, chapter.Description, 1, true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(suite.T(), suite.chapters.Create(suite.context, chapter))
}

func (suite *ManualRepoTestSuite) TestSectionGetByID_ResolvesAirline() {
	sectionID, chapterID := uuid.New(), uuid.New()
	now := time.Now().UTC()

	suite.mock.ExpectQuery(`FROM sections s JOIN chapters c ON c.id = s.chapter_id WHERE s.id = \$1`).
		WithArgs(sectionID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "chapter_id", "title", "description", "sort_order", "is_active", "created_at", "updated_at", "airline_id"}).
			AddRow(sectionID, chapterID, "Pre-flight", (*string)(nil), 1, true, now, now, suite.airlineID))

	section, err := suite.sections.GetByID(suite.context, sectionID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), chapterID, section.ChapterID)
	assert.Equal(suite.T(), suite.airlineID, section.AirlineID)
}

func (suite *ManualRepoTestSuite) TestContentGetByID_ResolvesParentChain() {
	contentID, sectionID, chapterID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now().UTC()

	suite.mock.ExpectQuery(`FROM contents m JOIN sections s ON s.id = m.section_id JOIN chapters c ON c.id = s.chapter_id WHERE m.id = \$1`).
		WithArgs(contentID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "section_id", "title", "body", "content_type", "sort_order", "metadata", "is_active", "created_at", "updated_at", "chapter_id", "airline_id"}).
			AddRow(contentID, sectionID, "Checklist", "Verify fuel", "MARKDOWN", 2, map[string]any{}, true, now, now, chapterID, suite.airlineID))

	content, err := suite.contents.GetByID(suite.context, contentID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.ContentMarkdown, content.ContentType)
	assert.Equal(suite.T(), chapterID, content.ChapterID)
	assert.Equal(suite.T(), suite.airlineID, content.AirlineID)
}

func (suite *ManualRepoTestSuite) TestContentGetByID_NotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery(`FROM contents m`).WithArgs(id).WillReturnError(pgx.ErrNoRows)

	_, err := suite.contents.GetByID(suite.context, id)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ManualRepoTestSuite) TestSectionDelete_Missing() {
	id := uuid.New()
	suite.mock.ExpectExec(`DELETE FROM sections WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(suite.T(), suite.sections.Delete(suite.context, id), ErrNotFound)
}
