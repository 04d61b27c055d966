package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quantbrief/quantbrief/app/analysis"
)

var _ HeadlineRepository = (*SQLHeadlineRepository)(nil)

// SQLHeadlineRepository stores analyzed headlines in SQLite. The nested
// analysis data is kept as JSON columns: the record is written once and
// read back whole, never queried by its inner fields.
type SQLHeadlineRepository struct {
	db *DB
}

func NewHeadlineRepository(db *DB) *SQLHeadlineRepository {
	return &SQLHeadlineRepository{db: db}
}

func (r *SQLHeadlineRepository) UpsertHeadline(record analysis.Record) (*AnalyzedHeadline, error) {
	stored := AnalyzedHeadline{
		ID:               RecordID(record.Title, record.Summary),
		Title:            record.Title,
		Summary:          record.Summary,
		Source:           record.Source,
		Link:             record.Link,
		CompaniesTickers: record.CompaniesTickers,
		Questions:        record.Questions,
		QuestionAnswers:  record.QuestionAnswers,
		StoredAt:         time.Now().UTC(),
	}
	if !record.PublishedAt.IsZero() {
		published := record.PublishedAt
		stored.PublishedAt = &published
	}

	companiesTickers, err := json.Marshal(stored.CompaniesTickers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode companies_tickers: %w", err)
	}
	questions, err := json.Marshal(questionTexts(stored.Questions))
	if err != nil {
		return nil, fmt.Errorf("failed to encode questions: %w", err)
	}
	questionAnswers, err := json.Marshal(stored.QuestionAnswers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode question_and_answers: %w", err)
	}

	var publishedAt any
	if stored.PublishedAt != nil {
		publishedAt = *stored.PublishedAt
	}

	_, err = r.db.Exec(`
		INSERT INTO analyzed_headlines (
			id, title, summary, source, link, published_at,
			companies_tickers, questions, question_answers, stored_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			source = excluded.source,
			link = excluded.link,
			published_at = excluded.published_at,
			companies_tickers = excluded.companies_tickers,
			questions = excluded.questions,
			question_answers = excluded.question_answers,
			stored_at = excluded.stored_at
	`, stored.ID, stored.Title, stored.Summary, stored.Source, stored.Link, publishedAt,
		string(companiesTickers), string(questions), string(questionAnswers), stored.StoredAt)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert headline: %w", err)
	}

	return &stored, nil
}

func (r *SQLHeadlineRepository) GetHeadline(id string) (*AnalyzedHeadline, error) {
	row := r.db.QueryRow(`
		SELECT id, title, summary, source, link, published_at,
		       companies_tickers, questions, question_answers, stored_at
		FROM analyzed_headlines
		WHERE id = ?
	`, id)

	headline, err := scanHeadline(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get headline: %w", err)
	}

	return headline, nil
}

func (r *SQLHeadlineRepository) GetHeadlines(filter HeadlineFilter) ([]AnalyzedHeadline, error) {
	query := `
		SELECT id, title, summary, source, link, published_at,
		       companies_tickers, questions, question_answers, stored_at
		FROM analyzed_headlines
		WHERE 1=1`
	var args []any

	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, filter.Source)
	}
	if filter.Query != "" {
		query += " AND (title LIKE ? OR summary LIKE ?)"
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern)
	}

	query += " ORDER BY stored_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get headlines: %w", err)
	}
	defer rows.Close()

	var headlines []AnalyzedHeadline
	for rows.Next() {
		headline, err := scanHeadline(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan headline row: %w", err)
		}
		headlines = append(headlines, *headline)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating headline rows: %w", err)
	}

	return headlines, nil
}

func (r *SQLHeadlineRepository) GetHeadlineCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM analyzed_headlines").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get headline count: %w", err)
	}
	return count, nil
}

func (r *SQLHeadlineRepository) GetSourceStats() (map[string]int, error) {
	rows, err := r.db.Query("SELECT source, COUNT(*) FROM analyzed_headlines GROUP BY source")
	if err != nil {
		return nil, fmt.Errorf("failed to get source stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats[source] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats rows: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHeadline(row rowScanner) (*AnalyzedHeadline, error) {
	var headline AnalyzedHeadline
	var publishedAt sql.NullTime
	var companiesTickers, questions, questionAnswers string

	err := row.Scan(
		&headline.ID, &headline.Title, &headline.Summary, &headline.Source,
		&headline.Link, &publishedAt,
		&companiesTickers, &questions, &questionAnswers, &headline.StoredAt,
	)
	if err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		published := publishedAt.Time
		headline.PublishedAt = &published
	}

	headline.CompaniesTickers = analysis.EmptyExtraction()
	if err := json.Unmarshal([]byte(companiesTickers), &headline.CompaniesTickers); err != nil {
		return nil, fmt.Errorf("failed to decode companies_tickers: %w", err)
	}

	var texts []string
	if err := json.Unmarshal([]byte(questions), &texts); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	headline.Questions = make([]analysis.Question, 0, len(texts))
	for _, text := range texts {
		headline.Questions = append(headline.Questions, analysis.Question{Text: text})
	}

	headline.QuestionAnswers = []analysis.QuestionAnswer{}
	if err := json.Unmarshal([]byte(questionAnswers), &headline.QuestionAnswers); err != nil {
		return nil, fmt.Errorf("failed to decode question_and_answers: %w", err)
	}

	return &headline, nil
}

func questionTexts(questions []analysis.Question) []string {
	texts := make([]string, 0, len(questions))
	for _, question := range questions {
		texts = append(texts, question.Text)
	}
	return texts
}
