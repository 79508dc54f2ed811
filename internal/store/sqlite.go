package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/outreach-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS prospects (
	id              TEXT PRIMARY KEY,
	name            TEXT,
	handle          TEXT NOT NULL DEFAULT '',
	platform        TEXT NOT NULL,
	profile_url     TEXT,
	email           TEXT,
	linkedin_url    TEXT,
	bio             TEXT,
	hashtags        TEXT,
	follower_count  INTEGER NOT NULL DEFAULT 0,
	vibe_score      REAL NOT NULL DEFAULT 0,
	vibe_notes      TEXT,
	status          TEXT NOT NULL DEFAULT 'new',
	contact_status  TEXT NOT NULL DEFAULT 'pending',
	outreach_method TEXT,
	outreach_date   DATETIME,
	search_query    TEXT,
	owner           TEXT,
	priority        TEXT,
	notes           TEXT,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_prospects_platform_handle ON prospects(platform, handle);
CREATE INDEX IF NOT EXISTS idx_prospects_email ON prospects(email);
CREATE INDEX IF NOT EXISTS idx_prospects_status ON prospects(status);

CREATE TABLE IF NOT EXISTS pipeline_results (
	id         TEXT PRIMARY KEY,
	lead_id    TEXT NOT NULL,
	status     TEXT NOT NULL,
	result     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_pipeline_results_lead_id ON pipeline_results(lead_id);

CREATE TABLE IF NOT EXISTS outreach_log (
	id          TEXT PRIMARY KEY,
	lead_id     TEXT NOT NULL,
	channel     TEXT NOT NULL,
	subject     TEXT,
	preview     TEXT,
	send_status TEXT NOT NULL,
	error       TEXT,
	sent_at     DATETIME,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_outreach_log_lead_id ON outreach_log(lead_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertProspect(ctx context.Context, lead *model.Lead) error {
	now := time.Now().UTC()
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	lead.UpdatedAt = now

	hashtags, err := json.Marshal(lead.Hashtags)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal hashtags")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prospects (
			id, name, handle, platform, profile_url, email, linkedin_url,
			bio, hashtags, follower_count, vibe_score, vibe_notes,
			status, contact_status, outreach_method, outreach_date,
			search_query, owner, priority, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(platform, handle) DO UPDATE SET
			name = excluded.name,
			profile_url = excluded.profile_url,
			email = excluded.email,
			linkedin_url = excluded.linkedin_url,
			bio = excluded.bio,
			hashtags = excluded.hashtags,
			follower_count = excluded.follower_count,
			vibe_score = excluded.vibe_score,
			vibe_notes = excluded.vibe_notes,
			status = excluded.status,
			contact_status = excluded.contact_status,
			outreach_method = excluded.outreach_method,
			outreach_date = excluded.outreach_date,
			search_query = excluded.search_query,
			owner = excluded.owner,
			priority = excluded.priority,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		lead.ID, lead.Name, lead.Handle, string(lead.Platform), lead.ProfileURL,
		lead.Email, lead.LinkedInURL, lead.Bio, string(hashtags),
		lead.FollowerCount, lead.VibeCheckScore, lead.VibeCheckNotes,
		string(lead.Status), string(lead.ContactStatus), string(lead.OutreachMethod),
		nullTime(lead.OutreachDate), lead.SearchQuery, lead.Owner, lead.Priority,
		lead.Notes, lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: upsert prospect %s", lead.DisplayName())
	}
	return nil
}

const prospectColumns = `id, name, handle, platform, profile_url, email, linkedin_url,
	bio, hashtags, follower_count, vibe_score, vibe_notes,
	status, contact_status, outreach_method, outreach_date,
	search_query, owner, priority, notes, created_at, updated_at`

func (s *SQLiteStore) GetProspectByEmail(ctx context.Context, email string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+prospectColumns+` FROM prospects WHERE email = ? LIMIT 1`,
		email,
	)
	lead, err := scanProspect(row)
	if eris.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get prospect by email %s", email)
	}
	return lead, nil
}

func (s *SQLiteStore) ListProspects(ctx context.Context, filter ProspectFilter) ([]model.Lead, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospects`
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Platform != "" {
		conds = append(conds, "platform = ?")
		args = append(args, string(filter.Platform))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list prospects")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		lead, err := scanProspect(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan prospect")
		}
		leads = append(leads, *lead)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: iterate prospects")
}

func (s *SQLiteStore) SaveResult(ctx context.Context, lead *model.Lead, result *model.PipelineResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pipeline_results (id, lead_id, status, result, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), lead.VectorID(), string(result.Status), string(resultJSON), time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: save result for %s", lead.DisplayName())
	}
	return nil
}

func (s *SQLiteStore) LogOutreach(ctx context.Context, entry OutreachEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outreach_log (id, lead_id, channel, subject, preview, send_status, error, sent_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), entry.LeadID, entry.Channel, entry.Subject,
		entry.Preview, entry.SendStatus, entry.Error, nullTime(entry.SentAt), time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: log outreach for %s", entry.LeadID)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanProspect(row scannable) (*model.Lead, error) {
	var (
		lead         model.Lead
		platform     string
		hashtags     sql.NullString
		name         sql.NullString
		profileURL   sql.NullString
		email        sql.NullString
		linkedin     sql.NullString
		bio          sql.NullString
		vibeNotes    sql.NullString
		status       sql.NullString
		contact      sql.NullString
		method       sql.NullString
		outreachDate sql.NullTime
		searchQuery  sql.NullString
		owner        sql.NullString
		priority     sql.NullString
		notes        sql.NullString
	)

	err := row.Scan(
		&lead.ID, &name, &lead.Handle, &platform, &profileURL, &email, &linkedin,
		&bio, &hashtags, &lead.FollowerCount, &lead.VibeCheckScore, &vibeNotes,
		&status, &contact, &method, &outreachDate,
		&searchQuery, &owner, &priority, &notes, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Name = name.String
	lead.Platform = model.Platform(platform)
	lead.ProfileURL = profileURL.String
	lead.Email = email.String
	lead.LinkedInURL = linkedin.String
	lead.Bio = bio.String
	lead.VibeCheckNotes = vibeNotes.String
	lead.Status = model.Status(status.String)
	lead.ContactStatus = model.ContactStatus(contact.String)
	lead.OutreachMethod = model.OutreachMethod(method.String)
	if outreachDate.Valid {
		lead.OutreachDate = outreachDate.Time
	}
	lead.SearchQuery = searchQuery.String
	lead.Owner = owner.String
	lead.Priority = priority.String
	lead.Notes = notes.String

	if hashtags.Valid && hashtags.String != "" && hashtags.String != "null" {
		if err := json.Unmarshal([]byte(hashtags.String), &lead.Hashtags); err != nil {
			return nil, eris.Wrap(err, "unmarshal hashtags")
		}
	}

	return &lead, nil
}

// nullTime maps the zero time to NULL so empty dates round-trip cleanly.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
