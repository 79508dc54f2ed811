package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/db"
	"github.com/sells-group/outreach-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_prospect_by_email": `SELECT ` + prospectColumns + ` FROM prospects WHERE email = $1 LIMIT 1`,
	"insert_result":         `INSERT INTO pipeline_results (id, lead_id, status, result, created_at) VALUES ($1, $2, $3, $4, $5)`,
	"insert_outreach":       `INSERT INTO outreach_log (id, lead_id, channel, subject, preview, send_status, error, sent_at, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need
// direct query access (e.g., bulk CSV import).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS prospects (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name            TEXT,
	handle          TEXT NOT NULL DEFAULT '',
	platform        TEXT NOT NULL,
	profile_url     TEXT,
	email           TEXT,
	linkedin_url    TEXT,
	bio             TEXT,
	hashtags        JSONB,
	follower_count  BIGINT NOT NULL DEFAULT 0,
	vibe_score      DOUBLE PRECISION NOT NULL DEFAULT 0,
	vibe_notes      TEXT,
	status          TEXT NOT NULL DEFAULT 'new',
	contact_status  TEXT NOT NULL DEFAULT 'pending',
	outreach_method TEXT,
	outreach_date   TIMESTAMPTZ,
	search_query    TEXT,
	owner           TEXT,
	priority        TEXT,
	notes           TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_prospects_platform_handle ON prospects(platform, handle);
CREATE INDEX IF NOT EXISTS idx_prospects_email ON prospects(email);
CREATE INDEX IF NOT EXISTS idx_prospects_status ON prospects(status);

CREATE TABLE IF NOT EXISTS pipeline_results (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	lead_id    TEXT NOT NULL,
	status     TEXT NOT NULL,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_pipeline_results_lead_id ON pipeline_results(lead_id);

CREATE TABLE IF NOT EXISTS outreach_log (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	lead_id     TEXT NOT NULL,
	channel     TEXT NOT NULL,
	subject     TEXT,
	preview     TEXT,
	send_status TEXT NOT NULL,
	error       TEXT,
	sent_at     TIMESTAMPTZ,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_outreach_log_lead_id ON outreach_log(lead_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertProspect(ctx context.Context, lead *model.Lead) error {
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
		return eris.Wrap(err, "postgres: marshal hashtags")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO prospects (
			id, name, handle, platform, profile_url, email, linkedin_url,
			bio, hashtags, follower_count, vibe_score, vibe_notes,
			status, contact_status, outreach_method, outreach_date,
			search_query, owner, priority, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (platform, handle) DO UPDATE SET
			name = EXCLUDED.name,
			profile_url = EXCLUDED.profile_url,
			email = EXCLUDED.email,
			linkedin_url = EXCLUDED.linkedin_url,
			bio = EXCLUDED.bio,
			hashtags = EXCLUDED.hashtags,
			follower_count = EXCLUDED.follower_count,
			vibe_score = EXCLUDED.vibe_score,
			vibe_notes = EXCLUDED.vibe_notes,
			status = EXCLUDED.status,
			contact_status = EXCLUDED.contact_status,
			outreach_method = EXCLUDED.outreach_method,
			outreach_date = EXCLUDED.outreach_date,
			search_query = EXCLUDED.search_query,
			owner = EXCLUDED.owner,
			priority = EXCLUDED.priority,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`,
		lead.ID, lead.Name, lead.Handle, string(lead.Platform), lead.ProfileURL,
		lead.Email, lead.LinkedInURL, lead.Bio, string(hashtags),
		lead.FollowerCount, lead.VibeCheckScore, lead.VibeCheckNotes,
		string(lead.Status), string(lead.ContactStatus), string(lead.OutreachMethod),
		nullTime(lead.OutreachDate), lead.SearchQuery, lead.Owner, lead.Priority,
		lead.Notes, lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: upsert prospect %s", lead.DisplayName())
	}
	return nil
}

func (s *PostgresStore) GetProspectByEmail(ctx context.Context, email string) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+prospectColumns+` FROM prospects WHERE email = $1 LIMIT 1`,
		email,
	)
	lead, err := scanProspect(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get prospect by email %s", email)
	}
	return lead, nil
}

func (s *PostgresStore) ListProspects(ctx context.Context, filter ProspectFilter) ([]model.Lead, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospects`
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Platform != "" {
		args = append(args, string(filter.Platform))
		conds = append(conds, "platform = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list prospects")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		lead, err := scanProspect(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan prospect")
		}
		leads = append(leads, *lead)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: iterate prospects")
}

func (s *PostgresStore) SaveResult(ctx context.Context, lead *model.Lead, result *model.PipelineResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO pipeline_results (id, lead_id, status, result, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), lead.VectorID(), string(result.Status), string(resultJSON), time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: save result for %s", lead.DisplayName())
	}
	return nil
}

func (s *PostgresStore) LogOutreach(ctx context.Context, entry OutreachEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO outreach_log (id, lead_id, channel, subject, preview, send_status, error, sent_at, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New().String(), entry.LeadID, entry.Channel, entry.Subject,
		entry.Preview, entry.SendStatus, entry.Error, nullTime(entry.SentAt), time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: log outreach for %s", entry.LeadID)
	}
	return nil
}
