package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rainbowlistings/directory/internal/entity"
)

const businessColumns = `
            id::text,
            name,
            category,
            categories,
            description,
            address,
            city,
            state,
            zip,
            phone,
            email,
            website,
            image_url,
            rating,
            rating_count,
            verified,
            lgbtq_welcome,
            friendly_staff,
            lgbtq_owned,
            safe_environment,
            socials,
            status,
            owner_id,
            created_at,
            updated_at`

// PGXBusinessesRepository implements BusinessesRepository using pgx.
type PGXBusinessesRepository struct {
	pool pgxPool
}

// NewPGXBusinessesRepository wires a pgx backed repository.
func NewPGXBusinessesRepository(pool *pgxpool.Pool) *PGXBusinessesRepository {
	return &PGXBusinessesRepository{pool: pool}
}

// ListAll returns every business in the collection.
func (r *PGXBusinessesRepository) ListAll(ctx context.Context) ([]entity.Business, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+businessColumns+` FROM businesses ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()
	return scanBusinesses(rows)
}

// ListByCategory returns businesses naming the category in either the list or the legacy field.
func (r *PGXBusinessesRepository) ListByCategory(ctx context.Context, category string) ([]entity.Business, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT `+businessColumns+`
        FROM businesses
        WHERE $1 = ANY(categories) OR category = $1
        ORDER BY name ASC
    `, category)
	if err != nil {
		return nil, fmt.Errorf("list businesses by category: %w", err)
	}
	defer rows.Close()
	return scanBusinesses(rows)
}

// ListRecent returns the newest businesses by creation time.
func (r *PGXBusinessesRepository) ListRecent(ctx context.Context, limit int) ([]entity.Business, error) {
	if limit <= 0 {
		limit = 6
	}
	rows, err := r.pool.Query(ctx, `
        SELECT `+businessColumns+`
        FROM businesses
        ORDER BY created_at DESC NULLS LAST
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent businesses: %w", err)
	}
	defer rows.Close()
	return scanBusinesses(rows)
}

// ListByStatus returns businesses with the given submission status, oldest first.
func (r *PGXBusinessesRepository) ListByStatus(ctx context.Context, status string) ([]entity.Business, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT `+businessColumns+`
        FROM businesses
        WHERE status = $1
        ORDER BY created_at ASC NULLS LAST
    `, status)
	if err != nil {
		return nil, fmt.Errorf("list businesses by status: %w", err)
	}
	defer rows.Close()
	return scanBusinesses(rows)
}

// FindByID retrieves a single business.
func (r *PGXBusinessesRepository) FindByID(ctx context.Context, id string) (*entity.Business, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrBusinessNotFound
	}

	rows, err := r.pool.Query(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = $1`, parsed)
	if err != nil {
		return nil, fmt.Errorf("find business: %w", err)
	}
	defer rows.Close()

	businesses, err := scanBusinesses(rows)
	if err != nil {
		return nil, err
	}
	if len(businesses) == 0 {
		return nil, ErrBusinessNotFound
	}
	return &businesses[0], nil
}

// Create inserts a business; the identifier and creation time are assigned by the database.
func (r *PGXBusinessesRepository) Create(ctx context.Context, business *entity.Business) (*entity.Business, error) {
	if business == nil {
		return nil, fmt.Errorf("business payload is nil")
	}

	socials, err := json.Marshal(business.Socials)
	if err != nil {
		return nil, fmt.Errorf("marshal socials: %w", err)
	}

	query := `
        INSERT INTO businesses (
            name,
            category,
            categories,
            description,
            address,
            city,
            state,
            zip,
            phone,
            email,
            website,
            image_url,
            verified,
            socials,
            status,
            owner_id
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::jsonb, $15, $16
        )
        RETURNING id::text, created_at, updated_at
    `

	var (
		created   = *business
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)
	err = r.pool.QueryRow(ctx, query,
		business.Name,
		stringOrNil(business.Category),
		stringSliceOrEmpty(business.Categories),
		stringOrNil(business.Description),
		stringOrNil(business.Address),
		stringOrNil(business.City),
		stringOrNil(business.State),
		stringOrNil(business.ZIP),
		stringOrNil(business.Phone),
		stringOrNil(business.Email),
		stringOrNil(business.Website),
		stringOrNil(business.ImageURL),
		business.Verified,
		string(socials),
		business.Status,
		business.OwnerID,
	).Scan(&created.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert business: %w", err)
	}
	created.CreatedAt = nullTimeToPtr(createdAt)
	created.UpdatedAt = nullTimeToPtr(updatedAt)

	return &created, nil
}

// UpdateStatus sets the moderation status and verification flag of a business.
func (r *PGXBusinessesRepository) UpdateStatus(ctx context.Context, id, status string, verified bool) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return ErrBusinessNotFound
	}
	cmd, err := r.pool.Exec(ctx, `
        UPDATE businesses
        SET status = $2, verified = $3, updated_at = NOW()
        WHERE id = $1
    `, parsed, status, verified)
	if err != nil {
		return fmt.Errorf("update business status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrBusinessNotFound
	}
	return nil
}

const bulkUpsertSQL = `
        INSERT INTO businesses (name, address, categories, description, city, state, zip, phone, email, website, image_url, rating, rating_count, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW())
        ON CONFLICT (name, address) WHERE owner_id = '' DO UPDATE SET
            categories = EXCLUDED.categories,
            description = EXCLUDED.description,
            city = EXCLUDED.city,
            state = EXCLUDED.state,
            zip = EXCLUDED.zip,
            phone = EXCLUDED.phone,
            email = EXCLUDED.email,
            website = EXCLUDED.website,
            image_url = EXCLUDED.image_url,
            rating = EXCLUDED.rating,
            rating_count = EXCLUDED.rating_count,
            updated_at = NOW()
        RETURNING xmax = 0;
    `

// BulkUpsert persists a batch of businesses with idempotent semantics.
func (r *PGXBusinessesRepository) BulkUpsert(ctx context.Context, records []BulkUpsertBusinessInput) (BulkUpsertResult, error) {
	var result BulkUpsertResult
	if len(records) == 0 {
		return result, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, fmt.Errorf("start bulk upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		var inserted bool
		err := tx.QueryRow(ctx, bulkUpsertSQL,
			record.Name,
			record.Address,
			stringSliceOrEmpty(record.Categories),
			stringOrNil(record.Description),
			stringOrNil(record.City),
			stringOrNil(record.State),
			stringOrNil(record.ZIP),
			stringOrNil(record.Phone),
			stringOrNil(record.Email),
			stringOrNil(record.Website),
			stringOrNil(record.ImageURL),
			floatOrNil(record.Rating),
			intOrNil(record.RatingCount),
		).Scan(&inserted)
		if err != nil {
			return result, fmt.Errorf("bulk upsert business %q: %w", record.Name, err)
		}

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Total++
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit bulk upsert tx: %w", err)
	}

	return result, nil
}

func scanBusinesses(rows pgx.Rows) ([]entity.Business, error) {
	var businesses []entity.Business
	for rows.Next() {
		var (
			b           entity.Business
			category    sql.NullString
			categories  []string
			description sql.NullString
			address     sql.NullString
			city        sql.NullString
			state       sql.NullString
			zip         sql.NullString
			phone       sql.NullString
			email       sql.NullString
			website     sql.NullString
			imageURL    sql.NullString
			rating      sql.NullFloat64
			ratingCount sql.NullInt64
			socials     []byte
			createdAt   sql.NullTime
			updatedAt   sql.NullTime
		)

		err := rows.Scan(
			&b.ID,
			&b.Name,
			&category,
			&categories,
			&description,
			&address,
			&city,
			&state,
			&zip,
			&phone,
			&email,
			&website,
			&imageURL,
			&rating,
			&ratingCount,
			&b.Verified,
			&b.LGBTQWelcome,
			&b.FriendlyStaff,
			&b.LGBTQOwned,
			&b.SafeEnvironment,
			&socials,
			&b.Status,
			&b.OwnerID,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}

		b.Category = nullStringToPtr(category)
		if len(categories) > 0 {
			b.Categories = append([]string(nil), categories...)
		}
		b.Description = nullStringToPtr(description)
		b.Address = nullStringToPtr(address)
		b.City = nullStringToPtr(city)
		b.State = nullStringToPtr(state)
		b.ZIP = nullStringToPtr(zip)
		b.Phone = nullStringToPtr(phone)
		b.Email = nullStringToPtr(email)
		b.Website = nullStringToPtr(website)
		b.ImageURL = nullStringToPtr(imageURL)
		if rating.Valid {
			val := rating.Float64
			b.Rating = &val
		}
		if ratingCount.Valid {
			cast := int(ratingCount.Int64)
			b.RatingCount = &cast
		}
		if len(socials) > 0 {
			if err := json.Unmarshal(socials, &b.Socials); err != nil {
				return nil, fmt.Errorf("unmarshal socials: %w", err)
			}
		}
		b.CreatedAt = nullTimeToPtr(createdAt)
		b.UpdatedAt = nullTimeToPtr(updatedAt)

		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate businesses: %w", err)
	}
	return businesses, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
