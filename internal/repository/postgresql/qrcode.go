package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/qrcode"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type qrCodeRepository struct {
	db *database.DB
}

func NewQRCodeRepository(db *database.DB) qrcode.QRCodeRepository {
	return &qrCodeRepository{db: db}
}

const qrCodeColumns = `
	q.id, q.office_id, q.qr_token, q.is_active, q.created_at, q.updated_at,
	o.name, o.public_ip
`

func scanQRCode(row pgx.Row) (qrcode.QRCode, error) {
	var qr qrcode.QRCode
	err := row.Scan(
		&qr.ID, &qr.OfficeID, &qr.Token, &qr.IsActive, &qr.CreatedAt, &qr.UpdatedAt,
		&qr.OfficeName, &qr.PublicIP,
	)
	return qr, err
}

// Create implements qrcode.QRCodeRepository.
func (r *qrCodeRepository) Create(ctx context.Context, officeID int64, token string) (qrcode.QRCode, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO qr_codes (office_id, qr_token, is_active)
			VALUES ($1, $2, TRUE)
			RETURNING *
		)
		SELECT ` + qrCodeColumns + `
		FROM inserted q
		LEFT JOIN offices o ON o.id = q.office_id
	`

	qr, err := scanQRCode(q.QueryRow(ctx, query, officeID, token))
	if err != nil {
		return qrcode.QRCode{}, fmt.Errorf("failed to create qr code: %w", err)
	}
	return qr, nil
}

func (r *qrCodeRepository) getOne(ctx context.Context, where string, arg any) (qrcode.QRCode, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + qrCodeColumns + `
		FROM qr_codes q
		LEFT JOIN offices o ON o.id = q.office_id
		WHERE ` + where + `
		LIMIT 1
	`

	qr, err := scanQRCode(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return qrcode.QRCode{}, qrcode.ErrQRCodeNotFound
		}
		return qrcode.QRCode{}, fmt.Errorf("failed to get qr code: %w", err)
	}
	return qr, nil
}

// GetByID implements qrcode.QRCodeRepository.
func (r *qrCodeRepository) GetByID(ctx context.Context, id int64) (qrcode.QRCode, error) {
	return r.getOne(ctx, "q.id = $1", id)
}

// GetByToken implements qrcode.QRCodeRepository.
func (r *qrCodeRepository) GetByToken(ctx context.Context, token string) (qrcode.QRCode, error) {
	return r.getOne(ctx, "q.qr_token = $1", token)
}

// GetActiveByToken implements qrcode.QRCodeRepository.
func (r *qrCodeRepository) GetActiveByToken(ctx context.Context, token string) (qrcode.QRCode, error) {
	return r.getOne(ctx, "q.qr_token = $1 AND q.is_active = TRUE", token)
}

// GetActiveByOffice implements qrcode.QRCodeRepository.
func (r *qrCodeRepository) GetActiveByOffice(ctx context.Context, officeID int64) (*qrcode.QRCode, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + qrCodeColumns + `
		FROM qr_codes q
		LEFT JOIN offices o ON o.id = q.office_id
		WHERE q.office_id = $1 AND q.is_active = TRUE
		ORDER BY q.created_at DESC, q.id DESC
		LIMIT 1
	`

	qr, err := scanQRCode(q.QueryRow(ctx, query, officeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active qr code for office: %w", err)
	}
	return &qr, nil
}

// Retire implements qrcode.QRCodeRepository.
func (r *qrCodeRepository) Retire(ctx context.Context, id int64) (qrcode.QRCode, error) {
	q := GetQuerier(ctx, r.db)

	// A concurrent retire blocks on the row lock and then sees is_active = FALSE
	query := `
		WITH retired AS (
			UPDATE qr_codes
			SET is_active = FALSE, updated_at = NOW()
			WHERE id = $1 AND is_active = TRUE
			RETURNING *
		)
		SELECT ` + qrCodeColumns + `
		FROM retired q
		LEFT JOIN offices o ON o.id = q.office_id
	`

	qr, err := scanQRCode(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return qrcode.QRCode{}, qrcode.ErrQRCodeNotFound
		}
		return qrcode.QRCode{}, fmt.Errorf("failed to retire qr code: %w", err)
	}
	return qr, nil
}

// Deactivate implements qrcode.QRCodeRepository.
func (r *qrCodeRepository) Deactivate(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	// The CASE keeps updated_at stable for rows that are already inactive
	query := `
		UPDATE qr_codes
		SET is_active = FALSE,
			updated_at = CASE WHEN is_active THEN NOW() ELSE updated_at END
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate qr code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return qrcode.ErrQRCodeNotFound
	}
	return nil
}

// List implements qrcode.QRCodeRepository.
func (r *qrCodeRepository) List(ctx context.Context, filter qrcode.ListFilter) ([]qrcode.QRCode, int64, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []interface{}
	)

	if filter.OfficeID != nil {
		args = append(args, *filter.OfficeID)
		conditions = append(conditions, fmt.Sprintf("q.office_id = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("q.is_active = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM qr_codes q " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count qr codes: %w", err)
	}

	args = append(args, filter.Limit, filter.Skip)
	query := fmt.Sprintf(`
		SELECT %s
		FROM qr_codes q
		LEFT JOIN offices o ON o.id = q.office_id
		%s
		ORDER BY q.created_at DESC, q.id DESC
		LIMIT $%d OFFSET $%d
	`, qrCodeColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list qr codes: %w", err)
	}
	defer rows.Close()

	var items []qrcode.QRCode
	for rows.Next() {
		qr, err := scanQRCode(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan qr code: %w", err)
		}
		items = append(items, qr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate qr codes: %w", err)
	}

	return items, total, nil
}
