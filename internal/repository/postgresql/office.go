package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/office"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type officeRepository struct {
	db *database.DB
}

func NewOfficeRepository(db *database.DB) office.OfficeRepository {
	return &officeRepository{db: db}
}

// GetByID implements office.OfficeRepository.
func (o *officeRepository) GetByID(ctx context.Context, id int64) (office.Office, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		SELECT id, name, public_ip,
			   to_char(shift_start, 'HH24:MI:SS'), to_char(shift_end, 'HH24:MI:SS')
		FROM offices
		WHERE id = $1
	`

	var off office.Office
	err := q.QueryRow(ctx, query, id).Scan(&off.ID, &off.Name, &off.PublicIP, &off.ShiftStart, &off.ShiftEnd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return office.Office{}, office.ErrOfficeNotFound
		}
		return office.Office{}, fmt.Errorf("failed to get office by id: %w", err)
	}

	return off, nil
}
