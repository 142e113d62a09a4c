package office

import "context"

// OfficeRepository reads office identity. Offices are maintained elsewhere.
type OfficeRepository interface {
	GetByID(ctx context.Context, id int64) (Office, error)
}
