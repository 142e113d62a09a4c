package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-scan-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAttendanceRepository_CreateIsUniquePerDay(t *testing.T) {
	setupTestData(t)

	ctx := context.Background()
	officeID := createTestOffice(t, ctx, "Head Office", nil)
	userID := createTestUser(t, ctx, "dara", "Dara Sok", officeID)
	repo := postgresql.NewAttendanceRepository(testDB)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, attendance.Attendance{
		UserID:      userID,
		OfficeID:    &officeID,
		LogDate:     day,
		CheckIn:     strPtr("08:15:00"),
		Status:      attendance.StatusLate,
		MinutesLate: 15,
	})
	require.NoError(t, err)
	assert.True(t, created.IsOpen())
	require.NotNil(t, created.OfficeName)
	assert.Equal(t, "Head Office", *created.OfficeName)

	_, err = repo.Create(ctx, attendance.Attendance{
		UserID:  userID,
		LogDate: day,
		Status:  attendance.StatusAbsent,
	})
	assert.ErrorIs(t, err, attendance.ErrDuplicateAttendance)

	got, err := repo.GetByUserAndDate(ctx, userID, day)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 15, got.MinutesLate)

	none, err := repo.GetByUserAndDate(ctx, userID, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestAttendanceRepository_CloseCheckInOnce(t *testing.T) {
	setupTestData(t)

	ctx := context.Background()
	officeID := createTestOffice(t, ctx, "Head Office", nil)
	userID := createTestUser(t, ctx, "dara", "Dara Sok", officeID)
	repo := postgresql.NewAttendanceRepository(testDB)

	created, err := repo.Create(ctx, attendance.Attendance{
		UserID:   userID,
		OfficeID: &officeID,
		LogDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		CheckIn:  strPtr("08:00:00"),
		Status:   attendance.StatusOnTime,
	})
	require.NoError(t, err)

	closed, err := repo.CloseCheckIn(ctx, created.ID, "17:00:00", 9)
	require.NoError(t, err)
	require.NotNil(t, closed.CheckOut)
	assert.Equal(t, "17:00:00", *closed.CheckOut)
	require.NotNil(t, closed.WorkHours)
	assert.InDelta(t, 9.0, *closed.WorkHours, 0.001)
	assert.Equal(t, attendance.StatusOnTime, closed.Status)

	_, err = repo.CloseCheckIn(ctx, created.ID, "18:00:00", 10)
	assert.ErrorIs(t, err, attendance.ErrNoOpenCheckIn)
}

func TestReasonRepository_AppendKeepsOrder(t *testing.T) {
	setupTestData(t)

	ctx := context.Background()
	userID := createTestUser(t, ctx, "dara", "Dara Sok", createTestOffice(t, ctx, "Head Office", nil))
	repo := postgresql.NewAttendanceRepository(testDB)
	reasons := postgresql.NewReasonRepository(testDB)

	created, err := repo.Create(ctx, attendance.Attendance{
		UserID:  userID,
		LogDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:  attendance.StatusAbsent,
	})
	require.NoError(t, err)
	assert.Nil(t, created.OfficeID)

	_, err = reasons.Append(ctx, created.ID, "sick", "fever")
	require.NoError(t, err)
	_, err = reasons.Append(ctx, created.ID, attendance.ReasonTypeCheckOutNote, "follow-up")
	require.NoError(t, err)

	got, err := reasons.ListFor(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "fever", got[0].Reason)
	assert.Equal(t, "follow-up", got[1].Reason)
}

func TestReportRepository_FilteredHistory(t *testing.T) {
	setupTestData(t)

	ctx := context.Background()
	officeID := createTestOffice(t, ctx, "Head Office", nil)
	dara := createTestUser(t, ctx, "dara", "Dara Sok", officeID)
	vanna := createTestUser(t, ctx, "vanna", "Vanna Chan", officeID)
	repo := postgresql.NewAttendanceRepository(testDB)
	reports := postgresql.NewReportRepository(testDB)

	rows := []attendance.Attendance{
		{UserID: dara, OfficeID: &officeID, LogDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), CheckIn: strPtr("08:15:00"), Status: attendance.StatusLate, MinutesLate: 15},
		{UserID: dara, OfficeID: &officeID, LogDate: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), CheckIn: strPtr("07:55:00"), Status: attendance.StatusOnTime},
		{UserID: vanna, LogDate: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), Status: attendance.StatusAbsent},
		{UserID: vanna, OfficeID: &officeID, LogDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), CheckIn: strPtr("08:00:00"), Status: attendance.StatusOnTime},
	}
	for _, row := range rows {
		_, err := repo.Create(ctx, row)
		require.NoError(t, err)
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	got, total, err := reports.FilteredHistory(ctx, report.HistoryQuery{From: &from, To: &to, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, got, 3)
	assert.Equal(t, "2026-03-03", got[0].LogDate.Format("2006-01-02"))

	name := "dara"
	got, total, err = reports.FilteredHistory(ctx, report.HistoryQuery{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, row := range got {
		require.NotNil(t, row.StaffName)
		assert.Equal(t, "Dara Sok", *row.StaffName)
	}

	status := attendance.StatusAbsent
	got, total, err = reports.FilteredHistory(ctx, report.HistoryQuery{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, vanna, got[0].UserID)

	counts, err := reports.CountByStatus(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[attendance.StatusLate])
	assert.Equal(t, int64(1), counts[attendance.StatusOnTime])
	assert.Equal(t, int64(1), counts[attendance.StatusAbsent])
}

func TestDashboardRepository_Counts(t *testing.T) {
	setupTestData(t)

	ctx := context.Background()
	officeID := createTestOffice(t, ctx, "Head Office", nil)
	dara := createTestUser(t, ctx, "dara", "Dara Sok", officeID)
	vanna := createTestUser(t, ctx, "vanna", "Vanna Chan", officeID)
	createTestUser(t, ctx, "sokha", "Sokha Lim", officeID)
	repo := postgresql.NewAttendanceRepository(testDB)
	dash := postgresql.NewDashboardRepository(testDB)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err := repo.Create(ctx, attendance.Attendance{UserID: dara, OfficeID: &officeID, LogDate: day, CheckIn: strPtr("08:10:00"), Status: attendance.StatusLate, MinutesLate: 10})
	require.NoError(t, err)
	_, err = repo.Create(ctx, attendance.Attendance{UserID: vanna, OfficeID: &officeID, LogDate: day, CheckIn: strPtr("07:50:00"), Status: attendance.StatusOnTime})
	require.NoError(t, err)

	staff, err := dash.CountStaff(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), staff)

	counts, err := dash.CountByStatusOnDate(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Late)
	assert.Equal(t, int64(1), counts.OnTime)
	assert.Equal(t, int64(2), counts.Total())

	perDay, err := dash.CountByStatusPerDay(ctx, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, perDay, 1)
	assert.Equal(t, "2026-03-02", perDay[0].Date.Format("2006-01-02"))
}
