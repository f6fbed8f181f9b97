package report

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"classbook/internal/domain"
	"classbook/internal/middleware"
	"classbook/internal/pkg/jwt"
	"classbook/internal/repository"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type MockBookingLister struct {
	mock.Mock
}

func (m *MockBookingLister) List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, f)
	rows, _ := args.Get(0).([]domain.Booking)
	return rows, args.Error(1)
}

var generatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleRows() []domain.Booking {
	return []domain.Booking{
		{
			ID: 1, UserName: "Dana", ClassroomName: "Lab A", Date: "2025-03-10",
			StartTime: domain.MustTime("09:00"), EndTime: domain.MustTime("10:30"),
			Purpose: "Algorithms, week 3", Status: domain.BookingConfirmed,
		},
		{
			ID: 2, UserName: "Ravi", ClassroomName: "Hall B", Date: "2025-03-11",
			StartTime: domain.MustTime("14:00"), EndTime: domain.MustTime("15:00"),
			Purpose: "Club meeting", Status: domain.BookingPending,
		},
	}
}

func TestParseFilter_Lenient(t *testing.T) {
	f := ParseFilter("confirmed", "2025-03-01", "2025-03-31", "4")
	assert.Equal(t, Filter{Status: domain.BookingConfirmed, From: "2025-03-01", To: "2025-03-31", ClassroomID: 4}, f)

	assert.Equal(t, Filter{}, ParseFilter("approved", "03/01/2025", "soon", "x"))
	assert.Equal(t, Filter{To: "2025-03-31"}, ParseFilter("", "", "2025-03-31", ""))
}

func TestFilter_Query(t *testing.T) {
	q := Filter{Status: domain.BookingRejected, ClassroomID: 2}.query()

	assert.Equal(t, []domain.BookingStatus{domain.BookingRejected}, q.Statuses)
	assert.Equal(t, int64(2), q.ClassroomID)
	assert.True(t, q.BySchedule)
	assert.Empty(t, Filter{}.query().Statuses)
}

func TestRender_CSV(t *testing.T) {
	buf, err := Render(FormatCSV, sampleRows(), generatedAt)
	require.NoError(t, err)

	want := "id,userName,classroomName,date,startTime,endTime,purpose,status\n" +
		"1,Dana,Lab A,2025-03-10,09:00,10:30,\"Algorithms, week 3\",confirmed\n" +
		"2,Ravi,Hall B,2025-03-11,14:00,15:00,Club meeting,pending\n"
	assert.Equal(t, want, buf.String())
}

func TestRender_CSVEmpty(t *testing.T) {
	buf, err := Render(FormatCSV, nil, generatedAt)
	require.NoError(t, err)
	assert.Equal(t, "id,userName,classroomName,date,startTime,endTime,purpose,status\n", buf.String())
}

func TestRender_PDF(t *testing.T) {
	buf, err := Render(FormatPDF, sampleRows(), generatedAt)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRender_XLSX(t *testing.T) {
	buf, err := Render(FormatXLSX, sampleRows(), generatedAt)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "User", "Classroom", "Date", "Start", "End", "Purpose", "Status"}, rows[0])
	assert.Equal(t, []string{"2", "Ravi", "Hall B", "2025-03-11", "14:00", "15:00", "Club meeting", "pending"}, rows[2])
}

func TestRender_ICS(t *testing.T) {
	buf, err := Render(FormatICS, sampleRows(), generatedAt)
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "booking-1@classbook", events[0].Id())
	assert.Equal(t, "20250310T090000", events[0].GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20250310T103000", events[0].GetProperty(ics.ComponentPropertyDtEnd).Value)
	assert.Equal(t, "CONFIRMED", events[0].GetProperty(ics.ComponentPropertyStatus).Value)
	assert.Equal(t, "TENTATIVE", events[1].GetProperty(ics.ComponentPropertyStatus).Value)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, "bookings.xlsx", f.Filename("bookings"))

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func newService(lister BookingLister) *Service {
	s := NewService(lister, zap.NewNop())
	s.now = func() time.Time { return generatedAt }
	return s
}

func TestService_BookingsSortedBySchedule(t *testing.T) {
	rows := []domain.Booking{
		{ID: 3, Date: "2025-03-11", StartTime: domain.MustTime("08:00")},
		{ID: 1, Date: "2025-03-10", StartTime: domain.MustTime("12:00")},
		{ID: 2, Date: "2025-03-10", StartTime: domain.MustTime("09:00")},
		{ID: 4, Date: "2025-03-10", StartTime: domain.MustTime("09:00")},
	}
	lister := new(MockBookingLister)
	lister.On("List", mock.Anything, mock.Anything).Return(rows, nil)

	got, err := newService(lister).Bookings(context.Background(), Filter{})
	require.NoError(t, err)

	var ids []int64
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []int64{2, 4, 1, 3}, ids)
}

func TestService_ExportAccess(t *testing.T) {
	ctx := context.Background()
	lister := new(MockBookingLister)
	lister.On("List", mock.Anything, mock.Anything).Return(sampleRows(), nil)
	svc := newService(lister)

	student := domain.Caller{UserID: 5, Role: domain.RoleStudent}
	admin := domain.Caller{UserID: 1, Role: domain.RoleAdmin}

	_, err := svc.ExportAll(ctx, student, FormatCSV, Filter{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ExportUser(ctx, student, FormatCSV, 6)
	assert.ErrorIs(t, err, ErrForbidden)

	exp, err := svc.ExportUser(ctx, student, FormatCSV, 5)
	require.NoError(t, err)
	assert.Equal(t, "my-bookings.csv", exp.Filename)
	assert.Equal(t, 2, exp.Rows)
	lister.AssertCalled(t, "List", mock.Anything, repository.BookingFilter{UserID: 5, BySchedule: true})

	exp, err = svc.ExportAll(ctx, admin, FormatPDF, Filter{})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", exp.ContentType)
}

func TestHandler_ExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lister := new(MockBookingLister)
	lister.On("List", mock.Anything, repository.BookingFilter{
		Statuses:   []domain.BookingStatus{domain.BookingConfirmed},
		BySchedule: true,
	}).Return(sampleRows()[:1], nil)

	tokens := jwt.New("report-secret", time.Hour)
	r := gin.New()
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(tokens, nil))
	NewHandler(newService(lister)).RegisterRoutes(protected)

	token, _ := tokens.GenerateToken(1, domain.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/bookings/csv?status=confirmed&startDate=bad", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bookings.csv")
	assert.Contains(t, w.Body.String(), "Lab A")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/export/bookings/docx", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
