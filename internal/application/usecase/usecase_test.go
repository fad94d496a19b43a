package usecase_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/application/usecase"
	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
)

var now = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type fakeCustomers struct{}

func (fakeCustomers) Create(context.Context, *entity.Customer) error { return nil }
func (fakeCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	if id == "cust-1" {
		return &entity.Customer{ID: id}, nil
	}
	return nil, nil
}
func (fakeCustomers) GetByEmail(context.Context, string) (*entity.Customer, error) { return nil, nil }
func (fakeCustomers) List(context.Context, int, int) ([]*entity.Customer, error) { return nil, nil }

type fakeProjects struct{ rows []*entity.Project }

func (f *fakeProjects) Create(_ context.Context, p *entity.Project) error {
	f.rows = append(f.rows, p)
	return nil
}
func (f *fakeProjects) ListByCustomer(_ context.Context, id string) ([]*entity.Project, error) {
	var out []*entity.Project
	for _, p := range f.rows {
		if p.CustomerID == id {
			out = append(out, p)
		}
	}
	return out, nil
}
func (f *fakeProjects) List(context.Context, int, int) ([]*entity.Project, error) { return f.rows, nil }

// fakeMeetings ordena como la consulta real: próximas ascendente, luego pasadas descendente.
type fakeMeetings struct{ rows []*entity.Meeting }

func (f *fakeMeetings) Create(_ context.Context, m *entity.Meeting) error {
	f.rows = append(f.rows, m)
	return nil
}
func (f *fakeMeetings) ListByCustomer(_ context.Context, id string, since time.Time) ([]*entity.Meeting, error) {
	var upcoming, past []*entity.Meeting
	for _, m := range f.rows {
		if m.CustomerID != id {
			continue
		}
		if m.ScheduledAt.Before(since) {
			past = append(past, m)
		} else {
			upcoming = append(upcoming, m)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].ScheduledAt.Before(upcoming[j].ScheduledAt) })
	sort.Slice(past, func(i, j int) bool { return past[i].ScheduledAt.After(past[j].ScheduledAt) })
	return append(upcoming, past...), nil
}
func (f *fakeMeetings) List(context.Context, int, int) ([]*entity.Meeting, error) { return f.rows, nil }

var owner = &auth.Session{UserID: "u-1", CustomerID: "cust-1", Role: entity.RoleCustomer}

func TestProject_CreateYListado(t *testing.T) {
	repo := &fakeProjects{}
	uc := usecase.NewProjectUseCase(repo, fakeCustomers{})
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateProjectRequest{CustomerID: "cust-1", Name: " Rediseño ", StartedAt: "2026-09-01", DueAt: "2026-10-15"})
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStatusPlanning, out.Status)
	assert.Equal(t, "Rediseño", out.Name)
	require.NotNil(t, out.DueAt)

	_, err = uc.Create(ctx, dto.CreateProjectRequest{CustomerID: "cust-1", Name: "X", StartedAt: "2026-10-01", DueAt: "2026-09-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProjectRequest{CustomerID: "cust-1", Name: "X", Status: "ARCHIVED"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProjectRequest{CustomerID: "nadie", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mine, err := uc.ListForCaller(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = uc.ListForCaller(ctx, &auth.Session{Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMeeting_ProximasPrimero(t *testing.T) {
	repo := &fakeMeetings{}
	uc := usecase.NewMeetingUseCase(repo, fakeCustomers{}).WithClock(func() time.Time { return now })
	ctx := context.Background()

	for _, at := range []time.Time{now.Add(-48 * time.Hour), now.Add(72 * time.Hour), now.Add(24 * time.Hour)} {
		_, err := uc.Create(ctx, dto.CreateMeetingRequest{CustomerID: "cust-1", Title: "Revisión", ScheduledAt: at})
		require.NoError(t, err)
	}

	list, err := uc.ListForCaller(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].ScheduledAt.Equal(now.Add(24*time.Hour)))
	assert.True(t, list[0].Upcoming)
	assert.True(t, list[1].Upcoming)
	assert.False(t, list[2].Upcoming)
	assert.Equal(t, 30, list[0].DurationMin)

	_, err = uc.Create(ctx, dto.CreateMeetingRequest{CustomerID: "cust-1", Title: "Sin fecha"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "scheduled_at", verr.Field)
}
