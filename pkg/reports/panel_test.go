package reports

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrazen/console/pkg/domain"
)

type fakeClient struct {
	mu         sync.Mutex
	listed     []domain.Report
	listErr    error
	created    domain.Report
	createErr  error
	deleteErr  error
	deleted    []string
	createGate chan struct{}
}

func (f *fakeClient) List(context.Context) ([]domain.Report, error) {
	return f.listed, f.listErr
}

func (f *fakeClient) Create(context.Context, string) (domain.Report, error) {
	if f.createGate != nil {
		<-f.createGate
	}
	return f.created, f.createErr
}

func (f *fakeClient) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func initialReports() []domain.Report {
	return []domain.Report{
		{ID: "r1", Role: "cfo", Title: "Отчёт для CFO", Status: domain.ReportStatusReady},
		{ID: "r2", Role: "devops", Title: "Отчёт для DevOps", Status: domain.ReportStatusInProgress},
		{ID: "r3", Role: "cfo", Title: "Отчёт для CFO (2)", Status: domain.ReportStatusFailed},
	}
}

func TestGroupedByRole(t *testing.T) {
	p := NewPanel(&fakeClient{}, []string{"cfo", "devops"}, initialReports())

	groups := p.Grouped()
	require.Len(t, groups, 2)
	assert.Equal(t, "cfo", groups[0].Role)
	assert.Len(t, groups[0].Reports, 2)
	assert.Equal(t, "devops", groups[1].Role)
	assert.Len(t, groups[1].Reports, 1)
}

func TestGroupedUnknownRoleAppended(t *testing.T) {
	reports := append(initialReports(), domain.Report{ID: "r4", Role: "cto"})
	p := NewPanel(&fakeClient{}, []string{"cfo", "devops"}, reports)

	groups := p.Grouped()
	require.Len(t, groups, 3)
	assert.Equal(t, "cto", groups[2].Role)
}

func TestCreateAppendsOnSuccess(t *testing.T) {
	client := &fakeClient{created: domain.Report{ID: "r9", Role: "cfo", Status: domain.ReportStatusInProgress}}
	p := NewPanel(client, []string{"cfo"}, nil)

	require.NoError(t, p.Create(context.Background(), "cfo"))
	reports := p.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, "r9", reports[0].ID)
	assert.False(t, p.IsBusy("cfo"))
}

func TestCreateFailureLeavesCache(t *testing.T) {
	client := &fakeClient{createErr: errors.New("backend down")}
	p := NewPanel(client, []string{"cfo"}, initialReports())

	require.Error(t, p.Create(context.Background(), "cfo"))
	assert.Len(t, p.Reports(), 3)
	assert.False(t, p.IsBusy("cfo"))
}

func TestCreateBusyWhileInFlight(t *testing.T) {
	gate := make(chan struct{})
	client := &fakeClient{created: domain.Report{ID: "r9", Role: "cfo"}, createGate: gate}
	p := NewPanel(client, []string{"cfo"}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Create(context.Background(), "cfo")
	}()

	require.Eventually(t, func() bool { return p.IsBusy("cfo") }, time.Second, time.Millisecond)

	// A second create for the busy role is ignored.
	require.NoError(t, p.Create(context.Background(), "cfo"))
	assert.Empty(t, p.Reports())

	close(gate)
	<-done
	assert.Len(t, p.Reports(), 1)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	client := &fakeClient{}
	p := NewPanel(client, []string{"cfo"}, initialReports())

	err := p.ConfirmDelete(context.Background(), "r1")
	require.ErrorIs(t, err, domain.ErrDeleteNotConfirmed)
	assert.Len(t, p.Reports(), 3)
	assert.Empty(t, client.deleted)
}

func TestConfirmDeleteRemovesExactlyOne(t *testing.T) {
	client := &fakeClient{}
	p := NewPanel(client, []string{"cfo"}, initialReports())

	p.RequestDelete("r1")
	require.NoError(t, p.ConfirmDelete(context.Background(), "r1"))

	reports := p.Reports()
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.NotEqual(t, "r1", r.ID)
	}
	assert.Equal(t, []string{"r1"}, client.deleted)

	// The confirmation is disarmed after use.
	require.ErrorIs(t, p.ConfirmDelete(context.Background(), "r2"), domain.ErrDeleteNotConfirmed)
}

func TestCancelDeleteDisarms(t *testing.T) {
	p := NewPanel(&fakeClient{}, []string{"cfo"}, initialReports())

	p.RequestDelete("r1")
	p.CancelDelete()
	require.ErrorIs(t, p.ConfirmDelete(context.Background(), "r1"), domain.ErrDeleteNotConfirmed)
}

func TestDeleteFailureLeavesCache(t *testing.T) {
	client := &fakeClient{deleteErr: errors.New("backend down")}
	p := NewPanel(client, []string{"cfo"}, initialReports())

	p.RequestDelete("r1")
	require.Error(t, p.ConfirmDelete(context.Background(), "r1"))
	assert.Len(t, p.Reports(), 3)
}

func TestRefreshReplacesCache(t *testing.T) {
	client := &fakeClient{listed: []domain.Report{{ID: "r7", Role: "cfo"}}}
	p := NewPanel(client, []string{"cfo"}, initialReports())

	require.NoError(t, p.Refresh(context.Background()))
	reports := p.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, "r7", reports[0].ID)
}

func TestRefreshFailureKeepsCache(t *testing.T) {
	client := &fakeClient{listErr: errors.New("timeout")}
	p := NewPanel(client, []string{"cfo"}, initialReports())

	require.Error(t, p.Refresh(context.Background()))
	assert.Len(t, p.Reports(), 3)
}
