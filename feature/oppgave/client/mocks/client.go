package mocks

import (
	"context"

	"oppgave-sync/feature/oppgave/client"
	"oppgave-sync/feature/oppgave/models"

	"github.com/stretchr/testify/mock"
)

// OppgaveClient is a mock implementation of client.OppgaveClient
type OppgaveClient struct {
	mock.Mock
}

func (m *OppgaveClient) FetchOppgaver(ctx context.Context, filters client.Filters, offset int) (models.OppgaveResponse, error) {
	args := m.Called(ctx, filters, offset)
	return args.Get(0).(models.OppgaveResponse), args.Error(1)
}

func (m *OppgaveClient) GetOppgave(ctx context.Context, id int64) (models.Oppgave, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Oppgave), args.Error(1)
}

func (m *OppgaveClient) PutOppgave(ctx context.Context, oppgave models.Oppgave) (models.Oppgave, error) {
	args := m.Called(ctx, oppgave)
	return args.Get(0).(models.Oppgave), args.Error(1)
}
