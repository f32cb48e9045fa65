package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/application/usecase"
	"github.com/jhoicas/fakturi-api/internal/application/validation"
	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/domain/repository"
)

const companyID = "6f1c1a52-8a57-4f8e-9d7a-3c1f34f2c001"

type memClients struct {
	byID map[string]*entity.Client
}

func (m *memClients) Create(_ context.Context, c *entity.Client) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memClients) GetByID(_ context.Context, companyID, id string) (*entity.Client, error) {
	c, ok := m.byID[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	return c, nil
}

func (m *memClients) GetByCompanyAndTaxID(_ context.Context, companyID, taxID string) (*entity.Client, error) {
	for _, c := range m.byID {
		if c.CompanyID == companyID && c.TaxID == taxID {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memClients) List(context.Context, string, repository.ClientFilter) ([]*entity.Client, int, error) {
	return nil, 0, nil
}

func (m *memClients) Update(_ context.Context, c *entity.Client) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memClients) Delete(_ context.Context, companyID, id string) error {
	c, ok := m.byID[id]
	if !ok || c.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memClients) Count(context.Context, string) (int, error) { return len(m.byID), nil }

func clientRequest(taxID string) dto.ClientRequest {
	return dto.ClientRequest{
		Name:          "  Клиент ООД ",
		TaxID:         taxID,
		ContactPerson: "Иван Петров",
		Address:       "Пловдив, ул. Главна 5",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ClientUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestClientUseCase_Create(t *testing.T) {
	repo := &memClients{byID: map[string]*entity.Client{}}
	uc := usecase.NewClientUseCase(repo, nil, validation.New())

	out, err := uc.Create(context.Background(), companyID, clientRequest("123456789"))
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Клиент ООД", out.Name)
	assert.Len(t, repo.byID, 1)
}

func TestClientUseCase_EIKDuplicadoEnLaEmpresa(t *testing.T) {
	repo := &memClients{byID: map[string]*entity.Client{}}
	uc := usecase.NewClientUseCase(repo, nil, validation.New())
	ctx := context.Background()

	_, err := uc.Create(ctx, companyID, clientRequest("123456789"))
	require.NoError(t, err)

	_, err = uc.Create(ctx, companyID, clientRequest("123456789"))
	var ve *validation.Error
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "number")

	// otra empresa puede registrar el mismo ЕИК
	_, err = uc.Create(ctx, "6f1c1a52-8a57-4f8e-9d7a-3c1f34f2c111", clientRequest("123456789"))
	assert.NoError(t, err)
}

func TestClientUseCase_EIKInvalido(t *testing.T) {
	uc := usecase.NewClientUseCase(&memClients{byID: map[string]*entity.Client{}}, nil, validation.New())

	for _, eik := range []string{"12345", "12345678A", "12345678901"} {
		_, err := uc.Create(context.Background(), companyID, clientRequest(eik))
		var ve *validation.Error
		require.True(t, errors.As(err, &ve), eik)
		assert.Contains(t, ve.Fields, "number", eik)
	}
}

func TestClientUseCase_Update_Inexistente(t *testing.T) {
	uc := usecase.NewClientUseCase(&memClients{byID: map[string]*entity.Client{}}, nil, validation.New())
	_, err := uc.Update(context.Background(), companyID, "6f1c1a52-8a57-4f8e-9d7a-3c1f34f2c999", clientRequest("123456789"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
