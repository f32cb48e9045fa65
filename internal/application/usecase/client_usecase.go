package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/application/ports"
	"github.com/jhoicas/fakturi-api/internal/application/validation"
	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/domain/repository"
)

const msgDuplicateClient = "Клиент с този ЕИК вече съществува"

// ClientUseCase casos de uso para clientes.
type ClientUseCase struct {
	repo     repository.ClientRepository
	cache    ports.Cache
	validate *validation.Validator
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, cache ports.Cache, v *validation.Validator) *ClientUseCase {
	if cache == nil {
		cache = ports.NopCache{}
	}
	return &ClientUseCase{repo: repo, cache: cache, validate: v}
}

// Create crea un nuevo cliente. Un ЕИК repetido en la empresa es error del campo "number".
func (uc *ClientUseCase) Create(ctx context.Context, companyID string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	in = trimClient(in)
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCompanyAndTaxID(ctx, companyID, in.TaxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, validation.Field("number", msgDuplicateClient)
	}
	now := time.Now()
	client := &entity.Client{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Name:          in.Name,
		TaxID:         in.TaxID,
		VATNumber:     in.VATNumber,
		ContactPerson: in.ContactPerson,
		Address:       in.Address,
		Email:         in.Email,
		Phone:         in.Phone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, validation.Field("number", msgDuplicateClient)
		}
		return nil, err
	}
	uc.bump(ctx, companyID)
	return toClientResponse(client), nil
}

// Update reemplaza los datos de un cliente.
func (uc *ClientUseCase) Update(ctx context.Context, companyID, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	in = trimClient(in)
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	client, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if in.TaxID != client.TaxID {
		other, err := uc.repo.GetByCompanyAndTaxID(ctx, companyID, in.TaxID)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != client.ID {
			return nil, validation.Field("number", msgDuplicateClient)
		}
	}
	client.Name = in.Name
	client.TaxID = in.TaxID
	client.VATNumber = in.VATNumber
	client.ContactPerson = in.ContactPerson
	client.Address = in.Address
	client.Email = in.Email
	client.Phone = in.Phone
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, client); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, validation.Field("number", msgDuplicateClient)
		}
		return nil, err
	}
	uc.bump(ctx, companyID)
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente de la empresa.
func (uc *ClientUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(client), nil
}

// List lista clientes con búsqueda y paginación. El resultado se cachea por versión.
func (uc *ClientUseCase) List(ctx context.Context, companyID string, in dto.ClientListRequest) (*dto.ClientListResponse, error) {
	page := dto.NewPage(in.Limit, in.Offset)
	search := strings.TrimSpace(in.Search)
	key, err := uc.cache.Key(ctx, companyID, ports.CacheClients, "list", search, strconv.Itoa(page.Limit), strconv.Itoa(page.Offset))
	if err != nil {
		return nil, err
	}
	var out dto.ClientListResponse
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		list, total, err := uc.repo.List(ctx, companyID, repository.ClientFilter{Search: search, Limit: page.Limit, Offset: page.Offset})
		if err != nil {
			return nil, err
		}
		items := make([]dto.ClientResponse, 0, len(list))
		for _, c := range list {
			items = append(items, *toClientResponse(c))
		}
		return dto.ClientListResponse{
			Items: items,
			Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina un cliente. Las facturas guardan su propia copia del comprador.
func (uc *ClientUseCase) Delete(ctx context.Context, companyID, id string) error {
	if err := uc.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.bump(ctx, companyID)
	return nil
}

// bump invalida los listados; si Redis falla, las entradas expiran por TTL.
func (uc *ClientUseCase) bump(ctx context.Context, companyID string) {
	_ = uc.cache.Bump(ctx, companyID, ports.CacheClients)
	_ = uc.cache.Bump(ctx, companyID, ports.CacheDashboard)
}

func trimClient(in dto.ClientRequest) dto.ClientRequest {
	in.Name = strings.TrimSpace(in.Name)
	in.TaxID = strings.TrimSpace(in.TaxID)
	in.VATNumber = strings.TrimSpace(in.VATNumber)
	in.ContactPerson = strings.TrimSpace(in.ContactPerson)
	in.Address = strings.TrimSpace(in.Address)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		ID:            c.ID,
		CompanyID:     c.CompanyID,
		Name:          c.Name,
		TaxID:         c.TaxID,
		VATNumber:     c.VATNumber,
		ContactPerson: c.ContactPerson,
		Address:       c.Address,
		Email:         c.Email,
		Phone:         c.Phone,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
