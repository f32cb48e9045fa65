package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/application/validation"
	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/domain/repository"
)

// ProfileUseCase datos personales, datos de la empresa y cambio de contraseña.
type ProfileUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	validate    *validation.Validator
}

// NewProfileUseCase construye el caso de uso con los puertos de persistencia.
func NewProfileUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, v *validation.Validator) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo, companyRepo: companyRepo, validate: v}
}

// UpdatePersonal actualiza nombre, email y teléfono del usuario en sesión.
func (uc *ProfileUseCase) UpdatePersonal(ctx context.Context, userID string, in dto.UpdatePersonalRequest) (*dto.UserResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Email != user.Email {
		other, err := uc.userRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, validation.Field("email", "Имейлът вече е регистриран")
		}
	}
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Email = in.Email
	user.Phone = strings.TrimSpace(in.Phone)
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// UpdateCompany actualiza los datos de la empresa; son los que prellenan al proveedor.
func (uc *ProfileUseCase) UpdateCompany(ctx context.Context, companyID string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	in.TaxID = strings.TrimSpace(in.TaxID)
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.TaxID != company.TaxID {
		other, err := uc.companyRepo.GetByTaxID(ctx, in.TaxID)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != company.ID {
			return nil, validation.Field("eik", "Фирма с този ЕИК вече е регистрирана")
		}
	}
	company.Name = strings.TrimSpace(in.Name)
	company.ContactPerson = strings.TrimSpace(in.MOL)
	company.TaxID = in.TaxID
	company.VATNumber = strings.TrimSpace(in.VATNumber)
	company.Address = strings.TrimSpace(in.Address)
	company.Phone = strings.TrimSpace(in.Phone)
	company.Email = strings.TrimSpace(in.Email)
	company.BankName = strings.TrimSpace(in.BankName)
	company.BankAccount = strings.ReplaceAll(strings.TrimSpace(in.BankAccount), " ", "")
	company.UpdatedAt = time.Now()
	if err := uc.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// ChangePassword verifica la contraseña actual y guarda el nuevo hash bcrypt.
func (uc *ProfileUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	if err := uc.validate.Struct(in); err != nil {
		return err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return validation.Field("current_password", "Грешна текуща парола")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, user.ID, string(hash))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      string(u.Role),
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		TaxID:       c.TaxID,
		VATNumber:   c.VATNumber,
		MOL:         c.ContactPerson,
		Address:     c.Address,
		Phone:       c.Phone,
		Email:       c.Email,
		BankName:    c.BankName,
		BankAccount: c.BankAccount,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
