package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/application/validation"
	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/domain/repository"
	"github.com/jhoicas/fakturi-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// RegistrationTxRunner crea empresa y dueño en una misma transacción.
type RegistrationTxRunner interface {
	RunRegistration(ctx context.Context, fn func(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) error) error
}

// Identity usuario y empresa en sesión. Es lo que prellena proveedor y autor de los borradores.
type Identity struct {
	User    *entity.User
	Company *entity.Company
}

// AuthUseCase casos de uso de autenticación: registro, login y usuario actual.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	tx          RegistrationTxRunner
	validate    *validation.Validator
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	tx RegistrationTxRunner,
	v *validation.Validator,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, tx: tx, validate: v, jwtCfg: jwtCfg}
}

// CheckUserData valida solo el primer paso del registro (datos personales y email libre).
func (uc *AuthUseCase) CheckUserData(ctx context.Context, in dto.RegisterPersonalData) error {
	in.Email = normalizeEmail(in.Email)
	if err := uc.validate.Struct(in); err != nil {
		return err
	}
	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return validation.Field("email", "Имейлът вече е регистриран")
	}
	return nil
}

// Register crea la empresa y su usuario dueño; devuelve token como en login.
// Email repetido → campo "email"; ЕИК repetido → campo "company.eik".
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	in.Email = normalizeEmail(in.Email)
	in.Company.TaxID = strings.TrimSpace(in.Company.TaxID)
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	conflicts := &validation.Error{}
	if existing, err := uc.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		conflicts.Add("email", "Имейлът вече е регистриран")
	}
	if existing, err := uc.companyRepo.GetByTaxID(ctx, in.Company.TaxID); err != nil {
		return nil, err
	} else if existing != nil {
		conflicts.Add("company.eik", "Фирма с този ЕИК вече е регистрирана")
	}
	if !conflicts.Empty() {
		return nil, conflicts
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	company := &entity.Company{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Company.Name),
		TaxID:         in.Company.TaxID,
		VATNumber:     strings.TrimSpace(in.Company.VATNumber),
		ContactPerson: strings.TrimSpace(in.Company.MOL),
		Address:       strings.TrimSpace(in.Company.Address),
		Phone:         strings.TrimSpace(in.Company.Phone),
		Email:         strings.TrimSpace(in.Company.Email),
		BankName:      strings.TrimSpace(in.Company.BankName),
		BankAccount:   strings.ReplaceAll(strings.TrimSpace(in.Company.BankAccount), " ", ""),
		Status:        entity.CompanyStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         entity.RoleOwner,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.RunRegistration(ctx, func(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) error {
		if err := companyRepo.Create(ctx, company); err != nil {
			return err
		}
		return userRepo.Create(ctx, user)
	})
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return nil, validation.Field("email", "Имейлът вече е регистриран")
	case errors.Is(err, domain.ErrDuplicate):
		return nil, validation.Field("company.eik", "Фирма с този ЕИК вече е регистрирана")
	case err != nil:
		return nil, err
	}
	return uc.issueToken(user)
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	return uc.issueToken(user)
}

// Identity carga usuario y empresa del token.
func (uc *AuthUseCase) Identity(ctx context.Context, userID string) (*Identity, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	company, err := uc.companyRepo.GetByID(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return &Identity{User: user, Company: company}, nil
}

// Me GET /api/user.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	id, err := uc.Identity(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		User:    *toUserResponse(id.User),
		Company: *toCompanyResponse(id.Company),
	}, nil
}

func (uc *AuthUseCase) issueToken(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
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
