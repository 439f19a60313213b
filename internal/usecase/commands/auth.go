package commands

import (
	"context"

	"library-api/internal/domain/user"
	reqdto "library-api/internal/handler/dto/request"
	"library-api/internal/infra"
	"library-api/internal/pkg/errs"
	"library-api/internal/pkg/jwt"
	"library-api/internal/pkg/password"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrUserAlreadyExists    = errs.New("user already exists")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrInvalidSignupData    = errs.New("invalid signup data")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrTokenValidation      = errs.New("token validation failed")
)

type LoginResult struct {
	User      *queries.AuthorizedUserView
	TokenPair *TokenPair
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) (uuid.UUID, error)
}

type AuthCommands interface {
	Signup(ctx context.Context, req reqdto.SignupRequest) (*queries.UserView, error)
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	userRepo    UserRepository
	readStore   queries.UserReadStore
	userQueries queries.UserQueries
	jwtService  *jwt.Service
}

func NewAuthCommands(
	userRepo UserRepository,
	readStore queries.UserReadStore,
	userQueries queries.UserQueries,
	jwtService *jwt.Service,
) AuthCommands {
	return &authCommandsImpl{
		userRepo:    userRepo,
		readStore:   readStore,
		userQueries: userQueries,
		jwtService:  jwtService,
	}
}

func (a *authCommandsImpl) Signup(ctx context.Context, req reqdto.SignupRequest) (*queries.UserView, error) {
	entity, err := a.buildUser(req)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSignupData)
	}

	id, err := a.userRepo.Create(ctx, entity)
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return a.userQueries.GetByID(ctx, id)
}

func (a *authCommandsImpl) buildUser(req reqdto.SignupRequest) (*user.User, error) {
	email, err := user.NewEmail(req.Email)
	if err != nil {
		return nil, err
	}

	rawPassword, err := user.NewPassword(req.Password)
	if err != nil {
		return nil, err
	}

	hash, err := password.HashPassword(rawPassword.Value())
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(req.Role)
	if err != nil {
		return nil, err
	}

	switch role {
	case user.RoleStudent:
		if req.Department == nil || req.StudentID == nil {
			return nil, user.ErrMissingStudentInfo
		}
		return user.NewStudent(req.Name, email, hash, *req.Department, *req.StudentID)
	case user.RoleLibrarian:
		if req.EmployeeID == nil {
			return nil, user.ErrMissingEmployeeID
		}
		return user.NewLibrarian(req.Name, email, hash, *req.EmployeeID)
	default:
		return nil, user.ErrInvalidRole
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	credentials, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	userView, err := a.validateUser(ctx, credentials)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(userView.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	tokenPair, err := a.generateTokenPair(userView.ID, role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:      userView,
		TokenPair: tokenPair,
	}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	// The account must still exist before a new pair is minted.
	if _, err := a.readStore.FindByID(ctx, claims.UserID); err != nil {
		return nil, ErrUserNotFound
	}

	return a.generateTokenPair(claims.UserID, role)
}

func (a *authCommandsImpl) validateUser(ctx context.Context, credentials user.Credentials) (*queries.AuthorizedUserView, error) {
	userView, hashedPassword, err := a.readStore.FindByEmail(ctx, credentials.Email().Value())
	if err != nil {
		// Indistinguishable from a password mismatch to block user enumeration.
		return nil, ErrInvalidCredentials
	}

	if err := password.ComparePassword(hashedPassword, credentials.Password().Value()); err != nil {
		return nil, ErrInvalidCredentials
	}

	return userView, nil
}

func (a *authCommandsImpl) generateTokenPair(userID uuid.UUID, role user.Role) (*TokenPair, error) {
	accessToken, err := a.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	refreshToken, err := a.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
