package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Email      string
	Username   string
	Password   string
	Avatar     *domain.ImageFile
	Newsletter bool
}

// Session is what a client receives after signup or login.
type Session struct {
	ID      string
	Token   string
	Profile domain.PublicProfile
}

type AccountUsecase struct {
	accounts  domain.AccountRepository
	images    domain.ImageStore
	creds     CredentialEngine
	mailer    domain.Mailer
	publisher domain.EventPublisher
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
}

// NewAccountUsecase accepts nil for mailer, publisher and m.
func NewAccountUsecase(
	accounts domain.AccountRepository,
	images domain.ImageStore,
	creds CredentialEngine,
	mailer domain.Mailer,
	publisher domain.EventPublisher,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *AccountUsecase {
	return &AccountUsecase{
		accounts:  accounts,
		images:    images,
		creds:     creds,
		mailer:    mailer,
		publisher: publisher,
		metrics:   m,
		logger:    log.Named("AccountUsecase"),
	}
}

// Register creates the account, then uploads the avatar under the account's
// folder. A failed avatar upload leaves the account without avatar.
func (uc *AccountUsecase) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	ctx, span := tracer.Start(ctx, "AccountUsecase.Register")
	defer span.End()

	for _, f := range []struct{ name, value string }{
		{"email", in.Email},
		{"username", in.Username},
		{"password", in.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			uc.logger.Warn("Registration rejected", zap.String("missing", f.name))
			return nil, domain.MissingField(f.name)
		}
	}

	_, err := uc.accounts.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		uc.logger.Warn("Registration rejected: e-mail already in use")
		return nil, domain.ErrDuplicateEmail
	case !errors.Is(err, domain.ErrAccountNotFound):
		span.RecordError(err)
		return nil, domain.Dependency("accounts.find_by_email", err)
	}

	hash, salt, err := uc.creds.Derive(in.Password)
	if err != nil {
		uc.logger.Error("Failed to derive credential", zap.Error(err))
		return nil, domain.Dependency("credential.derive", err)
	}
	token, err := uc.creds.IssueToken()
	if err != nil {
		uc.logger.Error("Failed to issue token", zap.Error(err))
		return nil, domain.Dependency("credential.issue_token", err)
	}

	account := &domain.Account{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		PasswordSalt: salt,
		Token:        token,
		Newsletter:   in.Newsletter,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		uc.logger.Error("Failed to create account", zap.Error(err))
		span.RecordError(err)
		return nil, domain.Dependency("accounts.create", err)
	}
	span.SetAttributes(attribute.String("account.id", account.ID))
	log := uc.logger.With(zap.String("account_id", account.ID))
	log.Info("Account created")

	if in.Avatar != nil {
		uc.attachAvatar(ctx, account, *in.Avatar, log)
	}

	if in.Newsletter && uc.mailer != nil {
		if err := uc.mailer.SendWelcome(ctx, account.Email, account.Username); err != nil {
			log.Warn("Welcome mail not sent", zap.Error(err))
		}
	}

	publishEvent(ctx, uc.publisher, log, domain.SubjectAccountRegistered, domain.AccountRegisteredEvent{
		AccountID:  account.ID,
		Username:   account.Username,
		Newsletter: account.Newsletter,
	})
	if uc.metrics != nil {
		uc.metrics.AccountsRegisteredTotal.Inc()
	}

	return &Session{ID: account.ID, Token: account.Token, Profile: account.Profile()}, nil
}

func (uc *AccountUsecase) attachAvatar(ctx context.Context, account *domain.Account, file domain.ImageFile, log *logger.Logger) {
	folder := domain.AccountFolder(account.ID)
	img, err := uc.images.Upload(ctx, folder, file)
	if err != nil {
		log.Warn("Avatar upload failed, account kept without avatar", zap.String("folder", folder), zap.Error(err))
		return
	}
	if err := uc.accounts.SetAvatar(ctx, account.ID, img); err != nil {
		log.Warn("Avatar uploaded but not saved", zap.String("remote_id", img.RemoteID), zap.Error(err))
		return
	}
	account.Avatar = &img
}

// Authenticate checks the password and returns the account's existing token.
func (uc *AccountUsecase) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := tracer.Start(ctx, "AccountUsecase.Authenticate")
	defer span.End()

	if strings.TrimSpace(email) == "" {
		return nil, domain.MissingField("email")
	}
	if password == "" {
		return nil, domain.MissingField("password")
	}

	account, err := uc.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			uc.logger.Warn("Login for unknown e-mail")
			return nil, domain.ErrNoSuchAccount
		}
		span.RecordError(err)
		return nil, domain.Dependency("accounts.find_by_email", err)
	}

	if !uc.creds.Verify(password, account.PasswordSalt, account.PasswordHash) {
		uc.logger.Warn("Login with wrong password", zap.String("account_id", account.ID))
		return nil, domain.ErrBadCredential
	}

	uc.logger.Info("Login succeeded", zap.String("account_id", account.ID))
	return &Session{ID: account.ID, Token: account.Token, Profile: account.Profile()}, nil
}

func (uc *AccountUsecase) ResolveByToken(ctx context.Context, token string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "AccountUsecase.ResolveByToken")
	defer span.End()

	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	account, err := uc.accounts.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrUnauthorized
		}
		span.RecordError(err)
		return nil, domain.Dependency("accounts.find_by_token", err)
	}
	return account, nil
}
