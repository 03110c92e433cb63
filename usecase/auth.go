package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go-shopping/gateway"
	"go-shopping/models"
	"go-shopping/prefs"
	"go-shopping/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Screens the client goes to after login
const (
	NextProfile   = "profile"
	NextDashboard = "dashboard"
)

type RegisterInput struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	TermsAccepted   bool   `json:"termsAccepted" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginResult carries the session token and the screen to open next
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
	Next  string      `json:"next"`
}

// AuthUsecase covers register, login, password reset and logout
type AuthUsecase struct {
	gw      *gateway.Gateway
	prefs   prefs.Store
	tokens  *utils.TokenIssuer
	mailer  utils.Mailer
	baseURL string
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewAuthUsecase(gw *gateway.Gateway, p prefs.Store, tokens *utils.TokenIssuer, mailer utils.Mailer, baseURL string, log logrus.FieldLogger) *AuthUsecase {
	return &AuthUsecase{
		gw:      gw,
		prefs:   p,
		tokens:  tokens,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
		now:     time.Now,
	}
}

// Register creates the account and then the user profile with
// profileCompleted 0
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	trim(&in.FirstName, &in.LastName, &in.Email)
	if err := validateInput(in); err != nil {
		return models.User{}, err
	}
	email := strings.ToLower(in.Email)

	existing, err := u.gw.Accounts.Find(ctx, gateway.Eq("email", email))
	if err != nil {
		return models.User{}, fmt.Errorf("look up account: %w", err)
	}
	if len(existing) > 0 {
		return models.User{}, ErrEmailTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	id := uuid.NewString()
	user := models.User{
		ID:               id,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            email,
		ProfileCompleted: 0,
	}
	// the email claim makes two concurrent sign ups for one address conflict
	err = u.gw.Commit(ctx,
		u.gw.Emails.CreateOp(email, models.EmailClaim{AccountID: id}),
		u.gw.Accounts.SetOp(id, models.Account{Email: email, PasswordHash: hash, CreatedAt: u.now().UTC()}),
		u.gw.Users.SetOp(id, user),
	)
	if errors.Is(err, gateway.ErrDuplicate) {
		return models.User{}, ErrEmailTaken
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create account: %w", err)
	}
	return user, nil
}

// Login checks the credentials, remembers the display name and tells the
// client whether the profile still has to be completed
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	trim(&in.Email)
	if err := validateInput(in); err != nil {
		return LoginResult{}, err
	}

	accounts, err := u.gw.Accounts.Find(ctx, gateway.Eq("email", strings.ToLower(in.Email)))
	if err != nil {
		return LoginResult{}, fmt.Errorf("look up account: %w", err)
	}
	if len(accounts) == 0 || !utils.CheckPassword(accounts[0].PasswordHash, in.Password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := u.gw.Users.Get(ctx, accounts[0].ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("load user: %w", err)
	}

	if err := u.prefs.SetDisplayName(ctx, user.ID, user.DisplayName()); err != nil {
		return LoginResult{}, err
	}

	token, err := u.tokens.GenerateJWT(user.ID, user.Email, utils.PurposeSession)
	if err != nil {
		return LoginResult{}, err
	}

	next := NextDashboard
	if user.ProfileCompleted == 0 {
		next = NextProfile
	}
	return LoginResult{Token: token, User: user, Next: next}, nil
}

// ForgotPassword mails a one hour reset link
func (u *AuthUsecase) ForgotPassword(ctx context.Context, in ForgotPasswordInput) error {
	trim(&in.Email)
	if err := validateInput(in); err != nil {
		return err
	}

	accounts, err := u.gw.Accounts.Find(ctx, gateway.Eq("email", strings.ToLower(in.Email)))
	if err != nil {
		return fmt.Errorf("look up account: %w", err)
	}
	if len(accounts) == 0 {
		return ErrUnknownEmail
	}
	acc := accounts[0]

	token, err := u.tokens.GenerateJWT(acc.ID, acc.Email, utils.PurposeReset)
	if err != nil {
		return err
	}
	link := u.baseURL + "/password/reset?token=" + url.QueryEscape(token)
	if err := utils.SendPasswordResetEmail(u.mailer, acc.Email, link); err != nil {
		return err
	}
	u.log.WithField("user_id", acc.ID).Info("password reset email sent")
	return nil
}

// ResetPassword sets a new password for the user named in the reset token
func (u *AuthUsecase) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	trim(&in.Token)
	if err := validateInput(in); err != nil {
		return err
	}

	claims, err := u.tokens.ParseJWT(in.Token, utils.PurposeReset)
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return err
	}
	if err := u.gw.Accounts.Update(ctx, claims.UserID, gateway.Fields{"password_hash": hash}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Logout forgets the stored display name
func (u *AuthUsecase) Logout(ctx context.Context, userID string) error {
	return u.prefs.Clear(ctx, userID)
}
