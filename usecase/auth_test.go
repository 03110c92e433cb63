package usecase

import (
	"context"
	"net/url"
	"regexp"
	"sync"
	"testing"

	"go-shopping/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	valid := RegisterInput{FirstName: "Ana", LastName: "P", Email: "ana@x.mk", Password: "pw", ConfirmPassword: "pw", TermsAccepted: true}
	cases := map[string]struct {
		mutate func(*RegisterInput)
		field  string
	}{
		"first name": {func(in *RegisterInput) { in.FirstName = "  " }, "firstName"},
		"last name":  {func(in *RegisterInput) { in.LastName = "" }, "lastName"},
		"email":      {func(in *RegisterInput) { in.Email = "" }, "email"},
		"bad email":  {func(in *RegisterInput) { in.Email = "ana" }, "email"},
		"password":   {func(in *RegisterInput) { in.Password = "" }, "password"},
		"confirm":    {func(in *RegisterInput) { in.ConfirmPassword = "" }, "confirmPassword"},
		"mismatch":   {func(in *RegisterInput) { in.ConfirmPassword = "other" }, "confirmPassword"},
		"terms":      {func(in *RegisterInput) { in.TermsAccepted = false }, "termsAccepted"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := f.auth.Register(ctx, in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.NotEmpty(t, ve.Message)
		})
	}

	accounts, err := f.gw.Accounts.Find(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts, "validation must fail before any write")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ana", "ana@x.mk")

	_, err := f.auth.Register(context.Background(), RegisterInput{
		FirstName: "Other", LastName: "P", Email: "ANA@x.mk", Password: "pw", ConfirmPassword: "pw", TermsAccepted: true,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterSameEmailConcurrently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const attempts = 6
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.auth.Register(ctx, RegisterInput{
				FirstName: "Ana", LastName: "P", Email: "ana@x.mk", Password: "pw", ConfirmPassword: "pw", TermsAccepted: true,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrEmailTaken)
	}
	assert.Equal(t, 1, ok)

	accounts, err := f.gw.Accounts.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
	users, err := f.gw.Users.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	claim, err := f.gw.Emails.Get(ctx, "ana@x.mk")
	require.NoError(t, err)
	assert.Equal(t, accounts[0].ID, claim.AccountID)
}

func TestLoginRoutesToProfileUntilCompleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.register(t, "Ana", "ana@x.mk")
	assert.Equal(t, 0, user.ProfileCompleted)

	res, err := f.auth.Login(ctx, LoginInput{Email: "ana@x.mk", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, NextProfile, res.Next)
	assert.NotEmpty(t, res.Token)

	claims, err := f.tokens.ParseJWT(res.Token, utils.PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	name, err := f.prefs.DisplayName(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Test", name)

	_, err = f.profile.UpdateProfile(ctx, user.ID, ProfileInput{Mobile: "70123456", Gender: "female"}, nil)
	require.NoError(t, err)

	res, err = f.auth.Login(ctx, LoginInput{Email: "ana@x.mk", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, NextDashboard, res.Next)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "Ana", "ana@x.mk")

	_, err := f.auth.Login(ctx, LoginInput{Email: "ana@x.mk", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, LoginInput{Email: "nobody@x.mk", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, LoginInput{Email: "ana@x.mk"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
}

var tokenInLink = regexp.MustCompile(`href="([^"]+)"`)

func TestForgotAndResetPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "Ana", "ana@x.mk")

	err := f.auth.ForgotPassword(ctx, ForgotPasswordInput{Email: "nobody@x.mk"})
	assert.ErrorIs(t, err, ErrUnknownEmail)

	require.NoError(t, f.auth.ForgotPassword(ctx, ForgotPasswordInput{Email: "ana@x.mk"}))
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "ana@x.mk", f.mailer.sent[0].to)

	m := tokenInLink.FindStringSubmatch(f.mailer.sent[0].body)
	require.Len(t, m, 2)
	link, err := url.Parse(m[1])
	require.NoError(t, err)
	assert.Equal(t, "/password/reset", link.Path)
	token := link.Query().Get("token")

	err = f.auth.ResetPassword(ctx, ResetPasswordInput{Token: "bogus", Password: "new", ConfirmPassword: "new"})
	assert.ErrorIs(t, err, utils.ErrInvalidToken)

	require.NoError(t, f.auth.ResetPassword(ctx, ResetPasswordInput{Token: token, Password: "new", ConfirmPassword: "new"}))

	_, err = f.auth.Login(ctx, LoginInput{Email: "ana@x.mk", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, LoginInput{Email: "ana@x.mk", Password: "new"})
	assert.NoError(t, err)
}

func TestLogoutClearsDisplayName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.register(t, "Ana", "ana@x.mk")
	_, err := f.auth.Login(ctx, LoginInput{Email: "ana@x.mk", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, user.ID))
	name, err := f.prefs.DisplayName(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.register(t, "Ana", "ana@x.mk")

	_, err := f.profile.UpdateProfile(ctx, user.ID, ProfileInput{}, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "mobile", ve.Field)

	_, err = f.profile.UpdateProfile(ctx, user.ID, ProfileInput{Mobile: "070x"}, nil)
	require.ErrorAs(t, err, &ve)

	updated, err := f.profile.UpdateProfile(ctx, user.ID, ProfileInput{FirstName: "Anna", Mobile: "70123456"}, image("me.png"))
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.FirstName)
	assert.Equal(t, "Test", updated.LastName)
	assert.Equal(t, int64(70123456), updated.Mobile)
	assert.Equal(t, "male", updated.Gender)
	assert.Equal(t, 1, updated.ProfileCompleted)
	assert.Regexp(t, `^http://test/images/User_Profile_Image\d+\.png$`, updated.Image)

	name, err := f.prefs.DisplayName(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna Test", name)
}
