package usecase

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"go-shopping/gateway"
	"go-shopping/models"
	"go-shopping/prefs"

	"github.com/sirupsen/logrus"
)

// Upload is an image file sent along with a form
type Upload struct {
	Filename string
	Body     io.Reader
}

type ProfileInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Mobile    string `json:"mobile" validate:"required,numeric"`
	Gender    string `json:"gender" validate:"omitempty,oneof=male female"`
}

// ProfileUsecase reads and completes the user profile
type ProfileUsecase struct {
	gw    *gateway.Gateway
	prefs prefs.Store
	log   logrus.FieldLogger
}

func NewProfileUsecase(gw *gateway.Gateway, p prefs.Store, log logrus.FieldLogger) *ProfileUsecase {
	return &ProfileUsecase{gw: gw, prefs: p, log: log}
}

func (u *ProfileUsecase) GetProfile(ctx context.Context, userID string) (models.User, error) {
	return u.gw.Users.Get(ctx, userID)
}

// UpdateProfile writes only the fields that changed, uploads the image first
// when one is given and marks the profile completed
func (u *ProfileUsecase) UpdateProfile(ctx context.Context, userID string, in ProfileInput, image *Upload) (models.User, error) {
	trim(&in.FirstName, &in.LastName, &in.Mobile, &in.Gender)
	if err := validateInput(in); err != nil {
		return models.User{}, err
	}
	mobile, err := strconv.ParseInt(in.Mobile, 10, 64)
	if err != nil {
		return models.User{}, invalid("mobile", messages["mobile.numeric"])
	}

	current, err := u.gw.Users.Get(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	fields := gateway.Fields{}
	if image != nil {
		url, err := u.gw.UploadImage(ctx, gateway.UserProfileImage, image.Filename, image.Body)
		if err != nil {
			return models.User{}, err
		}
		fields["image"] = url
	}
	if in.FirstName != "" && in.FirstName != current.FirstName {
		fields["firstName"] = in.FirstName
	}
	if in.LastName != "" && in.LastName != current.LastName {
		fields["lastName"] = in.LastName
	}
	if mobile != current.Mobile {
		fields["mobile"] = mobile
	}
	gender := in.Gender
	if gender == "" {
		gender = models.GenderMale
	}
	if gender != current.Gender {
		fields["gender"] = gender
	}
	fields["profileCompleted"] = 1

	if err := u.gw.Users.Update(ctx, userID, fields); err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}

	updated, err := u.gw.Users.Get(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if updated.DisplayName() != current.DisplayName() {
		if err := u.prefs.SetDisplayName(ctx, userID, updated.DisplayName()); err != nil {
			u.log.WithError(err).WithField("user_id", userID).Warn("display name not refreshed")
		}
	}
	return updated, nil
}
